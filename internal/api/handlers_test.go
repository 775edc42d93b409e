package api

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/youruser/idcardapp/internal/document"
	"github.com/youruser/idcardapp/internal/form"
	imagepkg "github.com/youruser/idcardapp/internal/image"
)

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	f := form.New(imagepkg.NewRenderer(imagepkg.FallbackFonts(), nil), form.Config{
		Document: document.Options{TempDir: t.TempDir()},
	})
	RegisterRoutes(r, f, t.TempDir(), nil)
	return r
}

func do(t *testing.T, r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return do(t, r, req)
}

func uploadPhoto(t *testing.T, r http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var img bytes.Buffer
	if err := png.Encode(&img, imaging.New(100, 120, color.NRGBA{G: 180, A: 255})); err != nil {
		t.Fatal(err)
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("photo", "me.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(img.Bytes())
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/card/photo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return do(t, r, req)
}

func fillForm(t *testing.T, r http.Handler) {
	t.Helper()
	w := postJSON(t, r, "/api/card/fields", `{"Full Name":"Asha Verma","Roll No":"21CE1001","Branch":"Computer"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set fields: %d %s", w.Code, w.Body)
	}
	if w := uploadPhoto(t, r); w.Code != http.StatusOK {
		t.Fatalf("upload photo: %d %s", w.Code, w.Body)
	}
}

func TestHealth(t *testing.T) {
	r := newServer(t)
	w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetFields_ListsDefaults(t *testing.T) {
	r := newServer(t)
	w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/card/fields", nil))

	var resp struct {
		Labels []string          `json:"labels"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Labels) != 10 || resp.Fields["College"] == "" {
		t.Errorf("unexpected fields response: %s", w.Body)
	}
}

func TestSetFields_UnknownLabel_Returns400(t *testing.T) {
	r := newServer(t)
	w := postJSON(t, r, "/api/card/fields", `{"Hobby":"chess"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGenerate_MissingRequired_Returns400(t *testing.T) {
	r := newServer(t)
	w := postJSON(t, r, "/api/card/generate", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body)
	}
	if !strings.Contains(w.Body.String(), "fill required fields") {
		t.Errorf("expected user-facing message, got %s", w.Body)
	}
}

func TestSidePNG_BeforeGenerate_Returns404(t *testing.T) {
	r := newServer(t)
	w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/card/front.png", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGenerate_ThenFetchSides(t *testing.T) {
	r := newServer(t)
	fillForm(t, r)

	if w := postJSON(t, r, "/api/card/generate", ""); w.Code != http.StatusOK {
		t.Fatalf("generate: %d %s", w.Code, w.Body)
	}
	for _, path := range []string{"/api/card/front.png", "/api/card/back.png"} {
		w := do(t, r, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: %d", path, w.Code)
		}
		img, err := png.Decode(w.Body)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if img.Bounds().Dx() != imagepkg.CardWidth || img.Bounds().Dy() != imagepkg.CardHeight {
			t.Errorf("%s: image is %v", path, img.Bounds())
		}
	}

	w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/card/preview/front", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("preview: %d", w.Code)
	}
	w = do(t, r, httptest.NewRequest(http.MethodGet, "/api/card/preview/sideways", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown side: expected 404, got %d", w.Code)
	}
}

func TestPDF_WithoutGenerate_ReturnsDocument(t *testing.T) {
	r := newServer(t)
	fillForm(t, r)

	w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/card/pdf", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
}

func TestQR_RequiresText(t *testing.T) {
	r := newServer(t)
	if w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/qr", nil)); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/qr?text=hello&size=128", nil))
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected response %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("qr body is not a png: %v", err)
	}
	if img.Bounds().Dx() != 128 || img.Bounds().Dy() != 128 {
		t.Errorf("qr image is %v, want 128x128", img.Bounds())
	}
}
