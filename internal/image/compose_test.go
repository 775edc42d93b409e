package imagepkg

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/youruser/idcardapp/internal/student"
)

func writePhoto(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := imaging.Save(imaging.New(160, 200, color.NRGBA{R: 200, A: 255}), path); err != nil {
		t.Fatalf("write photo: %v", err)
	}
	return path
}

func testRecord(photo string) student.Record {
	f := student.Defaults("")
	f[student.FullName] = "Asha Verma"
	f[student.RollNo] = "21CE1001"
	f[student.Branch] = "Computer"
	f[student.BloodGroup] = "O+"
	return student.Record{Fields: f, Photo: photo}
}

func hasWarning(ws []Warning, side Side, substr string) bool {
	for _, w := range ws {
		if w.Side == side && strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

func TestRender_BothSidesHaveCardSize(t *testing.T) {
	r := NewRenderer(FallbackFonts(), nil)

	res := r.Render(testRecord(writePhoto(t)))

	for side, img := range map[Side]*image.NRGBA{Front: res.Front, Back: res.Back} {
		if img == nil {
			t.Fatalf("%s side missing", side)
		}
		if img.Bounds().Dx() != CardWidth || img.Bounds().Dy() != CardHeight {
			t.Errorf("%s side is %v, want %dx%d", side, img.Bounds(), CardWidth, CardHeight)
		}
	}
}

func TestRender_PastesPhoto(t *testing.T) {
	r := NewRenderer(FallbackFonts(), nil)

	res := r.Render(testRecord(writePhoto(t)))

	c := res.Front.NRGBAAt(PhotoRect.Min.X+40, PhotoRect.Min.Y+50)
	if c.R < 150 || c.G > 50 || c.B > 50 {
		t.Errorf("expected photo colour in photo region, got %v", c)
	}
}

func TestRender_TransparentPhoto_KeepsCardOpaque(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutout.png")
	if err := imaging.Save(imaging.New(80, 100, color.NRGBA{}), path); err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(FallbackFonts(), nil)

	res := r.Render(testRecord(path))

	for y := PhotoRect.Min.Y; y < PhotoRect.Max.Y; y++ {
		for x := PhotoRect.Min.X; x < PhotoRect.Max.X; x++ {
			if c := res.Front.NRGBAAt(x, y); c != frontBackground {
				t.Fatalf("pixel (%d,%d) = %v, want opaque background", x, y, c)
			}
		}
	}
}

func TestRender_UnreadablePhoto_LeavesRegionBlank(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(FallbackFonts(), nil)

	res := r.Render(testRecord(bad))

	if res.Front.Bounds().Dx() != CardWidth || res.Front.Bounds().Dy() != CardHeight {
		t.Fatalf("front is %v", res.Front.Bounds())
	}
	for y := PhotoRect.Min.Y; y < PhotoRect.Max.Y; y++ {
		for x := PhotoRect.Min.X; x < PhotoRect.Max.X; x++ {
			if c := res.Front.NRGBAAt(x, y); c != frontBackground {
				t.Fatalf("pixel (%d,%d) = %v, want background", x, y, c)
			}
		}
	}
	if !hasWarning(res.Warnings, Front, "not loaded") {
		t.Errorf("expected photo warning, got %v", res.Warnings)
	}
}

func TestRender_GlyphBlockDecodesToPayload(t *testing.T) {
	r := NewRenderer(FallbackFonts(), nil)
	rec := testRecord(writePhoto(t))

	res := r.Render(rec)

	crop := imaging.Crop(res.Front, GlyphRect)
	want := "Name:Asha Verma\nRoll:21CE1001\nBranch:Computer"
	if got := decodeGlyph(t, crop); got != want {
		t.Errorf("decoded %q, want %q", got, want)
	}
}

func TestRender_FallbackFontIsReported(t *testing.T) {
	r := NewRenderer(FallbackFonts(), nil)

	res := r.Render(testRecord(writePhoto(t)))

	for _, side := range []Side{Front, Back} {
		if !hasWarning(res.Warnings, side, "built-in font") {
			t.Errorf("expected %s font warning, got %v", side, res.Warnings)
		}
	}
}

func TestLoadFonts_MissingDirsFallsBack(t *testing.T) {
	fs, err := LoadFonts([]string{filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatal("expected error for missing fonts")
	}
	if !fs.Fallback() {
		t.Error("expected fallback font set")
	}
	if fs.Face(true, 16) == nil {
		t.Error("fallback face must not be nil")
	}
}

func TestBackLines_OneLinePerShortField(t *testing.T) {
	lines := BackLines(testRecord(""))
	if len(lines) != len(student.Labels) {
		t.Fatalf("expected %d lines, got %d: %q", len(student.Labels), len(lines), lines)
	}
	if lines[0] != "Full Name: Asha Verma" {
		t.Errorf("unexpected first line %q", lines[0])
	}
}

func TestRenderBack_OverflowIsDroppedAndReported(t *testing.T) {
	rec := testRecord("")
	rec.Fields[student.Address] = strings.Repeat("Flat 12 Building Name Street ", 20)
	r := NewRenderer(FallbackFonts(), nil)

	img, warns := r.RenderBack(rec)

	if img.Bounds().Dy() != CardHeight {
		t.Fatalf("canvas grew to %v", img.Bounds())
	}
	if !hasWarning(warns, Back, "overflow") {
		t.Errorf("expected overflow warning, got %v", warns)
	}
}

func TestRenderBack_NormalRecordFits(t *testing.T) {
	r := NewRenderer(FallbackFonts(), nil)

	_, warns := r.RenderBack(testRecord(""))

	if len(warns) != 0 {
		t.Errorf("unexpected warnings %v", warns)
	}
}
