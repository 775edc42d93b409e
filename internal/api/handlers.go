package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/youruser/idcardapp/internal/form"
	imagepkg "github.com/youruser/idcardapp/internal/image"
	"github.com/youruser/idcardapp/internal/student"
	"github.com/youruser/idcardapp/internal/util"
)

type handler struct {
	form      *form.Form
	uploadDir string
	log       *slog.Logger
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// qr endpoint returns a PNG of a QR for "text" query param
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := 256
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func (h *handler) getFields(c *gin.Context) {
	rec := h.form.Record()
	c.JSON(http.StatusOK, gin.H{"labels": student.Labels, "fields": rec.Fields, "photo": rec.Photo})
}

func (h *handler) setFields(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.form.SetFields(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec := h.form.Record()
	c.JSON(http.StatusOK, gin.H{"fields": rec.Fields, "photo": rec.Photo})
}

// setPhoto accepts a multipart "photo" file or JSON {"url": "..."}.
func (h *handler) setPhoto(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("photo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo must be .jpg, .jpeg or .png"})
			return
		}
		if err := util.EnsureDir(h.uploadDir); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		dst := filepath.Join(h.uploadDir, "photo"+ext)
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		h.form.SetPhoto(dst)
		c.JSON(http.StatusOK, gin.H{"photo": dst})
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": student.ErrMissingPhoto.Error()})
		return
	}
	h.form.SetPhoto(req.URL)
	c.JSON(http.StatusOK, gin.H{"photo": req.URL})
}

func (h *handler) generate(c *gin.Context) {
	warns, err := h.form.Generate()
	if err != nil {
		h.fail(c, err)
		return
	}
	if warns == nil {
		warns = []imagepkg.Warning{}
	}
	c.JSON(http.StatusOK, gin.H{"status": "generated", "warnings": warns})
}

func (h *handler) sidePNG(side imagepkg.Side) gin.HandlerFunc {
	return func(c *gin.Context) {
		buf := new(bytes.Buffer)
		if err := h.form.WritePNG(buf, side); err != nil {
			h.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

func (h *handler) preview(c *gin.Context) {
	img, err := h.form.Preview(imagepkg.Side(c.Param("side")))
	if err != nil {
		h.fail(c, err)
		return
	}
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *handler) pdf(c *gin.Context) {
	buf := new(bytes.Buffer)
	if err := h.form.WritePDF(buf); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="id-card.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// fail maps form errors to a status and a user-facing message.
func (h *handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, student.ErrMissingRequired), errors.Is(err, student.ErrMissingPhoto):
		status = http.StatusBadRequest
	case errors.Is(err, form.ErrNotGenerated), errors.Is(err, form.ErrUnknownSide):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError && h.log != nil {
		h.log.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
