// Package form holds the state of the single card form: the field values,
// the chosen photo and the two most recently generated card sides.
package form

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/youruser/idcardapp/internal/document"
	imagepkg "github.com/youruser/idcardapp/internal/image"
	"github.com/youruser/idcardapp/internal/student"
	"github.com/youruser/idcardapp/internal/util"
)

// Preview size of a card side.
const (
	PreviewWidth  = 380
	PreviewHeight = 230
)

var (
	// ErrNotGenerated is returned when a side is requested before any generation.
	ErrNotGenerated = errors.New("card not generated yet")

	// ErrUnknownSide is returned for a side other than front or back.
	ErrUnknownSide = errors.New("unknown card side")
)

// Config is the fixed setup of a form.
type Config struct {
	College  string
	Document document.Options
	Logger   *slog.Logger
}

// Form is the single card form of the process. Its methods are safe for
// concurrent use; generation replaces both sides at once.
type Form struct {
	mu       sync.Mutex
	rec      student.Record
	front    *image.NRGBA
	back     *image.NRGBA
	warnings []imagepkg.Warning

	renderer *imagepkg.Renderer
	doc      document.Options
	log      *slog.Logger
}

// New returns a form with default field values.
func New(r *imagepkg.Renderer, cfg Config) *Form {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Document.Logger == nil {
		cfg.Document.Logger = cfg.Logger
	}
	return &Form{
		rec:      student.Record{Fields: student.Defaults(cfg.College)},
		renderer: r,
		doc:      cfg.Document,
		log:      cfg.Logger,
	}
}

// Set updates one field.
func (f *Form) Set(label, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec.Set(label, value)
}

// SetFields updates several fields. Nothing changes when any label is unknown.
func (f *Form) SetFields(values map[string]string) error {
	for l := range values {
		if !student.IsLabel(l) {
			return fmt.Errorf("%w: %q", student.ErrUnknownField, l)
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for l, v := range values {
		f.rec.Fields[l] = v
	}
	return nil
}

// SetPhoto records the photo reference (file path or URL).
func (f *Form) SetPhoto(ref string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rec.Photo = ref
}

// Record returns a copy of the current form input.
func (f *Form) Record() student.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec.Clone()
}

// Generate validates the current input and renders both sides. On a
// validation error the previously generated sides are kept.
func (f *Form) Generate() ([]imagepkg.Warning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generate()
}

func (f *Form) generate() ([]imagepkg.Warning, error) {
	rec := f.rec.Trimmed()
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	res := f.renderer.Render(rec)
	f.front, f.back, f.warnings = res.Front, res.Back, res.Warnings
	f.log.Info("card generated", "roll", rec.Get(student.RollNo), "warnings", len(res.Warnings))
	return res.Warnings, nil
}

// Warnings returns the degradations of the last generation.
func (f *Form) Warnings() []imagepkg.Warning {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]imagepkg.Warning(nil), f.warnings...)
}

// Side returns the generated image of one side.
func (f *Form) Side(side imagepkg.Side) (*image.NRGBA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.side(side)
}

func (f *Form) side(side imagepkg.Side) (*image.NRGBA, error) {
	var img *image.NRGBA
	switch side {
	case imagepkg.Front:
		img = f.front
	case imagepkg.Back:
		img = f.back
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSide, side)
	}
	if img == nil {
		return nil, ErrNotGenerated
	}
	return img, nil
}

// Preview returns a copy of one side scaled for on-screen display.
func (f *Form) Preview(side imagepkg.Side) (*image.NRGBA, error) {
	img, err := f.Side(side)
	if err != nil {
		return nil, err
	}
	return imaging.Resize(img, PreviewWidth, PreviewHeight, imaging.Lanczos), nil
}

// WritePNG encodes one side as PNG to w.
func (f *Form) WritePNG(w io.Writer, side imagepkg.Side) error {
	img, err := f.Side(side)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, imaging.PNG)
}

// SavePNG writes one side as a PNG file, adding a .png extension when path
// has none. It returns the path written.
func (f *Form) SavePNG(path string, side imagepkg.Side) (string, error) {
	img, err := f.Side(side)
	if err != nil {
		return "", err
	}
	path = util.WithExt(path, ".png")
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := imaging.Encode(out, img, imaging.PNG); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	f.log.Info("card side saved", "side", side, "path", path)
	return path, nil
}

// SaveFront writes the front side as PNG.
func (f *Form) SaveFront(path string) (string, error) { return f.SavePNG(path, imagepkg.Front) }

// SaveBack writes the back side as PNG.
func (f *Form) SaveBack(path string) (string, error) { return f.SavePNG(path, imagepkg.Back) }

// Document builds the two-page document, generating the card first when
// either side is missing.
func (f *Form) Document() (*document.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.front == nil || f.back == nil {
		if _, err := f.generate(); err != nil {
			return nil, err
		}
	}
	return document.Build([]image.Image{f.front, f.back}, f.doc)
}

// ExportPDF writes the two-page document to path, adding a .pdf extension
// when path has none. It returns the path written.
func (f *Form) ExportPDF(path string) (string, error) {
	doc, err := f.Document()
	if err != nil {
		return "", err
	}
	path = util.WithExt(path, ".pdf")
	if err := doc.WriteFile(path); err != nil {
		return "", err
	}
	f.log.Info("card document saved", "path", path)
	return path, nil
}

// WritePDF streams the two-page document to w.
func (f *Form) WritePDF(w io.Writer) error {
	doc, err := f.Document()
	if err != nil {
		return err
	}
	_, err = doc.WriteTo(w)
	return err
}
