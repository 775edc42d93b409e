// Package document lays card images out as pages of a PDF.
package document

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"
	"github.com/signintech/gopdf"
)

// Page placement in millimetres, measured from the top-left corner of an A4 page.
const (
	DefaultMarginMM = 10.0
	DefaultWidthMM  = 190.0
)

const ptPerMM = 72.0 / 25.4

// ErrNoPages is returned when a document is built without images.
var ErrNoPages = errors.New("document: no pages")

// Options controls page placement.
type Options struct {
	MarginMM float64
	WidthMM  float64
	// TempDir holds the intermediate PNG files; "" means os.TempDir.
	TempDir string
	Logger  *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MarginMM <= 0 {
		o.MarginMM = DefaultMarginMM
	}
	if o.WidthMM <= 0 {
		o.WidthMM = DefaultWidthMM
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Document is an in-memory PDF with one page per image.
type Document struct {
	pdf *gopdf.GoPdf
}

// Build places each image on its own A4 page at the configured margin and
// width, keeping the aspect ratio. Every image goes through a temporary PNG
// file which is removed before Build returns.
func Build(pages []image.Image, opt Options) (*Document, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	opt = opt.withDefaults()

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	x := opt.MarginMM * ptPerMM
	y := opt.MarginMM * ptPerMM
	w := opt.WidthMM * ptPerMM
	for i, img := range pages {
		if img == nil {
			return nil, fmt.Errorf("document: page %d has no image", i+1)
		}
		b := img.Bounds()
		h := w * float64(b.Dy()) / float64(b.Dx())

		tmp, err := writeTemp(opt.TempDir, img)
		if err != nil {
			return nil, fmt.Errorf("document: page %d: %w", i+1, err)
		}
		pdf.AddPage()
		err = pdf.Image(tmp, x, y, &gopdf.Rect{W: w, H: h})
		if rmErr := os.Remove(tmp); rmErr != nil {
			opt.Logger.Warn("temporary page image not removed", "path", tmp, "err", rmErr)
		}
		if err != nil {
			return nil, fmt.Errorf("document: page %d: %w", i+1, err)
		}
	}
	return &Document{pdf: pdf}, nil
}

// Pages returns the number of pages.
func (d *Document) Pages() int { return d.pdf.GetNumberOfPages() }

// WriteTo writes the PDF to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.pdf.WriteTo(w)
}

// WriteFile writes the PDF to path.
func (d *Document) WriteFile(path string) error {
	return d.pdf.WritePdf(path)
}

func writeTemp(dir string, img image.Image) (string, error) {
	f, err := os.CreateTemp(dir, "idcard-page-*.png")
	if err != nil {
		return "", err
	}
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
