package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/youruser/idcardapp/internal/student"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Card geometry in pixels.
const (
	CardWidth  = 400
	CardHeight = 250

	headerHeight = 40
	footerHeight = 30

	photoWidth  = 80
	photoHeight = 100

	glyphSize = 70

	// WrapWidth is the number of characters per back-side line.
	WrapWidth   = 40
	lineAdvance = 12
	backTop     = 50
)

var (
	photoOrigin = image.Pt(30, 60)
	glyphOrigin = image.Pt(CardWidth-100, 150)

	// PhotoRect is where the photo lands on the front side.
	PhotoRect = image.Rectangle{Min: photoOrigin, Max: photoOrigin.Add(image.Pt(photoWidth, photoHeight))}
	// GlyphRect is where the glyph block lands on the front side.
	GlyphRect = image.Rectangle{Min: glyphOrigin, Max: glyphOrigin.Add(image.Pt(glyphSize, glyphSize))}
)

var (
	frontBackground = rgb(0xfe, 0xfe, 0xfe)
	backBackground  = rgb(0xfe, 0xf9, 0xe7)
	bandColor       = rgb(0x2c, 0x3e, 0x50)
	outerBorder     = rgb(0x34, 0x49, 0x5e)
	innerBorder     = rgb(0xbd, 0xc3, 0xc7)
	warningColor    = rgb(0xff, 0x00, 0x00)
)

// Instructions are printed in red under the back-side details.
var Instructions = []string{
	"1. Carry this ID at all times.",
	"2. Do not lend to others.",
	"3. Notify administration if lost.",
}

func rgb(r, g, b uint8) color.NRGBA { return color.NRGBA{R: r, G: g, B: b, A: 0xff} }

// Side names one face of the card.
type Side string

const (
	Front Side = "front"
	Back  Side = "back"
)

// Warning is a render-time degradation. Rendering never fails; it records
// what it had to leave out instead.
type Warning struct {
	Side    Side   `json:"side"`
	Message string `json:"message"`
}

func (w Warning) String() string { return string(w.Side) + ": " + w.Message }

// Result holds both sides of a freshly rendered card.
type Result struct {
	Front    *image.NRGBA
	Back     *image.NRGBA
	Warnings []Warning
}

// Renderer paints cards. It is not safe for concurrent use.
type Renderer struct {
	fonts *FontSet
	log   *slog.Logger
	// LoadPhoto resolves a photo reference; defaults to the package LoadPhoto.
	LoadPhoto func(ref string) (image.Image, error)
}

// NewRenderer returns a renderer drawing with fonts. A nil logger discards output.
func NewRenderer(fonts *FontSet, logger *slog.Logger) *Renderer {
	if fonts == nil {
		fonts = FallbackFonts()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renderer{fonts: fonts, log: logger, LoadPhoto: LoadPhoto}
}

// Render produces the front and back of rec. It does not validate rec; callers
// check required fields and the photo first.
func (r *Renderer) Render(rec student.Record) Result {
	var warns []Warning
	if r.fonts.Fallback() {
		for _, side := range []Side{Front, Back} {
			warns = append(warns, Warning{Side: side, Message: "system fonts unavailable, using built-in font"})
		}
	}

	var photo image.Image
	if rec.Photo != "" {
		p, err := r.LoadPhoto(rec.Photo)
		if err != nil {
			warns = append(warns, Warning{Side: Front, Message: fmt.Sprintf("photo %q not loaded: %v", rec.Photo, err)})
		} else {
			photo = p
		}
	}

	front, fw := r.RenderFront(rec, photo)
	back, bw := r.RenderBack(rec)
	warns = append(warns, fw...)
	warns = append(warns, bw...)
	for _, w := range warns {
		r.log.Warn("card render degraded", "side", w.Side, "reason", w.Message)
	}
	return Result{Front: front, Back: back, Warnings: warns}
}

// RenderFront paints the front side. A nil photo leaves the photo region blank.
func (r *Renderer) RenderFront(rec student.Record, photo image.Image) (*image.NRGBA, []Warning) {
	var warns []Warning
	const w, h = CardWidth, CardHeight
	card := imaging.New(w, h, frontBackground)

	fillRect(card, image.Rect(0, 0, w, headerHeight+1), bandColor)
	fillRect(card, image.Rect(0, h-footerHeight, w, h), bandColor)
	drawBorders(card)

	if photo != nil {
		// Transparent areas of the photo show the card background.
		p := imaging.Resize(photo, photoWidth, photoHeight, imaging.Lanczos)
		card = imaging.Overlay(card, p, photoOrigin, 1.0)
	}

	title := r.fonts.Face(true, 16)
	normal := r.fonts.Face(false, 12)
	small := r.fonts.Face(false, 10)

	drawTextCentered(card, title, w/2, 10, rec.Get(student.College), color.White)
	drawText(card, normal, 120, 60, "Name: "+rec.Get(student.FullName), color.Black)
	drawText(card, normal, 120, 85, "Roll No: "+rec.Get(student.RollNo), color.Black)
	drawText(card, normal, 120, 110, "Branch: "+rec.Get(student.Branch), color.Black)
	drawText(card, small, 150, h-20, "Official Student ID", color.White)

	payload := GlyphPayload(rec.Get(student.FullName), rec.Get(student.RollNo), rec.Get(student.Branch))
	glyph, downscaled, err := GlyphImage(payload, glyphSize)
	if err != nil {
		return card, append(warns, Warning{Side: Front, Message: fmt.Sprintf("glyph block not drawn: %v", err)})
	}
	if downscaled {
		warns = append(warns, Warning{Side: Front, Message: "glyph block downscaled, may not scan"})
	}
	return imaging.Paste(card, glyph, glyphOrigin), warns
}

// BackLines returns the wrapped detail lines of the back side, in order.
func BackLines(rec student.Record) []string {
	var lines []string
	for _, l := range student.Labels {
		lines = append(lines, Wrap(l+": "+rec.Get(l), WrapWidth)...)
	}
	return lines
}

// RenderBack paints the back side. The canvas never grows: lines that start
// below the bottom edge are dropped and reported.
func (r *Renderer) RenderBack(rec student.Record) (*image.NRGBA, []Warning) {
	const w, h = CardWidth, CardHeight
	card := imaging.New(w, h, backBackground)
	drawBorders(card)

	title := r.fonts.Face(true, 14)
	small := r.fonts.Face(false, 10)

	drawTextCentered(card, title, w/2, 20, "Student Details - Back Side", bandColor)

	dropped := 0
	y := backTop
	put := func(s string, c color.Color) {
		if y >= h {
			dropped++
		} else {
			drawText(card, small, 20, y, s, c)
		}
		y += lineAdvance
	}
	for _, line := range BackLines(rec) {
		put(line, color.Black)
	}
	y += 5
	for _, ins := range Instructions {
		put(ins, warningColor)
	}

	if dropped > 0 {
		return card, []Warning{{Side: Back, Message: fmt.Sprintf("back side overflow: %d lines dropped", dropped)}}
	}
	return card, nil
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// strokeRect draws a width-pixel outline just inside r.
func strokeRect(dst draw.Image, r image.Rectangle, width int, c color.Color) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func drawBorders(dst draw.Image) {
	b := dst.Bounds()
	strokeRect(dst, b, 3, outerBorder)
	strokeRect(dst, b.Inset(5), 1, innerBorder)
}

// drawText draws s with its top-left corner at (x, y).
func drawText(dst draw.Image, face font.Face, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + face.Metrics().Ascent},
	}
	d.DrawString(s)
}

// drawTextCentered draws s centered on (cx, cy).
func drawTextCentered(dst draw.Image, face font.Face, cx, cy int, s string, c color.Color) {
	m := face.Metrics()
	adv := font.MeasureString(face, s)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(cx) - adv/2,
			Y: fixed.I(cy) + (m.Ascent-m.Descent)/2,
		},
	}
	d.DrawString(s)
}
