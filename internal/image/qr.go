package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
)

// GlyphPayload is the text encoded into the front-side glyph block.
func GlyphPayload(name, roll, branch string) string {
	return fmt.Sprintf("Name:%s\nRoll:%s\nBranch:%s", name, roll, branch)
}

// GlyphImage renders payload as a QR code centered on a white size×size tile.
// Modules are drawn with a whole number of pixels each so the block stays
// scannable; when the symbol has more modules than the tile has pixels it is
// squeezed with nearest-neighbour sampling and downscaled is true.
func GlyphImage(payload string, size int) (tile *image.NRGBA, downscaled bool, err error) {
	q, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, false, err
	}
	q.DisableBorder = true
	modules := len(q.Bitmap())

	tile = imaging.New(size, size, color.White)
	scale := size / modules
	if scale < 1 {
		sym := imaging.Resize(q.Image(modules), size, size, imaging.NearestNeighbor)
		return imaging.Paste(tile, sym, image.Pt(0, 0)), true, nil
	}
	sym := q.Image(-scale)
	off := (size - modules*scale) / 2
	return imaging.Paste(tile, sym, image.Pt(off, off)), false, nil
}

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	if size < 64 {
		size = 64
	}
	if size > 2048 {
		size = 2048
	}
	pngBytes, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	// validate png decode
	if _, err := png.Decode(bytes.NewReader(pngBytes)); err != nil {
		return nil, err
	}
	return pngBytes, nil
}
