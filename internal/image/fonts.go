package imagepkg

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// DefaultFontDirs are searched for system fonts when no directories are configured.
var DefaultFontDirs = []string{
	`C:\Windows\Fonts`,
	"/Library/Fonts",
	"/System/Library/Fonts/Supplemental",
	"/usr/share/fonts/truetype/msttcorefonts",
	"/usr/share/fonts/truetype/dejavu",
	"/usr/share/fonts/truetype/liberation",
	"/usr/share/fonts/TTF",
	"/usr/share/fonts",
}

var (
	boldFontNames    = []string{"arialbd.ttf", "Arial Bold.ttf", "DejaVuSans-Bold.ttf", "LiberationSans-Bold.ttf"}
	regularFontNames = []string{"arial.ttf", "Arial.ttf", "DejaVuSans.ttf", "LiberationSans-Regular.ttf"}
)

// FontSet hands out faces at the sizes the card layout uses. When the system
// fonts can't be loaded every face is basicfont.Face7x13 and sizes are ignored.
// A FontSet is not safe for concurrent use.
type FontSet struct {
	bold     *opentype.Font
	regular  *opentype.Font
	fallback bool
	faces    map[faceKey]font.Face
}

type faceKey struct {
	bold bool
	size float64
}

// LoadFonts looks up a bold and a regular font by file name in dirs (or
// DefaultFontDirs when empty). The returned error describes why the fallback
// font is in use; the FontSet is usable either way.
func LoadFonts(dirs []string) (*FontSet, error) {
	if len(dirs) == 0 {
		dirs = DefaultFontDirs
	}
	fs := &FontSet{faces: map[faceKey]font.Face{}}

	bold, err := findFont(dirs, boldFontNames)
	if err != nil {
		fs.fallback = true
		return fs, fmt.Errorf("bold font: %w", err)
	}
	regular, err := findFont(dirs, regularFontNames)
	if err != nil {
		fs.fallback = true
		return fs, fmt.Errorf("regular font: %w", err)
	}
	fs.bold, fs.regular = bold, regular
	return fs, nil
}

// FallbackFonts returns a FontSet that only uses the built-in bitmap font.
func FallbackFonts() *FontSet {
	return &FontSet{fallback: true, faces: map[faceKey]font.Face{}}
}

// Fallback reports whether the built-in bitmap font is in use.
func (fs *FontSet) Fallback() bool { return fs.fallback }

// Face returns a face for the given weight and point size.
func (fs *FontSet) Face(bold bool, size float64) font.Face {
	if fs.fallback {
		return basicfont.Face7x13
	}
	k := faceKey{bold, size}
	if f, ok := fs.faces[k]; ok {
		return f
	}
	src := fs.regular
	if bold {
		src = fs.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	fs.faces[k] = f
	return f
}

// Close releases the cached faces.
func (fs *FontSet) Close() error {
	for k, f := range fs.faces {
		f.Close()
		delete(fs.faces, k)
	}
	return nil
}

func findFont(dirs, names []string) (*opentype.Font, error) {
	for _, d := range dirs {
		for _, n := range names {
			data, err := os.ReadFile(filepath.Join(d, n))
			if err != nil {
				continue
			}
			f, err := opentype.Parse(data)
			if err != nil {
				continue
			}
			return f, nil
		}
	}
	return nil, fmt.Errorf("none of %v found", names)
}
