package loaders

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// DefaultFontSize is the rasterization size, in pixels, of title glyphs
const DefaultFontSize = 96

// LoadFontFace parses a TrueType or OpenType file and returns a face at size pixels
func LoadFontFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open font file: %w", err)
	}
	return parseFace(data, size)
}

// DefaultFontFace returns the embedded Go Bold face
func DefaultFontFace(size float64) (font.Face, error) {
	return parseFace(gobold.TTF, size)
}

// FontFaceOrDefault loads path, falling back to the embedded face when path is
// empty or cannot be loaded. The returned error reports the fallback reason.
func FontFaceOrDefault(path string, size float64) (font.Face, error) {
	if path == "" {
		return DefaultFontFace(size)
	}
	face, err := LoadFontFace(path, size)
	if err == nil {
		return face, nil
	}
	fallback, ferr := DefaultFontFace(size)
	if ferr != nil {
		return nil, ferr
	}
	return fallback, err
}

func parseFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	if size <= 0 {
		size = DefaultFontSize
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}
