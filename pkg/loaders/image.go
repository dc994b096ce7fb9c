package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/material"
)

// ErrNotImage is returned when a file's content is not a recognized image type
var ErrNotImage = errors.New("not an image")

// LoadImage loads a PNG, JPEG, WebP or BMP image into linear texel data.
// Images larger than maxSize on either side are scaled down to fit; maxSize <= 0 keeps the original size.
func LoadImage(filename string, maxSize int) (*material.TextureData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return DecodeImage(data, maxSize)
}

// DecodeImage sniffs and decodes an in-memory image
func DecodeImage(data []byte, maxSize int) (*material.TextureData, error) {
	if !filetype.IsImage(data) {
		return nil, ErrNotImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img = fitImage(img, maxSize)
	return imageToTexture(img), nil
}

// fitImage scales img down so neither side exceeds maxSize, keeping the aspect ratio
func fitImage(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	scale := float64(maxSize) / float64(max(w, h))
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	return transform.Resize(img, nw, nh, transform.Linear)
}

// imageToTexture converts to Vec3 pixels, row 0 at the top.
// Colors stay in the encoded space; no gamma conversion is applied.
func imageToTexture(img image.Image) *material.TextureData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &material.TextureData{Width: width, Height: height, Pixels: pixels}
}
