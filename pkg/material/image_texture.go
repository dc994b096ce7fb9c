package material

import (
	"math"
	"sync/atomic"

	"github.com/df07/go-haunted-house/pkg/core"
)

// TextureData holds decoded texels in row-major order: Pixels[y*Width + x]
type TextureData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// Texture is a material channel whose pixels may arrive after the material is built.
// Until data is stored, sampling reports that nothing is available and callers
// fall back to the scalar value of the channel.
type Texture struct {
	Path    string  // Source file, informational
	RepeatU float64 // UV repeat along U
	RepeatV float64 // UV repeat along V

	data     atomic.Pointer[TextureData]
	revision atomic.Uint64
}

// NewTexture creates an empty texture slot for the given source path
func NewTexture(path string) *Texture {
	return &Texture{Path: path, RepeatU: 1, RepeatV: 1}
}

// NewImageTexture creates a texture that is immediately ready
func NewImageTexture(width, height int, pixels []core.Vec3) *Texture {
	t := NewTexture("")
	t.Store(&TextureData{Width: width, Height: height, Pixels: pixels})
	return t
}

// SetRepeat sets the UV repeat and returns the texture for chaining. Call it
// before the texture is shared with a renderer; Sample reads the fields unguarded.
func (t *Texture) SetRepeat(u, v float64) *Texture {
	t.RepeatU = u
	t.RepeatV = v
	return t
}

// Store publishes decoded pixels; safe to call from a loader goroutine
func (t *Texture) Store(data *TextureData) {
	t.data.Store(data)
	t.revision.Add(1)
}

// Ready reports whether pixels are available
func (t *Texture) Ready() bool {
	d := t.data.Load()
	return d != nil && d.Width > 0 && d.Height > 0
}

// Revision increments every time new pixels are stored
func (t *Texture) Revision() uint64 {
	return t.revision.Load()
}

// Data returns the current pixels, or nil
func (t *Texture) Data() *TextureData {
	return t.data.Load()
}

// Sample returns the texel at uv using nearest-neighbor filtering and repeat wrapping.
// V=0 is the bottom of the image. ok is false while the texture is not loaded.
func (t *Texture) Sample(uv core.Vec2) (core.Vec3, bool) {
	d := t.data.Load()
	if d == nil || d.Width == 0 || d.Height == 0 {
		return core.Vec3{}, false
	}

	u := wrap(uv.X * t.RepeatU)
	v := wrap(uv.Y * t.RepeatV)

	x := min(int(u*float64(d.Width)), d.Width-1)
	y := min(int((1.0-v)*float64(d.Height)), d.Height-1)

	return d.Pixels[max(y, 0)*d.Width+max(x, 0)], true
}

// wrap maps any coordinate into [0, 1)
func wrap(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		x = 0
	}
	return x
}
