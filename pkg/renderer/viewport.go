package renderer

import "math"

// MaxPixelRatio caps the device pixel ratio used for the drawing buffer
const MaxPixelRatio = 2.0

// Viewport is the on-screen size of the canvas and its pixel density
type Viewport struct {
	Width      int     // Logical width
	Height     int     // Logical height
	PixelRatio float64 // Drawing buffer pixels per logical pixel, at most MaxPixelRatio
}

// NewViewport creates a viewport, clamping the pixel ratio
func NewViewport(width, height int, devicePixelRatio float64) Viewport {
	return Viewport{Width: width, Height: height, PixelRatio: ClampPixelRatio(devicePixelRatio)}
}

// ClampPixelRatio returns min(dpr, MaxPixelRatio); non-positive ratios become 1
func ClampPixelRatio(dpr float64) float64 {
	if dpr <= 0 || math.IsNaN(dpr) {
		return 1
	}
	return math.Min(dpr, MaxPixelRatio)
}

// Aspect returns width / height, or 1 for a degenerate viewport
func (v Viewport) Aspect() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// BufferSize returns the drawing buffer size in device pixels
func (v Viewport) BufferSize() (int, int) {
	w := int(math.Floor(float64(v.Width) * v.PixelRatio))
	h := int(math.Floor(float64(v.Height) * v.PixelRatio))
	return max(0, w), max(0, h)
}

// Empty reports whether nothing can be drawn
func (v Viewport) Empty() bool {
	w, h := v.BufferSize()
	return w == 0 || h == 0
}
