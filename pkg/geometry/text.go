package geometry

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/df07/go-haunted-house/pkg/core"
)

// TextOptions controls extruded text generation
type TextOptions struct {
	Size  float64 // World height of a capital letter (font ascent)
	Depth float64 // Extrusion along +Z
}

// textCoverage is the minimum alpha a rasterized pixel needs to become solid
const textCoverage = 128

// NewTextGeometry rasterizes text with face and extrudes the covered pixels
// into boxes of the given depth. The result is centered on its bounding box.
// An empty string, or a string with no visible glyphs, yields an empty geometry.
func NewTextGeometry(text string, face font.Face, opts TextOptions) *BufferGeometry {
	g := &BufferGeometry{Name: "text"}
	if text == "" || face == nil {
		return g
	}

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	width := font.MeasureString(face, text).Ceil()
	height := ascent + descent
	if width <= 0 || height <= 0 || ascent <= 0 {
		return g
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	drawer := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	drawer.DrawString(text)

	pixel := opts.Size / float64(ascent)
	depth := opts.Depth
	if depth <= 0 {
		depth = pixel
	}

	for _, r := range coveredRects(mask) {
		w := float64(r.Dx()) * pixel
		h := float64(r.Dy()) * pixel
		// Image rows grow downward; world Y grows upward from the baseline
		center := core.NewVec3(
			(float64(r.Min.X)+float64(r.Dx())/2)*pixel,
			(float64(ascent)-float64(r.Min.Y)-float64(r.Dy())/2)*pixel,
			depth/2,
		)
		g.Merge(NewBoxGeometry(w, h, depth), center)
	}

	if g.VertexCount() > 0 {
		g.Translate(g.BoundingBox().Center().Negate())
	}
	return g
}

// coveredRects turns the covered pixels of mask into rectangles: each row is
// split into horizontal runs and a run identical to one in the row above
// extends that rectangle downward.
func coveredRects(mask *image.Alpha) []image.Rectangle {
	bounds := mask.Bounds()
	var done []image.Rectangle
	open := map[[2]int]image.Rectangle{} // keyed by run [minX, maxX)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		next := map[[2]int]image.Rectangle{}
		x := bounds.Min.X
		for x < bounds.Max.X {
			if mask.AlphaAt(x, y).A < textCoverage {
				x++
				continue
			}
			start := x
			for x < bounds.Max.X && mask.AlphaAt(x, y).A >= textCoverage {
				x++
			}
			key := [2]int{start, x}
			if r, ok := open[key]; ok {
				r.Max.Y = y + 1
				next[key] = r
				delete(open, key)
			} else {
				next[key] = image.Rect(start, y, x, y+1)
			}
		}
		for _, r := range open {
			done = append(done, r)
		}
		open = next
	}
	for _, r := range open {
		done = append(done, r)
	}
	return done
}
