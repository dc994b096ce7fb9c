package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/geometry"
	"github.com/df07/go-haunted-house/pkg/scene"
)

// ErrRendererClosed is returned by Render after Close
var ErrRendererClosed = errors.New("renderer closed")

// Options configures a Renderer
type Options struct {
	TileSize       int  // Side of a tile in pixels
	Workers        int  // Worker goroutines (0 = one per CPU)
	ShadowsEnabled bool // Resolve shadows for lights and meshes that opt in
	MaxLayers      int  // Transparent surfaces a camera ray may pass through
}

// DefaultOptions returns the options used by the viewers
func DefaultOptions() Options {
	return Options{TileSize: DefaultTileSize, Workers: 0, ShadowsEnabled: false, MaxLayers: 4}
}

// Raytracer draws a scene through a camera with direct lighting: ambient,
// directional and point lights, optional shadows, ambient occlusion maps,
// alpha blending and linear fog. Output colors are written without gamma
// correction.
type Raytracer struct {
	ShadowsEnabled bool
	ClearColor     core.Vec3 // Used when the scene has no background color

	options  Options
	viewport Viewport
	tiles    []*Tile
	pool     *WorkerPool
	logger   core.Logger

	world  *geometry.BVH
	keys   []meshKey // Per-mesh state the world was built from
	closed bool
}

// meshKey identifies the world-space state of one mesh
type meshKey struct {
	node     *scene.Node
	world    mgl64.Mat4
	revision uint64
	cast     bool
	receive  bool
}

// NewRaytracer creates a renderer with an empty viewport
func NewRaytracer(options Options, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if options.MaxLayers <= 0 {
		options.MaxLayers = 1
	}
	return &Raytracer{
		ShadowsEnabled: options.ShadowsEnabled,
		options:        options,
		viewport:       NewViewport(0, 0, 1),
		pool:           NewWorkerPool(options.Workers),
		logger:         logger,
	}
}

// SetSize sets the logical size of the drawing area
func (rt *Raytracer) SetSize(width, height int) {
	rt.viewport.Width = max(0, width)
	rt.viewport.Height = max(0, height)
	rt.tiles = nil
}

// SetPixelRatio sets the device pixel ratio, clamped to MaxPixelRatio
func (rt *Raytracer) SetPixelRatio(dpr float64) {
	rt.viewport.PixelRatio = ClampPixelRatio(dpr)
	rt.tiles = nil
}

// Viewport returns the current size and pixel ratio
func (rt *Raytracer) Viewport() Viewport {
	return rt.viewport
}

// SetClearColor sets the color of pixels where nothing is hit
func (rt *Raytracer) SetClearColor(c core.Vec3) {
	rt.ClearColor = c
}

// Close stops the worker pool
func (rt *Raytracer) Close() {
	rt.closed = true
	rt.pool.Stop()
}

// Render draws the scene from camera into a new image of BufferSize pixels
func (rt *Raytracer) Render(s *scene.Scene, camera *scene.PerspectiveCamera) (*image.RGBA, RenderStats, error) {
	if rt.closed {
		return nil, RenderStats{}, ErrRendererClosed
	}
	if s == nil || camera == nil {
		return nil, RenderStats{}, fmt.Errorf("render needs a scene and a camera")
	}
	width, height := rt.viewport.BufferSize()
	if width == 0 || height == 0 {
		return nil, RenderStats{}, fmt.Errorf("cannot render %dx%d viewport", width, height)
	}

	start := time.Now()
	rebuilt := rt.prepareWorld(s)

	if rt.tiles == nil {
		rt.tiles = NewTileGrid(width, height, rt.options.TileSize)
	}

	frame := rt.newFrame(s, camera, width, height)
	tileStats := rt.pool.RenderTiles(rt.tiles, frame)

	stats := RenderStats{
		Width:        width,
		Height:       height,
		Tiles:        len(rt.tiles),
		Workers:      rt.pool.GetNumWorkers(),
		Triangles:    rt.world.Count,
		SceneRebuilt: rebuilt,
	}
	for _, ts := range tileStats {
		stats.Add(ts)
	}
	stats.Duration = time.Since(start)
	return frame.img, stats, nil
}

// Pick returns the first surface seen through the center of buffer pixel (x, y),
// with (0, 0) the top-left corner
func (rt *Raytracer) Pick(s *scene.Scene, camera *scene.PerspectiveCamera, x, y int) (geometry.HitRecord, bool) {
	var rec geometry.HitRecord
	width, height := rt.viewport.BufferSize()
	if x < 0 || y < 0 || x >= width || y >= height {
		return rec, false
	}
	rt.prepareWorld(s)

	basis := camera.Basis()
	ray := basis.GetRay((float64(x)+0.5)/float64(width), 1-(float64(y)+0.5)/float64(height))
	tMin := camera.Near / max(ray.Direction.Dot(basis.Forward), 1e-6)
	if !rt.world.Hit(ray, tMin, math.Inf(1), &rec) {
		return rec, false
	}
	if basis.ViewDepth(rec.Point) > camera.Far {
		return rec, false
	}
	return rec, true
}

// prepareWorld rebuilds world triangles when any mesh moved, changed shadow
// flags or received new displacement data. It reports whether it rebuilt.
func (rt *Raytracer) prepareWorld(s *scene.Scene) bool {
	meshes := s.Meshes()
	keys := make([]meshKey, len(meshes))
	for i, n := range meshes {
		keys[i] = meshKey{node: n, world: n.WorldMatrix(), cast: n.CastShadow, receive: n.ReceiveShadow}
		if n.Material != nil {
			keys[i].revision = n.Material.GeometryRevision()
		}
	}

	if rt.world != nil && sameKeys(keys, rt.keys) {
		return false
	}

	var triangles []*geometry.Triangle
	for i, n := range meshes {
		surface := &geometry.Surface{
			Name:          n.Name,
			Material:      n.Material,
			CastShadow:    n.CastShadow,
			ReceiveShadow: n.ReceiveShadow,
		}
		triangles = append(triangles, n.Geometry.WorldTriangles(keys[i].world, surface)...)
	}
	rt.world = geometry.NewBVH(triangles)
	rt.keys = keys
	rt.logger.Printf("Built world: %d meshes, %d triangles\n", len(meshes), len(triangles))
	return true
}

func sameKeys(a, b []meshKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// vec3ToColor converts a linear color to RGBA with clamping and no gamma curve
func vec3ToColor(c core.Vec3) color.RGBA {
	c = c.Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255*c.X + 0.5),
		G: uint8(255*c.Y + 0.5),
		B: uint8(255*c.Z + 0.5),
		A: 255,
	}
}
