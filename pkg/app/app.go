// Package app holds the state of a running haunted house viewer and the frame
// loop that drives it. Viewers own one App each; nothing here is global.
package app

import (
	"fmt"
	"image"

	"github.com/df07/go-haunted-house/pkg/controls"
	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/debug"
	"github.com/df07/go-haunted-house/pkg/haunted"
	"github.com/df07/go-haunted-house/pkg/renderer"
	"github.com/df07/go-haunted-house/pkg/scene"
)

// Options configures a new App
type Options struct {
	Width      int     // Initial logical width
	Height     int     // Initial logical height
	PixelRatio float64 // Initial device pixel ratio
	Renderer   renderer.Options
	Clock      Clock // nil starts a wall clock
}

// DefaultOptions returns a small viewport with the default renderer settings
func DefaultOptions() Options {
	return Options{Width: 320, Height: 240, PixelRatio: 1, Renderer: renderer.DefaultOptions()}
}

// Frame is one rendered image and the time it shows
type Frame struct {
	Index int     // Frames rendered by this App before this one
	Time  float64 // Elapsed seconds the scene was animated to
	Image *image.RGBA
	Stats renderer.RenderStats
}

// App is the complete mutable state of one viewer session
type App struct {
	House    *haunted.House
	Scene    *scene.Scene
	Camera   *scene.PerspectiveCamera
	Controls *controls.OrbitControls
	Renderer *renderer.Raytracer
	Panel    *debug.Panel
	Clock    Clock
	Logger   core.Logger

	frames int
}

// New wires a built house to a renderer, orbit controls and a debug panel,
// then sizes everything to the initial viewport
func New(house *haunted.House, opts Options, logger core.Logger) *App {
	if logger == nil {
		logger = core.NopLogger{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = NewClock()
	}

	rendererOptions := opts.Renderer
	rendererOptions.ShadowsEnabled = house.Config.ShadowsEnabled
	rt := renderer.NewRaytracer(rendererOptions, logger)
	rt.SetClearColor(house.Scene.Background)

	orbit := controls.NewOrbitControls(house.Camera)
	orbit.EnableDamping = true
	orbit.EnableZoom = house.Config.CameraZoomEnabled

	a := &App{
		House:    house,
		Scene:    house.Scene,
		Camera:   house.Camera,
		Controls: orbit,
		Renderer: rt,
		Panel:    house.NewDebugPanel(),
		Clock:    clock,
		Logger:   logger,
	}
	a.Resize(opts.Width, opts.Height, opts.PixelRatio)
	return a
}

// Resize updates the camera aspect and the renderer's drawing buffer.
// Camera position and orientation are left alone, so calling it again with
// the same arguments changes nothing.
func (a *App) Resize(width, height int, dpr float64) {
	a.Renderer.SetSize(width, height)
	a.Renderer.SetPixelRatio(dpr)
	a.Camera.Aspect = a.Renderer.Viewport().Aspect()
	a.Camera.UpdateProjectionMatrix()
}

// Step advances the scene to elapsed time t: ghosts move and the controls
// apply any pending damped motion
func (a *App) Step(t float64) {
	a.House.Animate(t)
	a.Controls.Update()
}

// Frame steps to t and renders the result
func (a *App) Frame(t float64) (*Frame, error) {
	a.Step(t)
	img, stats, err := a.Renderer.Render(a.Scene, a.Camera)
	if err != nil {
		return nil, fmt.Errorf("failed to render frame %d: %w", a.frames, err)
	}
	f := &Frame{Index: a.frames, Time: t, Image: img, Stats: stats}
	a.frames++
	return f, nil
}

// Frames returns how many frames have been rendered
func (a *App) Frames() int {
	return a.frames
}

// Close releases the renderer's workers
func (a *App) Close() {
	a.Renderer.Close()
}
