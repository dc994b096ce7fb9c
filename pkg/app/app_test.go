package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-haunted-house/pkg/debug"
	"github.com/df07/go-haunted-house/pkg/haunted"
	"github.com/df07/go-haunted-house/pkg/renderer"
)

type constRandom float64

func (c constRandom) Float64() float64 { return float64(c) }

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) Printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func newTestApp(t *testing.T, cfg haunted.Config, width, height int) (*App, *ManualClock, *recordingLogger) {
	t.Helper()
	house, err := haunted.Build(cfg, haunted.BuildDeps{Random: constRandom(0.5)})
	require.NoError(t, err)

	clock := NewManualClock(0)
	logger := &recordingLogger{}
	opts := Options{
		Width:      width,
		Height:     height,
		PixelRatio: 1,
		Renderer:   renderer.Options{TileSize: 8, Workers: 2, MaxLayers: 2},
		Clock:      clock,
	}
	a := New(house, opts, logger)
	t.Cleanup(a.Close)
	return a, clock, logger
}

func TestResize(t *testing.T) {
	a, _, _ := newTestApp(t, haunted.MinimalConfig(), 40, 30)
	position := a.Camera.Position
	ghost := a.House.Ghosts[0].Position

	a.Resize(800, 400, 3)
	assert.Equal(t, 2.0, a.Camera.Aspect)
	assert.Equal(t, 2.0, a.Renderer.Viewport().PixelRatio)
	w, h := a.Renderer.Viewport().BufferSize()
	assert.Equal(t, 1600, w)
	assert.Equal(t, 800, h)
	assert.Equal(t, position, a.Camera.Position)
	assert.Equal(t, ghost, a.House.Ghosts[0].Position)

	projection := a.Camera.ProjectionMatrix()
	a.Resize(800, 400, 3)
	assert.Equal(t, projection, a.Camera.ProjectionMatrix(), "resize is idempotent")

	a.Resize(300, 600, 1.5)
	assert.Equal(t, 0.5, a.Camera.Aspect)
	assert.Equal(t, 1.5, a.Renderer.Viewport().PixelRatio)
}

func TestStepAnimatesGhosts(t *testing.T) {
	a, _, _ := newTestApp(t, haunted.MinimalConfig(), 16, 16)

	a.Step(3.7)
	want := haunted.GhostPositions(3.7)
	for i, g := range a.House.Ghosts {
		assert.Equal(t, want[i], g.Position)
	}

	// Without input the camera stays on its orbit
	before := a.Camera.Position
	a.Step(3.7)
	assert.InDelta(t, before.X, a.Camera.Position.X, 1e-9)
	assert.InDelta(t, before.Y, a.Camera.Position.Y, 1e-9)
	assert.InDelta(t, before.Z, a.Camera.Position.Z, 1e-9)
}

func TestFrame(t *testing.T) {
	a, _, _ := newTestApp(t, haunted.MinimalConfig(), 24, 16)

	f, err := a.Frame(1)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Index)
	assert.Equal(t, 1.0, f.Time)
	assert.Equal(t, 24, f.Image.Bounds().Dx())
	assert.Equal(t, 16, f.Image.Bounds().Dy())
	assert.Equal(t, 24*16, f.Stats.Pixels)

	f, err = a.Frame(2)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Index)
	assert.Equal(t, 2, a.Frames())

	a.Resize(0, 16, 1)
	_, err = a.Frame(3)
	assert.Error(t, err)
}

func TestApplyEvents(t *testing.T) {
	a, _, _ := newTestApp(t, haunted.MinimalConfig(), 64, 64)

	// Zoom enabled: wheel up moves the camera closer
	distance := a.Controls.Distance()
	require.NoError(t, a.Apply(Event{Type: EventWheel, DeltaY: -100}))
	a.Step(0)
	assert.Less(t, a.Controls.Distance(), distance)

	require.NoError(t, a.Apply(Event{Type: EventSlider, Name: haunted.SliderMoonIntensity, Value: 0.5}))
	assert.Equal(t, 0.5, a.House.Moon.Light.Intensity)

	err := a.Apply(Event{Type: EventSlider, Name: "fogDensity", Value: 1})
	assert.ErrorIs(t, err, debug.ErrUnknownSlider)

	hidden := a.Panel.Hidden()
	require.NoError(t, a.Apply(Event{Type: EventTogglePanel}))
	assert.Equal(t, !hidden, a.Panel.Hidden())

	require.NoError(t, a.Apply(Event{Type: EventResize, Width: 100, Height: 50, PixelRatio: 1}))
	assert.Equal(t, 2.0, a.Camera.Aspect)
	assert.Error(t, a.Apply(Event{Type: EventResize, Width: 0, Height: 50}))

	assert.ErrorIs(t, a.Apply(Event{Type: "keypress"}), ErrUnknownEvent)
}

func TestWheelIgnoredWhenZoomDisabled(t *testing.T) {
	cfg := haunted.MinimalConfig()
	cfg.CameraZoomEnabled = false
	a, _, _ := newTestApp(t, cfg, 32, 32)

	distance := a.Controls.Distance()
	require.NoError(t, a.Apply(Event{Type: EventWheel, DeltaY: -500}))
	for i := 0; i < 5; i++ {
		a.Step(float64(i))
	}
	assert.InDelta(t, distance, a.Controls.Distance(), 1e-9)
}

func TestPointerDragIsDamped(t *testing.T) {
	a, _, _ := newTestApp(t, haunted.MinimalConfig(), 100, 100)

	require.NoError(t, a.Apply(Event{Type: EventPointer, Button: ButtonRotate, DX: 10}))
	previous := a.Camera.Position
	var moves []float64
	for i := 0; i < 20; i++ {
		a.Step(0)
		moves = append(moves, a.Camera.Position.Subtract(previous).Length())
		previous = a.Camera.Position
	}
	require.Positive(t, moves[0])
	for i := 1; i < len(moves); i++ {
		assert.Less(t, moves[i], moves[i-1], "step %d", i)
	}
}

// fakeHost presents into a slice and cancels after a number of frames
type fakeHost struct {
	events  chan Event
	frames  []*Frame
	limit   int
	cancel  context.CancelFunc
	present error
}

func (h *fakeHost) Events() <-chan Event { return h.events }

func (h *fakeHost) Present(ctx context.Context, f *Frame) error {
	if h.present != nil {
		return h.present
	}
	h.frames = append(h.frames, f)
	if len(h.frames) >= h.limit {
		h.cancel()
	}
	return nil
}

func TestRunPresentsFramesAtClockTime(t *testing.T) {
	a, clock, _ := newTestApp(t, haunted.MinimalConfig(), 16, 12)
	clock.Set(4.25)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	host := &fakeHost{events: make(chan Event, 1), limit: 3, cancel: cancel}
	host.events <- Event{Type: EventSlider, Name: haunted.SliderAmbientIntensity, Value: 0.9}

	require.NoError(t, Run(ctx, a, host, time.Millisecond))
	require.Len(t, host.frames, 3)
	for i, f := range host.frames {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, 4.25, f.Time)
	}
	assert.Equal(t, 0.9, a.House.Ambient.Light.Intensity)
}

func TestRunStopsOnPresentError(t *testing.T) {
	a, _, _ := newTestApp(t, haunted.MinimalConfig(), 8, 8)
	boom := errors.New("connection closed")
	host := &fakeHost{present: boom}

	err := Run(context.Background(), a, host, time.Millisecond)
	assert.ErrorIs(t, err, boom)
}

func TestRunLogsRenderErrors(t *testing.T) {
	a, _, logger := newTestApp(t, haunted.MinimalConfig(), 0, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	host := &fakeHost{limit: 1, cancel: cancel}
	require.NoError(t, Run(ctx, a, host, time.Millisecond))
	assert.Empty(t, host.frames)
	assert.True(t, logger.contains("Render error"))
}

func TestClocks(t *testing.T) {
	c := NewManualClock(1)
	c.Advance(0.5)
	assert.Equal(t, 1.5, c.Elapsed())
	c.Set(0)
	assert.Equal(t, 0.0, c.Elapsed())

	wall := NewClock()
	first := wall.Elapsed()
	time.Sleep(2 * time.Millisecond)
	assert.Greater(t, wall.Elapsed(), first)
}
