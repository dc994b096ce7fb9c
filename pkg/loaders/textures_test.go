package loaders

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-haunted-house/pkg/core"
)

var texCenter = core.NewVec2(0.5, 0.5)

// recordingLogger collects log lines for assertions
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) Printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

func solidImage(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestTextureLoaderAsync(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "door/color.png", solidImage(color.RGBA{R: 255, A: 255}))

	logger := &recordingLogger{}
	loader := NewTextureLoader(dir, logger)

	tex := loader.Load("door/color.png")
	require.NotNil(t, tex)
	assert.Same(t, tex, loader.Load("door/./color.png"), "same path should share a texture")

	loader.Wait()
	assert.True(t, tex.Ready())
	assert.Equal(t, 0, loader.Pending())
	assert.Equal(t, uint64(1), loader.Revision())
	assert.Zero(t, logger.count())
}

func TestTextureLoaderMissingFileIsLogged(t *testing.T) {
	logger := &recordingLogger{}
	loader := NewTextureLoader(t.TempDir(), logger)

	tex := loader.Load("bricks/color.jpg")
	loader.Wait()

	assert.False(t, tex.Ready(), "missing texture stays empty")
	assert.Equal(t, 1, loader.Failures())
	assert.Equal(t, 1, logger.count())
	assert.Equal(t, uint64(0), loader.Revision())
}

func TestTextureLoaderWaitContext(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "grass/color.png", solidImage(color.RGBA{G: 255, A: 255}))
	loader := NewTextureLoader(dir, nil)
	loader.Load("grass/color.png")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, loader.WaitContext(ctx))
}

func TestTextureLoaderReload(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "stone/color.png", solidImage(color.RGBA{R: 255, A: 255}))
	loader := NewTextureLoader(dir, nil)

	tex := loader.Load("stone/color.png")
	loader.Wait()
	before, _ := tex.Sample(texCenter)
	assert.InDelta(t, 1.0, before.X, 1e-6)

	writePNG(t, dir, "stone/color.png", solidImage(color.RGBA{B: 255, A: 255}))
	require.True(t, loader.Reload(path))
	loader.Wait()

	after, _ := tex.Sample(texCenter)
	assert.InDelta(t, 1.0, after.Z, 1e-6)
	assert.Equal(t, uint64(2), loader.Revision())
	assert.False(t, loader.Reload(dir+"/unknown.png"), "unrequested files are ignored")
}

func TestTextureLoaderWatch(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "bush/color.png", solidImage(color.RGBA{R: 255, A: 255}))
	loader := NewTextureLoader(dir, nil)
	tex := loader.Load("bush/color.png")
	loader.Wait()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loader.Watch(ctx) }()

	// Give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	writePNG(t, dir, "bush/color.png", solidImage(color.RGBA{G: 255, A: 255}))

	assert.Eventually(t, func() bool {
		c, ok := tex.Sample(texCenter)
		return ok && c.Y > 0.99
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestTextureLoaderRepeatFixedOnFirstLoad(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "grass/color.png", solidImage(color.RGBA{G: 255, A: 255}))
	loader := NewTextureLoader(dir, nil)

	tex := loader.Load("grass/color.png", WithRepeat(8, 8))
	assert.Equal(t, 8.0, tex.RepeatU)
	assert.Equal(t, 8.0, tex.RepeatV)

	// Later requests share the texture without reconfiguring it
	again := loader.Load("grass/color.png", WithRepeat(2, 3))
	assert.Same(t, tex, again)
	assert.Equal(t, 8.0, again.RepeatU)
	assert.Equal(t, 8.0, again.RepeatV)
	loader.Wait()
}

func TestTextureLoaderReloadWhileWaiting(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "door/color.png", solidImage(color.RGBA{R: 255, A: 255}))
	loader := NewTextureLoader(dir, nil)
	tex := loader.Load("door/color.png")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			loader.Reload(path)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			assert.NoError(t, loader.WaitContext(ctx))
			cancel()
		}
	}()
	wg.Wait()

	loader.Wait()
	assert.Equal(t, 0, loader.Pending())
	assert.True(t, tex.Ready())
	assert.Zero(t, loader.Failures())
}
