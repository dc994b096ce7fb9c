package loaders

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/material"
)

// DefaultMaxTextureSize caps the side of a decoded texture
const DefaultMaxTextureSize = 1024

// TextureLoader loads textures in the background. Load returns immediately
// with an empty texture that is filled once decoding finishes; a failed load
// is logged and the texture stays empty.
type TextureLoader struct {
	Dir     string // Root that relative texture paths resolve against
	MaxSize int    // Decoded textures are scaled to fit this size (0 = unlimited)

	logger   core.Logger
	mu       sync.Mutex
	textures map[string]*material.Texture // keyed by cleaned relative path
	inflight int                          // loads not yet finished, guarded by mu
	idle     chan struct{}                // closed when inflight drops to zero, guarded by mu
	revision atomic.Uint64                // bumped every time any texture receives pixels
	failures atomic.Int64
}

// TextureOption configures a texture when it is first requested
type TextureOption func(*material.Texture)

// WithRepeat tiles the texture u times along U and v times along V
func WithRepeat(u, v float64) TextureOption {
	return func(tex *material.Texture) {
		tex.SetRepeat(u, v)
	}
}

// NewTextureLoader creates a loader rooted at dir
func NewTextureLoader(dir string, logger core.Logger) *TextureLoader {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &TextureLoader{
		Dir:      dir,
		MaxSize:  DefaultMaxTextureSize,
		logger:   logger,
		textures: make(map[string]*material.Texture),
	}
}

// Load returns the texture for a path relative to Dir, starting a background
// load the first time the path is requested. Options apply only to that first
// request; later calls share the texture as it was configured.
func (l *TextureLoader) Load(path string, opts ...TextureOption) *material.Texture {
	key := filepath.ToSlash(filepath.Clean(path))

	l.mu.Lock()
	if tex, ok := l.textures[key]; ok {
		l.mu.Unlock()
		return tex
	}
	tex := material.NewTexture(key)
	for _, opt := range opts {
		opt(tex)
	}
	l.textures[key] = tex
	l.mu.Unlock()

	l.start(tex)
	return tex
}

func (l *TextureLoader) start(tex *material.Texture) {
	l.mu.Lock()
	if l.inflight == 0 {
		l.idle = make(chan struct{})
	}
	l.inflight++
	l.mu.Unlock()

	go func() {
		defer l.finish()
		if err := l.fill(tex); err != nil {
			l.failures.Add(1)
			l.logger.Printf("Texture %s: %v\n", tex.Path, err)
		}
	}()
}

// fill decodes the texture's file and stores the pixels
func (l *TextureLoader) fill(tex *material.Texture) error {
	data, err := LoadImage(filepath.Join(l.Dir, filepath.FromSlash(tex.Path)), l.MaxSize)
	if err != nil {
		return err
	}
	tex.Store(data)
	l.revision.Add(1)
	return nil
}

func (l *TextureLoader) finish() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--
	if l.inflight == 0 {
		close(l.idle)
	}
}

// idleChan returns a channel that is closed once no load is in flight.
// Loads started while waiting, such as hot reloads, extend the wait.
func (l *TextureLoader) idleChan() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inflight == 0 {
		done := make(chan struct{})
		close(done)
		return done
	}
	return l.idle
}

// Wait blocks until every texture requested so far has finished loading
func (l *TextureLoader) Wait() {
	<-l.idleChan()
}

// WaitContext is Wait bounded by ctx
func (l *TextureLoader) WaitContext(ctx context.Context) error {
	select {
	case <-l.idleChan():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for %d textures: %w", l.Pending(), ctx.Err())
	}
}

// Pending returns the number of loads still in flight
func (l *TextureLoader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inflight
}

// Failures returns the number of loads that ended in an error
func (l *TextureLoader) Failures() int {
	return int(l.failures.Load())
}

// Revision changes whenever a texture receives new pixels
func (l *TextureLoader) Revision() uint64 {
	return l.revision.Load()
}

// Textures returns a snapshot of every requested texture
func (l *TextureLoader) Textures() []*material.Texture {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*material.Texture, 0, len(l.textures))
	for _, tex := range l.textures {
		out = append(out, tex)
	}
	return out
}

// Reload reloads the texture for path if it was previously requested.
// It reports whether a reload was started.
func (l *TextureLoader) Reload(path string) bool {
	rel, err := filepath.Rel(l.Dir, path)
	if err != nil {
		return false
	}
	key := filepath.ToSlash(rel)

	l.mu.Lock()
	tex, ok := l.textures[key]
	l.mu.Unlock()
	if !ok {
		return false
	}

	l.start(tex)
	return true
}

// Watch reloads requested textures whenever their files are written or
// recreated, until ctx is done
func (l *TextureLoader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create texture watcher: %w", err)
	}
	defer watcher.Close()

	dirs := map[string]bool{}
	for _, tex := range l.Textures() {
		dirs[filepath.Dir(filepath.Join(l.Dir, filepath.FromSlash(tex.Path)))] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			l.logger.Printf("Texture watcher: cannot watch %s: %v\n", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if l.Reload(event.Name) {
				l.logger.Printf("Texture watcher: reloading %s\n", event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Printf("Texture watcher: %v\n", err)
		}
	}
}
