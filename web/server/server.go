package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-haunted-house/pkg/app"
	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/haunted"
	"github.com/df07/go-haunted-house/pkg/loaders"
	"github.com/df07/go-haunted-house/pkg/renderer"
)

//go:embed static
var staticFiles embed.FS

// Request limits shared by every endpoint
const (
	DefaultPreset = "minimal"
	DefaultWidth  = 640
	DefaultHeight = 480
	MinSize       = 16
	MaxWidth      = 1920
	MaxHeight     = 1080
	MaxTime       = 86400.0
	MaxSeed       = math.MaxInt32
	MinPixelRatio = 0.25
	MaxPixelRatio = 4.0 // Accepted from clients; the renderer clamps further
)

// Options configures the web server
type Options struct {
	Port          int
	TextureDir    string        // Root of the texture families for textured presets
	FontPath      string        // Title font; empty for the embedded face
	FrameInterval time.Duration // Pace of live sessions
	Workers       int           // Render workers per session (0 = one per CPU)
	JPEGQuality   int
	TextureWait   time.Duration // How long single-frame requests wait for textures
}

// DefaultOptions returns the options used by web/main.go
func DefaultOptions() Options {
	return Options{
		Port:          8080,
		TextureDir:    haunted.DefaultTextureDir,
		FrameInterval: app.DefaultFrameInterval,
		JPEGQuality:   80,
		TextureWait:   10 * time.Second,
	}
}

// Server serves the haunted house viewer: a static page, JSON endpoints and
// one live websocket session per browser tab
type Server struct {
	options  Options
	textures *loaders.TextureLoader // Shared by all sessions so files decode once
	upgrader websocket.Upgrader
}

// NewServer creates a new web server
func NewServer(options Options) *Server {
	if options.JPEGQuality <= 0 {
		options.JPEGQuality = 80
	}
	return &Server{
		options:  options,
		textures: loaders.NewTextureLoader(options.TextureDir, core.NewDefaultLogger()),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Textures returns the texture loader shared by every session
func (s *Server) Textures() *loaders.TextureLoader {
	return s.textures
}

// PreloadTextures requests every texture the textured preset uses, so they
// are decoded before the first session and can be watched for changes
func (s *Server) PreloadTextures() {
	haunted.NewTexturedMaterials(s.textures)
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("/", http.FileServer(http.FS(static)))

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.options.Port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down web server: %v", err)
		}
	}()

	log.Printf("Starting web server on http://localhost%s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SceneRequest holds the parameters shared by the scene endpoints
type SceneRequest struct {
	Preset     string
	Seed       int64
	Time       float64
	Width      int
	Height     int
	PixelRatio float64
}

// parseSceneRequest parses and validates the common query parameters
func parseSceneRequest(values url.Values) (*SceneRequest, error) {
	req := &SceneRequest{Preset: values.Get("preset"), PixelRatio: 1}
	if req.Preset == "" {
		req.Preset = DefaultPreset
	}
	if _, err := haunted.Preset(req.Preset); err != nil {
		return nil, err
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", DefaultWidth, MinSize, MaxWidth); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", DefaultHeight, MinSize, MaxHeight); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(values, "seed", 0, 0, MaxSeed)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)
	if req.Time, err = parseFloatParam(values, "t", 0, 0, MaxTime); err != nil {
		return nil, err
	}
	if req.PixelRatio, err = parseFloatParam(values, "dpr", 1, MinPixelRatio, MaxPixelRatio); err != nil {
		return nil, err
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(parsed) {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// buildApp creates the scene for req and wraps it in a new App
func (s *Server) buildApp(req *SceneRequest, clock app.Clock, logger core.Logger) (*app.App, error) {
	cfg, err := haunted.Preset(req.Preset)
	if err != nil {
		return nil, err
	}
	cfg.Seed = req.Seed
	if s.options.FontPath != "" {
		cfg.FontPath = s.options.FontPath
	}

	house, err := haunted.Build(cfg, haunted.BuildDeps{Textures: s.textures, Logger: logger})
	if err != nil {
		return nil, err
	}

	opts := app.Options{
		Width:      req.Width,
		Height:     req.Height,
		PixelRatio: req.PixelRatio,
		Renderer:   renderer.DefaultOptions(),
		Clock:      clock,
	}
	opts.Renderer.Workers = s.options.Workers
	return app.New(house, opts, logger), nil
}

// handleSceneConfig returns a preset's configuration, its debug sliders and
// the request limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	req, err := parseSceneRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := s.buildApp(req, app.NewManualClock(0), core.NopLogger{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer a.Close()

	cfg := a.House.Config
	response := map[string]interface{}{
		"preset":  req.Preset,
		"presets": haunted.PresetNames(),
		"config": map[string]interface{}{
			"textured":          cfg.Textured,
			"shadowsEnabled":    cfg.ShadowsEnabled,
			"titleText":         cfg.TitleText,
			"graveRadiusSpread": cfg.GraveRadiusSpread,
			"cameraZoomEnabled": cfg.CameraZoomEnabled,
			"debugPanelHidden":  cfg.DebugPanelHidden,
		},
		"panel": panelState(a),
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": MinSize, "max": MaxWidth},
			"height":     map[string]int{"min": MinSize, "max": MaxHeight},
			"time":       map[string]float64{"min": 0, "max": MaxTime},
			"seed":       map[string]int{"min": 0, "max": MaxSeed},
			"pixelRatio": map[string]float64{"min": MinPixelRatio, "max": MaxPixelRatio},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
