package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-haunted-house/pkg/app"
	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/haunted"
	"github.com/df07/go-haunted-house/pkg/renderer"
)

// renderOptions collects the command line flags
type renderOptions struct {
	preset       string
	configPath   string
	start        float64
	frames       int
	fps          float64
	width        int
	height       int
	pixelRatio   float64
	seed         int64
	textureDir   string
	waitTextures time.Duration
	outputRoot   string
}

func main() {
	var opts renderOptions

	// Parse command line flags
	flag.StringVar(&opts.preset, "preset", "minimal", "Scene preset: 'minimal' or 'enhanced'")
	flag.StringVar(&opts.configPath, "config", "", "TOML file overriding preset values")
	flag.Float64Var(&opts.start, "time", 0, "Scene time in seconds of the first frame")
	flag.IntVar(&opts.frames, "frames", 1, "Number of frames to render")
	flag.Float64Var(&opts.fps, "fps", 30, "Frames per second between successive frames")
	flag.IntVar(&opts.width, "width", 800, "Image width in logical pixels")
	flag.IntVar(&opts.height, "height", 600, "Image height in logical pixels")
	flag.Float64Var(&opts.pixelRatio, "dpr", 1, "Device pixel ratio (capped at 2)")
	flag.Int64Var(&opts.seed, "seed", 0, "Grave placement seed (0 = time based)")
	flag.StringVar(&opts.textureDir, "textures", "", "Texture directory (default from config)")
	flag.DurationVar(&opts.waitTextures, "wait-textures", 30*time.Second, "How long to wait for textures before rendering")
	flag.StringVar(&opts.outputRoot, "output", "output", "Root output directory")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Haunted House Renderer")
		fmt.Println("Usage: haunted-house [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available presets:")
		fmt.Println("  minimal  - Flat colors, no shadows, zoomable camera")
		fmt.Println("  enhanced - Textures, shadows, title text, hidden debug panel")
		fmt.Println()
		fmt.Println("Output will be saved to output/<preset>/frame_<timestamp>_<n>.png")
		return
	}

	fmt.Println("Starting Haunted House Renderer...")
	files, err := render(opts, core.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		fmt.Printf("Render saved as %s\n", f)
	}
}

// loadConfig resolves the preset, config overlay and flag overrides
func loadConfig(opts renderOptions) (haunted.Config, error) {
	cfg, err := haunted.Preset(opts.preset)
	if err != nil {
		return haunted.Config{}, err
	}
	if opts.configPath != "" {
		if cfg, err = haunted.LoadConfig(opts.configPath, cfg); err != nil {
			return haunted.Config{}, err
		}
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	if opts.textureDir != "" {
		cfg.TextureDir = opts.textureDir
	}
	return cfg, nil
}

// frameTimes returns the scene time of each frame
func frameTimes(start float64, frames int, fps float64) []float64 {
	times := make([]float64, frames)
	for i := range times {
		times[i] = start + float64(i)/fps
	}
	return times
}

// frameFilename names frame n of a run
func frameFilename(outputDir, timestamp string, n int) string {
	return filepath.Join(outputDir, fmt.Sprintf("frame_%s_%03d.png", timestamp, n))
}

// render builds the scene and writes one PNG per frame, returning the file names
func render(opts renderOptions, logger core.Logger) ([]string, error) {
	if opts.frames < 1 {
		return nil, fmt.Errorf("frames must be at least 1, got %d", opts.frames)
	}
	if opts.fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %g", opts.fps)
	}
	if opts.width <= 0 || opts.height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", opts.width, opts.height)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	house, err := haunted.Build(cfg, haunted.BuildDeps{Logger: logger})
	if err != nil {
		return nil, err
	}
	if house.Textures != nil && opts.waitTextures > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), opts.waitTextures)
		err := house.Textures.WaitContext(ctx)
		cancel()
		if err != nil {
			logger.Printf("Warning: rendering with %d textures still loading\n", house.Textures.Pending())
		}
	}

	clock := app.NewManualClock(opts.start)
	a := app.New(house, app.Options{
		Width:      opts.width,
		Height:     opts.height,
		PixelRatio: opts.pixelRatio,
		Renderer:   renderer.DefaultOptions(),
		Clock:      clock,
	}, logger)
	defer a.Close()

	// Create output directory for this preset
	outputDir := filepath.Join(opts.outputRoot, cfg.Name)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	var files []string
	for i, t := range frameTimes(opts.start, opts.frames, opts.fps) {
		clock.Set(t)
		frame, err := a.Frame(t)
		if err != nil {
			return files, err
		}
		logger.Printf("Frame %d (t=%.3fs) rendered in %v\n", i, t, frame.Stats.Duration)

		filename := frameFilename(outputDir, timestamp, i)
		if err := writePNG(filename, frame); err != nil {
			return files, err
		}
		files = append(files, filename)
	}
	return files, nil
}

func writePNG(filename string, frame *app.Frame) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, frame.Image); err != nil {
		return fmt.Errorf("failed to save PNG: %w", err)
	}
	return nil
}
