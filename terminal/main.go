package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-haunted-house/pkg/app"
	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/haunted"
	"github.com/df07/go-haunted-house/pkg/loaders"
	"github.com/df07/go-haunted-house/pkg/renderer"
	"github.com/df07/go-haunted-house/terminal/viewer"
)

// fileLogger writes log lines to a file so they do not tear the screen
type fileLogger struct {
	l *log.Logger
}

func (f fileLogger) Printf(format string, args ...interface{}) {
	f.l.Printf(format, args...)
}

func main() {
	preset := flag.String("preset", "minimal", "Scene preset: 'minimal' or 'enhanced'")
	configPath := flag.String("config", "", "TOML file overriding preset values")
	seed := flag.Int64("seed", 0, "Grave placement seed (0 = time based)")
	textures := flag.String("textures", "", "Texture directory (default from config)")
	fps := flag.Int("fps", 15, "Frames per second")
	workers := flag.Int("workers", 0, "Render workers (0 = one per CPU)")
	logPath := flag.String("log", "", "Write log output to this file")
	flag.Parse()

	if err := run(*preset, *configPath, *seed, *textures, *fps, *workers, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(preset, configPath string, seed int64, textureDir string, fps, workers int, logPath string) error {
	cfg, err := haunted.Preset(preset)
	if err != nil {
		return err
	}
	if configPath != "" {
		if cfg, err = haunted.LoadConfig(configPath, cfg); err != nil {
			return err
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if textureDir != "" {
		cfg.TextureDir = textureDir
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}

	var logger core.Logger = core.NopLogger{}
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		defer f.Close()
		logger = fileLogger{l: log.New(f, "", log.LstdFlags)}
	}

	var loader *loaders.TextureLoader
	if cfg.Textured {
		loader = loaders.NewTextureLoader(cfg.TextureDir, logger)
	}
	house, err := haunted.Build(cfg, haunted.BuildDeps{Textures: loader, Logger: logger})
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	width, height := viewer.FrameSize(screen)
	opts := app.Options{
		Width:      width,
		Height:     height,
		PixelRatio: 1,
		Renderer:   renderer.DefaultOptions(),
		Clock:      app.NewClock(),
	}
	opts.Renderer.Workers = workers
	a := app.New(house, opts, logger)
	defer a.Close()

	v := viewer.New(screen, a.Panel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Quitting from the keyboard ends the render loop too
		defer cancel()
		return v.Listen(gctx)
	})
	g.Go(func() error {
		return app.Run(gctx, a, v, time.Second/time.Duration(fps))
	})
	if loader != nil {
		g.Go(func() error {
			if err := loader.Watch(gctx); err != nil {
				logger.Printf("Texture hot reload disabled: %v\n", err)
			}
			return nil
		})
	}
	return g.Wait()
}
