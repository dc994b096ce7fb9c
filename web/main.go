package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-haunted-house/web/server"
)

func main() {
	options := server.DefaultOptions()

	// Parse command line flags
	flag.IntVar(&options.Port, "port", options.Port, "Port to serve on")
	flag.StringVar(&options.TextureDir, "textures", options.TextureDir, "Directory holding the texture families")
	flag.StringVar(&options.FontPath, "font", "", "TrueType/OpenType font for the title (default: embedded Go Bold)")
	flag.IntVar(&options.Workers, "workers", 0, "Render workers per session (0 = one per CPU)")
	flag.IntVar(&options.JPEGQuality, "quality", options.JPEGQuality, "JPEG quality of streamed frames")
	watch := flag.Bool("watch", true, "Reload textures when their files change")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webServer := server.NewServer(options)
	webServer.PreloadTextures()

	log.Printf("Haunted House Web Server")
	log.Printf("Visit http://localhost:%d (add ?preset=enhanced for the textured scene)", options.Port)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webServer.Start(gctx)
	})
	if *watch {
		g.Go(func() error {
			// A missing texture directory only disables hot reload
			if err := webServer.Textures().Watch(gctx); err != nil {
				log.Printf("Texture hot reload disabled: %v", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("Error running server: %v", err)
		os.Exit(1)
	}
}
