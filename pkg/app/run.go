package app

import (
	"context"
	"fmt"
	"time"
)

// DefaultFrameInterval paces the loop at roughly 30 frames per second
const DefaultFrameInterval = time.Second / 30

// Host is where frames go and input comes from
type Host interface {
	// Events delivers input between frames; a nil channel means no input
	Events() <-chan Event
	// Present shows a frame; an error ends the loop
	Present(ctx context.Context, frame *Frame) error
}

// Run renders a frame on every tick until ctx ends. Input events are applied
// between frames. Render and input errors are logged and the loop goes on;
// a present error stops it.
func Run(ctx context.Context, a *App, host Host, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := host.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if err := a.Apply(e); err != nil {
				a.Logger.Printf("Ignoring input: %v\n", err)
			}
			continue
		case <-ticker.C:
		}

		frame, err := a.Frame(a.Clock.Elapsed())
		if err != nil {
			a.Logger.Printf("Render error: %v\n", err)
			continue
		}
		if err := host.Present(ctx, frame); err != nil {
			return fmt.Errorf("failed to present frame %d: %w", frame.Index, err)
		}
	}
}
