package app

import (
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned for events with an unrecognised type
var ErrUnknownEvent = errors.New("unknown event")

// EventType names a kind of viewer input
type EventType string

const (
	EventPointer     EventType = "pointer"     // Drag by (DX, DY) pixels
	EventWheel       EventType = "wheel"       // Scroll by DeltaY
	EventResize      EventType = "resize"      // New Width, Height, PixelRatio
	EventSlider      EventType = "slider"      // Set slider Name to Value
	EventTogglePanel EventType = "togglePanel" // Show or hide the debug panel
)

// Pointer buttons
const (
	ButtonRotate = 0
	ButtonPan    = 2
)

// Event is a unit of viewer input. The JSON form is what the browser sends.
type Event struct {
	Type       EventType `json:"type"`
	Button     int       `json:"button,omitempty"`
	DX         float64   `json:"dx,omitempty"`
	DY         float64   `json:"dy,omitempty"`
	DeltaY     float64   `json:"deltaY,omitempty"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
	PixelRatio float64   `json:"dpr,omitempty"`
	Name       string    `json:"name,omitempty"`
	Value      float64   `json:"value,omitempty"`
}

// Apply feeds one input event into the App's state
func (a *App) Apply(e Event) error {
	switch e.Type {
	case EventPointer:
		height := a.Renderer.Viewport().Height
		if e.Button == ButtonPan {
			a.Controls.Pan(e.DX, e.DY, height)
		} else {
			a.Controls.Rotate(e.DX, e.DY, height)
		}
	case EventWheel:
		// Controls ignore zoom when the config disables it
		a.Controls.Zoom(e.DeltaY)
	case EventResize:
		if e.Width <= 0 || e.Height <= 0 {
			return fmt.Errorf("invalid resize %dx%d", e.Width, e.Height)
		}
		a.Resize(e.Width, e.Height, e.PixelRatio)
	case EventSlider:
		if _, err := a.Panel.Set(e.Name, e.Value); err != nil {
			return err
		}
	case EventTogglePanel:
		a.Panel.Toggle()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}
	return nil
}
