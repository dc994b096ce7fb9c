// Package viewer shows the haunted house in a terminal. Each character cell
// draws two vertically stacked pixels with the upper half block glyph.
package viewer

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/df07/go-haunted-house/pkg/app"
	"github.com/df07/go-haunted-house/pkg/debug"
)

const (
	halfBlock     = '▀'
	panelWidth    = 30
	keyRotateStep = 12.0  // Pixels of pointer drag per arrow key press
	keyZoomDelta  = 100.0 // Wheel delta per +/- press
	nudgeSteps    = 50.0  // Bracket presses to sweep a slider's range
)

var (
	panelStyle    = tcell.StyleDefault.Background(tcell.NewRGBColor(20, 20, 30)).Foreground(tcell.NewRGBColor(220, 220, 220))
	selectedStyle = panelStyle.Foreground(tcell.NewRGBColor(255, 217, 160)).Bold(true)
)

// Viewer is an app.Host drawing frames to a tcell screen and translating
// keyboard and mouse input into app events
type Viewer struct {
	screen tcell.Screen
	panel  *debug.Panel
	events chan app.Event

	mu       sync.Mutex
	selected int // Index of the slider [ and ] adjust

	// Mouse drag state, only touched by Listen
	dragging bool
	dragBtn  int
	lastX    int
	lastY    int
}

// New creates a viewer on an initialized screen. panel may be nil.
func New(screen tcell.Screen, panel *debug.Panel) *Viewer {
	return &Viewer{
		screen: screen,
		panel:  panel,
		events: make(chan app.Event, 32),
	}
}

// FrameSize returns the frame size in pixels that fills the screen
func FrameSize(screen tcell.Screen) (int, int) {
	cols, rows := screen.Size()
	return cols, rows * 2
}

// Events implements app.Host
func (v *Viewer) Events() <-chan app.Event {
	return v.events
}

// Present implements app.Host
func (v *Viewer) Present(ctx context.Context, frame *app.Frame) error {
	cols, rows := v.screen.Size()
	img := frame.Image
	bounds := img.Bounds()

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			px, top, bottom := bounds.Min.X+x, bounds.Min.Y+2*y, bounds.Min.Y+2*y+1
			if px >= bounds.Max.X || top >= bounds.Max.Y {
				v.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
				continue
			}
			style := tcell.StyleDefault.Foreground(rgb(img.RGBAAt(px, top)))
			if bottom < bounds.Max.Y {
				style = style.Background(rgb(img.RGBAAt(px, bottom)))
			}
			v.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}

	v.drawPanel(cols)
	v.screen.Show()
	return nil
}

func (v *Viewer) drawPanel(cols int) {
	if v.panel == nil || v.panel.Hidden() {
		return
	}
	sliders := v.panel.Sliders()
	left := max(0, cols-panelWidth)

	v.mu.Lock()
	selected := v.selected
	v.mu.Unlock()

	drawText(v.screen, left, 0, panelWidth, " "+v.panel.Title, panelStyle.Bold(true))
	for i, s := range sliders {
		style, marker := panelStyle, " "
		if i == selected {
			style, marker = selectedStyle, ">"
		}
		drawText(v.screen, left, i+1, panelWidth, fmt.Sprintf("%s%-18s %8.3f", marker, s.Label, s.Value), style)
	}
}

// drawText writes s at (x, y) padded or cut to width cells
func drawText(screen tcell.Screen, x, y, width int, s string, style tcell.Style) {
	runes := []rune(s)
	for i := 0; i < width; i++ {
		r := ' '
		if i < len(runes) {
			r = runes[i]
		}
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func rgb(c interface{ RGBA() (r, g, b, a uint32) }) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

// Listen translates screen events until q, Esc or Ctrl+C is pressed, the
// screen is finalized, or ctx ends
func (v *Viewer) Listen(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			v.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-stop:
		}
	}()

	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if v.handleKey(ctx, ev) {
				return nil
			}
		case *tcell.EventMouse:
			v.handleMouse(ctx, ev)
		case *tcell.EventResize:
			v.screen.Sync()
			width, height := FrameSize(v.screen)
			v.send(ctx, app.Event{Type: app.EventResize, Width: width, Height: height, PixelRatio: 1})
		}
	}
}

// handleKey reports whether the viewer should quit
func (v *Viewer) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		v.send(ctx, app.Event{Type: app.EventPointer, Button: app.ButtonRotate, DX: -keyRotateStep})
	case tcell.KeyRight:
		v.send(ctx, app.Event{Type: app.EventPointer, Button: app.ButtonRotate, DX: keyRotateStep})
	case tcell.KeyUp:
		v.send(ctx, app.Event{Type: app.EventPointer, Button: app.ButtonRotate, DY: -keyRotateStep})
	case tcell.KeyDown:
		v.send(ctx, app.Event{Type: app.EventPointer, Button: app.ButtonRotate, DY: keyRotateStep})
	case tcell.KeyTab:
		v.selectNext()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case '+', '=':
			v.send(ctx, app.Event{Type: app.EventWheel, DeltaY: -keyZoomDelta})
		case '-':
			v.send(ctx, app.Event{Type: app.EventWheel, DeltaY: keyZoomDelta})
		case 'g':
			v.send(ctx, app.Event{Type: app.EventTogglePanel})
		case '[':
			v.nudge(ctx, -1)
		case ']':
			v.nudge(ctx, 1)
		}
	}
	return false
}

func (v *Viewer) selectNext() {
	if v.panel == nil {
		return
	}
	n := len(v.panel.Sliders())
	if n == 0 {
		return
	}
	v.mu.Lock()
	v.selected = (v.selected + 1) % n
	v.mu.Unlock()
}

// nudge moves the selected slider by a fraction of its range
func (v *Viewer) nudge(ctx context.Context, direction float64) {
	if v.panel == nil {
		return
	}
	sliders := v.panel.Sliders()
	v.mu.Lock()
	selected := v.selected
	v.mu.Unlock()
	if selected >= len(sliders) {
		return
	}
	s := sliders[selected]
	value := s.Value + direction*(s.Max-s.Min)/nudgeSteps
	v.send(ctx, app.Event{Type: app.EventSlider, Name: s.Name, Value: value})
}

// handleMouse turns drags into pointer events and the wheel into zoom.
// Rows are two pixels tall, so vertical motion is doubled.
func (v *Viewer) handleMouse(ctx context.Context, ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		v.send(ctx, app.Event{Type: app.EventWheel, DeltaY: -keyZoomDelta})
		return
	case buttons&tcell.WheelDown != 0:
		v.send(ctx, app.Event{Type: app.EventWheel, DeltaY: keyZoomDelta})
		return
	}

	button := -1
	switch {
	case buttons&tcell.Button1 != 0:
		button = app.ButtonRotate
	case buttons&tcell.Button2 != 0:
		button = app.ButtonPan
	}
	if button < 0 {
		v.dragging = false
		return
	}

	if v.dragging && v.dragBtn == button {
		dx, dy := float64(x-v.lastX), float64(2*(y-v.lastY))
		if dx != 0 || dy != 0 {
			v.send(ctx, app.Event{Type: app.EventPointer, Button: button, DX: dx, DY: dy})
		}
	}
	v.dragging, v.dragBtn, v.lastX, v.lastY = true, button, x, y
}

func (v *Viewer) send(ctx context.Context, e app.Event) {
	select {
	case v.events <- e:
	case <-ctx.Done():
	}
}
