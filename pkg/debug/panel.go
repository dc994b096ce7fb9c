// Package debug provides a panel of bounded numeric sliders bound to live scene values.
package debug

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrUnknownSlider is returned when a slider name is not registered on the panel
var ErrUnknownSlider = errors.New("unknown slider")

// Slider binds a numeric value to a bounded range
type Slider struct {
	Name  string
	Label string
	Min   float64
	Max   float64
	Step  float64

	get func() float64
	set func(float64)
}

// Constrain clamps v to [Min, Max] and rounds it to a multiple of Step
func (s *Slider) Constrain(v float64) float64 {
	if math.IsNaN(v) {
		return s.get()
	}
	v = max(s.Min, min(s.Max, v))
	if s.Step > 0 {
		v = math.Round(v/s.Step) * s.Step
		v = max(s.Min, min(s.Max, v))
	}
	return v
}

// SliderInfo is a serializable snapshot of a slider
type SliderInfo struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Value float64 `json:"value"`
}

// Panel is an ordered set of sliders that can be hidden as a whole
type Panel struct {
	Title string

	mu      sync.Mutex
	hidden  bool
	sliders []*Slider
	byName  map[string]*Slider
}

// NewPanel creates an empty, visible panel
func NewPanel(title string) *Panel {
	return &Panel{Title: title, byName: make(map[string]*Slider)}
}

// Add registers a slider reading and writing through get and set.
// Registering a name twice replaces the earlier binding.
func (p *Panel) Add(name, label string, minVal, maxVal, step float64, get func() float64, set func(float64)) *Slider {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := &Slider{Name: name, Label: label, Min: minVal, Max: maxVal, Step: step, get: get, set: set}
	if old, ok := p.byName[name]; ok {
		for i, existing := range p.sliders {
			if existing == old {
				p.sliders[i] = s
			}
		}
	} else {
		p.sliders = append(p.sliders, s)
	}
	p.byName[name] = s
	return s
}

// AddFloat registers a slider bound directly to a float field
func (p *Panel) AddFloat(name, label string, value *float64, minVal, maxVal, step float64) *Slider {
	return p.Add(name, label, minVal, maxVal, step,
		func() float64 { return *value },
		func(v float64) { *value = v })
}

// Set constrains v, writes it through the binding and returns the stored value.
// Bindings are only read and written with the panel lock held.
func (p *Panel) Set(name string, v float64) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSlider, name)
	}
	v = s.Constrain(v)
	s.set(v)
	return v, nil
}

// Nudge moves a slider by a whole number of steps
func (p *Panel) Nudge(name string, steps int) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSlider, name)
	}
	v := s.Constrain(s.get() + float64(steps)*s.Step)
	s.set(v)
	return v, nil
}

// Get reads a slider's current value
func (p *Panel) Get(name string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSlider, name)
	}
	return s.get(), nil
}

// Sliders returns a snapshot of every slider in registration order
func (p *Panel) Sliders() []SliderInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SliderInfo, len(p.sliders))
	for i, s := range p.sliders {
		out[i] = SliderInfo{Name: s.Name, Label: s.Label, Min: s.Min, Max: s.Max, Step: s.Step, Value: s.get()}
	}
	return out
}

// Names returns slider names in registration order
func (p *Panel) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.sliders))
	for i, s := range p.sliders {
		out[i] = s.Name
	}
	return out
}

// Hidden reports whether the panel is hidden
func (p *Panel) Hidden() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hidden
}

// SetHidden shows or hides the panel
func (p *Panel) SetHidden(hidden bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden = hidden
}

// Toggle flips visibility and returns the new hidden state
func (p *Panel) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden = !p.hidden
	return p.hidden
}
