package haunted

import "github.com/df07/go-haunted-house/pkg/debug"

// Debug slider names
const (
	SliderAmbientIntensity = "ambientIntensity"
	SliderMoonIntensity    = "moonIntensity"
	SliderMoonX            = "moonX"
	SliderMoonY            = "moonY"
	SliderMoonZ            = "moonZ"
)

const (
	intensityMax = 1.0
	moonRange    = 5.0
	sliderStep   = 0.001
)

// NewDebugPanel binds the ambient and moon light parameters to sliders.
// The panel starts hidden when the config asks for it.
func (h *House) NewDebugPanel() *debug.Panel {
	p := debug.NewPanel("Lights")
	p.AddFloat(SliderAmbientIntensity, "Ambient intensity", &h.Ambient.Light.Intensity, 0, intensityMax, sliderStep)
	p.AddFloat(SliderMoonIntensity, "Moon intensity", &h.Moon.Light.Intensity, 0, intensityMax, sliderStep)
	p.AddFloat(SliderMoonX, "Moon x", &h.Moon.Position.X, -moonRange, moonRange, sliderStep)
	p.AddFloat(SliderMoonY, "Moon y", &h.Moon.Position.Y, -moonRange, moonRange, sliderStep)
	p.AddFloat(SliderMoonZ, "Moon z", &h.Moon.Position.Z, -moonRange, moonRange, sliderStep)
	p.SetHidden(h.Config.DebugPanelHidden)
	return p
}
