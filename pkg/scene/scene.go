package scene

import (
	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/lights"
)

// Fog blends distant surfaces toward a color
type Fog struct {
	Color core.Vec3
	Near  float64 // Depth where fog starts
	Far   float64 // Depth where fog is total
}

// NewFog creates linear fog
func NewFog(color core.Vec3, near, far float64) *Fog {
	return &Fog{Color: color, Near: near, Far: far}
}

// Factor returns the fog amount in [0,1] at the given view depth
func (f *Fog) Factor(depth float64) float64 {
	if f == nil {
		return 0
	}
	if f.Far <= f.Near {
		if depth >= f.Far {
			return 1
		}
		return 0
	}
	x := (depth - f.Near) / (f.Far - f.Near)
	x = max(0, min(1, x))
	return x * x * (3 - 2*x)
}

// Apply blends color toward the fog color at the given view depth
func (f *Fog) Apply(color core.Vec3, depth float64) core.Vec3 {
	if f == nil {
		return color
	}
	return color.Lerp(f.Color, f.Factor(depth))
}

// Scene is the root of a renderable graph plus global appearance
type Scene struct {
	Root       *Node
	Background core.Vec3 // Color of rays that hit nothing
	Fog        *Fog      // Optional
}

// NewScene creates an empty scene with a black background
func NewScene() *Scene {
	return &Scene{Root: NewGroup("scene")}
}

// Add attaches nodes to the scene root
func (s *Scene) Add(nodes ...*Node) {
	s.Root.Add(nodes...)
}

// LightInstance is a light resolved to world space
type LightInstance struct {
	Name     string
	Light    *lights.Light
	Position core.Vec3
}

// Lights returns every visible light with its world position
func (s *Scene) Lights() []LightInstance {
	var out []LightInstance
	s.Root.TraverseVisible(func(n *Node) {
		if n.Light != nil {
			out = append(out, LightInstance{Name: n.Name, Light: n.Light, Position: n.WorldPosition()})
		}
	})
	return out
}

// Meshes returns every visible mesh node
func (s *Scene) Meshes() []*Node {
	var out []*Node
	s.Root.TraverseVisible(func(n *Node) {
		if n.IsMesh() {
			out = append(out, n)
		}
	})
	return out
}
