package renderer

import (
	"image"
	"math"

	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/geometry"
	"github.com/df07/go-haunted-house/pkg/lights"
	"github.com/df07/go-haunted-house/pkg/scene"
)

const (
	rayEpsilon   = 1e-4
	dielectricF0 = 0.04
)

// frame holds everything workers need to shade one image
type frame struct {
	img        *image.RGBA
	width      int
	height     int
	basis      scene.RayBasis
	near       float64
	far        float64
	world      *geometry.BVH
	ambient    core.Vec3
	lights     []scene.LightInstance
	background core.Vec3
	fog        *scene.Fog
	shadows    bool
	maxLayers  int
}

func (rt *Raytracer) newFrame(s *scene.Scene, camera *scene.PerspectiveCamera, width, height int) *frame {
	f := &frame{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		width:      width,
		height:     height,
		basis:      camera.Basis(),
		near:       camera.Near,
		far:        camera.Far,
		world:      rt.world,
		background: s.Background,
		fog:        s.Fog,
		shadows:    rt.ShadowsEnabled,
		maxLayers:  rt.options.MaxLayers,
	}
	if s.Background == (core.Vec3{}) {
		f.background = rt.ClearColor
	}

	for _, li := range s.Lights() {
		if li.Light.Type == lights.LightTypeAmbient {
			f.ambient = f.ambient.Add(li.Light.Radiance())
			continue
		}
		f.lights = append(f.lights, li)
	}
	return f
}

// renderTile shades every pixel of tile, top row first
func (f *frame) renderTile(tile *Tile) TileStats {
	var stats TileStats
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			s := (float64(x) + 0.5) / float64(f.width)
			t := 1 - (float64(y)+0.5)/float64(f.height)
			c := f.trace(f.basis.GetRay(s, t), 0, &stats)
			f.img.SetRGBA(x, y, vec3ToColor(c))
			stats.Pixels++
		}
	}
	return stats
}

// trace returns the color seen along a camera ray. Transparent surfaces are
// blended over whatever lies behind them, up to maxLayers deep.
func (f *frame) trace(ray core.Ray, layer int, stats *TileStats) core.Vec3 {
	stats.PrimaryRays++

	var rec geometry.HitRecord
	tMin := rayEpsilon
	if layer == 0 {
		// Clip against the camera near plane along the view axis
		tMin = f.near / max(ray.Direction.Dot(f.basis.Forward), 1e-6)
	}
	if !f.world.Hit(ray, tMin, math.Inf(1), &rec) {
		return f.background
	}

	depth := f.basis.ViewDepth(rec.Point)
	if depth > f.far {
		return f.background
	}
	stats.Hits++

	color := f.shade(ray, &rec, stats)
	color = f.fog.Apply(color, depth)

	m := rec.Surface.Material
	if m == nil {
		return color
	}
	alpha := m.Alpha(rec.UV)
	if alpha >= 1 {
		return color
	}

	var behind core.Vec3
	if layer+1 < f.maxLayers {
		behind = f.trace(core.NewRay(rec.Point.Add(ray.Direction.Multiply(rayEpsilon)), ray.Direction), layer+1, stats)
	} else {
		behind = f.background
	}
	return color.Multiply(alpha).Add(behind.Multiply(1 - alpha))
}

// shade computes direct lighting at a hit
func (f *frame) shade(ray core.Ray, rec *geometry.HitRecord, stats *TileStats) core.Vec3 {
	m := rec.Surface.Material
	if m == nil {
		return core.Vec3{}
	}

	base := m.BaseColor(rec.UV)
	metalness := m.MetalnessAt(rec.UV)
	roughness := max(0.04, m.RoughnessAt(rec.UV))
	diffuse := base.Multiply(1 - metalness)
	specularColor := core.Splat(dielectricF0).Lerp(base, metalness)

	normal := perturbNormal(rec, m.TangentNormal)
	view := ray.Direction.Negate()

	// Indirect light: ambient attenuated by the occlusion map
	color := diffuse.MultiplyVec(f.ambient).Multiply(m.Occlusion(rec.UV2))

	for _, li := range f.lights {
		sample, ok := li.Light.SampleAt(li.Position, rec.Point)
		if !ok {
			continue
		}
		nDotL := normal.Dot(sample.Direction)
		if nDotL <= 0 {
			continue
		}

		if f.shadows && li.Light.CastShadow && rec.Surface.ReceiveShadow {
			stats.ShadowRays++
			if f.inShadow(rec, li, sample) {
				continue
			}
		}

		irradiance := sample.Radiance.Multiply(nDotL)
		color = color.Add(diffuse.MultiplyVec(irradiance))
		color = color.Add(specularColor.MultiplyVec(irradiance).Multiply(specular(normal, view, sample.Direction, roughness)))
	}
	return color
}

// inShadow reports whether a shadow-casting surface lies between the hit and
// the light, within the light's shadow range
func (f *frame) inShadow(rec *geometry.HitRecord, li scene.LightInstance, sample lights.Sample) bool {
	shadow := li.Light.Shadow

	// Distance from the light to the hit along the light's axis
	lightDistance := sample.Distance
	if math.IsInf(lightDistance, 1) {
		lightDistance = li.Position.Subtract(rec.Point).Dot(sample.Direction)
	}
	if shadow.Far > 0 && lightDistance > shadow.Far {
		return false
	}

	origin := rec.Point.Add(rec.GeometricNormal.Multiply(shadowOffset(shadow)))
	tMax := lightDistance - shadow.Near
	if tMax <= rayEpsilon {
		return false
	}

	return f.world.Occluded(core.NewRay(origin, sample.Direction), rayEpsilon, tMax, func(h *geometry.HitRecord) bool {
		return h.Surface.CastShadow
	})
}

// shadowOffset grows with the shadow map texel size so coarse maps do not self-shadow
func shadowOffset(shadow lights.ShadowConfig) float64 {
	offset := shadow.Bias
	if shadow.MapSize > 0 {
		offset += 2.0 / float64(shadow.MapSize)
	}
	return max(offset, rayEpsilon)
}

// specular is a normalized Blinn-Phong lobe whose sharpness follows roughness
func specular(n, v, l core.Vec3, roughness float64) float64 {
	h := v.Add(l).Normalize()
	nDotH := max(0, n.Dot(h))
	alpha := roughness * roughness
	shininess := max(1, 2/(alpha*alpha)-2)
	return (shininess + 2) / 8 * math.Pow(nDotH, shininess) * 0.25
}

// perturbNormal applies a tangent-space normal map sample to the shading normal
func perturbNormal(rec *geometry.HitRecord, sample func(core.Vec2) (core.Vec3, bool)) core.Vec3 {
	n := rec.Normal
	tn, ok := sample(rec.UV)
	if !ok {
		return n
	}

	// Gram-Schmidt the triangle tangent against the interpolated normal
	t := rec.Tangent.Subtract(n.Multiply(n.Dot(rec.Tangent))).Normalize()
	if t.LengthSquared() == 0 {
		return n
	}
	b := n.Cross(t)
	if b.Dot(rec.Bitangent) < 0 {
		b = b.Negate()
	}
	if !rec.FrontFace {
		tn.X, tn.Y = -tn.X, -tn.Y
	}

	perturbed := t.Multiply(tn.X).Add(b.Multiply(tn.Y)).Add(n.Multiply(tn.Z)).Normalize()
	if perturbed.LengthSquared() == 0 {
		return n
	}
	return perturbed
}
