package haunted

import (
	"path"

	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/loaders"
	"github.com/df07/go-haunted-house/pkg/material"
)

// Flat colors of the minimal variant
const (
	WallsColor = "#ac8e82"
	RoofColor  = "#b35f45"
	DoorColor  = "#aa7b7b"
	BushColor  = "#89c854"
	GraveColor = "#b2b6b1"
	FloorColor = "#a9c388"
	TitleColor = "#ffd9a0"
)

// Texture channel file names within a family directory
const (
	ChannelColor            = "color.jpg"
	ChannelAlpha            = "alpha.jpg"
	ChannelAmbientOcclusion = "ambientOcclusion.jpg"
	ChannelHeight           = "height.jpg"
	ChannelNormal           = "normal.jpg"
	ChannelMetalness        = "metalness.jpg"
	ChannelRoughness        = "roughness.jpg"
)

// GrassRepeat is how many times the grass textures tile across the floor
const GrassRepeat = 8

// Materials is the set of surfaces used by the scene
type Materials struct {
	Walls   *material.Standard
	Roof    *material.Standard
	Chimney *material.Standard
	Door    *material.Standard
	Bush    *material.Standard
	Grave   *material.Standard
	Floor   *material.Standard
	Title   *material.Standard
}

// All returns every material, skipping none
func (m Materials) All() []*material.Standard {
	return []*material.Standard{m.Walls, m.Roof, m.Chimney, m.Door, m.Bush, m.Grave, m.Floor, m.Title}
}

// NewFlatMaterials creates the untextured material set
func NewFlatMaterials() Materials {
	return Materials{
		Walls:   material.NewStandard("walls", core.MustHexColor(WallsColor)),
		Roof:    material.NewStandard("roof", core.MustHexColor(RoofColor)),
		Chimney: material.NewStandard("chimney", core.MustHexColor(WallsColor)),
		Door:    material.NewStandard("door", core.MustHexColor(DoorColor)),
		Bush:    material.NewStandard("bush", core.MustHexColor(BushColor)),
		Grave:   material.NewStandard("grave", core.MustHexColor(GraveColor)),
		Floor:   material.NewStandard("floor", core.MustHexColor(FloorColor)),
		Title:   material.NewStandard("title", core.MustHexColor(TitleColor)),
	}
}

// NewTexturedMaterials creates the textured set, requesting every channel
// from loader. Textures fill in as they finish loading.
func NewTexturedMaterials(loader *loaders.TextureLoader) Materials {
	white := core.Splat(1)
	load := func(family, channel string, opts ...loaders.TextureOption) *material.Texture {
		return loader.Load(path.Join(family, channel), opts...)
	}

	door := material.NewStandard("door", white)
	door.Map = load("door", ChannelColor)
	door.Transparent = true
	door.AlphaMap = load("door", ChannelAlpha)
	door.AOMap = load("door", ChannelAmbientOcclusion)
	door.DisplacementMap = load("door", ChannelHeight)
	door.DisplacementScale = 0.1
	door.NormalMap = load("door", ChannelNormal)
	door.MetalnessMap = load("door", ChannelMetalness)
	door.RoughnessMap = load("door", ChannelRoughness)

	// Walls and chimney share the brick textures
	bricks := surfaceSet("walls", white, "bricks", load)
	chimney := *bricks
	chimney.Name = "chimney"

	// Textures are shared between builds, so the repeat is fixed on first load
	grass := surfaceSet("floor", white, "grass", load, loaders.WithRepeat(GrassRepeat, GrassRepeat))

	title := surfaceSet("title", core.MustHexColor(TitleColor), "stone", load)

	return Materials{
		Walls:   bricks,
		Roof:    material.NewStandard("roof", core.MustHexColor(RoofColor)),
		Chimney: &chimney,
		Door:    door,
		Bush:    surfaceSet("bush", white, "bush", load),
		Grave:   surfaceSet("grave", white, "stone", load),
		Floor:   grass,
		Title:   title,
	}
}

// surfaceSet creates a material with the color, ambient occlusion, normal and
// roughness channels of a texture family
func surfaceSet(name string, color core.Vec3, family string,
	load func(string, string, ...loaders.TextureOption) *material.Texture, opts ...loaders.TextureOption) *material.Standard {
	m := material.NewStandard(name, color)
	m.Map = load(family, ChannelColor, opts...)
	m.AOMap = load(family, ChannelAmbientOcclusion, opts...)
	m.NormalMap = load(family, ChannelNormal, opts...)
	m.RoughnessMap = load(family, ChannelRoughness, opts...)
	return m
}
