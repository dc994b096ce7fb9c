package haunted

import (
	"fmt"
	"math"

	"github.com/df07/go-haunted-house/pkg/core"
	"github.com/df07/go-haunted-house/pkg/geometry"
	"github.com/df07/go-haunted-house/pkg/lights"
	"github.com/df07/go-haunted-house/pkg/loaders"
	"github.com/df07/go-haunted-house/pkg/material"
	"github.com/df07/go-haunted-house/pkg/scene"
)

// House dimensions
const (
	WallWidth  = 4.0
	WallHeight = 2.5
	WallDepth  = 4.0

	RoofRadius   = 3.5
	RoofHeight   = 1.0
	RoofSegments = 4

	ChimneyWidth  = 0.5
	ChimneyHeight = 1.5
	ChimneyY      = 3.0
	ChimneyZ      = -1.5

	DoorSize     = 2.2
	DoorSegments = 100
	DoorY        = 1.0
	DoorOffset   = 0.01 // Keeps the door in front of the wall face

	BushSegments = 16

	GraveWidth     = 0.6
	GraveBoxHeight = 0.8
	GraveDepth     = 0.2

	FloorSize = 20.0
)

// Title text placement
const (
	TitleY        = 4.5
	TitleSize     = 0.5
	TitleDepth    = 0.15
	TitleFontSize = 48
)

// Lights, fog and camera
const (
	MoonColor         = "#b9d5ff"
	AmbientIntensity  = 0.12
	MoonIntensity     = 0.12
	DoorLightColor    = "#ff7d46"
	DoorLightDistance = 7.0
	FogColor          = "#262837"
	FogNear           = 1.0
	FogFar            = 15.0
	CameraFov         = 75.0
	CameraNear        = 0.1
	CameraFar         = 100.0

	ShadowMapSize = 256
	ShadowFar     = 7.0
	MoonShadowFar = 15.0
)

var (
	MoonPosition      = core.NewVec3(4, 5, -2)
	DoorLightPosition = core.NewVec3(0, 2.2, 2.7)
	CameraPosition    = core.NewVec3(4, 2, 5)
)

// bush is a hand-placed bush: a unit sphere scaled uniformly
type bush struct {
	scale    float64
	position core.Vec3
}

var bushes = []bush{
	{0.5, core.NewVec3(0.8, 0.2, 2.2)},
	{0.25, core.NewVec3(1.4, 0.1, 2.1)},
	{0.4, core.NewVec3(-0.8, 0.1, 2.2)},
	{0.15, core.NewVec3(-1, 0.05, 2.6)},
}

// BuildDeps are the collaborators Build needs. Nil fields get defaults: a
// random source seeded from Config.Seed, a texture loader rooted at
// Config.TextureDir and a logger that discards output.
type BuildDeps struct {
	Random   core.Random
	Textures *loaders.TextureLoader
	Logger   core.Logger
}

// House is the composed scene with direct handles to the nodes that change
// after construction
type House struct {
	Config    Config
	Scene     *scene.Scene
	Camera    *scene.PerspectiveCamera
	Materials Materials
	Textures  *loaders.TextureLoader // nil for the flat variant

	Group   *scene.Node // Walls, roof, chimney, door, bushes and door light
	Walls   *scene.Node
	Roof    *scene.Node
	Chimney *scene.Node
	Door    *scene.Node
	Floor   *scene.Node
	Title   *scene.Node // nil without title text
	Bushes  []*scene.Node

	GraveGroup      *scene.Node
	Graves          []*scene.Node
	GravePlacements []GravePlacement

	Ambient   *scene.Node
	Moon      *scene.Node
	DoorLight *scene.Node
	Ghosts    [3]*scene.Node
}

// Build composes the scene described by cfg
func Build(cfg Config, deps BuildDeps) (*House, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := deps.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}
	random := deps.Random
	if random == nil {
		random = core.NewRandom(cfg.Seed)
	}

	h := &House{Config: cfg}
	if cfg.Textured {
		h.Textures = deps.Textures
		if h.Textures == nil {
			h.Textures = loaders.NewTextureLoader(cfg.TextureDir, logger)
		}
		h.Materials = NewTexturedMaterials(h.Textures)
	} else {
		h.Materials = NewFlatMaterials()
	}

	h.Scene = scene.NewScene()
	fogColor := core.MustHexColor(FogColor)
	h.Scene.Background = fogColor
	h.Scene.Fog = scene.NewFog(fogColor, FogNear, FogFar)

	h.buildHouse()
	h.buildGraves(random)
	h.buildFloor()
	if cfg.TitleText != "" {
		h.buildTitle(logger)
	}
	h.buildLights()

	h.Camera = scene.NewPerspectiveCamera(CameraFov, 1, CameraNear, CameraFar)
	h.Camera.Position = CameraPosition
	h.Camera.LookAt(core.Vec3{})

	if cfg.ShadowsEnabled {
		h.enableShadows()
	}
	h.ensureUV2()
	h.Animate(0)

	logger.Printf("Built %s haunted house: %d graves, textured=%v, shadows=%v\n",
		cfg.Name, len(h.Graves), cfg.Textured, cfg.ShadowsEnabled)
	return h, nil
}

func (h *House) buildHouse() {
	m := h.Materials
	h.Group = scene.NewGroup("house")
	h.Scene.Add(h.Group)

	h.Walls = scene.NewMesh("walls", geometry.NewBoxGeometry(WallWidth, WallHeight, WallDepth), m.Walls)
	h.Walls.Position.Y = WallHeight / 2

	h.Roof = scene.NewMesh("roof", geometry.NewConeGeometry(RoofRadius, RoofHeight, RoofSegments), m.Roof)
	h.Roof.Position.Y = WallHeight + RoofHeight/2
	h.Roof.Rotation.Y = math.Pi / 4

	h.Chimney = scene.NewMesh("chimney", geometry.NewBoxGeometry(ChimneyWidth, ChimneyHeight, ChimneyWidth), m.Chimney)
	h.Chimney.Position = core.NewVec3(0, ChimneyY, ChimneyZ)

	h.Door = scene.NewMesh("door", geometry.NewPlaneGeometry(DoorSize, DoorSize, DoorSegments, DoorSegments), m.Door)
	h.Door.Position = core.NewVec3(0, DoorY, WallDepth/2+DoorOffset)

	h.Group.Add(h.Walls, h.Roof, h.Chimney, h.Door)

	sphere := geometry.NewSphereGeometry(1, BushSegments, BushSegments)
	for i, b := range bushes {
		node := scene.NewMesh(fmt.Sprintf("bush%d", i+1), sphere, m.Bush)
		node.Scale = core.Splat(b.scale)
		node.Position = b.position
		h.Bushes = append(h.Bushes, node)
		h.Group.Add(node)
	}
}

func (h *House) buildGraves(random core.Random) {
	h.GraveGroup = scene.NewGroup("graves")
	h.Scene.Add(h.GraveGroup)

	box := geometry.NewBoxGeometry(GraveWidth, GraveBoxHeight, GraveDepth)
	h.GravePlacements = PlaceGraves(random, h.Config.GraveRadiusSpread, GraveCount)
	h.Graves = make([]*scene.Node, len(h.GravePlacements))
	for i, p := range h.GravePlacements {
		node := scene.NewMesh(fmt.Sprintf("grave%d", i), box, h.Materials.Grave)
		node.Position = p.Position
		node.Rotation = p.Rotation
		h.Graves[i] = node
		h.GraveGroup.Add(node)
	}
}

func (h *House) buildFloor() {
	h.Floor = scene.NewMesh("floor", geometry.NewPlaneGeometry(FloorSize, FloorSize, 1, 1), h.Materials.Floor)
	h.Floor.Rotation.X = -math.Pi / 2
	h.Scene.Add(h.Floor)
}

// buildTitle extrudes the title above the house. A font that fails to load is
// logged and replaced by the embedded face; no face at all means no title.
func (h *House) buildTitle(logger core.Logger) {
	face, err := loaders.FontFaceOrDefault(h.Config.FontPath, TitleFontSize)
	if err != nil {
		logger.Printf("Warning: title font %q: %v\n", h.Config.FontPath, err)
	}
	if face == nil {
		return
	}
	geo := geometry.NewTextGeometry(h.Config.TitleText, face, geometry.TextOptions{Size: TitleSize, Depth: TitleDepth})
	h.Title = scene.NewMesh("title", geo, h.Materials.Title)
	h.Title.Position.Y = TitleY
	h.Scene.Add(h.Title)
}

func (h *House) buildLights() {
	moonColor := core.MustHexColor(MoonColor)

	h.Ambient = scene.NewLightNode("ambient", lights.NewAmbientLight(moonColor, AmbientIntensity))
	h.Moon = scene.NewLightNode("moon", lights.NewDirectionalLight(moonColor, MoonIntensity))
	h.Moon.Position = MoonPosition
	h.Scene.Add(h.Ambient, h.Moon)

	h.DoorLight = scene.NewLightNode("doorLight", lights.NewPointLight(core.MustHexColor(DoorLightColor), 1, DoorLightDistance))
	h.DoorLight.Position = DoorLightPosition
	h.Group.Add(h.DoorLight)

	for i, hex := range GhostColors {
		ghost := scene.NewLightNode(fmt.Sprintf("ghost%d", i+1), lights.NewPointLight(core.MustHexColor(hex), GhostIntensity, GhostDistance))
		h.Ghosts[i] = ghost
		h.Scene.Add(ghost)
	}
}

func (h *House) enableShadows() {
	for _, n := range h.shadowCasters() {
		n.CastShadow = true
	}
	h.Walls.ReceiveShadow = true
	h.Floor.ReceiveShadow = true

	castShadow(h.Moon.Light, MoonShadowFar)
	castShadow(h.DoorLight.Light, ShadowFar)
	for _, g := range h.Ghosts {
		castShadow(g.Light, ShadowFar)
	}
}

func (h *House) shadowCasters() []*scene.Node {
	casters := []*scene.Node{h.Walls}
	casters = append(casters, h.Bushes...)
	casters = append(casters, h.Graves...)
	if h.Title != nil {
		casters = append(casters, h.Title)
	}
	return casters
}

func castShadow(l *lights.Light, far float64) {
	l.CastShadow = true
	l.Shadow.MapSize = ShadowMapSize
	l.Shadow.Far = far
}

// Animate moves the ghosts to their positions at elapsed time t (seconds)
func (h *House) Animate(t float64) {
	for i, p := range GhostPositions(t) {
		h.Ghosts[i].Position = p
	}
}

// ShadowFlagCount counts meshes casting or receiving shadows plus lights casting them
func (h *House) ShadowFlagCount() int {
	count := 0
	h.Scene.Root.Traverse(func(n *scene.Node) {
		if n.CastShadow || n.ReceiveShadow {
			count++
		}
		if n.Light != nil && n.Light.CastShadow {
			count++
		}
	})
	return count
}

// ensureUV2 gives every ambient-occluded mesh a second UV set copied from its first
func (h *House) ensureUV2() {
	h.Scene.Root.Traverse(func(n *scene.Node) {
		if n.IsMesh() && n.Material != nil && n.Material.HasAOMap() && !n.Geometry.HasUV2() {
			n.Geometry.SetUV2FromUV()
		}
	})
}

// MeshesMissingUV2 names the ambient-occluded meshes without a second UV set
func (h *House) MeshesMissingUV2() []string {
	var missing []string
	h.Scene.Root.Traverse(func(n *scene.Node) {
		if n.IsMesh() && n.Material != nil && n.Material.HasAOMap() && !n.Geometry.HasUV2() {
			missing = append(missing, n.Name)
		}
	})
	return missing
}

// MaterialsWithTextures lists the materials that reference at least one texture
func (h *House) MaterialsWithTextures() []*material.Standard {
	var out []*material.Standard
	for _, m := range h.Materials.All() {
		if len(m.Textures()) > 0 {
			out = append(out, m)
		}
	}
	return out
}
