// Package footprint leaves fading step decals behind a moving actor on
// soft ground. Placement is distance driven, feet alternate, and decals
// are rebuilt as immediate quads every frame so fading needs no GPU state.
package footprint

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"groundcover/internal/meshing"
	"groundcover/internal/render"
	"groundcover/internal/surfacemap"
)

// Config tunes placement and fade. Surface toggles gate which ground
// materials record steps; hard surfaces never do.
type Config struct {
	Enabled            bool    `yaml:"enabled"`
	PlacementInterval  float32 `yaml:"placement_interval"`
	FadeDuration       float32 `yaml:"fade_duration"`
	Size               float32 `yaml:"size"`
	GroundOffset       float32 `yaml:"ground_offset"`
	PlayerHeightOffset float32 `yaml:"player_height_offset"`
	ShowOnGrass        bool    `yaml:"show_on_grass"`
	ShowOnDirt         bool    `yaml:"show_on_dirt"`
	ShowOnSand         bool    `yaml:"show_on_sand"`
	ShowOnSnow         bool    `yaml:"show_on_snow"`
	ShowOnSwamp        bool    `yaml:"show_on_swamp"`
	ShowOnJungle       bool    `yaml:"show_on_jungle"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		PlacementInterval:  1.6,
		FadeDuration:       20,
		Size:               0.5,
		GroundOffset:       0.02,
		PlayerHeightOffset: 1.7,
		ShowOnGrass:        true,
		ShowOnDirt:         true,
		ShowOnSand:         true,
		ShowOnSnow:         true,
		ShowOnSwamp:        true,
		ShowOnJungle:       true,
	}
}

func (c Config) allows(s surfacemap.SurfaceType) bool {
	switch s {
	case surfacemap.Grass:
		return c.ShowOnGrass
	case surfacemap.Dirt:
		return c.ShowOnDirt
	case surfacemap.Sand:
		return c.ShowOnSand
	case surfacemap.Snow:
		return c.ShowOnSnow
	case surfacemap.Swamp:
		return c.ShowOnSwamp
	case surfacemap.Jungle:
		return c.ShowOnJungle
	}
	return false
}

// GroundRaycast probes terrain below (x, startY, z). ok is false when no
// ground was hit within the probe range.
type GroundRaycast func(x, z, startY float32) (height float32, normal mgl32.Vec3, ok bool)

// Footprint is one placed decal.
type Footprint struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Heading  float32
	Surface  surfacemap.SurfaceType
	Age      float32
	LeftFoot bool
}

const (
	maxFootprints = 200
	// Feet land half the stride width either side of the travel line.
	strideWidth float32 = 0.4
)

// Tracker owns the active footprints for one actor.
type Tracker struct {
	cfg     Config
	surf    *surfacemap.Map
	raycast GroundRaycast

	prints   []Footprint
	lastPos  mgl32.Vec3
	hasLast  bool
	nextLeft bool
}

func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg, nextLeft: true}
}

func (t *Tracker) SetConfig(cfg Config) { t.cfg = cfg }
func (t *Tracker) Config() Config       { return t.cfg }

// SetGround wires the zone's surface map and collision probe. A nil map
// disables placement entirely; footprints require classified ground.
func (t *Tracker) SetGround(surf *surfacemap.Map, raycast GroundRaycast) {
	t.surf = surf
	t.raycast = raycast
}

// Update ages existing footprints and places a new one once the actor has
// covered the placement interval.
func (t *Tracker) Update(dt float32, actorPos mgl32.Vec3, heading float32, moving bool) {
	live := t.prints[:0]
	for _, fp := range t.prints {
		fp.Age += dt
		if fp.Age < t.cfg.FadeDuration {
			live = append(live, fp)
		}
	}
	t.prints = live

	if !t.cfg.Enabled {
		return
	}
	if !moving {
		t.hasLast = false
		return
	}
	if !t.hasLast {
		t.lastPos = actorPos
		t.hasLast = true
		return
	}

	dx := actorPos.X() - t.lastPos.X()
	dz := actorPos.Z() - t.lastPos.Z()
	if dx*dx+dz*dz < t.cfg.PlacementInterval*t.cfg.PlacementInterval {
		return
	}
	// The stride and the foot are only consumed on success; a rejected
	// surface keeps both so the next qualifying ground gets the step.
	if t.place(actorPos, heading, t.nextLeft) {
		t.lastPos = actorPos
		t.nextLeft = !t.nextLeft
	}
}

func (t *Tracker) place(actorPos mgl32.Vec3, heading float32, left bool) bool {
	if !t.surf.Loaded() {
		return false
	}

	// Offset the step sideways from the travel line, alternating feet.
	side := strideWidth * 0.5
	if left {
		side = -side
	}
	sinH, cosH := sincos(heading)
	x := actorPos.X() + -sinH*side
	z := actorPos.Z() + cosH*side

	surface := t.surf.TypeAt(x, z)
	if !t.cfg.allows(surface) {
		return false
	}

	height := actorPos.Y() - t.cfg.PlayerHeightOffset + t.cfg.GroundOffset
	normal := mgl32.Vec3{0, 1, 0}
	if t.raycast != nil {
		if h, n, ok := t.raycast(x, z, actorPos.Y()); ok {
			height = h + t.cfg.GroundOffset
			normal = n
		}
	}

	if len(t.prints) >= maxFootprints {
		t.prints = t.prints[1:]
	}
	t.prints = append(t.prints, Footprint{
		Position: mgl32.Vec3{x, height, z},
		Normal:   normal,
		Heading:  heading,
		Surface:  surface,
		LeftFoot: left,
	})
	return true
}

// Render submits every live footprint as an immediate decal quad oriented
// along the stored heading and laid flat on the terrain's tangent plane.
func (t *Tracker) Render(scene render.Scene, mat render.Material) {
	half := t.cfg.Size * 0.5
	for i := range t.prints {
		fp := &t.prints[i]

		alpha := 1 - fp.Age/t.cfg.FadeDuration
		if alpha <= 0 {
			continue
		}

		sinH, cosH := sincos(fp.Heading)
		forward := mgl32.Vec3{cosH, 0, sinH}
		// Project travel direction onto the ground plane, then take the
		// cross product for the side axis.
		forward = forward.Sub(fp.Normal.Mul(forward.Dot(fp.Normal)))
		if forward.Len() < 1e-5 {
			forward = mgl32.Vec3{1, 0, 0}
		} else {
			forward = forward.Normalize()
		}
		right := fp.Normal.Cross(forward).Normalize()

		f := forward.Mul(half)
		r := right.Mul(half)
		uv := tileFor(fp.LeftFoot, fp.Surface).UV()
		c := fadeColor(alpha)

		quad := [4]meshing.Vertex{
			{Pos: fp.Position.Sub(f).Sub(r), Normal: fp.Normal, Color: c, UV: mgl32.Vec2{uv.U0, uv.V1}},
			{Pos: fp.Position.Sub(f).Add(r), Normal: fp.Normal, Color: c, UV: mgl32.Vec2{uv.U1, uv.V1}},
			{Pos: fp.Position.Add(f).Add(r), Normal: fp.Normal, Color: c, UV: mgl32.Vec2{uv.U1, uv.V0}},
			{Pos: fp.Position.Add(f).Sub(r), Normal: fp.Normal, Color: c, UV: mgl32.Vec2{uv.U0, uv.V0}},
		}
		scene.SubmitQuad(quad, mat)
	}
}

func tileFor(left bool, s surfacemap.SurfaceType) meshing.Tile {
	switch s {
	case surfacemap.Dirt:
		return pick(left, meshing.TileFootprintLeftDirt, meshing.TileFootprintRightDirt)
	case surfacemap.Sand:
		return pick(left, meshing.TileFootprintLeftSand, meshing.TileFootprintRightSand)
	case surfacemap.Snow:
		return pick(left, meshing.TileFootprintLeftSnow, meshing.TileFootprintRightSnow)
	case surfacemap.Swamp:
		return pick(left, meshing.TileFootprintLeftSwamp, meshing.TileFootprintRightSwamp)
	case surfacemap.Jungle:
		return pick(left, meshing.TileFootprintLeftJungle, meshing.TileFootprintRightJungle)
	}
	return pick(left, meshing.TileFootprintLeftGrass, meshing.TileFootprintRightGrass)
}

func pick(left bool, l, r meshing.Tile) meshing.Tile {
	if left {
		return l
	}
	return r
}

func fadeColor(alpha float32) color.RGBA {
	return color.RGBA{255, 255, 255, uint8(alpha * 255)}
}

// Clear drops all footprints, used on zone exit.
func (t *Tracker) Clear() {
	t.prints = t.prints[:0]
	t.hasLast = false
	t.nextLeft = true
}

// ActiveCount reports live footprints for debug overlays.
func (t *Tracker) ActiveCount() int { return len(t.prints) }

// Prints exposes the live footprints for tests and overlays.
func (t *Tracker) Prints() []Footprint { return t.prints }

func sincos(rad float32) (sin, cos float32) {
	s, c := math.Sincos(float64(rad))
	return float32(s), float32(c)
}
