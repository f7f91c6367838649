// Package detail implements the ground cover system: chunked, procedurally
// placed vegetation and clutter streamed around a viewer, bent by wind and
// passing actors, thinned by a density slider, and recolored by season.
package detail

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"groundcover/internal/meshing"
	"groundcover/internal/surfacemap"
)

// Category groups detail types for independent toggling.
type Category uint32

const (
	CategoryNone      Category = 0
	CategoryGrass     Category = 1 << 0
	CategoryPlants    Category = 1 << 1
	CategoryRocks     Category = 1 << 2
	CategoryDebris    Category = 1 << 3
	CategoryMushrooms Category = 1 << 4
	CategoryAll       Category = 0xFFFFFFFF
)

var categoryNames = map[string]Category{
	"grass":     CategoryGrass,
	"plants":    CategoryPlants,
	"rocks":     CategoryRocks,
	"debris":    CategoryDebris,
	"mushrooms": CategoryMushrooms,
	"all":       CategoryAll,
}

// ParseCategory resolves a config category name.
func ParseCategory(name string) (Category, error) {
	if c, ok := categoryNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c, nil
	}
	return CategoryNone, fmt.Errorf("detail: unknown category %q", name)
}

// Orientation selects how a placement's sprite is built.
type Orientation uint8

const (
	// CrossedQuads builds two vertical quads in an X, the standard grass
	// billboard.
	CrossedQuads Orientation = iota
	// FlatGround lays a single quad on the terrain, for leaves and debris.
	FlatGround
	// SingleQuad builds one vertical quad facing the placement rotation.
	SingleQuad
)

// ParseOrientation resolves a config orientation name.
func ParseOrientation(name string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "crossed", "crossedquads", "cross":
		return CrossedQuads, nil
	case "flat", "flatground":
		return FlatGround, nil
	case "single", "singlequad":
		return SingleQuad, nil
	}
	return CrossedQuads, fmt.Errorf("detail: unknown orientation %q", name)
}

// Type describes one kind of ground cover.
type Type struct {
	Name        string
	Category    Category
	Orientation Orientation
	Tile        meshing.Tile

	// Instance size range, sampled uniformly per placement.
	MinSize float32
	MaxSize float32

	// Slope limits in radians from vertical; placements outside are
	// rejected.
	MinSlope float32
	MaxSlope float32

	// Relative abundance against the other types in the zone.
	BaseDensity float32

	AllowedSurfaces surfacemap.SurfaceType

	// 0 pins the sprite, 1 is full sway.
	WindResponse float32

	// BaseColor tints the atlas sample before per-instance variation.
	BaseColor color.RGBA
}

// Placement is one generated instance. Seed serves three roles at once:
// it continues the chunk's RNG stream, drives the density cutoff and picks
// the color variation, so the same byte must feed all three.
type Placement struct {
	Position  mgl32.Vec3
	Rotation  float32
	Scale     float32
	TypeIndex uint16
	Seed      uint8
}

// ChunkKey addresses a chunk in grid space. World position maps to a key
// by floor division so negative coordinates stay stable.
type ChunkKey struct {
	X, Z int32
}

func KeyForPosition(x, z, chunkSize float32) ChunkKey {
	return ChunkKey{
		X: int32(math.Floor(float64(x / chunkSize))),
		Z: int32(math.Floor(float64(z / chunkSize))),
	}
}

// GroundInfo is the terrain answer under a sample point.
type GroundInfo struct {
	Height  float32
	Normal  mgl32.Vec3
	Surface surfacemap.SurfaceType
}

// GroundQuery resolves terrain under (x, z). found is false where there is
// no walkable ground, e.g. over the void or inside geometry.
type GroundQuery func(x, z float32) (info GroundInfo, found bool)

// ExclusionCheck reports whether a position is inside a no-detail region.
type ExclusionCheck func(pos mgl32.Vec3) bool

// Box is an axis-aligned exclusion region from zone config.
type Box struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func (b Box) Contains(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// ZoneConfig is the per-zone detail setup, either loaded from YAML or
// produced by the built-in catalog.
type ZoneConfig struct {
	ZoneName string
	Outdoor  bool

	ChunkSize          float32
	ViewDistanceChunks int
	DensityMultiplier  float32

	Wind struct {
		Strength      float32
		Frequency     float32
		GustFrequency float32
		GustStrength  float32
		DirectionX    float32
		DirectionZ    float32
	}

	SeasonTint color.RGBA

	Types      []Type
	Exclusions []Box
}

// ExcludedAt reports whether any configured exclusion box contains p.
func (c *ZoneConfig) ExcludedAt(p mgl32.Vec3) bool {
	for _, b := range c.Exclusions {
		if b.Contains(p) {
			return true
		}
	}
	return false
}
