package detail

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"groundcover/internal/disturbance"
	"groundcover/internal/footprint"
	"groundcover/internal/meshing"
	"groundcover/internal/surfacemap"
)

// ZoneFiles bundles everything a zone config file can carry. Missing
// sections keep their defaults.
type ZoneFiles struct {
	Zone        ZoneConfig
	Disturbance disturbance.Config
	Footprints  footprint.Config
}

type yamlWind struct {
	Strength      *float32 `yaml:"strength"`
	Frequency     *float32 `yaml:"frequency"`
	GustFrequency *float32 `yaml:"gust_frequency"`
	GustStrength  *float32 `yaml:"gust_strength"`
	Direction     []float32 `yaml:"direction"`
}

type yamlType struct {
	Name         string    `yaml:"name"`
	Category     string    `yaml:"category"`
	Orientation  string    `yaml:"orientation"`
	Tile         string    `yaml:"tile"`
	MinSize      float32   `yaml:"min_size"`
	MaxSize      float32   `yaml:"max_size"`
	MinSlope     float32   `yaml:"min_slope"`
	MaxSlope     *float32  `yaml:"max_slope"`
	Density      *float32  `yaml:"density"`
	Surfaces     []string  `yaml:"surfaces"`
	WindResponse *float32  `yaml:"wind_response"`
	Color        []int     `yaml:"color"`
}

type yamlBox struct {
	Min []float32 `yaml:"min"`
	Max []float32 `yaml:"max"`
}

type yamlZone struct {
	Zone               string             `yaml:"zone"`
	Outdoor            *bool              `yaml:"outdoor"`
	ChunkSize          *float32           `yaml:"chunk_size"`
	ViewDistanceChunks *int               `yaml:"view_distance_chunks"`
	DensityMultiplier  *float32           `yaml:"density_multiplier"`
	Wind               *yamlWind          `yaml:"wind"`
	Types              []yamlType         `yaml:"detail_types"`
	Exclusions         []yamlBox          `yaml:"exclusions"`
	Disturbance        *disturbance.Config `yaml:"disturbance"`
	Footprints         *footprint.Config  `yaml:"footprints"`
}

// LoadZoneFiles resolves a zone's config through the fallback chain:
// <dir>/<zone>.yaml, then <dir>/default.yaml, then the built-in catalog.
// A missing or unparseable tier logs and falls through, so the result is
// always usable; config problems never keep a zone bare.
func LoadZoneFiles(dir, zone string) ZoneFiles {
	for _, name := range []string{zone + ".yaml", "default.yaml"} {
		path := filepath.Join(dir, name)
		loaded, err := readZoneFile(path, zone)
		if err == nil {
			return loaded
		}
		if !os.IsNotExist(err) {
			log.Printf("detail: zone config %s: %v", path, err)
		}
	}
	return ZoneFiles{
		Zone:        DefaultZoneConfig(zone),
		Disturbance: disturbance.DefaultConfig(),
		Footprints:  footprint.DefaultConfig(),
	}
}

func readZoneFile(path, zone string) (ZoneFiles, error) {
	out := ZoneFiles{
		Zone:        DefaultZoneConfig(zone),
		Disturbance: disturbance.DefaultConfig(),
		Footprints:  footprint.DefaultConfig(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}

	var y yamlZone
	if err := yaml.Unmarshal(data, &y); err != nil {
		return out, fmt.Errorf("parse: %w", err)
	}

	cfg, err := y.zoneConfig(zone)
	if err != nil {
		return out, err
	}
	out.Zone = cfg
	if y.Disturbance != nil {
		out.Disturbance = *y.Disturbance
	}
	if y.Footprints != nil {
		out.Footprints = *y.Footprints
	}
	return out, nil
}

func (y *yamlZone) zoneConfig(zone string) (ZoneConfig, error) {
	cfg := DefaultZoneConfig(zone)
	if len(y.Types) > 0 {
		cfg.Types = nil
	}

	if y.Outdoor != nil {
		cfg.Outdoor = *y.Outdoor
	}
	if y.ChunkSize != nil && *y.ChunkSize > 0 {
		cfg.ChunkSize = *y.ChunkSize
	}
	if y.ViewDistanceChunks != nil && *y.ViewDistanceChunks > 0 {
		cfg.ViewDistanceChunks = *y.ViewDistanceChunks
	}
	if y.DensityMultiplier != nil && *y.DensityMultiplier >= 0 {
		cfg.DensityMultiplier = *y.DensityMultiplier
	}

	if y.Wind != nil {
		if y.Wind.Strength != nil {
			cfg.Wind.Strength = *y.Wind.Strength
		}
		if y.Wind.Frequency != nil {
			cfg.Wind.Frequency = *y.Wind.Frequency
		}
		if y.Wind.GustFrequency != nil {
			cfg.Wind.GustFrequency = *y.Wind.GustFrequency
		}
		if y.Wind.GustStrength != nil {
			cfg.Wind.GustStrength = *y.Wind.GustStrength
		}
		if len(y.Wind.Direction) == 2 {
			cfg.Wind.DirectionX = y.Wind.Direction[0]
			cfg.Wind.DirectionZ = y.Wind.Direction[1]
		}
	}

	for i := range y.Types {
		t, err := y.Types[i].detailType()
		if err != nil {
			return cfg, fmt.Errorf("detail_types[%d] (%s): %w", i, y.Types[i].Name, err)
		}
		cfg.Types = append(cfg.Types, t)
	}

	for i, b := range y.Exclusions {
		if len(b.Min) != 3 || len(b.Max) != 3 {
			return cfg, fmt.Errorf("exclusions[%d]: min and max need 3 components", i)
		}
		cfg.Exclusions = append(cfg.Exclusions, Box{
			Min: vec3(b.Min),
			Max: vec3(b.Max),
		})
	}

	return cfg, nil
}

func (y *yamlType) detailType() (Type, error) {
	t := Type{
		Name:            y.Name,
		Orientation:     CrossedQuads,
		Tile:            meshing.ParseTile(y.Tile),
		MinSize:         y.MinSize,
		MaxSize:         y.MaxSize,
		MinSlope:        y.MinSlope,
		MaxSlope:        0.5,
		BaseDensity:     1.0,
		AllowedSurfaces: surfacemap.Natural,
		WindResponse:    1.0,
		BaseColor:       color.RGBA{255, 255, 255, 255},
	}

	var err error
	if t.Category, err = ParseCategory(y.Category); err != nil {
		return t, err
	}
	if y.Orientation != "" {
		if t.Orientation, err = ParseOrientation(y.Orientation); err != nil {
			return t, err
		}
	}
	if y.MaxSlope != nil {
		t.MaxSlope = *y.MaxSlope
	}
	if y.Density != nil {
		t.BaseDensity = *y.Density
	}
	if y.WindResponse != nil {
		t.WindResponse = *y.WindResponse
	}
	if len(y.Surfaces) > 0 {
		t.AllowedSurfaces = 0
		for _, name := range y.Surfaces {
			s, err := surfacemap.ParseType(name)
			if err != nil {
				return t, err
			}
			t.AllowedSurfaces |= s
		}
	}
	if len(y.Color) == 3 {
		t.BaseColor = color.RGBA{
			R: clamp8(y.Color[0]),
			G: clamp8(y.Color[1]),
			B: clamp8(y.Color[2]),
			A: 255,
		}
	}
	if t.MinSize <= 0 {
		t.MinSize = 0.5
	}
	if t.MaxSize < t.MinSize {
		t.MaxSize = t.MinSize
	}
	return t, nil
}

func vec3(v []float32) mgl32.Vec3 {
	var out mgl32.Vec3
	copy(out[:], v)
	return out
}

// DefaultZoneConfig is the built-in catalog used when a zone ships no
// config file. It carries every biome's types at once; the surface masks
// decide what actually appears on the local terrain.
func DefaultZoneConfig(zoneName string) ZoneConfig {
	cfg := ZoneConfig{
		ZoneName:           zoneName,
		Outdoor:            true,
		ChunkSize:          50,
		ViewDistanceChunks: 3,
		DensityMultiplier:  1,
		SeasonTint:         color.RGBA{255, 255, 255, 255},
	}
	cfg.Wind.Strength = 0.5
	cfg.Wind.Frequency = 0.5
	cfg.Wind.GustFrequency = 0.1
	cfg.Wind.GustStrength = 0.3
	cfg.Wind.DirectionX = 1
	cfg.Wind.DirectionZ = 0.3

	grassDirt := surfacemap.Grass | surfacemap.Dirt
	anyLand := surfacemap.All &^ (surfacemap.Water | surfacemap.Lava)

	cfg.Types = []Type{
		// Temperate meadow set.
		{Name: "grass", Category: CategoryGrass, Tile: meshing.TileGrassShort,
			MinSize: 1.0, MaxSize: 2.4, MaxSlope: 0.5, BaseDensity: 1.0,
			WindResponse: 1.0, AllowedSurfaces: grassDirt, BaseColor: color.RGBA{70, 180, 60, 255}},
		{Name: "tall_grass", Category: CategoryGrass, Tile: meshing.TileGrassTall,
			MinSize: 2.0, MaxSize: 4.0, MaxSlope: 0.4, BaseDensity: 0.3,
			WindResponse: 1.0, AllowedSurfaces: surfacemap.Grass, BaseColor: color.RGBA{60, 165, 50, 255}},
		{Name: "grass_mixed_short", Category: CategoryGrass, Tile: meshing.TileGrassMixed1,
			MinSize: 1.0, MaxSize: 2.2, MaxSlope: 0.5, BaseDensity: 0.4,
			WindResponse: 0.9, AllowedSurfaces: grassDirt, BaseColor: color.RGBA{100, 180, 60, 255}},
		{Name: "grass_mixed_tall", Category: CategoryGrass, Tile: meshing.TileGrassMixed2,
			MinSize: 2.0, MaxSize: 3.8, MaxSlope: 0.45, BaseDensity: 0.25,
			WindResponse: 1.0, AllowedSurfaces: surfacemap.Grass, BaseColor: color.RGBA{80, 170, 50, 255}},
		{Name: "grass_clump", Category: CategoryGrass, Tile: meshing.TileGrassClump,
			MinSize: 1.8, MaxSize: 3.5, MaxSlope: 0.4, BaseDensity: 0.2,
			WindResponse: 0.85, AllowedSurfaces: grassDirt, BaseColor: color.RGBA{90, 175, 55, 255}},
		{Name: "grass_wispy", Category: CategoryGrass, Tile: meshing.TileGrassWispy,
			MinSize: 1.2, MaxSize: 2.8, MaxSlope: 0.55, BaseDensity: 0.35,
			WindResponse: 1.2, AllowedSurfaces: surfacemap.Grass, BaseColor: color.RGBA{115, 200, 70, 255}},
		{Name: "grass_broad", Category: CategoryGrass, Tile: meshing.TileGrassBroad,
			MinSize: 1.5, MaxSize: 3.2, MaxSlope: 0.4, BaseDensity: 0.15,
			WindResponse: 0.7, AllowedSurfaces: grassDirt, BaseColor: color.RGBA{75, 155, 45, 255}},
		{Name: "grass_curved", Category: CategoryGrass, Tile: meshing.TileGrassCurved,
			MinSize: 1.6, MaxSize: 3.4, MaxSlope: 0.45, BaseDensity: 0.3,
			WindResponse: 1.1, AllowedSurfaces: surfacemap.Grass, BaseColor: color.RGBA{90, 175, 50, 255}},
		{Name: "grass_seed_head", Category: CategoryGrass, Tile: meshing.TileGrassSeedHead,
			MinSize: 2.2, MaxSize: 4.2, MaxSlope: 0.4, BaseDensity: 0.18,
			WindResponse: 0.9, AllowedSurfaces: grassDirt, BaseColor: color.RGBA{180, 165, 100, 255}},
		{Name: "grass_broken", Category: CategoryGrass, Tile: meshing.TileGrassBroken,
			MinSize: 1.2, MaxSize: 2.6, MaxSlope: 0.5, BaseDensity: 0.12,
			WindResponse: 0.6, AllowedSurfaces: grassDirt, BaseColor: color.RGBA{95, 165, 55, 255}},
		{Name: "flower", Category: CategoryPlants, Tile: meshing.TileFlower1,
			MinSize: 1.6, MaxSize: 3.2, MaxSlope: 0.35, BaseDensity: 0.25,
			WindResponse: 0.7, AllowedSurfaces: surfacemap.Grass, BaseColor: color.RGBA{230, 120, 200, 255}},
		{Name: "rock", Category: CategoryRocks, Tile: meshing.TileRock1,
			MinSize: 1.0, MaxSize: 2.0, MaxSlope: 0.7, BaseDensity: 0.15,
			WindResponse: 0, AllowedSurfaces: anyLand, BaseColor: color.RGBA{150, 150, 150, 255}},
		{Name: "debris", Category: CategoryDebris, Tile: meshing.TileDebris,
			MinSize: 0.8, MaxSize: 1.6, MaxSlope: 0.6, BaseDensity: 0.12,
			WindResponse: 0, AllowedSurfaces: anyLand, BaseColor: color.RGBA{200, 150, 100, 255}},
		{Name: "mushroom", Category: CategoryMushrooms, Tile: meshing.TileMushroom,
			MinSize: 0.8, MaxSize: 1.6, MaxSlope: 0.4, BaseDensity: 0.08,
			WindResponse: 0, AllowedSurfaces: grassDirt, BaseColor: color.RGBA{210, 90, 80, 255}},

		// Snowfield set.
		{Name: "ice_crystal", Category: CategoryRocks, Tile: meshing.TileIceCrystal,
			MinSize: 0.6, MaxSize: 1.4, MaxSlope: 0.5, BaseDensity: 0.2,
			WindResponse: 0, AllowedSurfaces: surfacemap.Snow, BaseColor: color.RGBA{180, 220, 255, 255}},
		{Name: "snowdrift", Category: CategoryDebris, Tile: meshing.TileSnowdrift,
			MinSize: 1.0, MaxSize: 2.5, MaxSlope: 0.4, BaseDensity: 0.35,
			WindResponse: 0, AllowedSurfaces: surfacemap.Snow, BaseColor: color.RGBA{240, 245, 255, 255}},
		{Name: "dead_grass", Category: CategoryGrass, Tile: meshing.TileDeadGrass,
			MinSize: 1.2, MaxSize: 2.4, MaxSlope: 0.45, BaseDensity: 0.25,
			WindResponse: 0.5, AllowedSurfaces: surfacemap.Snow, BaseColor: color.RGBA{139, 119, 101, 255}},
		{Name: "snow_rock", Category: CategoryRocks, Tile: meshing.TileSnowRock,
			MinSize: 0.8, MaxSize: 1.8, MaxSlope: 0.6, BaseDensity: 0.15,
			WindResponse: 0, AllowedSurfaces: surfacemap.Snow, BaseColor: color.RGBA{200, 200, 210, 255}},

		// Beach and desert set.
		{Name: "shell", Category: CategoryDebris, Tile: meshing.TileShell,
			MinSize: 0.4, MaxSize: 1.0, MaxSlope: 0.3, BaseDensity: 0.4,
			WindResponse: 0, AllowedSurfaces: surfacemap.Sand, BaseColor: color.RGBA{245, 235, 220, 255}},
		{Name: "beach_grass", Category: CategoryGrass, Tile: meshing.TileBeachGrass,
			MinSize: 1.0, MaxSize: 2.2, MaxSlope: 0.4, BaseDensity: 0.5,
			WindResponse: 0.8, AllowedSurfaces: surfacemap.Sand, BaseColor: color.RGBA{180, 180, 120, 255}},
		{Name: "pebbles", Category: CategoryRocks, Tile: meshing.TilePebbles,
			MinSize: 0.5, MaxSize: 1.2, MaxSlope: 0.5, BaseDensity: 0.4,
			WindResponse: 0, AllowedSurfaces: surfacemap.Sand, BaseColor: color.RGBA{160, 150, 140, 255}},
		{Name: "driftwood", Category: CategoryDebris, Tile: meshing.TileDriftwood,
			MinSize: 0.8, MaxSize: 2.0, MaxSlope: 0.35, BaseDensity: 0.3,
			WindResponse: 0, AllowedSurfaces: surfacemap.Sand, BaseColor: color.RGBA{139, 119, 101, 255}},
		{Name: "cactus", Category: CategoryPlants, Tile: meshing.TileCactus,
			MinSize: 1.0, MaxSize: 2.5, MaxSlope: 0.3, BaseDensity: 0.25,
			WindResponse: 0, AllowedSurfaces: surfacemap.Sand, BaseColor: color.RGBA{100, 140, 80, 255}},

		// Jungle set.
		{Name: "fern", Category: CategoryPlants, Tile: meshing.TileFern,
			MinSize: 1.5, MaxSize: 3.5, MaxSlope: 0.4, BaseDensity: 0.4,
			WindResponse: 0.6, AllowedSurfaces: surfacemap.Jungle, BaseColor: color.RGBA{60, 140, 60, 255}},
		{Name: "tropical_flower", Category: CategoryPlants, Tile: meshing.TileTropicalFlower,
			MinSize: 1.2, MaxSize: 2.8, MaxSlope: 0.35, BaseDensity: 0.25,
			WindResponse: 0.5, AllowedSurfaces: surfacemap.Jungle, BaseColor: color.RGBA{255, 100, 150, 255}},
		{Name: "jungle_grass", Category: CategoryGrass, Tile: meshing.TileJungleGrass,
			MinSize: 1.5, MaxSize: 3.0, MaxSlope: 0.45, BaseDensity: 0.5,
			WindResponse: 0.8, AllowedSurfaces: surfacemap.Jungle, BaseColor: color.RGBA{80, 160, 40, 255}},
		{Name: "vine", Category: CategoryPlants, Tile: meshing.TileVine,
			MinSize: 1.0, MaxSize: 2.5, MaxSlope: 0.5, BaseDensity: 0.15,
			WindResponse: 0.3, AllowedSurfaces: surfacemap.Jungle, BaseColor: color.RGBA{50, 120, 50, 255}},
		{Name: "bamboo", Category: CategoryPlants, Tile: meshing.TileBamboo,
			MinSize: 2.0, MaxSize: 4.0, MaxSlope: 0.3, BaseDensity: 0.1,
			WindResponse: 0.4, AllowedSurfaces: surfacemap.Jungle, BaseColor: color.RGBA{140, 180, 80, 255}},

		// Swamp set.
		{Name: "cattail", Category: CategoryPlants, Tile: meshing.TileCattail,
			MinSize: 2.0, MaxSize: 4.5, MaxSlope: 0.3, BaseDensity: 0.3,
			WindResponse: 0.5, AllowedSurfaces: surfacemap.Swamp, BaseColor: color.RGBA{100, 140, 80, 255}},
		{Name: "swamp_mushroom", Category: CategoryMushrooms, Tile: meshing.TileSwampMushroom,
			MinSize: 0.8, MaxSize: 2.0, MaxSlope: 0.4, BaseDensity: 0.2,
			WindResponse: 0, AllowedSurfaces: surfacemap.Swamp, BaseColor: color.RGBA{160, 120, 100, 255}},
		{Name: "reed", Category: CategoryGrass, Tile: meshing.TileReed,
			MinSize: 1.5, MaxSize: 3.0, MaxSlope: 0.35, BaseDensity: 0.4,
			WindResponse: 0.6, AllowedSurfaces: surfacemap.Swamp, BaseColor: color.RGBA{90, 130, 70, 255}},
		{Name: "lily_pad", Category: CategoryPlants, Orientation: FlatGround, Tile: meshing.TileLilyPad,
			MinSize: 1.0, MaxSize: 2.5, MaxSlope: 0.15, BaseDensity: 0.15,
			WindResponse: 0, AllowedSurfaces: surfacemap.Swamp, BaseColor: color.RGBA{60, 120, 60, 255}},
		{Name: "swamp_grass", Category: CategoryGrass, Tile: meshing.TileSwampGrass,
			MinSize: 1.2, MaxSize: 2.5, MaxSlope: 0.4, BaseDensity: 0.35,
			WindResponse: 0.7, AllowedSurfaces: surfacemap.Swamp, BaseColor: color.RGBA{80, 110, 60, 255}},
	}

	return cfg
}
