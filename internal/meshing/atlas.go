package meshing

import (
	"strings"
	"unicode"
)

// Tile names a cell in the detail texture atlas. The atlas is an 8x8 grid
// of equally sized tiles; UVs are derived from the cell position, never
// hand-authored.
type Tile uint8

const (
	TileGrassShort Tile = iota
	TileGrassTall
	TileFlower1
	TileFlower2
	TileGrassMixed1
	TileGrassMixed2
	TileGrassClump
	TileGrassWispy
	TileRock1
	TileRock2
	TileDebris
	TileMushroom
	TileGrassBroad
	TileGrassCurved
	TileGrassSeedHead
	TileGrassBroken
	TileIceCrystal
	TileSnowdrift
	TileDeadGrass
	TileSnowRock
	TileIcicle
	TileShell
	TileBeachGrass
	TilePebbles
	TileDriftwood
	TileCactus
	TileFern
	TileTropicalFlower
	TileJungleGrass
	TileVine
	TileBamboo
	TileCattail
	TileSwampMushroom
	TileReed
	TileLilyPad
	TileSwampGrass
	TileFootprintLeftGrass
	TileFootprintRightGrass
	TileFootprintLeftDirt
	TileFootprintRightDirt
	TileFootprintLeftSand
	TileFootprintRightSand
	TileFootprintLeftSnow
	TileFootprintRightSnow
	TileFootprintLeftSwamp
	TileFootprintRightSwamp
	TileFootprintLeftJungle
	TileFootprintRightJungle

	tileCount
)

const tilesPerRow = 8

type tileCell struct{ col, row uint8 }

var tileCells = [tileCount]tileCell{
	TileGrassShort:    {0, 0},
	TileGrassTall:     {1, 0},
	TileFlower1:       {2, 0},
	TileFlower2:       {3, 0},
	TileGrassMixed1:   {4, 0},
	TileGrassMixed2:   {5, 0},
	TileGrassClump:    {6, 0},
	TileGrassWispy:    {7, 0},
	TileRock1:         {0, 1},
	TileRock2:         {1, 1},
	TileDebris:        {2, 1},
	TileMushroom:      {3, 1},
	TileGrassBroad:    {4, 1},
	TileGrassCurved:   {5, 1},
	TileGrassSeedHead: {6, 1},
	TileGrassBroken:   {7, 1},

	TileIceCrystal: {0, 2},
	TileSnowdrift:  {1, 2},
	TileDeadGrass:  {2, 2},
	TileSnowRock:   {3, 2},
	TileIcicle:     {4, 2},

	TileShell:      {0, 3},
	TileBeachGrass: {1, 3},
	TilePebbles:    {2, 3},
	TileDriftwood:  {3, 3},
	TileCactus:     {4, 3},

	TileFern:           {0, 4},
	TileTropicalFlower: {1, 4},
	TileJungleGrass:    {2, 4},
	TileVine:           {3, 4},
	TileBamboo:         {4, 4},

	TileCattail:       {0, 5},
	TileSwampMushroom: {1, 5},
	TileReed:          {2, 5},
	TileLilyPad:       {3, 5},
	TileSwampGrass:    {4, 5},

	TileFootprintLeftGrass:   {0, 6},
	TileFootprintRightGrass:  {1, 6},
	TileFootprintLeftDirt:    {2, 6},
	TileFootprintRightDirt:   {3, 6},
	TileFootprintLeftSand:    {4, 6},
	TileFootprintRightSand:   {5, 6},
	TileFootprintLeftSnow:    {6, 6},
	TileFootprintRightSnow:   {7, 6},
	TileFootprintLeftSwamp:   {0, 7},
	TileFootprintRightSwamp:  {1, 7},
	TileFootprintLeftJungle:  {2, 7},
	TileFootprintRightJungle: {3, 7},
}

// UVRect is a normalized sub-rectangle of the atlas texture.
type UVRect struct {
	U0, V0 float32
	U1, V1 float32
}

// UV returns the tile's normalized atlas rectangle. Unknown tiles fall
// back to the first grass tile rather than sampling garbage.
func (t Tile) UV() UVRect {
	if t >= tileCount {
		t = TileGrassShort
	}
	c := tileCells[t]
	step := float32(1) / tilesPerRow
	return UVRect{
		U0: float32(c.col) * step,
		V0: float32(c.row) * step,
		U1: float32(c.col+1) * step,
		V1: float32(c.row+1) * step,
	}
}

var tileNames = map[string]Tile{
	"GrassShort":     TileGrassShort,
	"GrassTall":      TileGrassTall,
	"Flower1":        TileFlower1,
	"Flower2":        TileFlower2,
	"GrassMixed1":    TileGrassMixed1,
	"GrassMixed2":    TileGrassMixed2,
	"GrassClump":     TileGrassClump,
	"GrassWispy":     TileGrassWispy,
	"Rock1":          TileRock1,
	"Rock2":          TileRock2,
	"Debris":         TileDebris,
	"Mushroom":       TileMushroom,
	"GrassBroad":     TileGrassBroad,
	"GrassCurved":    TileGrassCurved,
	"GrassSeedHead":  TileGrassSeedHead,
	"GrassBroken":    TileGrassBroken,
	"IceCrystal":     TileIceCrystal,
	"Snowdrift":      TileSnowdrift,
	"DeadGrass":      TileDeadGrass,
	"SnowRock":       TileSnowRock,
	"Icicle":         TileIcicle,
	"Shell":          TileShell,
	"BeachGrass":     TileBeachGrass,
	"Pebbles":        TilePebbles,
	"Driftwood":      TileDriftwood,
	"Cactus":         TileCactus,
	"Fern":           TileFern,
	"TropicalFlower": TileTropicalFlower,
	"JungleGrass":    TileJungleGrass,
	"Vine":           TileVine,
	"Bamboo":         TileBamboo,
	"Cattail":        TileCattail,
	"SwampMushroom":  TileSwampMushroom,
	"Reed":           TileReed,
	"LilyPad":        TileLilyPad,
	"SwampGrass":     TileSwampGrass,
}

var tileLookup = func() map[string]Tile {
	m := make(map[string]Tile, len(tileNames))
	for name, t := range tileNames {
		m[foldTileName(name)] = t
	}
	return m
}()

// ParseTile resolves a tile name from config. Lookup ignores case and
// underscores, so "grass_tall" and "GrassTall" name the same tile.
// Unrecognized names map to GrassShort so a bad config entry degrades
// visibly instead of crashing.
func ParseTile(name string) Tile {
	if t, ok := tileLookup[foldTileName(name)]; ok {
		return t
	}
	return TileGrassShort
}

func foldTileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
