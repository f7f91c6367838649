package meshing

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTileUVAnchors(t *testing.T) {
	// Anchor tiles whose grid cells are load-bearing for shipped atlases.
	assert.Equal(t, UVRect{0, 0, 0.125, 0.125}, TileGrassShort.UV())
	assert.Equal(t, UVRect{0.125, 0, 0.25, 0.125}, TileGrassTall.UV())
	assert.Equal(t, UVRect{0.25, 0, 0.375, 0.125}, TileFlower1.UV())
	assert.Equal(t, UVRect{0, 0.125, 0.125, 0.25}, TileRock1.UV())
	assert.Equal(t, UVRect{0.25, 0.125, 0.375, 0.25}, TileDebris.UV())
	assert.Equal(t, UVRect{0.375, 0.125, 0.5, 0.25}, TileMushroom.UV())
}

func TestTileUVInRange(t *testing.T) {
	for tile := Tile(0); tile < tileCount; tile++ {
		uv := tile.UV()
		assert.GreaterOrEqual(t, uv.U0, float32(0))
		assert.LessOrEqual(t, uv.U1, float32(1))
		assert.GreaterOrEqual(t, uv.V0, float32(0))
		assert.LessOrEqual(t, uv.V1, float32(1))
		assert.Less(t, uv.U0, uv.U1)
		assert.Less(t, uv.V0, uv.V1)
	}
}

func TestParseTileFallback(t *testing.T) {
	assert.Equal(t, TileCattail, ParseTile("Cattail"))
	assert.Equal(t, TileGrassShort, ParseTile("NoSuchTile"))
}

func TestParseTileAcceptsConfigSpellings(t *testing.T) {
	// Zone configs write snake_case; both spellings resolve.
	assert.Equal(t, TileGrassTall, ParseTile("grass_tall"))
	assert.Equal(t, TilePebbles, ParseTile("pebbles"))
	assert.Equal(t, TileSwampMushroom, ParseTile("swamp_mushroom"))
	assert.Equal(t, TileFlower1, ParseTile("flower1"))
	assert.Equal(t, TileIceCrystal, ParseTile("Ice_Crystal"))
}

func quadCorner(x float32) Vertex {
	return Vertex{
		Pos:   mgl32.Vec3{x, 0, 0},
		Color: color.RGBA{255, 255, 255, 255},
	}
}

func TestAppendQuad(t *testing.T) {
	var b Buffer
	b.AppendQuad(quadCorner(0), quadCorner(1), quadCorner(2), quadCorner(3))
	assert.Equal(t, 4, b.VertexCount())
	assert.Equal(t, 6, b.IndexCount())
	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3}, b.Indices)
}

func TestAppendDoubleQuadOffsetsIndices(t *testing.T) {
	var b Buffer
	b.AppendDoubleQuad(quadCorner(0), quadCorner(1), quadCorner(2), quadCorner(3))
	b.AppendDoubleQuad(quadCorner(4), quadCorner(5), quadCorner(6), quadCorner(7))
	assert.Equal(t, 8, b.VertexCount())
	assert.Equal(t, 24, b.IndexCount())
	assert.Equal(t, uint16(4), b.Indices[12], "second quad indexes its own vertices")
}

func TestResetKeepsCapacity(t *testing.T) {
	var b Buffer
	b.AppendQuad(quadCorner(0), quadCorner(1), quadCorner(2), quadCorner(3))
	capV, capI := cap(b.Vertices), cap(b.Indices)
	b.Reset()
	assert.True(t, b.Empty())
	assert.Equal(t, capV, cap(b.Vertices))
	assert.Equal(t, capI, cap(b.Indices))
}
