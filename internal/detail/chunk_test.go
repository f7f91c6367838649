package detail

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundcover/internal/disturbance"
	"groundcover/internal/meshing"
	"groundcover/internal/render"
	"groundcover/internal/surfacemap"
	"groundcover/internal/wind"
)

func flatGrass(x, z float32) (GroundInfo, bool) {
	return GroundInfo{Height: 0, Normal: mgl32.Vec3{0, 1, 0}, Surface: surfacemap.Grass}, true
}

// singleTypeConfig keeps counts predictable: one crossed-quads type that
// accepts every sample.
func singleTypeConfig() ZoneConfig {
	cfg := ZoneConfig{
		ZoneName:           "testzone",
		Outdoor:            true,
		ChunkSize:          50,
		ViewDistanceChunks: 2,
		DensityMultiplier:  1,
		SeasonTint:         color.RGBA{255, 255, 255, 255},
	}
	cfg.Wind.Strength = 0.5
	cfg.Types = []Type{{
		Name:            "grass",
		Category:        CategoryGrass,
		Orientation:     CrossedQuads,
		Tile:            meshing.TileGrassShort,
		MinSize:         1,
		MaxSize:         1,
		MaxSlope:        1.5,
		BaseDensity:     1,
		AllowedSurfaces: surfacemap.Grass,
		WindResponse:    1,
		BaseColor:       color.RGBA{70, 180, 60, 255},
	}}
	return cfg
}

func buildChunk(t *testing.T, cfg *ZoneConfig, key ChunkKey, seed uint64) *Chunk {
	t.Helper()
	c := NewChunk(key, cfg.ChunkSize, render.NewRecording(), render.DetailMaterial("detail"))
	c.GeneratePlacements(cfg, flatGrass, nil, seed)
	return c
}

func TestGenerationIsDeterministic(t *testing.T) {
	cfg := singleTypeConfig()
	a := buildChunk(t, &cfg, ChunkKey{3, -2}, 42)
	b := buildChunk(t, &cfg, ChunkKey{3, -2}, 42)

	require.NotEmpty(t, a.Placements())
	assert.Equal(t, a.Placements(), b.Placements())
}

func TestDifferentChunksDiffer(t *testing.T) {
	cfg := singleTypeConfig()
	a := buildChunk(t, &cfg, ChunkKey{0, 0}, 42)
	b := buildChunk(t, &cfg, ChunkKey{1, 0}, 42)
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 43)

	assert.NotEqual(t, a.Placements()[0], b.Placements()[0])
	assert.NotEqual(t, a.Placements()[0], c.Placements()[0])
}

func TestGenerationRunsOnce(t *testing.T) {
	cfg := singleTypeConfig()
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 1)
	n := c.PlacementCount()
	c.GeneratePlacements(&cfg, flatGrass, nil, 999)
	assert.Equal(t, n, c.PlacementCount())
}

func TestPlacementsStayInBounds(t *testing.T) {
	cfg := singleTypeConfig()
	c := buildChunk(t, &cfg, ChunkKey{-4, 7}, 42)

	minX, minZ, maxX, maxZ := c.Bounds()
	require.NotEmpty(t, c.Placements())
	for _, p := range c.Placements() {
		assert.GreaterOrEqual(t, p.Position.X(), minX)
		assert.Less(t, p.Position.X(), maxX)
		assert.GreaterOrEqual(t, p.Position.Z(), minZ)
		assert.Less(t, p.Position.Z(), maxZ)
	}
}

func TestGroundLift(t *testing.T) {
	cfg := singleTypeConfig()
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 42)
	for _, p := range c.Placements() {
		assert.InDelta(t, groundLift, float64(p.Position.Y()), 1e-6)
	}
}

func TestSlopeRejection(t *testing.T) {
	cfg := singleTypeConfig()
	cfg.Types[0].MaxSlope = 0.3

	steep := func(x, z float32) (GroundInfo, bool) {
		// ~53 degrees from vertical, past the 0.3 rad limit.
		return GroundInfo{Height: 0, Normal: mgl32.Vec3{0.8, 0.6, 0}.Normalize(), Surface: surfacemap.Grass}, true
	}

	c := NewChunk(ChunkKey{0, 0}, cfg.ChunkSize, render.NewRecording(), render.DetailMaterial("detail"))
	c.GeneratePlacements(&cfg, steep, nil, 42)
	assert.Equal(t, 0, c.PlacementCount())
}

func TestSurfaceRejection(t *testing.T) {
	cfg := singleTypeConfig()
	stone := func(x, z float32) (GroundInfo, bool) {
		return GroundInfo{Height: 0, Normal: mgl32.Vec3{0, 1, 0}, Surface: surfacemap.Stone}, true
	}
	c := NewChunk(ChunkKey{0, 0}, cfg.ChunkSize, render.NewRecording(), render.DetailMaterial("detail"))
	c.GeneratePlacements(&cfg, stone, nil, 42)
	assert.Equal(t, 0, c.PlacementCount())
}

func TestExclusionZones(t *testing.T) {
	cfg := singleTypeConfig()
	// Exclude the x < 25 half of chunk (0,0).
	excluded := func(p mgl32.Vec3) bool { return p.X() < 25 }

	c := NewChunk(ChunkKey{0, 0}, cfg.ChunkSize, render.NewRecording(), render.DetailMaterial("detail"))
	c.GeneratePlacements(&cfg, flatGrass, excluded, 42)
	require.NotEmpty(t, c.Placements())
	for _, p := range c.Placements() {
		assert.GreaterOrEqual(t, p.Position.X(), float32(25))
	}
}

func TestNoGroundNoPlacements(t *testing.T) {
	cfg := singleTypeConfig()
	void := func(x, z float32) (GroundInfo, bool) { return GroundInfo{}, false }
	c := NewChunk(ChunkKey{0, 0}, cfg.ChunkSize, render.NewRecording(), render.DetailMaterial("detail"))
	c.GeneratePlacements(&cfg, void, nil, 42)
	assert.Equal(t, 0, c.PlacementCount())
}

func TestDensityFilterIsMonotonic(t *testing.T) {
	cfg := singleTypeConfig()
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 42)

	var prev int
	for _, d := range []float32{0, 0.1, 0.25, 0.5, 0.75, 1} {
		c.RebuildMesh(d, CategoryAll, &cfg)
		assert.GreaterOrEqual(t, c.VisibleCount(), prev, "density %v", d)
		prev = c.VisibleCount()
	}
}

func TestDensityZeroHidesEverything(t *testing.T) {
	cfg := singleTypeConfig()
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 42)
	c.RebuildMesh(0, CategoryAll, &cfg)
	assert.Equal(t, 0, c.VisibleCount())
	assert.True(t, c.Mesh().Empty())
}

func TestDensityFullExcludesSeed255(t *testing.T) {
	cfg := singleTypeConfig()
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 42)
	c.RebuildMesh(1, CategoryAll, &cfg)

	want := 0
	for _, p := range c.Placements() {
		// 255/255 == 1.0 fails the strict < 1.0 comparison.
		if p.Seed != 255 {
			want++
		}
	}
	assert.Equal(t, want, c.VisibleCount())
}

func TestCrossedQuadsVertexCounts(t *testing.T) {
	cfg := singleTypeConfig()
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 42)
	c.RebuildMesh(1, CategoryAll, &cfg)

	assert.Equal(t, c.VisibleCount()*8, c.Mesh().VertexCount())
	assert.Equal(t, c.VisibleCount()*24, c.Mesh().IndexCount())
}

func TestCategoryMaskFilters(t *testing.T) {
	cfg := singleTypeConfig()
	cfg.Types = append(cfg.Types, Type{
		Name: "rock", Category: CategoryRocks, Orientation: CrossedQuads,
		Tile: meshing.TileRock1, MinSize: 1, MaxSize: 1, MaxSlope: 1.5,
		BaseDensity: 1, AllowedSurfaces: surfacemap.Grass,
		BaseColor: color.RGBA{150, 150, 150, 255},
	})
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 42)

	c.RebuildMesh(1, CategoryAll, &cfg)
	all := c.VisibleCount()

	c.RebuildMesh(1, CategoryRocks, &cfg)
	rocksOnly := c.VisibleCount()

	assert.Greater(t, all, rocksOnly)
	assert.Greater(t, rocksOnly, 0)

	c.RebuildMesh(1, CategoryNone, &cfg)
	assert.Equal(t, 0, c.VisibleCount())
}

func TestRebuildMemoized(t *testing.T) {
	cfg := singleTypeConfig()
	scene := render.NewRecording()
	c := NewChunk(ChunkKey{0, 0}, cfg.ChunkSize, scene, render.DetailMaterial("detail"))
	c.GeneratePlacements(&cfg, flatGrass, nil, 42)

	c.RebuildMesh(0.5, CategoryAll, &cfg)
	c.Attach()
	id := render.NodeID(1)
	require.Equal(t, 1, scene.NodeCount())

	// Same inputs must not dirty the node.
	c.RebuildMesh(0.5, CategoryAll, &cfg)
	assert.Equal(t, 0, scene.DirtyCount(id))

	c.RebuildMesh(0.6, CategoryAll, &cfg)
	assert.Equal(t, 1, scene.DirtyCount(id))

	c.Invalidate()
	c.RebuildMesh(0.6, CategoryAll, &cfg)
	assert.Equal(t, 2, scene.DirtyCount(id))
}

func TestWindMovesOnlyTips(t *testing.T) {
	cfg := singleTypeConfig()
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 42)
	c.RebuildMesh(1, CategoryAll, &cfg)
	require.False(t, c.Mesh().Empty())

	base := make([]mgl32.Vec3, len(c.Mesh().Vertices))
	for i, v := range c.Mesh().Vertices {
		base[i] = v.Pos
	}

	w := wind.NewField(wind.DefaultParams())
	w.Advance(1.3)
	c.ApplyWind(w, 0.8)

	moved := 0
	for i, v := range c.Mesh().Vertices {
		if i%4 < 2 {
			// Quad roots stay planted.
			assert.Equal(t, base[i], v.Pos, "vertex %d", i)
		} else if v.Pos != base[i] {
			moved++
		}
	}
	assert.Greater(t, moved, 0, "tips should sway")
}

func TestZeroWindStrengthFreezes(t *testing.T) {
	cfg := singleTypeConfig()
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 42)
	c.RebuildMesh(1, CategoryAll, &cfg)

	base := make([]mgl32.Vec3, len(c.Mesh().Vertices))
	for i, v := range c.Mesh().Vertices {
		base[i] = v.Pos
	}

	w := wind.NewField(wind.DefaultParams())
	w.Advance(2)
	c.ApplyWind(w, 0)

	for i, v := range c.Mesh().Vertices {
		assert.Equal(t, base[i], v.Pos, "vertex %d", i)
	}
}

func TestFlatGroundIgnoresWind(t *testing.T) {
	cfg := singleTypeConfig()
	cfg.Types[0].Orientation = FlatGround
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 42)
	c.RebuildMesh(1, CategoryAll, &cfg)
	require.False(t, c.Mesh().Empty())

	// Flat sprites use 4 vertices and 12 indices each.
	assert.Equal(t, c.VisibleCount()*4, c.Mesh().VertexCount())
	assert.Equal(t, c.VisibleCount()*12, c.Mesh().IndexCount())

	base := make([]mgl32.Vec3, len(c.Mesh().Vertices))
	for i, v := range c.Mesh().Vertices {
		base[i] = v.Pos
	}

	w := wind.NewField(wind.DefaultParams())
	w.Advance(3)
	c.ApplyWind(w, 1)

	for i, v := range c.Mesh().Vertices {
		assert.Equal(t, base[i], v.Pos)
	}
}

func TestDisturbanceBendsNearbyTips(t *testing.T) {
	cfg := singleTypeConfig()
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 42)
	c.RebuildMesh(1, CategoryAll, &cfg)
	require.False(t, c.Mesh().Empty())

	d := disturbance.NewField(disturbance.DefaultConfig())
	d.AddSource(disturbance.Source{
		Position: mgl32.Vec3{25, 0, 25},
		Radius:   10,
		Strength: 1,
	})

	base := make([]mgl32.Vec3, len(c.Mesh().Vertices))
	for i, v := range c.Mesh().Vertices {
		base[i] = v.Pos
	}

	w := wind.NewField(wind.DefaultParams())
	c.ApplyWindAndDisturbance(w, d, 0)

	movedNear := false
	for i, v := range c.Mesh().Vertices {
		if i%4 < 2 {
			assert.Equal(t, base[i], v.Pos)
			continue
		}
		dx := base[i].X() - 25
		dz := base[i].Z() - 25
		if dx*dx+dz*dz < 16 && v.Pos != base[i] {
			movedNear = true
		}
	}
	assert.True(t, movedNear, "tips near the source should bend")
}

func TestSeedDrivesColorVariation(t *testing.T) {
	cfg := singleTypeConfig()
	typ := &cfg.Types[0]
	white := color.RGBA{255, 255, 255, 255}

	dead := instanceColor(typ, 10, white) // 10%10 == 0, dead band
	live := instanceColor(typ, 11, white)
	assert.NotEqual(t, dead, live)
	assert.Greater(t, dead.R, dead.B, "dead grass is tan")

	// Same seed, same color.
	assert.Equal(t, instanceColor(typ, 37, white), instanceColor(typ, 37, white))
}

func TestSeasonTintModulates(t *testing.T) {
	cfg := singleTypeConfig()
	c := buildChunk(t, &cfg, ChunkKey{0, 0}, 42)

	c.RebuildMesh(1, CategoryAll, &cfg)
	normal := c.Mesh().Vertices[0].Color

	cfg.SeasonTint = SeasonSnow.Tint()
	c.Invalidate()
	c.RebuildMesh(1, CategoryAll, &cfg)
	tinted := c.Mesh().Vertices[0].Color

	assert.NotEqual(t, normal, tinted)
}

func TestChunkKeyFloorDivision(t *testing.T) {
	assert.Equal(t, ChunkKey{0, 0}, KeyForPosition(0, 0, 50))
	assert.Equal(t, ChunkKey{0, 0}, KeyForPosition(49.9, 49.9, 50))
	assert.Equal(t, ChunkKey{1, 0}, KeyForPosition(50, 0, 50))
	assert.Equal(t, ChunkKey{-1, -1}, KeyForPosition(-0.1, -50, 50))
	assert.Equal(t, ChunkKey{-2, 2}, KeyForPosition(-51, 149, 50))
}

func TestChunkSeedMixesCoordinates(t *testing.T) {
	s := chunkSeed(7, ChunkKey{2, 3})
	assert.NotEqual(t, s, chunkSeed(7, ChunkKey{3, 2}), "transposed keys must differ")
	assert.NotEqual(t, s, chunkSeed(8, ChunkKey{2, 3}))
	assert.Equal(t, s, chunkSeed(7, ChunkKey{2, 3}))
}

func BenchmarkGeneratePlacements(b *testing.B) {
	cfg := singleTypeConfig()
	for i := 0; i < b.N; i++ {
		c := NewChunk(ChunkKey{int32(i), 0}, cfg.ChunkSize, render.NewRecording(), render.DetailMaterial("detail"))
		c.GeneratePlacements(&cfg, flatGrass, nil, 42)
	}
}

func BenchmarkRebuildMesh(b *testing.B) {
	cfg := singleTypeConfig()
	c := NewChunk(ChunkKey{0, 0}, cfg.ChunkSize, render.NewRecording(), render.DetailMaterial("detail"))
	c.GeneratePlacements(&cfg, flatGrass, nil, 42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Invalidate()
		c.RebuildMesh(0.5, CategoryAll, &cfg)
	}
}
