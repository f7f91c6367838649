package detail

import (
	"encoding/binary"
	"math"
	"math/rand"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"

	"groundcover/internal/disturbance"
	"groundcover/internal/meshing"
	"groundcover/internal/render"
	"groundcover/internal/wind"
)

// Placements sit slightly above the queried ground so sprites are neither
// buried nor z-fighting the terrain.
const groundLift = 0.1

// Target ~300 placements per 50x50 chunk at density multiplier 1.
const basePlacementsPerUnit = 0.12

// chunkSeed mixes the global seed with the chunk coordinates so every
// chunk draws an independent but reproducible RNG stream.
func chunkSeed(globalSeed uint64, key ChunkKey) uint64 {
	var bx, bz [5]byte
	bx[0] = 'x'
	binary.LittleEndian.PutUint32(bx[1:], uint32(key.X))
	bz[0] = 'z'
	binary.LittleEndian.PutUint32(bz[1:], uint32(key.Z))
	return globalSeed ^ xxhash.Sum64(bx[:]) ^ xxhash.Sum64(bz[:])
}

// Chunk owns the placements and mesh for one grid cell.
type Chunk struct {
	key  ChunkKey
	size float32

	placements []Placement
	generated  bool

	mesh          meshing.Buffer
	basePositions []mgl32.Vec3
	windInfluence []float32
	visibleCount  int

	// Memoized filter inputs; rebuild is skipped while they are unchanged.
	lastDensity float32
	lastMask    Category

	scene    render.Scene
	material render.Material
	node     render.NodeID
	attached bool
}

func NewChunk(key ChunkKey, size float32, scene render.Scene, material render.Material) *Chunk {
	return &Chunk{
		key:         key,
		size:        size,
		scene:       scene,
		material:    material,
		lastDensity: -1,
	}
}

func (c *Chunk) Key() ChunkKey { return c.key }

// Bounds returns the chunk's world-space rectangle on the ground plane.
func (c *Chunk) Bounds() (minX, minZ, maxX, maxZ float32) {
	minX = float32(c.key.X) * c.size
	minZ = float32(c.key.Z) * c.size
	return minX, minZ, minX + c.size, minZ + c.size
}

// GeneratePlacements fills the chunk by rejection sampling. It runs once;
// later calls are no-ops so a chunk never changes its population.
func (c *Chunk) GeneratePlacements(cfg *ZoneConfig, ground GroundQuery, excluded ExclusionCheck, globalSeed uint64) {
	if c.generated {
		return
	}
	c.generated = true
	c.placements = c.placements[:0]

	if len(cfg.Types) == 0 {
		return
	}

	rng := rand.New(rand.NewSource(int64(chunkSeed(globalSeed, c.key))))

	minX, minZ, _, _ := c.Bounds()
	area := c.size * c.size
	baseTotal := int(area * basePlacementsPerUnit * cfg.DensityMultiplier)

	for typeIdx := range cfg.Types {
		t := &cfg.Types[typeIdx]
		attempts := int(float32(baseTotal) * t.BaseDensity / float32(len(cfg.Types)))

		for i := 0; i < attempts; i++ {
			x := minX + rng.Float32()*c.size
			z := minZ + rng.Float32()*c.size

			var pos mgl32.Vec3
			if ground != nil {
				info, found := ground(x, z)
				if !found {
					continue
				}
				pos = mgl32.Vec3{x, info.Height + groundLift, z}

				ny := info.Normal.Y()
				slope := float32(math.Acos(float64(mgl32.Clamp(ny, -1, 1))))
				if slope < t.MinSlope || slope > t.MaxSlope {
					continue
				}
				if t.AllowedSurfaces&info.Surface == 0 {
					continue
				}
			} else {
				pos = mgl32.Vec3{x, 0, z}
			}

			if excluded != nil && excluded(pos) {
				continue
			}

			rotation := rng.Float32() * 2 * math.Pi
			scale := t.MinSize + rng.Float32()*(t.MaxSize-t.MinSize)
			seed := uint8(rng.Uint32() & 0xFF)

			c.placements = append(c.placements, Placement{
				Position:  pos,
				Rotation:  rotation,
				Scale:     scale,
				TypeIndex: uint16(typeIdx),
				Seed:      seed,
			})
		}
	}
}

// RebuildMesh filters placements by density and category and regenerates
// the geometry. Unchanged inputs return immediately; the mesh is memoized
// on (density, mask).
func (c *Chunk) RebuildMesh(density float32, mask Category, cfg *ZoneConfig) {
	if density == c.lastDensity && mask == c.lastMask {
		return
	}
	c.lastDensity = density
	c.lastMask = mask

	c.mesh.Reset()
	c.basePositions = c.basePositions[:0]
	c.windInfluence = c.windInfluence[:0]
	c.visibleCount = 0

	tint := cfg.SeasonTint

	for i := range c.placements {
		p := &c.placements[i]
		if int(p.TypeIndex) >= len(cfg.Types) {
			continue
		}
		t := &cfg.Types[p.TypeIndex]

		if mask&t.Category == 0 {
			continue
		}
		// Strict comparison so density 0 hides everything and seed 255
		// only ever renders at the full setting.
		if float32(p.Seed)/255.0 >= density {
			continue
		}

		appendPlacementGeometry(&c.mesh, &c.windInfluence, p, t, tint)
		c.visibleCount++
	}

	for i := range c.mesh.Vertices {
		c.basePositions = append(c.basePositions, c.mesh.Vertices[i].Pos)
	}

	if c.attached {
		c.scene.MarkDirty(c.node)
	}
}

// ApplyWind displaces swaying vertices from their base positions. Root and
// flat vertices snap back exactly.
func (c *Chunk) ApplyWind(w *wind.Field, windStrength float32) {
	c.applyFields(w, nil, windStrength)
}

// ApplyWindAndDisturbance additionally folds in actor disturbance. The two
// displacements add; strong disturbance dominates, weak lets wind through.
func (c *Chunk) ApplyWindAndDisturbance(w *wind.Field, d *disturbance.Field, windStrength float32) {
	c.applyFields(w, d, windStrength)
}

func (c *Chunk) applyFields(w *wind.Field, d *disturbance.Field, windStrength float32) {
	if len(c.basePositions) == 0 {
		return
	}

	changed := false
	for i := range c.mesh.Vertices {
		base := c.basePositions[i]
		influence := c.windInfluence[i]

		if influence < 0.001 {
			if c.mesh.Vertices[i].Pos != base {
				c.mesh.Vertices[i].Pos = base
				changed = true
			}
			continue
		}

		var disp mgl32.Vec3
		if w != nil && windStrength > 0.001 {
			disp = w.Displacement(base, influence, windStrength)
		}
		if d != nil {
			disp = disp.Add(d.Displacement(base, influence))
		}

		next := base.Add(disp)
		if c.mesh.Vertices[i].Pos != next {
			c.mesh.Vertices[i].Pos = next
			changed = true
		}
	}

	if changed && c.attached {
		c.scene.MarkDirty(c.node)
	}
}

// Invalidate forces the next RebuildMesh to regenerate geometry even if
// density and mask are unchanged, e.g. after a season tint change.
func (c *Chunk) Invalidate() {
	c.lastDensity = -1
}

// Attach publishes the chunk mesh to the scene.
func (c *Chunk) Attach() {
	if c.attached || c.scene == nil {
		return
	}
	c.node = c.scene.Attach(&c.mesh, c.material)
	c.attached = true
}

// Detach removes the chunk mesh from the scene.
func (c *Chunk) Detach() {
	if !c.attached {
		return
	}
	c.scene.Detach(c.node)
	c.node = 0
	c.attached = false
}

func (c *Chunk) Attached() bool { return c.attached }

// PlacementCount is the generated population before filtering.
func (c *Chunk) PlacementCount() int { return len(c.placements) }

// VisibleCount is the population surviving the current density and
// category filters.
func (c *Chunk) VisibleCount() int { return c.visibleCount }

// Mesh exposes the live buffer, for tests and the render sink.
func (c *Chunk) Mesh() *meshing.Buffer { return &c.mesh }

// Placements exposes the generated instances for inspection.
func (c *Chunk) Placements() []Placement { return c.placements }
