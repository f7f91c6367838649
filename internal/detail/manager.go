package detail

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"groundcover/internal/disturbance"
	"groundcover/internal/footprint"
	"groundcover/internal/profiling"
	"groundcover/internal/render"
	"groundcover/internal/surfacemap"
	"groundcover/internal/wind"
)

const (
	// Chunks stay loaded this many chunks beyond the view distance so a
	// viewer pacing a boundary does not thrash load/unload.
	unloadSlackChunks = 2

	// Cap on fresh chunk builds per update; the rest wait in the queue
	// so a zone entry does not stall one frame with every build at once.
	maxChunkBuildsPerUpdate = 4

	// Below this the slider means "off"; no geometry survives anyway.
	minActiveDensity = 0.01
)

// Options configure a Manager at construction.
type Options struct {
	// ConfigDir holds per-zone YAML files; empty means built-ins only.
	ConfigDir string
	// MapDir holds per-zone .smap surface grids.
	MapDir string
	// GlobalSeed keys all chunk generation. The same seed and zone always
	// reproduce the same world.
	GlobalSeed uint64
	// Atlas names the texture atlas the render sink should bind.
	Atlas string
}

// ZoneHooks are the engine collaborators handed over on zone entry.
type ZoneHooks struct {
	// Raycast probes collision geometry for exact heights and normals.
	Raycast footprint.GroundRaycast
	// Classifier answers ground queries when no surface map exists for
	// the zone. With neither map nor classifier the zone gets no details.
	Classifier GroundQuery
	// Excluded marks regions that must stay clear, on top of the config's
	// exclusion boxes.
	Excluded ExclusionCheck
}

// Manager owns every piece of the ground cover system for the active zone
// and streams chunks around the viewer. Not safe for concurrent use; drive
// it from the update loop.
type Manager struct {
	opts  Options
	scene render.Scene

	enabled bool
	density float32
	mask    Category

	zone    string
	cfg     ZoneFiles
	surf    *surfacemap.Map
	ground  GroundQuery
	exclude ExclusionCheck
	season  Season

	windField *wind.Field
	distField *disturbance.Field
	feet      *footprint.Tracker
	seasons   SeasonMapper

	chunks        map[ChunkKey]*Chunk
	pending       []ChunkKey
	lastViewerKey ChunkKey
	hasViewerKey  bool

	frames uint64
}

func NewManager(scene render.Scene, opts Options) *Manager {
	if opts.Atlas == "" {
		opts.Atlas = "detail_atlas"
	}
	return &Manager{
		opts:      opts,
		scene:     scene,
		enabled:   true,
		density:   0.5,
		mask:      CategoryAll,
		windField: wind.NewField(wind.DefaultParams()),
		distField: disturbance.NewField(disturbance.DefaultConfig()),
		feet:      footprint.NewTracker(footprint.DefaultConfig()),
		chunks:    make(map[ChunkKey]*Chunk),
	}
}

// OnZoneEnter loads the zone's config and surface map and wires the engine
// hooks. Chunks appear lazily on the following updates.
func (m *Manager) OnZoneEnter(zone string, hooks ZoneHooks) error {
	m.OnZoneExit()

	m.zone = zone
	m.cfg = LoadZoneFiles(m.opts.ConfigDir, zone)

	m.season = m.seasons.Detect(zone)
	m.cfg.Zone.SeasonTint = m.season.Tint()
	m.cfg.Zone.DensityMultiplier *= m.season.DensityMultiplier()

	if m.opts.MapDir != "" {
		path := filepath.Join(m.opts.MapDir, zone+".smap")
		surf, err := surfacemap.Load(path)
		if err != nil {
			log.Printf("detail: no surface map for zone %s: %v", zone, err)
		} else {
			m.surf = surf
			log.Printf("detail: zone %s surface map %dx%d cells", zone, surf.GridWidth(), surf.GridHeight())
		}
	}

	m.ground = m.buildGroundQuery(hooks)
	if m.ground == nil {
		log.Printf("detail: zone %s has neither surface map nor classifier, details disabled", zone)
	}

	zoneCfg := &m.cfg.Zone
	m.exclude = func(p mgl32.Vec3) bool {
		if zoneCfg.ExcludedAt(p) {
			return true
		}
		return hooks.Excluded != nil && hooks.Excluded(p)
	}

	m.windField.SetParams(wind.Params{
		Strength:      1, // zone strength is applied per vertex
		Frequency:     zoneCfg.Wind.Frequency,
		GustFrequency: zoneCfg.Wind.GustFrequency,
		GustStrength:  zoneCfg.Wind.GustStrength,
		Direction:     mgl32.Vec2{zoneCfg.Wind.DirectionX, zoneCfg.Wind.DirectionZ},
	})
	m.distField.SetConfig(m.cfg.Disturbance)
	m.feet.SetConfig(m.cfg.Footprints)
	m.feet.SetGround(m.surf, hooks.Raycast)

	log.Printf("detail: entered zone %s season=%s types=%d chunkSize=%.0f",
		zone, m.season, len(zoneCfg.Types), zoneCfg.ChunkSize)
	return nil
}

// buildGroundQuery prefers the surface map for classification with the
// collision raycast refining heights and normals; without a map the
// engine's classifier carries the whole query.
func (m *Manager) buildGroundQuery(hooks ZoneHooks) GroundQuery {
	surf := m.surf
	raycast := hooks.Raycast

	if !surf.Loaded() {
		return hooks.Classifier
	}

	return func(x, z float32) (GroundInfo, bool) {
		surface := surf.TypeAt(x, z)
		height := surf.HeightAt(x, z)
		if surface == surfacemap.Unknown || height == surfacemap.MissingHeight {
			return GroundInfo{}, false
		}
		info := GroundInfo{Height: height, Normal: mgl32.Vec3{0, 1, 0}, Surface: surface}
		if raycast != nil {
			if h, n, ok := raycast(x, z, height+10); ok {
				info.Height = h
				info.Normal = n
			}
		} else if h, n, ok := surf.Probe(x, z, height+10); ok {
			// No collision geometry: smooth the grid heights instead.
			info.Height = h
			info.Normal = n
		}
		return info, true
	}
}

// OnZoneExit tears down all zone state.
func (m *Manager) OnZoneExit() {
	for _, c := range m.chunks {
		c.Detach()
	}
	m.chunks = make(map[ChunkKey]*Chunk)
	m.pending = m.pending[:0]
	m.hasViewerKey = false

	m.distField.Clear()
	m.feet.Clear()

	m.zone = ""
	m.surf = nil
	m.ground = nil
	m.exclude = nil
}

// Update drives the whole system one frame. dt is in seconds. viewerPos
// centers chunk streaming (the camera); actor state feeds disturbance and
// footprints.
func (m *Manager) Update(dt float32, viewerPos, actorPos, actorVel mgl32.Vec3, actorHeading float32, actorMoving bool) {
	defer profiling.Track("detail.Update")()

	if !m.enabled || m.zone == "" || m.ground == nil {
		return
	}
	m.frames++

	m.windField.Advance(dt)

	dCfg := m.distField.Config()
	m.distField.ClearSources()
	if dCfg.Enabled {
		m.distField.AddSource(disturbance.Source{
			Position: actorPos,
			Velocity: actorVel,
			Radius:   dCfg.PlayerRadius,
			Strength: dCfg.PlayerStrength,
		})
	}
	m.distField.Update(dt)

	m.feet.Update(dt, actorPos, actorHeading, actorMoving)

	if m.density < minActiveDensity {
		// Slider at zero: keep chunks resident but empty their meshes.
		for _, c := range m.chunks {
			c.RebuildMesh(0, m.mask, &m.cfg.Zone)
		}
		return
	}

	m.streamChunks(viewerPos)
	m.buildPending()

	windStrength := m.cfg.Zone.Wind.Strength
	for _, c := range m.chunks {
		if !c.generated {
			continue
		}
		c.RebuildMesh(m.density, m.mask, &m.cfg.Zone)
		if dCfg.Enabled {
			c.ApplyWindAndDisturbance(m.windField, m.distField, windStrength)
		} else if windStrength > 0.001 {
			c.ApplyWind(m.windField, windStrength)
		}
	}
}

// streamChunks reconciles the loaded set against the viewer position. The
// scan runs only when the viewer crosses a chunk boundary; hysteresis
// keeps a margin of chunks alive beyond the view distance.
func (m *Manager) streamChunks(viewerPos mgl32.Vec3) {
	size := m.cfg.Zone.ChunkSize
	viewerKey := KeyForPosition(viewerPos.X(), viewerPos.Z(), size)

	if m.hasViewerKey && viewerKey == m.lastViewerKey {
		return
	}
	m.lastViewerKey = viewerKey
	m.hasViewerKey = true

	vd := int32(m.cfg.Zone.ViewDistanceChunks)
	for dz := -vd; dz <= vd; dz++ {
		for dx := -vd; dx <= vd; dx++ {
			key := ChunkKey{X: viewerKey.X + dx, Z: viewerKey.Z + dz}
			if _, ok := m.chunks[key]; ok {
				continue
			}
			m.chunks[key] = NewChunk(key, size, m.scene, render.DetailMaterial(m.opts.Atlas))
			m.pending = append(m.pending, key)
		}
	}

	unload := vd + unloadSlackChunks
	for key, c := range m.chunks {
		dx := key.X - viewerKey.X
		dz := key.Z - viewerKey.Z
		if dx < 0 {
			dx = -dx
		}
		if dz < 0 {
			dz = -dz
		}
		if dx > unload || dz > unload {
			c.Detach()
			delete(m.chunks, key)
		}
	}
}

// buildPending generates and attaches queued chunks, a few per frame.
func (m *Manager) buildPending() {
	if len(m.pending) == 0 {
		return
	}
	defer profiling.Track("detail.BuildChunks")()

	built := 0
	for len(m.pending) > 0 && built < maxChunkBuildsPerUpdate {
		key := m.pending[0]
		m.pending = m.pending[1:]

		c, ok := m.chunks[key]
		if !ok {
			// Unloaded again before its build came up.
			continue
		}
		c.GeneratePlacements(&m.cfg.Zone, m.ground, m.exclude, m.opts.GlobalSeed)
		c.RebuildMesh(m.density, m.mask, &m.cfg.Zone)
		c.Attach()
		built++
	}
	profiling.Count("detail.chunksBuilt", int64(built))
}

// RenderFootprints submits this frame's footprint decals.
func (m *Manager) RenderFootprints() {
	if !m.enabled || m.zone == "" {
		return
	}
	m.feet.Render(m.scene, render.DecalMaterial(m.opts.Atlas))
}

// SetDensity clamps and applies the global density slider. Chunk meshes
// rebuild lazily on the next update.
func (m *Manager) SetDensity(d float32) {
	m.density = mgl32.Clamp(d, 0, 1)
}

// AdjustDensity nudges the slider, for keybindings.
func (m *Manager) AdjustDensity(delta float32) {
	m.SetDensity(m.density + delta)
}

func (m *Manager) Density() float32 { return m.density }

// SetCategoryEnabled toggles one category in the render mask.
func (m *Manager) SetCategoryEnabled(cat Category, enabled bool) {
	if enabled {
		m.mask |= cat
	} else {
		m.mask &^= cat
	}
}

func (m *Manager) IsCategoryEnabled(cat Category) bool {
	return m.mask&cat != 0
}

// SetEnabled switches the whole system. Disabling detaches every chunk
// but keeps their generated placements for instant re-enable.
func (m *Manager) SetEnabled(enabled bool) {
	if m.enabled == enabled {
		return
	}
	m.enabled = enabled
	for _, c := range m.chunks {
		if enabled {
			c.Attach()
		} else {
			c.Detach()
		}
	}
}

func (m *Manager) Enabled() bool { return m.enabled }

// SetSeasonOverride forces a season regardless of zone, recoloring and
// rebuilding everything resident.
func (m *Manager) SetSeasonOverride(s Season) {
	m.seasons.SetOverride(s)
	m.applySeason()
}

// ClearSeasonOverride returns to the zone's own season.
func (m *Manager) ClearSeasonOverride() {
	m.seasons.ClearOverride()
	m.applySeason()
}

func (m *Manager) applySeason() {
	if m.zone == "" {
		return
	}
	prev := m.season
	m.season = m.seasons.Detect(m.zone)
	if m.season == prev {
		return
	}
	// Undo the previous season's density scaling before applying the new
	// one; placements are already generated, only the tint needs a rebuild.
	m.cfg.Zone.DensityMultiplier *= m.season.DensityMultiplier() / prev.DensityMultiplier()
	m.cfg.Zone.SeasonTint = m.season.Tint()
	for _, c := range m.chunks {
		c.Invalidate()
	}
	log.Printf("detail: zone %s season now %s", m.zone, m.season)
}

func (m *Manager) Season() Season { return m.season }

// Zone returns the active zone name, empty when none.
func (m *Manager) Zone() string { return m.zone }

// ChunkCount reports resident chunks.
func (m *Manager) ChunkCount() int { return len(m.chunks) }

// PlacementCount sums generated placements across resident chunks.
func (m *Manager) PlacementCount() int {
	n := 0
	for _, c := range m.chunks {
		n += c.PlacementCount()
	}
	return n
}

// VisibleCount sums placements surviving the current filters.
func (m *Manager) VisibleCount() int {
	n := 0
	for _, c := range m.chunks {
		n += c.VisibleCount()
	}
	return n
}

// DebugInfo is a one-line status string for overlays.
func (m *Manager) DebugInfo() string {
	return fmt.Sprintf(
		"detail zone=%s season=%s density=%.2f chunks=%d pending=%d placed=%d visible=%d residuals=%d footprints=%d",
		m.zone, m.season, m.density, len(m.chunks), len(m.pending),
		m.PlacementCount(), m.VisibleCount(),
		m.distField.ResidualCount(), m.feet.ActiveCount(),
	)
}
