// groundcover-sim drives the detail system headless: a walker crosses a
// zone at a fixed timestep while the manager streams chunks, bends
// grass and drops footprints into a recording scene. It prints status
// lines and a hotspot profile, which is enough to sanity check a zone
// config or a freshly baked surface map without a renderer.
package main

import (
	"flag"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"groundcover/internal/detail"
	"groundcover/internal/profiling"
	"groundcover/internal/render"
	"groundcover/internal/surfacemap"
)

func main() {
	var (
		zone      = flag.String("zone", "meadow", "zone to enter")
		configDir = flag.String("configs", "configs", "zone config directory")
		mapDir    = flag.String("maps", "maps", "surface map directory")
		seed      = flag.Uint64("seed", 1, "global placement seed")
		seconds   = flag.Float64("seconds", 30, "simulated walk duration")
		speed     = flag.Float64("speed", 5, "walker speed, units/second")
		density   = flag.Float64("density", 0.5, "detail density 0..1")
		season    = flag.String("season", "", "season override (snow, autumn, desert, swamp)")
	)
	flag.Parse()

	scene := render.NewRecording()
	mgr := detail.NewManager(scene, detail.Options{
		ConfigDir:  *configDir,
		MapDir:     *mapDir,
		GlobalSeed: *seed,
	})
	mgr.SetDensity(float32(*density))

	// Flat fallback ground keeps the sim useful when no map was baked.
	classifier := func(x, z float32) (detail.GroundInfo, bool) {
		return detail.GroundInfo{Normal: mgl32.Vec3{0, 1, 0}, Surface: surfacemap.Grass}, true
	}
	if err := mgr.OnZoneEnter(*zone, detail.ZoneHooks{Classifier: classifier}); err != nil {
		log.Fatalf("groundcover-sim: %v", err)
	}
	if *season != "" {
		mgr.SetSeasonOverride(detail.ParseSeason(*season))
	}

	const dt = float32(1.0 / 60)
	steps := int(*seconds / float64(dt))
	pos := mgl32.Vec3{0, 0, 0}

	for i := 0; i < steps; i++ {
		profiling.ResetFrame()
		scene.BeginFrame()

		// Wandering walk: heading drifts so the path covers several
		// chunks instead of one straight line.
		t := float32(i) * dt
		heading := 0.5 * float32(math.Sin(float64(t)*0.2))
		vel := mgl32.Vec3{
			float32(*speed) * float32(math.Sin(float64(heading))),
			0,
			float32(*speed) * float32(math.Cos(float64(heading))),
		}
		pos = pos.Add(vel.Mul(dt))

		mgr.Update(dt, pos, pos, vel, heading, true)
		mgr.RenderFootprints()

		if i%60 == 0 {
			log.Printf("t=%4.0fs pos=(%.0f,%.0f) %s", t, pos.X(), pos.Z(), mgr.DebugInfo())
		}
	}

	log.Printf("final: %s", mgr.DebugInfo())
	log.Printf("scene: %d nodes, %d vertices, %d decal quads",
		scene.NodeCount(), scene.TotalVertices(), scene.QuadCount())
	if top := profiling.TopN(5); top != "" {
		log.Printf("profile: %s", top)
	}

	mgr.OnZoneExit()
}
