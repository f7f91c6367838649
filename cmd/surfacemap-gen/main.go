// surfacemap-gen bakes a procedural surface grid for a zone. A Perlin
// heightfield drives both the stored heights and the material
// classification: low wet cells become water or swamp, mid elevations
// grass and dirt, high slopes rock, peaks snow. The output feeds the
// detail manager's ground queries, so a zone gets plausible cover
// without hand-authored maps.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/aquilax/go-perlin"

	"groundcover/internal/surfacemap"
)

const (
	perlinAlpha   = 2
	perlinBeta    = 2
	perlinOctaves = 3
)

type biome int

const (
	biomeTemperate biome = iota
	biomeTundra
	biomeDesert
	biomeSwamp
	biomeJungle
)

func parseBiome(name string) (biome, error) {
	switch name {
	case "temperate":
		return biomeTemperate, nil
	case "tundra":
		return biomeTundra, nil
	case "desert":
		return biomeDesert, nil
	case "swamp":
		return biomeSwamp, nil
	case "jungle":
		return biomeJungle, nil
	}
	return biomeTemperate, fmt.Errorf("unknown biome %q (temperate, tundra, desert, swamp, jungle)", name)
}

func main() {
	var (
		zone      = flag.String("zone", "", "zone name; output is <out>/<zone>.smap")
		outDir    = flag.String("out", "maps", "output directory")
		size      = flag.Float64("size", 1000, "world extent in units, centered on the origin")
		cellSize  = flag.Float64("cell", 2, "grid cell size in world units")
		seed      = flag.Int64("seed", 1, "terrain noise seed")
		amplitude = flag.Float64("amplitude", 40, "height range in world units")
		scale     = flag.Float64("scale", 0.004, "noise frequency; smaller is smoother")
		biomeName = flag.String("biome", "temperate", "classification palette")
	)
	flag.Parse()

	if *zone == "" {
		flag.Usage()
		os.Exit(2)
	}
	b, err := parseBiome(*biomeName)
	if err != nil {
		log.Fatalf("surfacemap-gen: %v", err)
	}

	extent, cell, amp, freq := *size, *cellSize, *amplitude, *scale
	cells := int(extent / cell)
	if cells < 2 {
		log.Fatalf("surfacemap-gen: size %.0f with cell %.1f leaves no grid", extent, cell)
	}
	half := float32(extent / 2)

	noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, *seed)
	builder := surfacemap.NewBuilder(-half, -half, float32(cell), cells, cells)

	heightAt := func(wx, wz float64) float64 {
		return noise.Noise2D(wx*freq, wz*freq) * amp
	}

	for cz := 0; cz < cells; cz++ {
		for cx := 0; cx < cells; cx++ {
			wx := float64(-half) + (float64(cx)+0.5)*cell
			wz := float64(-half) + (float64(cz)+0.5)*cell

			h := heightAt(wx, wz)
			// Central difference slope, in height units per world unit.
			dx := heightAt(wx+cell, wz) - heightAt(wx-cell, wz)
			dz := heightAt(wx, wz+cell) - heightAt(wx, wz-cell)
			slope := math.Hypot(dx, dz) / (2 * cell)

			// Independent moisture channel, offset so it decorrelates
			// from elevation.
			moisture := noise.Noise2D(wx*freq+100, wz*freq-100)

			code := classify(b, h/amp, slope, moisture)
			builder.SetCell(cx, cz, code, float32(h))
		}
	}

	m := builder.Map()
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("surfacemap-gen: %v", err)
	}
	path := filepath.Join(*outDir, *zone+".smap")
	if err := m.Save(path); err != nil {
		log.Fatalf("surfacemap-gen: %v", err)
	}

	hdr := m.Header()
	log.Printf("surfacemap-gen: wrote %s (%dx%d cells, %.0fx%.0f units, heights %.1f..%.1f)",
		path, hdr.GridWidth, hdr.GridHeight, *size, *size, hdr.MinY, hdr.MaxY)
}

// classify picks a material from normalized height (-1..1), slope and
// moisture. Steep ground reads as bare rock in every biome; the rest is
// the biome's palette by elevation band.
func classify(b biome, h, slope, moisture float64) surfacemap.RawCode {
	if slope > 0.9 {
		return surfacemap.RawRock
	}
	if slope > 0.6 {
		return surfacemap.RawStone
	}

	switch b {
	case biomeTundra:
		if h < -0.5 {
			return surfacemap.RawWater
		}
		if h < -0.2 {
			return surfacemap.RawDirt
		}
		return surfacemap.RawSnow

	case biomeDesert:
		if h > 0.6 {
			return surfacemap.RawRock
		}
		return surfacemap.RawSand

	case biomeSwamp:
		if h < 0 {
			return surfacemap.RawWater
		}
		if h < 0.4 || moisture > 0 {
			return surfacemap.RawSwamp
		}
		return surfacemap.RawDirt

	case biomeJungle:
		if h < -0.6 {
			return surfacemap.RawWater
		}
		if moisture > -0.3 {
			return surfacemap.RawJungle
		}
		return surfacemap.RawDirt
	}

	// Temperate default.
	switch {
	case h < -0.6:
		return surfacemap.RawWater
	case h < -0.45:
		return surfacemap.RawSand
	case h > 0.7:
		return surfacemap.RawSnow
	case h > 0.5:
		return surfacemap.RawRock
	case moisture < -0.4:
		return surfacemap.RawDirt
	default:
		return surfacemap.RawGrass
	}
}
