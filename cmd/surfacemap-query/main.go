// surfacemap-query inspects a baked .smap file: header, per-material
// cell counts and optional point queries. Useful when a zone's cover
// looks wrong and the question is whether the map or the classifier is
// to blame.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"groundcover/internal/surfacemap"
)

func main() {
	var at pointList
	flag.Var(&at, "at", "world point \"x,z\" to query; repeatable")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: surfacemap-query [-at x,z]... <file.smap>\n")
		os.Exit(2)
	}

	m, err := surfacemap.Load(flag.Arg(0))
	if err != nil {
		log.Fatalf("surfacemap-query: %v", err)
	}

	hdr := m.Header()
	minX, minZ, maxX, maxZ := m.Bounds()
	fmt.Printf("version:  %d\n", hdr.Version)
	fmt.Printf("grid:     %dx%d cells, %.2f units/cell\n", hdr.GridWidth, hdr.GridHeight, hdr.CellSize)
	fmt.Printf("bounds:   x %.1f..%.1f  z %.1f..%.1f\n", minX, maxX, minZ, maxZ)
	fmt.Printf("heights:  %.1f..%.1f\n", hdr.MinY, hdr.MaxY)

	counts := surfaceCounts(m)
	fmt.Println("surfaces:")
	for _, c := range counts {
		pct := 100 * float64(c.n) / float64(hdr.CellCount)
		fmt.Printf("  %-8s %8d cells  %5.1f%%\n", c.name, c.n, pct)
	}

	for _, p := range at {
		s := m.TypeAt(p.x, p.z)
		h := m.HeightAt(p.x, p.z)
		if s == surfacemap.Unknown && h == surfacemap.MissingHeight {
			fmt.Printf("at %.1f,%.1f: outside map\n", p.x, p.z)
			continue
		}
		fmt.Printf("at %.1f,%.1f: %s height %.2f\n", p.x, p.z, s, h)
	}
}

type surfaceCount struct {
	name string
	n    int
}

func surfaceCounts(m *surfacemap.Map) []surfaceCount {
	byName := make(map[string]int)
	minX, minZ, _, _ := m.Bounds()
	hdr := m.Header()
	for cz := 0; cz < int(hdr.GridHeight); cz++ {
		for cx := 0; cx < int(hdr.GridWidth); cx++ {
			x := minX + (float32(cx)+0.5)*hdr.CellSize
			z := minZ + (float32(cz)+0.5)*hdr.CellSize
			byName[m.TypeAt(x, z).String()]++
		}
	}

	out := make([]surfaceCount, 0, len(byName))
	for name, n := range byName {
		out = append(out, surfaceCount{name, n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].n > out[j].n })
	return out
}

type point struct{ x, z float32 }

// pointList implements flag.Value for repeated -at x,z arguments.
type pointList []point

func (p *pointList) String() string {
	parts := make([]string, len(*p))
	for i, pt := range *p {
		parts[i] = fmt.Sprintf("%g,%g", pt.x, pt.z)
	}
	return strings.Join(parts, " ")
}

func (p *pointList) Set(s string) error {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return fmt.Errorf("want x,z, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
	if err != nil {
		return err
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(zs), 32)
	if err != nil {
		return err
	}
	*p = append(*p, point{float32(x), float32(z)})
	return nil
}
