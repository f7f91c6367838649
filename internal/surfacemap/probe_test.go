package surfacemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampMap(t *testing.T) *Map {
	t.Helper()
	// 10x10 cells, 1 unit each, height rising 0.5 per unit east.
	b := NewBuilder(0, 0, 1, 10, 10)
	for cz := 0; cz < 10; cz++ {
		for cx := 0; cx < 10; cx++ {
			b.SetCell(cx, cz, RawGrass, 0.5*(float32(cx)+0.5))
		}
	}
	return b.Map()
}

func TestProbeInterpolatesBetweenCells(t *testing.T) {
	m := rampMap(t)

	// At a cell center the stored height comes back exactly.
	h, _, ok := m.Probe(2.5, 5.5, 100)
	require.True(t, ok)
	assert.InDelta(t, 0.5*2.5, float64(h), 1e-5)

	// Between centers the ramp blends linearly.
	h, _, ok = m.Probe(3.0, 5.5, 100)
	require.True(t, ok)
	assert.InDelta(t, 0.5*3.0, float64(h), 1e-5)
}

func TestProbeNormalTiltsDownhill(t *testing.T) {
	m := rampMap(t)
	_, n, ok := m.Probe(5, 5, 100)
	require.True(t, ok)

	assert.InDelta(t, 1, float64(n.Len()), 1e-5)
	assert.Less(t, n.X(), float32(0), "ramp rises east, normal leans west")
	assert.InDelta(t, 0, float64(n.Z()), 1e-5)
	assert.Greater(t, n.Y(), float32(0.8))
}

func TestProbeFlatGroundIsVertical(t *testing.T) {
	b := NewBuilder(0, 0, 2, 5, 5)
	for cz := 0; cz < 5; cz++ {
		for cx := 0; cx < 5; cx++ {
			b.SetCell(cx, cz, RawDirt, 3)
		}
	}
	h, n, ok := b.Map().Probe(5, 5, 50)
	require.True(t, ok)
	assert.Equal(t, float32(3), h)
	assert.InDelta(t, 1, float64(n.Y()), 1e-6)
}

func TestProbeMissesAboveStart(t *testing.T) {
	m := rampMap(t)
	_, _, ok := m.Probe(8.5, 5.5, 1)
	assert.False(t, ok, "ground above the probe start is not below the actor")
}

func TestProbeOutsideGrid(t *testing.T) {
	m := rampMap(t)
	_, _, ok := m.Probe(-5, 5, 100)
	assert.False(t, ok)
	_, _, ok = m.Probe(5, 50, 100)
	assert.False(t, ok)
}

func TestProbeUnloadedMap(t *testing.T) {
	var m Map
	_, _, ok := m.Probe(0, 0, 100)
	assert.False(t, ok)
}
