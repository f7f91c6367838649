package surfacemap

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestMap() *Map {
	b := NewBuilder(-10, -10, 2, 10, 10)
	for cz := 0; cz < 10; cz++ {
		for cx := 0; cx < 10; cx++ {
			code := RawGrass
			if cx >= 5 {
				code = RawStone
			}
			b.SetCell(cx, cz, code, float32(cx)*0.5)
		}
	}
	return b.Map()
}

func TestRoundTrip(t *testing.T) {
	m := buildTestMap()

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf))

	got, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, m.Header(), got.Header())
	for cz := 0; cz < m.GridHeight(); cz++ {
		for cx := 0; cx < m.GridWidth(); cx++ {
			assert.Equal(t, m.CodeAt(cx, cz), got.CodeAt(cx, cz))
		}
	}
	assert.Equal(t, m.HeightAt(-9, -9), got.HeightAt(-9, -9))
}

func TestReadBadMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, buildTestMap().Write(&buf))
	data := buf.Bytes()
	data[0] = 'X'

	_, err := Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestReadBadVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, buildTestMap().Write(&buf))
	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[4:], 99)

	_, err := Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrBadVersion)
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, buildTestMap().Write(&buf))
	data := buf.Bytes()

	for _, n := range []int{0, 3, 20, len(data) / 2, len(data) - 1} {
		_, err := Read(bytes.NewReader(data[:n]))
		assert.ErrorIs(t, err, ErrTruncated, "prefix of %d bytes", n)
	}
}

func TestQueries(t *testing.T) {
	m := buildTestMap()

	// Cells 0..4 in x are grass, 5..9 stone. Cell size 2, origin -10.
	assert.Equal(t, Grass, m.TypeAt(-9, 0))
	assert.Equal(t, Stone, m.TypeAt(5, 0))
	assert.InDelta(t, 0.0, m.HeightAt(-9, 0), 1e-6)
	assert.InDelta(t, 4.5, m.HeightAt(9, 0), 1e-6)
}

func TestOutOfBoundsSentinels(t *testing.T) {
	m := buildTestMap()

	assert.Equal(t, Unknown, m.TypeAt(100, 0))
	assert.Equal(t, Unknown, m.TypeAt(0, -11))
	assert.Equal(t, MissingHeight, m.HeightAt(100, 0))

	var empty Map
	assert.False(t, empty.Loaded())
	assert.Equal(t, Unknown, empty.TypeAt(0, 0))
	assert.Equal(t, MissingHeight, empty.HeightAt(0, 0))
}

func TestRawCodeForwardCompat(t *testing.T) {
	assert.Equal(t, Swamp, RawSwamp.Type())
	assert.Equal(t, Unknown, RawCode(200).Type())
}

func TestParseType(t *testing.T) {
	cases := map[string]SurfaceType{
		"grass":    Grass,
		"Snow":     Snow,
		" rock ":   Rock,
		"natural":  Natural,
		"hard":     HardSurface,
		"tropical": Tropical,
		"all":      All,
	}
	for name, want := range cases {
		got, err := ParseType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseType("obsidian")
	assert.Error(t, err)
}

func TestTypeMaskMembership(t *testing.T) {
	assert.NotZero(t, Natural&Grass)
	assert.NotZero(t, Natural&Swamp)
	assert.Zero(t, Natural&Stone)
	assert.NotZero(t, HardSurface&Rock)
	assert.Zero(t, Unknown&All)
}
