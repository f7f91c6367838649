// Package surfacemap loads and queries precomputed surface classification
// grids. A map covers one zone with a uniform cell grid over the horizontal
// plane; each cell stores a surface material code and a representative
// terrain height.
package surfacemap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// SurfaceType is a bitmask of surface materials. Detail types carry a mask
// of surfaces they may grow on, so single types combine with |.
type SurfaceType uint32

const (
	Unknown SurfaceType = 0
	Grass   SurfaceType = 1 << 0
	Dirt    SurfaceType = 1 << 1
	Stone   SurfaceType = 1 << 2
	Brick   SurfaceType = 1 << 3
	Wood    SurfaceType = 1 << 4
	Sand    SurfaceType = 1 << 5
	Snow    SurfaceType = 1 << 6
	Water   SurfaceType = 1 << 7
	Lava    SurfaceType = 1 << 8
	Jungle  SurfaceType = 1 << 9
	Swamp   SurfaceType = 1 << 10
	Rock    SurfaceType = 1 << 11

	Natural     = Grass | Dirt | Sand | Snow | Jungle | Swamp
	HardSurface = Stone | Brick | Wood | Rock
	Tropical    = Jungle | Swamp
	Cold        = Snow
	All         SurfaceType = 0xFFFFFFFF
)

// RawCode is the on-disk per-cell material code. Codes are append-only:
// new materials get the next free value, existing values never change.
type RawCode uint8

const (
	RawUnknown RawCode = iota
	RawGrass
	RawDirt
	RawStone
	RawBrick
	RawWood
	RawSand
	RawSnow
	RawWater
	RawLava
	RawJungle
	RawSwamp
	RawRock

	rawCodeCount
)

var rawToType = [rawCodeCount]SurfaceType{
	RawUnknown: Unknown,
	RawGrass:   Grass,
	RawDirt:    Dirt,
	RawStone:   Stone,
	RawBrick:   Brick,
	RawWood:    Wood,
	RawSand:    Sand,
	RawSnow:    Snow,
	RawWater:   Water,
	RawLava:    Lava,
	RawJungle:  Jungle,
	RawSwamp:   Swamp,
	RawRock:    Rock,
}

// Type converts a raw cell code to its runtime bitflag. Codes beyond the
// known range map to Unknown so readers stay forward compatible.
func (c RawCode) Type() SurfaceType {
	if c >= rawCodeCount {
		return Unknown
	}
	return rawToType[c]
}

var typeNames = map[SurfaceType]string{
	Unknown: "unknown",
	Grass:   "grass",
	Dirt:    "dirt",
	Stone:   "stone",
	Brick:   "brick",
	Wood:    "wood",
	Sand:    "sand",
	Snow:    "snow",
	Water:   "water",
	Lava:    "lava",
	Jungle:  "jungle",
	Swamp:   "swamp",
	Rock:    "rock",
}

func (t SurfaceType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	var parts []string
	for flag, name := range typeNames {
		if flag != Unknown && t&flag != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// ParseType resolves a surface name from config into its bitmask. Composite
// names are accepted alongside single materials.
func ParseType(name string) (SurfaceType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "unknown":
		return Unknown, nil
	case "grass":
		return Grass, nil
	case "dirt":
		return Dirt, nil
	case "stone":
		return Stone, nil
	case "brick":
		return Brick, nil
	case "wood":
		return Wood, nil
	case "sand":
		return Sand, nil
	case "snow":
		return Snow, nil
	case "water":
		return Water, nil
	case "lava":
		return Lava, nil
	case "jungle":
		return Jungle, nil
	case "swamp":
		return Swamp, nil
	case "rock":
		return Rock, nil
	case "natural":
		return Natural, nil
	case "hard", "hardsurface":
		return HardSurface, nil
	case "tropical":
		return Tropical, nil
	case "cold":
		return Cold, nil
	case "all", "any":
		return All, nil
	}
	return Unknown, fmt.Errorf("surfacemap: unknown surface name %q", name)
}

const (
	magic   = "SMAP"
	version = 1

	// MissingHeight is returned by HeightAt for cells outside the grid or
	// when no map is loaded.
	MissingHeight float32 = -10000
)

var (
	ErrBadMagic   = errors.New("surfacemap: bad magic")
	ErrBadVersion = errors.New("surfacemap: unsupported version")
	ErrTruncated  = errors.New("surfacemap: truncated file")
)

// Header mirrors the fixed-size file header. All fields are little-endian
// on disk; the magic bytes precede them.
type Header struct {
	Version          uint32
	CellSize         float32
	MinX, MinY, MinZ float32
	MaxX, MaxY, MaxZ float32
	GridWidth        uint32
	GridHeight       uint32
	CellCount        uint32
}

// Map is an immutable loaded surface grid. A zero Map reports not loaded
// and answers every query with the Unknown / MissingHeight sentinels.
type Map struct {
	hdr     Header
	codes   []RawCode
	heights []float32
}

// Loaded reports whether the map holds grid data.
func (m *Map) Loaded() bool { return m != nil && len(m.codes) > 0 }

func (m *Map) Header() Header  { return m.hdr }
func (m *Map) CellSize() float32 { return m.hdr.CellSize }
func (m *Map) GridWidth() int  { return int(m.hdr.GridWidth) }
func (m *Map) GridHeight() int { return int(m.hdr.GridHeight) }

// Bounds returns the world-space rectangle the grid covers.
func (m *Map) Bounds() (minX, minZ, maxX, maxZ float32) {
	return m.hdr.MinX, m.hdr.MinZ, m.hdr.MaxX, m.hdr.MaxZ
}

// cellIndex maps a world position to a flat cell index, or -1 when the
// position is outside the grid.
func (m *Map) cellIndex(x, z float32) int {
	if !m.Loaded() {
		return -1
	}
	if x < m.hdr.MinX || z < m.hdr.MinZ || x >= m.hdr.MaxX || z >= m.hdr.MaxZ {
		return -1
	}
	cx := int((x - m.hdr.MinX) / m.hdr.CellSize)
	cz := int((z - m.hdr.MinZ) / m.hdr.CellSize)
	if cx < 0 || cz < 0 || cx >= int(m.hdr.GridWidth) || cz >= int(m.hdr.GridHeight) {
		return -1
	}
	return cz*int(m.hdr.GridWidth) + cx
}

// TypeAt returns the surface material at a world position, or Unknown when
// the position falls outside the grid.
func (m *Map) TypeAt(x, z float32) SurfaceType {
	i := m.cellIndex(x, z)
	if i < 0 {
		return Unknown
	}
	return m.codes[i].Type()
}

// HeightAt returns the stored terrain height at a world position, or
// MissingHeight when the position falls outside the grid.
func (m *Map) HeightAt(x, z float32) float32 {
	i := m.cellIndex(x, z)
	if i < 0 {
		return MissingHeight
	}
	return m.heights[i]
}

// CodeAt returns the raw cell code, mainly for tooling.
func (m *Map) CodeAt(cx, cz int) RawCode {
	if !m.Loaded() || cx < 0 || cz < 0 || cx >= int(m.hdr.GridWidth) || cz >= int(m.hdr.GridHeight) {
		return RawUnknown
	}
	return m.codes[cz*int(m.hdr.GridWidth)+cx]
}

// Read parses a surface map from r, validating magic, version and payload
// length before committing any data.
func Read(r io.Reader) (*Map, error) {
	var mg [4]byte
	if _, err := io.ReadFull(r, mg[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if string(mg[:]) != magic {
		return nil, ErrBadMagic
	}
	var hdr Header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrTruncated, err)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("%w: got %d want %d", ErrBadVersion, hdr.Version, version)
	}
	if hdr.CellCount != hdr.GridWidth*hdr.GridHeight {
		return nil, fmt.Errorf("surfacemap: cell count %d does not match %dx%d grid",
			hdr.CellCount, hdr.GridWidth, hdr.GridHeight)
	}
	if hdr.CellSize <= 0 {
		return nil, fmt.Errorf("surfacemap: invalid cell size %g", hdr.CellSize)
	}
	buf := make([]byte, hdr.CellCount)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: cell codes: %v", ErrTruncated, err)
	}
	codes := make([]RawCode, hdr.CellCount)
	for i, b := range buf {
		codes[i] = RawCode(b)
	}
	heights := make([]float32, hdr.CellCount)
	if err := binary.Read(r, binary.LittleEndian, heights); err != nil {
		return nil, fmt.Errorf("%w: cell heights: %v", ErrTruncated, err)
	}
	return &Map{hdr: hdr, codes: codes, heights: heights}, nil
}

// Load reads a surface map from disk.
func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("surfacemap: open %s: %w", path, err)
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("surfacemap: read %s: %w", path, err)
	}
	return m, nil
}

// Builder assembles a surface map in memory, used by generation tooling
// and tests. Cells default to RawUnknown with MissingHeight.
type Builder struct {
	cellSize   float32
	minX, minZ float32
	width      int
	height     int
	codes      []RawCode
	heights    []float32
	minY, maxY float32
}

// NewBuilder creates a grid of width x height cells anchored at (minX, minZ).
func NewBuilder(minX, minZ, cellSize float32, width, height int) *Builder {
	n := width * height
	b := &Builder{
		cellSize: cellSize,
		minX:     minX,
		minZ:     minZ,
		width:    width,
		height:   height,
		codes:    make([]RawCode, n),
		heights:  make([]float32, n),
		minY:     float32(math.Inf(1)),
		maxY:     float32(math.Inf(-1)),
	}
	for i := range b.heights {
		b.heights[i] = MissingHeight
	}
	return b
}

// SetCell records the material and height for one grid cell.
func (b *Builder) SetCell(cx, cz int, code RawCode, height float32) {
	if cx < 0 || cz < 0 || cx >= b.width || cz >= b.height {
		return
	}
	i := cz*b.width + cx
	b.codes[i] = code
	b.heights[i] = height
	if height < b.minY {
		b.minY = height
	}
	if height > b.maxY {
		b.maxY = height
	}
}

// Map finalizes the builder into a queryable map.
func (b *Builder) Map() *Map {
	return &Map{hdr: b.header(), codes: b.codes, heights: b.heights}
}

func (b *Builder) header() Header {
	minY, maxY := b.minY, b.maxY
	if minY > maxY {
		minY, maxY = 0, 0
	}
	return Header{
		Version:    version,
		CellSize:   b.cellSize,
		MinX:       b.minX,
		MinY:       minY,
		MinZ:       b.minZ,
		MaxX:       b.minX + float32(b.width)*b.cellSize,
		MaxY:       maxY,
		MaxZ:       b.minZ + float32(b.height)*b.cellSize,
		GridWidth:  uint32(b.width),
		GridHeight: uint32(b.height),
		CellCount:  uint32(b.width * b.height),
	}
}

// Write serializes the map in the SMAP binary layout.
func (m *Map) Write(w io.Writer) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return fmt.Errorf("surfacemap: write magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.hdr); err != nil {
		return fmt.Errorf("surfacemap: write header: %w", err)
	}
	buf := make([]byte, len(m.codes))
	for i, c := range m.codes {
		buf[i] = byte(c)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("surfacemap: write codes: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.heights); err != nil {
		return fmt.Errorf("surfacemap: write heights: %w", err)
	}
	return nil
}

// Save writes the map to disk.
func (m *Map) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("surfacemap: create %s: %w", path, err)
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
