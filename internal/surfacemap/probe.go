package surfacemap

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Probe resolves a smoothed ground hit below (x, startY, z) from the
// stored height grid: bilinear height between cell centers and a normal
// from central height differences. It stands in for a collision raycast
// when the engine has not provided one; grid resolution bounds its
// accuracy. ok is false outside the grid, over missing cells, or when
// the ground lies above startY.
func (m *Map) Probe(x, z, startY float32) (height float32, normal mgl32.Vec3, ok bool) {
	h := m.interpHeight(x, z)
	if h == MissingHeight || h > startY {
		return 0, mgl32.Vec3{}, false
	}

	// Central differences one cell out; fall back to the hit height at
	// the grid edge so the normal degrades to vertical instead of failing.
	step := m.hdr.CellSize
	hx0 := m.interpHeightOr(x-step, z, h)
	hx1 := m.interpHeightOr(x+step, z, h)
	hz0 := m.interpHeightOr(x, z-step, h)
	hz1 := m.interpHeightOr(x, z+step, h)

	n := mgl32.Vec3{hx0 - hx1, 2 * step, hz0 - hz1}
	return h, n.Normalize(), true
}

// interpHeight samples the height grid bilinearly between cell centers.
func (m *Map) interpHeight(x, z float32) float32 {
	if !m.Loaded() {
		return MissingHeight
	}

	// Shift into cell-center space.
	fx := (x-m.hdr.MinX)/m.hdr.CellSize - 0.5
	fz := (z-m.hdr.MinZ)/m.hdr.CellSize - 0.5
	cx := int(floor32(fx))
	cz := int(floor32(fz))
	tx := fx - float32(cx)
	tz := fz - float32(cz)

	h00 := m.cellHeight(cx, cz)
	h10 := m.cellHeight(cx+1, cz)
	h01 := m.cellHeight(cx, cz+1)
	h11 := m.cellHeight(cx+1, cz+1)
	if h00 == MissingHeight || h10 == MissingHeight || h01 == MissingHeight || h11 == MissingHeight {
		// Mixed valid/missing corners mean the sample straddles the
		// grid edge; report the nearest cell instead of blending with
		// the sentinel.
		return m.HeightAt(x, z)
	}

	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return top + (bottom-top)*tz
}

func (m *Map) interpHeightOr(x, z, fallback float32) float32 {
	if h := m.interpHeight(x, z); h != MissingHeight {
		return h
	}
	return fallback
}

func (m *Map) cellHeight(cx, cz int) float32 {
	if cx < 0 || cz < 0 || cx >= int(m.hdr.GridWidth) || cz >= int(m.hdr.GridHeight) {
		return MissingHeight
	}
	return m.heights[cz*int(m.hdr.GridWidth)+cx]
}

func floor32(v float32) float32 {
	i := float32(int(v))
	if v < i {
		return i - 1
	}
	return i
}
