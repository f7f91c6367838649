// Package meshing holds the CPU-side geometry types shared by the detail
// chunks, footprint decals and render sinks, plus the texture atlas layout.
package meshing

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one detail mesh vertex. Color carries the per-instance
// variation tint; UV addresses the shared atlas.
type Vertex struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
	Color  color.RGBA
	UV     mgl32.Vec2
}

// Buffer is an indexed triangle list. Chunk meshes stay well under the
// 16-bit index limit, a few hundred placements at most.
type Buffer struct {
	Vertices []Vertex
	Indices  []uint16
}

// Reset empties the buffer without releasing capacity, so rebuilds reuse
// the old allocations.
func (b *Buffer) Reset() {
	b.Vertices = b.Vertices[:0]
	b.Indices = b.Indices[:0]
}

// AppendQuad adds four vertices as two triangles wound v0-v1-v2, v0-v2-v3.
func (b *Buffer) AppendQuad(v0, v1, v2, v3 Vertex) {
	base := uint16(len(b.Vertices))
	b.Vertices = append(b.Vertices, v0, v1, v2, v3)
	b.Indices = append(b.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}

// AppendDoubleQuad adds a quad visible from both sides by emitting the
// reverse winding over the same four vertices.
func (b *Buffer) AppendDoubleQuad(v0, v1, v2, v3 Vertex) {
	base := uint16(len(b.Vertices))
	b.Vertices = append(b.Vertices, v0, v1, v2, v3)
	b.Indices = append(b.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
		base+2, base+1, base,
		base+3, base+2, base,
	)
}

func (b *Buffer) VertexCount() int { return len(b.Vertices) }
func (b *Buffer) IndexCount() int  { return len(b.Indices) }
func (b *Buffer) Empty() bool      { return len(b.Vertices) == 0 }
