// Package render defines the sink the detail system draws into. The
// engine-side renderer implements Scene; this package only carries the
// contract plus a recording implementation for tests and headless runs.
package render

import (
	"sync/atomic"

	"groundcover/internal/meshing"
)

// Material selects the pipeline state for a mesh. Detail geometry is
// alpha-tested vegetation; footprints are blended decals.
type Material struct {
	Atlas       string
	Transparent bool
	DepthWrite  bool
	Lit         bool
}

// DetailMaterial is the pipeline state for chunk vegetation meshes.
func DetailMaterial(atlas string) Material {
	return Material{Atlas: atlas, Transparent: true, DepthWrite: true, Lit: false}
}

// DecalMaterial is the pipeline state for footprint quads.
func DecalMaterial(atlas string) Material {
	return Material{Atlas: atlas, Transparent: true, DepthWrite: false, Lit: false}
}

// NodeID identifies an attached mesh within a Scene. Zero is never a
// valid id.
type NodeID uint64

// Scene receives detail geometry. Attach hands ownership of the buffer's
// current contents to the scene; MarkDirty tells it the caller mutated the
// same buffer in place (wind and disturbance do this every frame).
type Scene interface {
	Attach(buf *meshing.Buffer, mat Material) NodeID
	Detach(id NodeID)
	MarkDirty(id NodeID)

	// SubmitQuad draws one immediate-mode quad this frame. Used for
	// footprint decals, which are rebuilt from scratch each frame.
	SubmitQuad(v [4]meshing.Vertex, mat Material)
}

// Recording counts scene traffic without rendering anything. It backs the
// headless simulator and the package tests.
type Recording struct {
	nextID  atomic.Uint64
	nodes   map[NodeID]*meshing.Buffer
	dirty   map[NodeID]int
	quads   [][4]meshing.Vertex
	detachN int
}

func NewRecording() *Recording {
	return &Recording{
		nodes: make(map[NodeID]*meshing.Buffer),
		dirty: make(map[NodeID]int),
	}
}

func (r *Recording) Attach(buf *meshing.Buffer, mat Material) NodeID {
	id := NodeID(r.nextID.Add(1))
	r.nodes[id] = buf
	return id
}

func (r *Recording) Detach(id NodeID) {
	if _, ok := r.nodes[id]; ok {
		delete(r.nodes, id)
		delete(r.dirty, id)
		r.detachN++
	}
}

func (r *Recording) MarkDirty(id NodeID) {
	if _, ok := r.nodes[id]; ok {
		r.dirty[id]++
	}
}

func (r *Recording) SubmitQuad(v [4]meshing.Vertex, mat Material) {
	r.quads = append(r.quads, v)
}

// BeginFrame clears per-frame immediate geometry.
func (r *Recording) BeginFrame() {
	r.quads = r.quads[:0]
}

func (r *Recording) NodeCount() int   { return len(r.nodes) }
func (r *Recording) DetachCount() int { return r.detachN }
func (r *Recording) QuadCount() int   { return len(r.quads) }

// Node exposes an attached buffer for inspection.
func (r *Recording) Node(id NodeID) *meshing.Buffer { return r.nodes[id] }

// DirtyCount reports how often a node was invalidated.
func (r *Recording) DirtyCount(id NodeID) int { return r.dirty[id] }

// TotalVertices sums vertex counts over all attached nodes.
func (r *Recording) TotalVertices() int {
	n := 0
	for _, buf := range r.nodes {
		n += buf.VertexCount()
	}
	return n
}

// Quads returns this frame's immediate quads.
func (r *Recording) Quads() [][4]meshing.Vertex { return r.quads }
