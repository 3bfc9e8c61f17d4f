package mesh

import (
	"encoding/binary"
	"fmt"

	"github.com/spaghettifunk/anima/engine/core"
)

/** @brief How the welder finds previously seen vertices. */
type WeldStrategy int

const (
	// WeldHashed looks vertices up in a map keyed on their bit pattern.
	WeldHashed WeldStrategy = iota
	// WeldLinear scans the unique vertex list for every emitted vertex.
	WeldLinear
)

func (s WeldStrategy) String() string {
	switch s {
	case WeldHashed:
		return "hashed"
	case WeldLinear:
		return "linear"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

func ParseWeldStrategy(s string) (WeldStrategy, error) {
	switch s {
	case "hashed", "":
		return WeldHashed, nil
	case "linear":
		return WeldLinear, nil
	default:
		return WeldHashed, fmt.Errorf("unknown weld strategy %q", s)
	}
}

/**
 * @brief The welded vertex and index buffers of a mesh.
 */
type OutputMesh struct {
	Topology Topology
	// Vertices holds each distinct vertex once, in first-seen order.
	Vertices []FlatVertex
	// Indices holds 6 entries per triangle: c0, n0, c1, n1, c2, n2.
	Indices []uint32
}

// TriangleCount returns the number of triangles described by Indices.
func (o *OutputMesh) TriangleCount() int {
	if per := o.Topology.IndicesPerPrimitive(); per > 0 {
		return len(o.Indices) / per
	}
	return 0
}

// VertexBytes packs the vertices little-endian, FlatVertexSize bytes each.
func (o *OutputMesh) VertexBytes() []byte {
	buf := make([]byte, 0, len(o.Vertices)*FlatVertexSize)
	for _, v := range o.Vertices {
		buf = v.appendBytes(buf)
	}
	return buf
}

// IndexBytes packs the indices as little-endian uint32 values.
func (o *OutputMesh) IndexBytes() []byte {
	buf := make([]byte, 0, len(o.Indices)*4)
	for _, i := range o.Indices {
		buf = binary.LittleEndian.AppendUint32(buf, i)
	}
	return buf
}

// WithoutAdjacency returns a plain triangle list holding only the corner
// indices of each triangle. Vertices that were only referenced as neighbors
// are dropped; the remaining ones keep their relative order.
func (o *OutputMesh) WithoutAdjacency() *OutputMesh {
	if o.Topology != TopologyTriangleListAdjacency {
		return o
	}
	out := &OutputMesh{
		Topology: TopologyTriangleList,
		Indices:  make([]uint32, 0, len(o.Indices)/2),
	}
	remap := make(map[uint32]uint32, len(o.Vertices))
	for i := 0; i < len(o.Indices); i += 2 {
		old := o.Indices[i]
		idx, ok := remap[old]
		if !ok {
			idx = uint32(len(out.Vertices))
			remap[old] = idx
			out.Vertices = append(out.Vertices, o.Vertices[old])
		}
		out.Indices = append(out.Indices, idx)
	}
	return out
}

type welder struct {
	strategy WeldStrategy
	vertices []FlatVertex
	indices  []uint32
	lookup   map[vertexKey]uint32
}

func newWelder(strategy WeldStrategy, triangles int) *welder {
	w := &welder{
		strategy: strategy,
		indices:  make([]uint32, 0, 6*triangles),
	}
	if strategy == WeldHashed {
		w.lookup = make(map[vertexKey]uint32, 2*triangles)
	}
	return w
}

func (w *welder) add(v FlatVertex) {
	if i, ok := w.find(v); ok {
		w.indices = append(w.indices, i)
		return
	}
	i := uint32(len(w.vertices))
	w.vertices = append(w.vertices, v)
	w.indices = append(w.indices, i)
	if w.lookup != nil {
		w.lookup[v.key()] = i
	}
}

func (w *welder) find(v FlatVertex) (uint32, bool) {
	if w.strategy == WeldHashed {
		i, ok := w.lookup[v.key()]
		return i, ok
	}
	for u := range w.vertices {
		if w.vertices[u].Equal(v) {
			return uint32(u), true
		}
	}
	return 0, false
}

/**
 * @brief Flattens the live triangles of g into deduplicated vertex and
 * index buffers with adjacency topology.
 *
 * Each triangle emits c0, n0, c1, n1, c2, n2 resolved through attrs. Two
 * emitted vertices share an index when all their components are bit-equal.
 */
func Weld(g *Graph, attrs *Attributes, strategy WeldStrategy) (*OutputMesh, error) {
	w := newWelder(strategy, g.Len())

	var err error
	g.Each(func(id TriangleID, t Triangle) bool {
		for _, rec := range t.Records() {
			v, rerr := attrs.Resolve(rec)
			if rerr != nil {
				err = fmt.Errorf("triangle %d: %w", id, rerr)
				return false
			}
			w.add(v)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	emitted := len(w.indices)
	core.LogDebug("weld (%s): %d triangles, removed %d vertices, orig/now %d/%d.", strategy, g.Len(), emitted-len(w.vertices), emitted, len(w.vertices))

	return &OutputMesh{
		Topology: TopologyTriangleListAdjacency,
		Vertices: w.vertices,
		Indices:  w.indices,
	}, nil
}
