package metadata

import (
	"github.com/spaghettifunk/anima/engine/math"
	"github.com/spaghettifunk/anima/engine/mesh"
)

/**
 * @brief The source data a mesh was welded from. Only kept when the loader
 * is asked to, so triangles can be removed and the mesh welded again.
 */
type MeshData struct {
	Attributes *mesh.Attributes
	Graph      *mesh.Graph
}

/**
 * @brief Represents the configuration for a geometry, ready to be handed to
 * the renderer backend.
 */
type GeometryConfig struct {
	/** @brief The Name of the geometry. */
	Name string
	/** @brief How the backend interprets Indices. */
	Topology mesh.Topology
	/** @brief The size of each vertex. */
	VertexSize uint32
	/** @brief The number of vertices. */
	VertexCount uint32
	/** @brief An array of Vertices. */
	Vertices []mesh.FlatVertex
	/** @brief The size of each index. */
	IndexSize uint32
	/** @brief The number of indices. */
	IndexCount uint32
	/** @brief An array of Indices. */
	Indices []uint32

	Center     math.Vec3
	MinExtents math.Vec3
	MaxExtents math.Vec3

	/** @brief Optional source data, nil unless retained by the loader. */
	Source *MeshData
}

// NewGeometryConfig wraps a welded mesh and computes its extents.
func NewGeometryConfig(name string, out *mesh.OutputMesh) *GeometryConfig {
	positions := make([]math.Vec3, len(out.Vertices))
	for i, v := range out.Vertices {
		positions[i] = v.Position
	}
	ext := math.ExtentsOf(positions)

	return &GeometryConfig{
		Name:        name,
		Topology:    out.Topology,
		VertexSize:  mesh.FlatVertexSize,
		VertexCount: uint32(len(out.Vertices)),
		Vertices:    out.Vertices,
		IndexSize:   4,
		IndexCount:  uint32(len(out.Indices)),
		Indices:     out.Indices,
		Center:      ext.Center(),
		MinExtents:  ext.Min,
		MaxExtents:  ext.Max,
	}
}

// Output returns the buffers of the config as a mesh.OutputMesh.
func (gc *GeometryConfig) Output() *mesh.OutputMesh {
	return &mesh.OutputMesh{
		Topology: gc.Topology,
		Vertices: gc.Vertices,
		Indices:  gc.Indices,
	}
}

// DataSize is the number of bytes the vertex and index buffers occupy.
func (gc *GeometryConfig) DataSize() uint64 {
	return uint64(gc.VertexSize)*uint64(gc.VertexCount) + uint64(gc.IndexSize)*uint64(gc.IndexCount)
}
