package mesh

import "fmt"

/** @brief Primitive layouts understood by the rendering backend. */
type Topology uint8

const (
	/** @brief 3 indices per triangle. */
	TopologyTriangleList Topology = 4
	/** @brief 6 indices per triangle: 3 corners interleaved with 3 neighbor vertices. */
	TopologyTriangleListAdjacency Topology = 12
)

func (t Topology) String() string {
	switch t {
	case TopologyTriangleList:
		return "triangle_list"
	case TopologyTriangleListAdjacency:
		return "triangle_list_adjacency"
	default:
		return fmt.Sprintf("topology(%d)", uint8(t))
	}
}

// IndicesPerPrimitive returns how many indices the topology consumes per
// triangle, or 0 for unknown values.
func (t Topology) IndicesPerPrimitive() int {
	switch t {
	case TopologyTriangleList:
		return 3
	case TopologyTriangleListAdjacency:
		return 6
	default:
		return 0
	}
}
