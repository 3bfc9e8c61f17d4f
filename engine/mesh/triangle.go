package mesh

/** @brief A stable handle to a triangle owned by a Graph. */
type TriangleID uint32

/** @brief Marks an unset adjacency slot. */
const InvalidTriangleID TriangleID = 4294967295

// Valid reports whether id refers to a triangle slot at all.
func (id TriangleID) Valid() bool {
	return id != InvalidTriangleID
}

/**
 * @brief A triangular face plus its neighbor information.
 *
 * Records are laid out c0, n0, c1, n1, c2, n2 where ci is a face corner and
 * ni is the far corner of the triangle across edge ci -> c(i+1). An ni that
 * was never matched equals ci.
 */
type Triangle struct {
	records      [6]FaceCorner
	adjacent     [3]TriangleID
	connectivity uint8
	removed      bool
}

func newTriangle(c0, c1, c2 FaceCorner) Triangle {
	return Triangle{
		records:  [6]FaceCorner{c0, c0, c1, c1, c2, c2},
		adjacent: [3]TriangleID{InvalidTriangleID, InvalidTriangleID, InvalidTriangleID},
	}
}

// Corner returns face corner i (0..2).
func (t Triangle) Corner(i int) FaceCorner {
	return t.records[2*(i%3)]
}

// NeighborRecord returns the neighbor record of edge i (0..2).
func (t Triangle) NeighborRecord(i int) FaceCorner {
	return t.records[2*(i%3)+1]
}

// Records returns the six records in output order.
func (t Triangle) Records() [6]FaceCorner {
	return t.records
}

// Adjacent returns the triangle linked across edge i, if any.
func (t Triangle) Adjacent(i int) (TriangleID, bool) {
	id := t.adjacent[i%3]
	return id, id.Valid()
}

// Connectivity is the number of set adjacency slots, 0..3.
func (t Triangle) Connectivity() int {
	return int(t.connectivity)
}

func (t Triangle) Removed() bool {
	return t.removed
}

func (t *Triangle) setNeighborRecord(edge int, c FaceCorner) {
	t.records[2*edge+1] = c
}
