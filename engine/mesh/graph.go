package mesh

import (
	"github.com/spaghettifunk/anima/engine/containers"
	"golang.org/x/exp/slices"
)

/** @brief Counters collected while matching edges on insertion. */
type Stats struct {
	// StrongMatches is the number of mutual adjacency links recorded.
	StrongMatches int
	// SeamMatches counts edges that matched on position only.
	SeamMatches int
}

/**
 * @brief Owns every triangle of a mesh and keeps the neighbor graph between
 * triangles that share an edge.
 *
 * Triangles live in an arena addressed by TriangleID; removed slots stay in
 * place so ids are never reused and insertion order is preserved. A Graph is
 * not safe for concurrent use.
 */
type Graph struct {
	triangles []Triangle
	live      int
	stats     Stats
}

func NewGraph() *Graph {
	return &Graph{}
}

func next(i int) int { return (i + 1) % 3 }
func far(i int) int  { return (i + 2) % 3 }

/**
 * @brief Adds a triangle and matches its edges against every live triangle
 * inserted before it.
 *
 * @return The id of the new triangle.
 */
func (g *Graph) Insert(c0, c1, c2 FaceCorner) TriangleID {
	id := TriangleID(len(g.triangles))
	g.triangles = append(g.triangles, newTriangle(c0, c1, c2))
	g.live++

	for i := range g.triangles[:id] {
		other := &g.triangles[i]
		if other.removed || other.connectivity == 3 {
			continue
		}
		g.match(TriangleID(i), id)
	}
	return id
}

// match tests every directed edge of a against every directed edge of b.
// Edge e of a runs c(e) -> c(e+1); it pairs with edge f of b when b runs
// the same positions the other way round.
func (g *Graph) match(aID, bID TriangleID) {
	a, b := &g.triangles[aID], &g.triangles[bID]

	for e := 0; e < 3; e++ {
		for f := 0; f < 3; f++ {
			a0, a1 := a.Corner(e), a.Corner(next(e))
			b0, b1 := b.Corner(f), b.Corner(next(f))
			if !a0.WeakMatch(b1) || !a1.WeakMatch(b0) {
				continue
			}

			if a0.StrongMatch(b1) && a1.StrongMatch(b0) {
				// A slot is only linked once so both ends stay paired.
				if !a.adjacent[e].Valid() && !b.adjacent[f].Valid() {
					a.adjacent[e] = bID
					b.adjacent[f] = aID
					a.connectivity++
					b.connectivity++
					g.stats.StrongMatches++
				}
			} else {
				g.stats.SeamMatches++
			}

			a.setNeighborRecord(e, b.Corner(far(f)))
			b.setNeighborRecord(f, a.Corner(far(e)))
		}
	}
}

// Get returns a copy of the triangle with the given id.
func (g *Graph) Get(id TriangleID) (Triangle, bool) {
	if !g.alive(id) {
		return Triangle{}, false
	}
	return g.triangles[id], true
}

func (g *Graph) alive(id TriangleID) bool {
	return id.Valid() && int(id) < len(g.triangles) && !g.triangles[id].removed
}

// Contains reports whether id refers to a live triangle.
func (g *Graph) Contains(id TriangleID) bool {
	return g.alive(id)
}

// Len returns the number of live triangles.
func (g *Graph) Len() int {
	return g.live
}

// Cap returns the number of ids handed out so far, removed ones included.
func (g *Graph) Cap() int {
	return len(g.triangles)
}

func (g *Graph) Stats() Stats {
	return g.stats
}

// Each calls fn for every live triangle in insertion order until fn
// returns false.
func (g *Graph) Each(fn func(id TriangleID, t Triangle) bool) {
	for i := range g.triangles {
		if g.triangles[i].removed {
			continue
		}
		if !fn(TriangleID(i), g.triangles[i]) {
			return
		}
	}
}

/**
 * @brief Clears the first adjacency slot of id that points at neighbor and
 * decrements its connectivity.
 *
 * @return False if id is not live or has no slot pointing at neighbor.
 */
func (g *Graph) RemoveAdjacency(id, neighbor TriangleID) bool {
	if !g.alive(id) || !neighbor.Valid() {
		return false
	}
	t := &g.triangles[id]
	for i := 0; i < 3; i++ {
		if t.adjacent[i] == neighbor {
			t.adjacent[i] = InvalidTriangleID
			t.connectivity--
			return true
		}
	}
	return false
}

/**
 * @brief Unlinks id from all of its neighbors and drops it from the graph.
 * Removing a triangle that is already gone is a no-op.
 *
 * @return True if the triangle was live.
 */
func (g *Graph) Remove(id TriangleID) bool {
	if !g.alive(id) {
		return false
	}
	t := &g.triangles[id]
	for i := 0; i < 3; i++ {
		if n := t.adjacent[i]; n.Valid() {
			g.RemoveAdjacency(n, id)
			t.adjacent[i] = InvalidTriangleID
		}
	}
	t.connectivity = 0
	t.removed = true
	g.live--
	return true
}

/**
 * @brief Returns the linked neighbor of id with the highest connectivity.
 * The first slot wins ties.
 *
 * @return False when id has no neighbors.
 */
func (g *Graph) MostConnectedNeighbor(id TriangleID) (TriangleID, bool) {
	if !g.alive(id) {
		return InvalidTriangleID, false
	}
	best, bestConnectivity := InvalidTriangleID, -1
	for _, n := range g.triangles[id].adjacent {
		if !g.alive(n) {
			continue
		}
		if c := int(g.triangles[n].connectivity); c > bestConnectivity {
			best, bestConnectivity = n, c
		}
	}
	return best, best.Valid()
}

// ByConnectivity returns the live ids sorted by descending connectivity,
// keeping insertion order among equals.
func (g *Graph) ByConnectivity() []TriangleID {
	ids := make([]TriangleID, 0, g.live)
	g.Each(func(id TriangleID, _ Triangle) bool {
		ids = append(ids, id)
		return true
	})
	slices.SortStableFunc(ids, func(a, b TriangleID) int {
		return int(g.triangles[b].connectivity) - int(g.triangles[a].connectivity)
	})
	return ids
}

// Components groups live triangles into patches connected through
// adjacency links. Patches are ordered by their first triangle and
// listed breadth first.
func (g *Graph) Components() [][]TriangleID {
	var components [][]TriangleID
	visited := make([]bool, len(g.triangles))
	// Every triangle is enqueued at most once, so the queue never fills.
	queue := containers.NewRingQueue[TriangleID](len(g.triangles))

	for i := range g.triangles {
		if visited[i] || g.triangles[i].removed {
			continue
		}
		visited[i] = true
		_ = queue.Enqueue(TriangleID(i))

		var patch []TriangleID
		for !queue.IsEmpty() {
			id, _ := queue.Dequeue()
			patch = append(patch, id)
			for _, n := range g.triangles[id].adjacent {
				if g.alive(n) && !visited[n] {
					visited[n] = true
					_ = queue.Enqueue(n)
				}
			}
		}
		components = append(components, patch)
	}
	return components
}
