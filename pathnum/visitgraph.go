package pathnum

// visitGraph keeps track of the edges visited during a traversal.
//
// A node is visited once all of its incoming edges are visited. The backward
// pass walks the product graph in reverse, so the incoming edges of a node are
// its outgoing product edges, and a node becomes ready exactly when all of its
// successors have been counted.
type visitGraph struct {
	// visited: node --> incoming node --> bool
	visited []map[int]bool
	// pending is the number of unvisited incoming edges of each node.
	pending []int
}

// newVisitGraph returns a visitGraph for n nodes where in(v) lists the
// sources of the incoming edges of v.
func newVisitGraph(n int, in func(v int) []int) *visitGraph {
	g := &visitGraph{
		visited: make([]map[int]bool, n),
		pending: make([]int, n),
	}
	for v := 0; v < n; v++ {
		g.visited[v] = make(map[int]bool)
		for _, p := range in(v) {
			if _, dup := g.visited[v][p]; !dup {
				g.visited[v][p] = false
				g.pending[v]++
			}
		}
	}
	return g
}

// VisitFrom marks the edge prev --> n visited.
// Visiting an edge twice has no effect.
func (g *visitGraph) VisitFrom(prev, n int) {
	if seen, ok := g.visited[n][prev]; ok && !seen {
		g.visited[n][prev] = true
		g.pending[n]--
	}
}

// NodeVisited returns true if all incoming edges of n are visited.
func (g *visitGraph) NodeVisited(n int) bool {
	return g.pending[n] == 0
}
