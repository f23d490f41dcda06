package pathnum

import (
	"math/big"

	"github.com/nickng/pathenum/cfg"
)

// Result is the numbered graph of one procedure, ready for serialisation.
// It only holds the product vertices reachable from entry, renumbered in
// breadth-first order so that the entry vertex has ID 0.
type Result struct {
	Name    string
	Source  string
	Blocks  []cfg.Block // Descriptive content of the original vertices.
	K       int
	Paths   *big.Int // Number of paths from entry to exit.
	Patched int      // Number of synthetic edges to exit.

	Vertices []Vertex
}

// Vertex is a product vertex of a Result.
type Vertex struct {
	ID      int
	Block   int
	Context []int
	Paths   *big.Int
	Edges   []Edge
}

// Edge is an outgoing product edge of a Vertex.
type Edge struct {
	To        int // ID of the destination Vertex.
	Block     int
	Context   []int
	Class     string
	Synthetic bool
	Lo, Hi    *big.Int
}

// Result extracts the reachable part of the numbering. g is the original
// graph the product graph was built from.
func (n *Numbering) Result(g *cfg.Graph) *Result {
	p := n.graph
	ids := make(map[int]int, len(n.order))
	for i, v := range n.order {
		ids[v] = i
	}
	r := &Result{
		Name:     g.Name,
		Source:   g.Source,
		Blocks:   g.Blocks(),
		K:        p.K,
		Paths:    n.Total(),
		Vertices: make([]Vertex, len(n.order)),
	}
	for i, v := range n.order {
		pv := p.Vertices[v]
		rv := Vertex{
			ID:      i,
			Block:   pv.Block,
			Context: pv.Context.Ints(),
			Paths:   n.paths[v],
		}
		for j, a := range p.Succs[v] {
			to := p.Vertices[a.To]
			rv.Edges = append(rv.Edges, Edge{
				To:        ids[a.To],
				Block:     to.Block,
				Context:   to.Context.Ints(),
				Class:     a.Class.String(),
				Synthetic: a.Synthetic,
				Lo:        n.ranges[v][j].Lo,
				Hi:        n.ranges[v][j].Hi,
			})
			if a.Synthetic {
				r.Patched++
			}
		}
		r.Vertices[i] = rv
	}
	return r
}
