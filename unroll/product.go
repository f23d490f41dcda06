package unroll

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/nickng/pathenum/cfg"
)

// ErrNoSuccessor is returned if a non-exit product vertex has no successors
// when a complete graph is expected.
var ErrNoSuccessor = errors.New("unroll: product vertex has no successors")

// Vertex is a copy of an original vertex in a context.
type Vertex struct {
	Block   int
	Context Context
}

func (v Vertex) String() string {
	return fmt.Sprintf("%d%v", v.Block, v.Context)
}

// Arc is an outgoing product edge.
type Arc struct {
	To        int       // Destination product vertex.
	Class     EdgeClass // Class of the original edge.
	Synthetic bool      // Added by Patch, no original edge.
}

// Graph is the unrolled product graph.
type Graph struct {
	Vertices []Vertex // Product vertices, grouped by original vertex.
	Succs    [][]Arc  // Outgoing arcs of each product vertex.
	Entry    int      // Copy of the entry vertex.
	Exit     int      // Copy of the exit vertex.
	K        int      // Unrolling bound.

	// Dropped lists the original edges for which no product edge exists.
	Dropped []cfg.Edge

	pool *pool
}

// Build duplicates every vertex of the classified graph and connects the
// copies. The result is not patched, see Patch.
func Build(c *Classification, k int) (*Graph, error) {
	if err := checkK(k); err != nil {
		return nil, err
	}
	g := c.graph
	p := &Graph{K: k, pool: newPool()}
	for v := 0; v < g.Len(); v++ {
		for _, ctx := range c.Contexts(v, k) {
			if _, err := p.pool.add(Vertex{Block: v, Context: ctx}); err != nil {
				return nil, err
			}
		}
	}
	p.Vertices = p.pool.vertices
	p.Succs = make([][]Arc, len(p.Vertices))
	p.Entry, _ = p.pool.lookup(cfg.Entry, Context{})
	p.Exit, _ = p.pool.lookup(cfg.Exit, Context{})

	used := make(map[cfg.Edge]bool)
	for id, v := range p.Vertices {
		for _, dst := range g.Succs(v.Block) {
			e := cfg.Edge{Src: v.Block, Dst: dst}
			class := c.Class(e)
			ctx, ok := c.target(e, class, v.Context)
			if !ok {
				continue
			}
			if to, ok := p.pool.lookup(dst, ctx); ok {
				p.Succs[id] = append(p.Succs[id], Arc{To: to, Class: class})
				used[e] = true
			}
		}
	}
	for _, e := range g.Edges() {
		if !used[e] {
			p.Dropped = append(p.Dropped, e)
		}
	}
	return p, nil
}

// target returns the context of the copy of e.Dst connected to the copy of
// e.Src in context from.
//
//   - Normal edges keep the context.
//   - Back edges move to the next iteration of the loop headed by e.Dst,
//     dropping the levels of loops nested inside it.
//   - Exit edges keep the leading levels of the context, one per loop
//     enclosing e.Dst. An exit to a deeper vertex has no copy.
//   - Entry edges keep the levels of the loops shared by both ends and start
//     every newly entered loop at iteration 0.
func (c *Classification) target(e cfg.Edge, class EdgeClass, from Context) (Context, bool) {
	dd := c.Depth[e.Dst]
	switch class {
	case Normal:
		if c.Depth[e.Src] != dd {
			return nil, false
		}
		return from, true
	case Back:
		if dd == 0 || len(from) < dd {
			return nil, false
		}
		to := append(Context(nil), from[:dd]...)
		to[dd-1]++
		if to[dd-1] == 0 { // Wrapped.
			return nil, false
		}
		return to, true
	case Exit:
		if dd > len(from) {
			return nil, false
		}
		return from[:dd], true
	case Entry:
		shared := c.shared(e.Src, e.Dst)
		to := make(Context, dd)
		copy(to, from[:shared])
		return to, true
	}
	return nil, false
}

// Patch links every non-exit product vertex without successors to the exit
// vertex with a synthetic arc, and returns the number of arcs added.
func (p *Graph) Patch() int {
	patched := 0
	for id := range p.Vertices {
		if id != p.Exit && len(p.Succs[id]) == 0 {
			p.Succs[id] = append(p.Succs[id], Arc{To: p.Exit, Class: Normal, Synthetic: true})
			patched++
		}
	}
	return patched
}

// Check verifies that every non-exit vertex has a successor.
func (p *Graph) Check() error {
	for id, succs := range p.Succs {
		if id != p.Exit && len(succs) == 0 {
			return errors.Wrapf(ErrNoSuccessor, "vertex %v", p.Vertices[id])
		}
	}
	return nil
}

// Lookup returns the ID of the copy of block in context ctx.
func (p *Graph) Lookup(block int, ctx Context) (int, bool) {
	return p.pool.lookup(block, ctx)
}

// Len returns the number of product vertices.
func (p *Graph) Len() int { return len(p.Vertices) }

// Unroll classifies g, builds the product graph with bound k and patches it.
func Unroll(g *cfg.Graph, f *cfg.Forest, k int) (*Graph, error) {
	c, err := Classify(g, f)
	if err != nil {
		return nil, err
	}
	p, err := Build(c, k)
	if err != nil {
		return nil, err
	}
	p.Patch()
	return p, nil
}
