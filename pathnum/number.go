package pathnum

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/nickng/pathenum/unroll"
)

var (
	// ErrUnnumbered is returned if the backward pass cannot reach a vertex,
	// i.e. the vertex is on a cycle or cannot reach the exit.
	ErrUnnumbered = errors.New("pathnum: vertex not numbered (cycle in product graph?)")

	// ErrBadWalk is returned by Encode for a sequence of vertices that is
	// not a walk from entry to exit.
	ErrBadWalk = errors.New("pathnum: walk does not follow product edges")

	// ErrIndexRange is returned by Decode for an index outside [0, Total).
	ErrIndexRange = errors.New("pathnum: path index out of range")
)

// Range is an inclusive range of path indices.
type Range struct {
	Lo, Hi *big.Int
}

func (r Range) String() string {
	return fmt.Sprintf("[%s,%s]", r.Lo, r.Hi)
}

// Contains returns true if Lo <= i <= Hi.
func (r Range) Contains(i *big.Int) bool {
	return r.Lo.Cmp(i) <= 0 && i.Cmp(r.Hi) <= 0
}

// Numbering is the result of Ball-Larus numbering of a product graph.
type Numbering struct {
	graph  *unroll.Graph
	paths  []*big.Int // Paths to exit from each vertex.
	ranges [][]Range  // Range of each outgoing arc, nil if unreachable.
	order  []int      // Vertices reachable from entry, breadth first.
}

// Number computes path counts and edge ranges of the patched product graph p.
func Number(p *unroll.Graph) (*Numbering, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	n := &Numbering{
		graph:  p,
		paths:  make([]*big.Int, p.Len()),
		ranges: make([][]Range, p.Len()),
	}
	if err := n.countPaths(); err != nil {
		return nil, err
	}
	n.assignRanges()
	return n, nil
}

// countPaths is the backward pass. A vertex is counted once all of its
// successors are counted.
func (n *Numbering) countPaths() error {
	p := n.graph
	preds := make([][]int, p.Len())
	for v, arcs := range p.Succs {
		for _, a := range arcs {
			preds[a.To] = append(preds[a.To], v)
		}
	}
	visits := newVisitGraph(p.Len(), func(v int) []int {
		succs := make([]int, len(p.Succs[v]))
		for i, a := range p.Succs[v] {
			succs[i] = a.To
		}
		return succs
	})

	ready := []int{p.Exit}
	for len(ready) > 0 {
		v := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		count := new(big.Int)
		if v == p.Exit {
			count.SetInt64(1)
		}
		for _, a := range p.Succs[v] {
			count.Add(count, n.paths[a.To])
		}
		n.paths[v] = count
		for _, u := range preds[v] {
			visits.VisitFrom(v, u)
			if visits.NodeVisited(u) {
				ready = append(ready, u)
			}
		}
	}
	for v, count := range n.paths {
		if count == nil {
			return errors.Wrapf(ErrUnnumbered, "vertex %v", p.Vertices[v])
		}
	}
	return nil
}

// assignRanges is the forward pass from entry. The outgoing arcs of a vertex
// get consecutive ranges in arc order.
func (n *Numbering) assignRanges() {
	p := n.graph
	seen := make([]bool, p.Len())
	seen[p.Entry] = true
	queue := []int{p.Entry}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		n.order = append(n.order, v)
		sum := new(big.Int)
		ranges := make([]Range, len(p.Succs[v]))
		for i, a := range p.Succs[v] {
			lo := new(big.Int).Set(sum)
			sum.Add(sum, n.paths[a.To])
			ranges[i] = Range{Lo: lo, Hi: new(big.Int).Sub(sum, big.NewInt(1))}
			if !seen[a.To] {
				seen[a.To] = true
				queue = append(queue, a.To)
			}
		}
		n.ranges[v] = ranges
	}
}

// Graph returns the numbered product graph.
func (n *Numbering) Graph() *unroll.Graph { return n.graph }

// Total returns the number of paths from entry to exit.
func (n *Numbering) Total() *big.Int { return n.paths[n.graph.Entry] }

// Paths returns the number of paths from v to exit.
func (n *Numbering) Paths(v int) *big.Int { return n.paths[v] }

// Ranges returns the ranges of the outgoing arcs of v, in arc order.
// Vertices unreachable from entry have no ranges.
func (n *Numbering) Ranges(v int) []Range { return n.ranges[v] }

// Reachable returns the vertices reachable from entry, breadth first.
func (n *Numbering) Reachable() []int { return n.order }

// Encode returns the path index of walk, a sequence of product vertices from
// entry to exit.
func (n *Numbering) Encode(walk []int) (*big.Int, error) {
	p := n.graph
	if len(walk) == 0 || walk[0] != p.Entry || walk[len(walk)-1] != p.Exit {
		return nil, errors.Wrap(ErrBadWalk, "walk must go from entry to exit")
	}
	index := new(big.Int)
	for i := 0; i+1 < len(walk); i++ {
		arc := n.arc(walk[i], walk[i+1])
		if arc < 0 {
			return nil, errors.Wrapf(ErrBadWalk, "no edge %v -> %v", p.Vertices[walk[i]], p.Vertices[walk[i+1]])
		}
		index.Add(index, n.ranges[walk[i]][arc].Lo)
	}
	return index, nil
}

func (n *Numbering) arc(from, to int) int {
	if n.ranges[from] == nil {
		return -1
	}
	for i, a := range n.graph.Succs[from] {
		if a.To == to {
			return i
		}
	}
	return -1
}

// Decode returns the walk from entry to exit with the given path index.
func (n *Numbering) Decode(index *big.Int) ([]int, error) {
	if index.Sign() < 0 || index.Cmp(n.Total()) >= 0 {
		return nil, errors.Wrapf(ErrIndexRange, "index %s not in [0,%s)", index, n.Total())
	}
	p := n.graph
	rest := new(big.Int).Set(index)
	walk := []int{p.Entry}
	for v := p.Entry; v != p.Exit; {
		next := -1
		for i, r := range n.ranges[v] {
			if r.Contains(rest) {
				rest.Sub(rest, r.Lo)
				next = p.Succs[v][i].To
				break
			}
		}
		if next < 0 {
			return nil, errors.Wrapf(ErrIndexRange, "no edge from %v covers %s", p.Vertices[v], rest)
		}
		walk = append(walk, next)
		v = next
	}
	return walk, nil
}
