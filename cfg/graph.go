package cfg

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	Entry = 0 // Index of the entry vertex.
	Exit  = 1 // Index of the exit vertex.

	// NoVertex is used where a vertex index is expected but absent.
	NoVertex = -1
)

var (
	ErrBadVertex  = errors.New("cfg: vertex index out of range")
	ErrExitEdge   = errors.New("cfg: exit vertex has outgoing edges")
	ErrEntryEdge  = errors.New("cfg: entry vertex has incoming edges")
	ErrEmptyGraph = errors.New("cfg: graph has no entry/exit vertices")
)

// Edge is a directed edge Src -> Dst.
type Edge struct {
	Src, Dst int
}

func (e Edge) String() string {
	return fmt.Sprintf("%d->%d", e.Src, e.Dst)
}

// Block is the descriptive content of a vertex.
// It carries no semantics for the enumeration.
type Block struct {
	Label string   `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label,omitempty"`
	Stmts []string `json:"stmts,omitempty" yaml:"stmts,omitempty" msgpack:"stmts,omitempty"`
	Calls []string `json:"calls,omitempty" yaml:"calls,omitempty" msgpack:"calls,omitempty"`
}

// Graph is a control-flow graph of a single procedure.
type Graph struct {
	Name   string // Name of the procedure.
	Source string // Source file of the procedure (if known).

	blocks []Block
	edges  []Edge
	succs  [][]int
	preds  [][]int
	seen   map[Edge]bool
}

// New returns a Graph with only the entry and exit vertices.
func New(name string) *Graph {
	g := &Graph{Name: name, seen: make(map[Edge]bool)}
	g.AddVertex("entry")
	g.AddVertex("exit")
	return g
}

// NewN returns a Graph with n vertices (n >= 2), 0 being entry and 1 exit.
func NewN(name string, n int) *Graph {
	g := New(name)
	for g.Len() < n {
		g.AddVertex("")
	}
	return g
}

// AddVertex appends a new vertex and returns its index.
func (g *Graph) AddVertex(label string) int {
	g.blocks = append(g.blocks, Block{Label: label})
	g.succs = append(g.succs, nil)
	g.preds = append(g.preds, nil)
	return len(g.blocks) - 1
}

// AddEdge adds the edge src -> dst.
// Parallel edges are collapsed, the first occurrence decides the order.
func (g *Graph) AddEdge(src, dst int) error {
	if !g.valid(src) || !g.valid(dst) {
		return errors.Wrapf(ErrBadVertex, "edge %d->%d (%d vertices)", src, dst, g.Len())
	}
	e := Edge{Src: src, Dst: dst}
	if g.seen[e] {
		return nil
	}
	g.seen[e] = true
	g.edges = append(g.edges, e)
	g.succs[src] = append(g.succs[src], dst)
	g.preds[dst] = append(g.preds[dst], src)
	return nil
}

// MustAddEdges adds edges given as (src, dst) pairs and panics on bad indices.
// Intended for constructing graphs in tests and examples.
func (g *Graph) MustAddEdges(pairs ...[2]int) *Graph {
	for _, p := range pairs {
		if err := g.AddEdge(p[0], p[1]); err != nil {
			panic(err)
		}
	}
	return g
}

func (g *Graph) valid(v int) bool { return v >= 0 && v < len(g.blocks) }

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.blocks) }

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }

// Succs returns the successors of v in edge order.
func (g *Graph) Succs(v int) []int { return g.succs[v] }

// Preds returns the predecessors of v in edge order.
func (g *Graph) Preds(v int) []int { return g.preds[v] }

// HasEdge returns true if src -> dst is an edge of g.
func (g *Graph) HasEdge(src, dst int) bool { return g.seen[Edge{Src: src, Dst: dst}] }

// Block returns a pointer to the descriptive content of v.
func (g *Graph) Block(v int) *Block { return &g.blocks[v] }

// Blocks returns the descriptive content of all vertices.
func (g *Graph) Blocks() []Block { return g.blocks }

// Validate checks the entry/exit shape of the graph.
func (g *Graph) Validate() error {
	if g.Len() < 2 {
		return ErrEmptyGraph
	}
	if len(g.succs[Exit]) > 0 {
		return ErrExitEdge
	}
	if len(g.preds[Entry]) > 0 {
		return ErrEntryEdge
	}
	return nil
}

// TraverseEdges visits the vertices reachable from Entry breadth first, and
// calls visit with the edge through which each vertex is first reached.
// The first call has from set to NoVertex and to set to Entry.
func (g *Graph) TraverseEdges(visit func(from, to int)) {
	if g.Len() == 0 {
		return
	}
	visited := make([]bool, g.Len())
	type edge struct{ from, to int }
	queue := []edge{{from: NoVertex, to: Entry}}
	visited[Entry] = true
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		visit(e.from, e.to)
		for _, succ := range g.succs[e.to] {
			if !visited[succ] {
				visited[succ] = true
				queue = append(queue, edge{from: e.to, to: succ})
			}
		}
	}
}

// Reachable returns the vertices reachable from Entry.
func (g *Graph) Reachable() []bool {
	reach := make([]bool, g.Len())
	g.TraverseEdges(func(_, to int) { reach[to] = true })
	return reach
}

// Trim returns a copy of g without the vertices unreachable from Entry.
// Exit is always kept, and the remaining vertices keep their relative order.
func (g *Graph) Trim() *Graph {
	reach := g.Reachable()
	if g.Len() > Exit {
		reach[Exit] = true
	}
	t := &Graph{Name: g.Name, Source: g.Source, seen: make(map[Edge]bool)}
	index := make([]int, g.Len())
	for v, ok := range reach {
		index[v] = NoVertex
		if ok {
			index[v] = t.AddVertex(g.blocks[v].Label)
			*t.Block(index[v]) = g.blocks[v]
		}
	}
	for _, e := range g.edges {
		if reach[e.Src] && reach[e.Dst] {
			t.AddEdge(index[e.Src], index[e.Dst])
		}
	}
	return t
}
