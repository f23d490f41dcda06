package unroll

import (
	"sort"

	"github.com/nickng/pathenum/cfg"
)

// EdgeClass is the classification of an edge relative to loop nesting.
type EdgeClass uint8

const (
	Normal EdgeClass = iota // Edge within the same loop nest.
	Back                    // Edge to the header of a loop containing its source.
	Exit                    // Edge leaving a loop.
	Entry                   // Edge entering a loop through its header.
)

func (c EdgeClass) String() string {
	switch c {
	case Normal:
		return "normal"
	case Back:
		return "back"
	case Exit:
		return "exit"
	case Entry:
		return "entry"
	}
	return "unknown"
}

// Classification is the result of Classify.
type Classification struct {
	Depth []int  // Number of loops enclosing each vertex.
	Heads []bool // Whether each vertex is a loop header.

	classes map[cfg.Edge]EdgeClass
	nest    [][]*cfg.Loop // Loops enclosing each vertex, outermost first.
	graph   *cfg.Graph
}

// Classify computes loop nesting depths, loop headers and edge classes of g
// according to the loop forest f.
//
// A forest that does not match g (e.g. a loop without header) is a
// precondition violation and no classification is returned.
func Classify(g *cfg.Graph, f *cfg.Forest) (*Classification, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := f.Validate(g); err != nil {
		return nil, err
	}
	c := &Classification{
		Depth:   make([]int, g.Len()),
		Heads:   make([]bool, g.Len()),
		classes: make(map[cfg.Edge]EdgeClass),
		nest:    make([][]*cfg.Loop, g.Len()),
		graph:   g,
	}
	for _, l := range f.Loops {
		c.Heads[l.Header] = true
		for _, m := range l.Members {
			c.Depth[m]++
			c.nest[m] = append(c.nest[m], l)
			if g.HasEdge(m, l.Header) {
				c.classes[cfg.Edge{Src: m, Dst: l.Header}] = Back
			}
		}
		for _, e := range l.Exits {
			if c.classes[e] != Back {
				c.classes[e] = Exit
			}
		}
	}
	for _, e := range g.Edges() {
		if c.Heads[e.Dst] && c.Depth[e.Src] < c.Depth[e.Dst] && c.classes[e] == Normal {
			c.classes[e] = Entry
		}
	}
	for _, loops := range c.nest {
		sort.SliceStable(loops, func(i, j int) bool { return len(loops[i].Members) > len(loops[j].Members) })
	}
	return c, nil
}

// Class returns the class of the edge e.
func (c *Classification) Class(e cfg.Edge) EdgeClass {
	return c.classes[e]
}

// Graph returns the classified graph.
func (c *Classification) Graph() *cfg.Graph { return c.graph }

// MaxDepth returns the deepest loop nesting of the graph.
func (c *Classification) MaxDepth() int {
	deepest := 0
	for _, d := range c.Depth {
		if d > deepest {
			deepest = d
		}
	}
	return deepest
}

// shared returns the number of loops enclosing both s and d.
func (c *Classification) shared(s, d int) int {
	n := 0
	for n < len(c.nest[s]) && n < len(c.nest[d]) && c.nest[s][n] == c.nest[d][n] {
		n++
	}
	return n
}
