package loop

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/nickng/pathenum/cfg"
)

// Info is a data structure to hold the information of a natural loop
// while the loop forest is being built.
type Info struct {
	header  int   // Header vertex.
	latches []int // Sources of back edges to header, in edge order.

	body    map[int]bool // Set of member vertices.
	members []int        // Members in breadth-first order from header.
	exits   []cfg.Edge   // Edges leaving the loop.

	parent   *Info
	children []*Info
	depth    int // Nesting depth, 1 for outermost loops.
}

// New returns a new Info for the loop headed by header.
func New(header int) *Info {
	return &Info{
		header: header,
		body:   map[int]bool{header: true},
	}
}

// AddLatch records a back edge latch -> header.
func (i *Info) AddLatch(latch int) {
	i.latches = append(i.latches, latch)
}

func (i *Info) Header() int    { return i.header }
func (i *Info) Latches() []int { return i.latches }
func (i *Info) Parent() *Info  { return i.parent }
func (i *Info) Depth() int     { return i.depth }

// Contains returns true if v is in the body of the loop.
func (i *Info) Contains(v int) bool { return i.body[v] }

// Size returns the number of vertices in the loop body.
func (i *Info) Size() int { return len(i.body) }

// Loop returns the cfg representation of the loop.
func (i *Info) Loop() *cfg.Loop {
	return cfg.NewLoop(i.header, i.members, i.exits)
}

// sortedBody returns the loop body in vertex index order.
func (i *Info) sortedBody() []int {
	vs := make([]int, 0, len(i.body))
	for v := range i.body {
		vs = append(vs, v)
	}
	sort.Ints(vs)
	return vs
}

func (i *Info) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "loop@%d depth=%d body=%v", i.header, i.depth, i.sortedBody())
	if len(i.exits) > 0 {
		fmt.Fprintf(&buf, " exits=%v", i.exits)
	}
	return buf.String()
}
