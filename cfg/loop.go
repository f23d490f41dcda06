package cfg

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoHeader   = errors.New("cfg: loop has no header")
	ErrBadExit    = errors.New("cfg: loop exit edge does not leave the loop")
	ErrNotMember  = errors.New("cfg: loop header is not a member of its loop")
	ErrLoopInOut  = errors.New("cfg: entry or exit vertex is inside a loop")
	ErrBadMembers = errors.New("cfg: loop member out of range")
)

// Loop is a natural loop of a Graph.
type Loop struct {
	Header  int    // Header vertex, NoVertex if unknown.
	Members []int  // Member vertices in breadth-first order from Header.
	Exits   []Edge // Edges leaving the loop.

	set map[int]bool
}

// NewLoop returns a Loop with the given header and members.
func NewLoop(header int, members []int, exits []Edge) *Loop {
	return &Loop{Header: header, Members: members, Exits: exits}
}

// Contains returns true if v is a member of the loop.
func (l *Loop) Contains(v int) bool {
	if l.set == nil {
		l.set = make(map[int]bool, len(l.Members))
		for _, m := range l.Members {
			l.set[m] = true
		}
	}
	return l.set[v]
}

func (l *Loop) String() string {
	return fmt.Sprintf("loop(header=%d members=%v exits=%v)", l.Header, l.Members, l.Exits)
}

// Forest is the set of loops of a Graph.
// Loops are ordered so that inner loops come before the loops enclosing them.
type Forest struct {
	Loops []*Loop
}

// Depth returns the maximum loop nesting depth of the forest.
func (f *Forest) Depth(n int) int {
	depth := make([]int, n)
	deepest := 0
	for _, l := range f.Loops {
		for _, m := range l.Members {
			if m < 0 || m >= n {
				continue
			}
			depth[m]++
			if depth[m] > deepest {
				deepest = depth[m]
			}
		}
	}
	return deepest
}

// Validate checks the forest against g.
func (f *Forest) Validate(g *Graph) error {
	for i, l := range f.Loops {
		if l.Header == NoVertex {
			return errors.Wrapf(ErrNoHeader, "loop %d", i)
		}
		if !g.valid(l.Header) {
			return errors.Wrapf(ErrBadVertex, "loop %d header %d", i, l.Header)
		}
		for _, m := range l.Members {
			if !g.valid(m) {
				return errors.Wrapf(ErrBadMembers, "loop %d member %d", i, m)
			}
		}
		if !l.Contains(l.Header) {
			return errors.Wrapf(ErrNotMember, "loop %d header %d", i, l.Header)
		}
		if l.Contains(Entry) || l.Contains(Exit) {
			return errors.Wrapf(ErrLoopInOut, "loop %d", i)
		}
		for _, e := range l.Exits {
			if !l.Contains(e.Src) || l.Contains(e.Dst) {
				return errors.Wrapf(ErrBadExit, "loop %d edge %v", i, e)
			}
		}
	}
	return nil
}
