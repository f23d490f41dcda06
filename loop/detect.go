package loop

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nickng/pathenum/cfg"
)

// ErrIrreducible is returned if the graph has cycles that are not natural loops.
var ErrIrreducible = errors.New("loop: irreducible control flow")

// Detector finds the natural loops of a cfg.Graph.
type Detector struct {
	g      *cfg.Graph
	idom   []int
	loops  map[int]*Info // Loops by header.
	back   map[cfg.Edge]bool
	logger *zap.SugaredLogger
}

// NewDetector returns a Detector for g.
func NewDetector(g *cfg.Graph) *Detector {
	return &Detector{
		g:      g,
		loops:  make(map[int]*Info),
		back:   make(map[cfg.Edge]bool),
		logger: zap.NewNop().Sugar(),
	}
}

// SetLogger sets the logger for detection messages.
func (d *Detector) SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		d.logger = l
	}
}

// Detect is a shorthand for NewDetector(g).Detect().
func Detect(g *cfg.Graph) (*cfg.Forest, error) {
	return NewDetector(g).Detect()
}

// Detect computes the loop forest of the graph.
func (d *Detector) Detect() (*cfg.Forest, error) {
	d.idom = dominators(d.g)
	for _, e := range d.g.Edges() {
		if dominates(e.Dst, e.Src, d.idom) {
			d.back[e] = true
			l, ok := d.loops[e.Dst]
			if !ok {
				l = New(e.Dst)
				d.loops[e.Dst] = l
			}
			l.AddLatch(e.Src)
			d.logger.Debugw("Back edge", "graph", d.g.Name, "latch", e.Src, "header", e.Dst)
		}
	}
	if err := d.checkReducible(); err != nil {
		return nil, err
	}

	headers := make([]int, 0, len(d.loops))
	for h := range d.loops {
		headers = append(headers, h)
	}
	sort.Ints(headers)
	loops := make([]*Info, len(headers))
	for i, h := range headers {
		loops[i] = d.loops[h]
		d.findBody(loops[i])
		d.findMembers(loops[i])
		d.findExits(loops[i])
	}

	forest := &cfg.Forest{}
	for _, l := range innerFirst(nest(loops)) {
		d.logger.Debugw("Loop", "graph", d.g.Name, "loop", l.String())
		forest.Loops = append(forest.Loops, l.Loop())
	}
	return forest, nil
}

// findBody walks predecessors from the latches until the header.
func (d *Detector) findBody(l *Info) {
	work := append([]int(nil), l.latches...)
	for len(work) > 0 {
		v := work[len(work)-1]
		work = work[:len(work)-1]
		if l.body[v] {
			continue
		}
		l.body[v] = true
		for _, p := range d.g.Preds(v) {
			if d.idom[p] != cfg.NoVertex && !l.body[p] {
				work = append(work, p)
			}
		}
	}
}

// findMembers lists the body breadth first from the header.
func (d *Detector) findMembers(l *Info) {
	seen := map[int]bool{l.header: true}
	queue := []int{l.header}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		l.members = append(l.members, v)
		for _, s := range d.g.Succs(v) {
			if l.body[s] && !seen[s] {
				seen[s] = true
				queue = append(queue, s)
			}
		}
	}
}

func (d *Detector) findExits(l *Info) {
	for _, v := range l.members {
		for _, s := range d.g.Succs(v) {
			if !l.body[s] {
				l.exits = append(l.exits, cfg.Edge{Src: v, Dst: s})
			}
		}
	}
}

// checkReducible topologically sorts the reachable graph without its back
// edges; any vertex left over is on a cycle with no natural loop header.
func (d *Detector) checkReducible() error {
	indeg := make([]int, d.g.Len())
	reachable := 0
	for v := 0; v < d.g.Len(); v++ {
		if d.idom[v] == cfg.NoVertex {
			continue
		}
		reachable++
		for _, p := range d.g.Preds(v) {
			if d.idom[p] != cfg.NoVertex && !d.back[cfg.Edge{Src: p, Dst: v}] {
				indeg[v]++
			}
		}
	}
	sorted := 0
	work := []int{cfg.Entry}
	for len(work) > 0 {
		v := work[len(work)-1]
		work = work[:len(work)-1]
		sorted++
		for _, s := range d.g.Succs(v) {
			if d.back[cfg.Edge{Src: v, Dst: s}] {
				continue
			}
			if indeg[s]--; indeg[s] == 0 {
				work = append(work, s)
			}
		}
	}
	if sorted != reachable {
		d.logger.Warnw("Irreducible control flow", "graph", d.g.Name, "unsorted", reachable-sorted)
		return errors.Wrapf(ErrIrreducible, "%s: %d vertices on non-natural cycles", d.g.Name, reachable-sorted)
	}
	return nil
}
