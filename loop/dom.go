package loop

import "github.com/nickng/pathenum/cfg"

// postorder returns the vertices reachable from entry in depth-first
// postorder, visiting successors in edge order.
func postorder(g *cfg.Graph) []int {
	type frame struct{ v, next int }
	seen := make([]bool, g.Len())
	seen[cfg.Entry] = true
	var order []int
	stack := []frame{{v: cfg.Entry}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succs := g.Succs(top.v)
		if top.next < len(succs) {
			s := succs[top.next]
			top.next++
			if !seen[s] {
				seen[s] = true
				stack = append(stack, frame{v: s})
			}
			continue
		}
		order = append(order, top.v)
		stack = stack[:len(stack)-1]
	}
	return order
}

// dominators returns the immediate dominator of every vertex.
// Unreachable vertices have idom NoVertex, and idom[Entry] is Entry.
//
// This is the iterative algorithm of Cooper, Harvey and Kennedy.
func dominators(g *cfg.Graph) []int {
	po := postorder(g)
	postnum := make([]int, g.Len())
	for i := range postnum {
		postnum[i] = -1
	}
	for i, v := range po {
		postnum[v] = i
	}
	idom := make([]int, g.Len())
	for i := range idom {
		idom[i] = cfg.NoVertex
	}
	idom[cfg.Entry] = cfg.Entry

	for changed := true; changed; {
		changed = false
		for i := len(po) - 1; i >= 0; i-- {
			b := po[i]
			if b == cfg.Entry {
				continue
			}
			newIdom := cfg.NoVertex
			for _, p := range g.Preds(b) {
				if idom[p] == cfg.NoVertex {
					continue
				}
				if newIdom == cfg.NoVertex {
					newIdom = p
				} else {
					newIdom = intersect(p, newIdom, postnum, idom)
				}
			}
			if idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	return idom
}

func intersect(b, c int, postnum, idom []int) int {
	for b != c {
		if postnum[b] < postnum[c] {
			b = idom[b]
		} else {
			c = idom[c]
		}
	}
	return b
}

// dominates returns true if a dominates b.
func dominates(a, b int, idom []int) bool {
	if idom[b] == cfg.NoVertex {
		return false
	}
	for {
		if a == b {
			return true
		}
		if b == cfg.Entry {
			return false
		}
		b = idom[b]
	}
}
