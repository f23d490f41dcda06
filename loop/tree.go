package loop

import "sort"

// nest links every loop to its smallest enclosing loop and sets the nesting
// depth. It returns the outermost loops ordered by header.
func nest(loops []*Info) []*Info {
	// Smaller loops first, so the first enclosing loop found is the smallest.
	bySize := append([]*Info(nil), loops...)
	sort.SliceStable(bySize, func(i, j int) bool { return bySize[i].Size() < bySize[j].Size() })

	var roots []*Info
	for i, l := range bySize {
		for _, outer := range bySize[i+1:] {
			if outer.header != l.header && outer.Contains(l.header) {
				l.parent = outer
				break
			}
		}
		if l.parent == nil {
			roots = append(roots, l)
		}
	}
	for _, l := range loops { // loops is ordered by header.
		if l.parent != nil {
			l.parent.children = append(l.parent.children, l)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].header < roots[j].header })

	stack := NewStack()
	for i := len(roots) - 1; i >= 0; i-- {
		roots[i].depth = 1
		stack.Push(roots[i])
	}
	for !stack.IsEmpty() {
		l, _ := stack.Pop()
		for _, c := range l.children {
			c.depth = l.depth + 1
			stack.Push(c)
		}
	}
	return roots
}

// innerFirst returns all loops of the trees rooted at roots, with every loop
// listed after the loops nested inside it.
func innerFirst(roots []*Info) []*Info {
	type item struct {
		l        *Info
		expanded bool
	}
	var (
		order []*Info
		work  []item
	)
	for i := len(roots) - 1; i >= 0; i-- {
		work = append(work, item{l: roots[i]})
	}
	for len(work) > 0 {
		top := work[len(work)-1]
		work = work[:len(work)-1]
		if top.expanded {
			order = append(order, top.l)
			continue
		}
		work = append(work, item{l: top.l, expanded: true})
		for i := len(top.l.children) - 1; i >= 0; i-- {
			work = append(work, item{l: top.l.children[i]})
		}
	}
	return order
}
