// Package loop provides natural loop detection over control-flow graphs.
//
// Loop detection computes the dominator tree of a cfg.Graph, identifies back
// edges (edges whose destination dominates their source), and groups them by
// header. The body of a loop is the header plus every vertex that reaches one
// of its latches without passing through the header. Loops are nested by
// containment, and the resulting cfg.Forest lists inner loops before the loops
// enclosing them.
//
// Only reducible control flow is supported: if cycles remain after removing
// all back edges, Detect returns ErrIrreducible.
package loop
