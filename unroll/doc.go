// Package unroll builds the bounded loop-unrolled product graph of a
// control-flow graph.
//
// Unrolling happens in three steps:
//
// Classify computes the nesting depth of every vertex, marks loop headers, and
// classifies every edge as Normal, Back, Exit or Entry.
//
// Contexts duplicates a vertex into one copy per combination of iteration
// indices of its enclosing loops, K copies per level, and K+1 copies at the
// own level of a loop header (the extra copy is the loop being exhausted).
//
// Build connects the copies with product edges according to the class of the
// original edge, and Patch links every copy left without successors to the
// exit vertex.
package unroll
