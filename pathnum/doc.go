// Package pathnum implements Ball-Larus path numbering over an unrolled
// product graph.
//
// Number runs a backward pass computing the number of paths from every vertex
// to the exit, then a forward pass from the entry assigning every edge an
// inclusive range of path indices. The ranges of the outgoing edges of a
// vertex v tile [0, Paths(v)), so the sum of the lower bounds along any walk
// from entry to exit is an index unique to that walk (see Encode and Decode).
//
// All counts use math/big: path counts grow multiplicatively with loop
// nesting and overflow machine words for modest inputs.
package pathnum
