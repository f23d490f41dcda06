// Package cfg provides the control-flow graph and loop forest representation
// consumed by path enumeration.
//
// A Graph always has at least two vertices: vertex 0 (Entry) and vertex 1
// (Exit). Front ends (see the ssa and csrc packages) create the remaining
// vertices for the basic blocks of a procedure and connect them with AddEdge.
// The order in which edges are added is significant: it is the order in which
// successors are visited and in which path index ranges are assigned.
package cfg
