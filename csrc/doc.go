// Package csrc builds control-flow graphs of C functions.
//
// Source files are parsed with tree-sitter, and every function definition
// with a body becomes one cfg.Graph. Statements are grouped into basic blocks
// the way a compiler front end would: a block ends at a branch, at a loop
// boundary, at a label or at a jump (break, continue, return, goto). Calls to
// functions that never return end their block with no successors.
//
// Code that cannot be reached from the function entry is dropped.
package csrc
