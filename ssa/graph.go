package ssa

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"

	"github.com/nickng/pathenum/cfg"
)

// noReturn are the callees that never return to the caller.
var noReturn = map[string]bool{
	"os.Exit":        true,
	"runtime.Goexit": true,
	"syscall.Exit":   true,
	"log.Fatal":      true,
	"log.Fatalf":     true,
	"log.Fatalln":    true,
}

// blockVertex is the vertex of SSA block b in the graph.
func blockVertex(b *ssa.BasicBlock) int { return b.Index + 2 }

// FuncGraph returns the control-flow graph of fn.
//
// Block i of fn is vertex i+2 of the graph. The entry vertex leads to the
// first block, and blocks that return lead to the exit vertex. Blocks ending
// in a panic or a call that never returns have no successors.
func FuncGraph(fn *ssa.Function) (*cfg.Graph, error) {
	if fn.Blocks == nil {
		return nil, errors.Wrapf(ErrNoBody, "%s", fn)
	}
	g := cfg.New(fn.String())
	if fn.Prog != nil && fn.Pos().IsValid() {
		g.Source = fn.Prog.Fset.Position(fn.Pos()).Filename
	}
	for _, b := range fn.Blocks {
		label := b.Comment
		if label == "" {
			label = fmt.Sprintf("%d", b.Index)
		}
		g.AddVertex(label)
	}
	for _, b := range fn.Blocks {
		fillBlock(g.Block(blockVertex(b)), b)
	}
	if err := g.AddEdge(cfg.Entry, blockVertex(fn.Blocks[0])); err != nil {
		return nil, err
	}
	for _, b := range fn.Blocks {
		for _, dst := range successors(b) {
			if err := g.AddEdge(blockVertex(b), dst); err != nil {
				return nil, errors.Wrapf(err, "%s: block %d", fn, b.Index)
			}
		}
	}
	return g, nil
}

// successors returns the vertices following block b.
func successors(b *ssa.BasicBlock) []int {
	if len(b.Instrs) == 0 {
		return nil
	}
	switch b.Instrs[len(b.Instrs)-1].(type) {
	case *ssa.Return:
		return []int{cfg.Exit}
	case *ssa.Panic:
		return nil
	}
	for _, instr := range b.Instrs {
		if call, ok := instr.(ssa.CallInstruction); ok {
			if callee := call.Common().StaticCallee(); callee != nil && noReturn[callee.String()] {
				return nil
			}
		}
	}
	succs := make([]int, 0, len(b.Succs))
	for _, s := range b.Succs {
		succs = append(succs, blockVertex(s))
	}
	return succs
}

// fillBlock records the instructions and static callees of b.
func fillBlock(blk *cfg.Block, b *ssa.BasicBlock) {
	if len(b.Preds) == 1 {
		if cond, ok := branchCond(b.Preds[0], b); ok {
			blk.Stmts = append(blk.Stmts, cond)
		}
	}
	for _, instr := range b.Instrs {
		if v, ok := instr.(ssa.Value); ok && v.Name() != "" {
			blk.Stmts = append(blk.Stmts, fmt.Sprintf("%s = %s", v.Name(), v))
		} else {
			blk.Stmts = append(blk.Stmts, instr.String())
		}
		if call, ok := instr.(ssa.CallInstruction); ok {
			if callee := call.Common().StaticCallee(); callee != nil {
				blk.Calls = append(blk.Calls, callee.String())
			}
		}
	}
}

// branchCond returns the assumption made by entering b from pred, if pred
// ends with a conditional branch.
func branchCond(pred, b *ssa.BasicBlock) (string, bool) {
	if len(pred.Instrs) == 0 || len(pred.Succs) != 2 || pred.Succs[0] == pred.Succs[1] {
		return "", false
	}
	ifInstr, ok := pred.Instrs[len(pred.Instrs)-1].(*ssa.If)
	if !ok {
		return "", false
	}
	switch b {
	case pred.Succs[0]:
		return "assume TRUE " + ifInstr.Cond.Name(), true
	case pred.Succs[1]:
		return "assume FALSE " + ifInstr.Cond.Name(), true
	}
	return "", false
}
