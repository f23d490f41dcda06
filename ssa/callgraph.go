package ssa

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/cha"
	"golang.org/x/tools/go/callgraph/rta"
	"golang.org/x/tools/go/callgraph/static"
	"golang.org/x/tools/go/ssa"
)

// CallGraph is a callgraph of the Program, used to select the functions to
// enumerate.
type CallGraph struct {
	cg      *callgraph.Graph // Internal cached copy of the callgraph.
	edges   []*cgEdge        // Result of callgraph analysis.
	prog    *ssa.Program     // SSA Program the callgraph is built from.
	usedFns []*ssa.Function  // Functions actually used by current Program.
	allFns  []*ssa.Function  // Functions in the current Program (including unused).
}

// AllFunctions return all ssa.Functions defined in the current Program.
func (g *CallGraph) AllFunctions() ([]*ssa.Function, error) {
	// If cached.
	if g.allFns != nil {
		return g.allFns, nil
	}

	visited := make(map[*ssa.Function]bool)
	if err := callgraph.GraphVisitEdges(g.cg, func(edge *callgraph.Edge) error {
		visited[edge.Caller.Func] = true
		visited[edge.Callee.Func] = true
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "callgraph: failed to visit edges")
	}

	for fn := range visited {
		g.allFns = append(g.allFns, fn)
	}
	sortFuncs(g.allFns)
	return g.allFns, nil
}

// UsedFunctions return a slice of ssa.Function actually used by the current
// Program, rooted at main.init() and main.main(), in breadth-first order.
func (g *CallGraph) UsedFunctions() ([]*ssa.Function, error) {
	// Cached.
	if g.usedFns != nil {
		return g.usedFns, nil
	}

	callTree := make(map[*ssa.Function][]*ssa.Function)
	if err := callgraph.GraphVisitEdges(g.cg, func(edge *callgraph.Edge) error {
		callTree[edge.Caller.Func] = append(callTree[edge.Caller.Func], edge.Callee.Func)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "callgraph: failed to visit edges")
	}

	mains, err := MainPkgs(g.prog)
	if err != nil {
		return nil, errors.Wrap(err, "callgraph: failed to find main packages (Check if this is a command?)")
	}

	var fnQueue []*ssa.Function
	for _, main := range mains {
		if main.Func("main") != nil {
			if init := main.Func("init"); init != nil {
				fnQueue = append(fnQueue, init)
			}
			fnQueue = append(fnQueue, main.Func("main"))
		}
	}

	visited := make(map[*ssa.Function]bool)
	for len(fnQueue) > 0 {
		headFn := fnQueue[0]
		fnQueue = fnQueue[1:]
		if !visited[headFn] {
			visited[headFn] = true
			g.usedFns = append(g.usedFns, headFn)
		}
		for _, fn := range callTree[headFn] {
			if !visited[fn] {
				visited[fn] = true
				g.usedFns = append(g.usedFns, fn)
				fnQueue = append(fnQueue, fn)
			}
		}
	}
	return g.usedFns, nil
}

// populateEdges records edge for WriteGraphviz.
func (g *CallGraph) populateEdges(edge *callgraph.Edge) error {
	g.edges = append(g.edges, &cgEdge{
		Caller:  edge.Caller.Func,
		Callee:  edge.Callee.Func,
		dynamic: edge.Site != nil && edge.Site.Common().StaticCallee() == nil,
	})
	return nil
}

// WriteGraphviz writes callgraph to w in graphviz dot format.
// Dynamic calls are drawn dashed.
func (g *CallGraph) WriteGraphviz(w io.Writer) error {
	if g.edges == nil {
		if err := callgraph.GraphVisitEdges(g.cg, g.populateEdges); err != nil {
			return errors.Wrap(err, "callgraph: failed to visit edges")
		}
	}

	bufw := bufio.NewWriter(w)
	bufw.WriteString("digraph callgraph {\n")
	for _, edge := range g.edges {
		bufw.WriteString(fmt.Sprintf("  %q -> %q", edge.Caller, edge.Callee))
		if edge.dynamic {
			bufw.WriteString(" [style=dashed]")
		}
		bufw.WriteString("\n")
	}
	bufw.WriteString("}\n")
	return bufw.Flush()
}

// cgEdge is a single edge in the callgraph.
type cgEdge struct {
	Caller *ssa.Function
	Callee *ssa.Function

	dynamic bool // Call through an interface or function value.
}

// ErrUnknownAlgo is returned for a callgraph algorithm that is not supported.
var ErrUnknownAlgo = errors.New("callgraph: unknown algorithm")

// BuildCallGraph constructs a callgraph from ssa.Info.
// algo is algorithm available in golang.org/x/tools/go/callgraph, which
// includes:
//  - static  static calls only (unsound)
//  - cha     Class Hierarchy Analysis
//  - rta     Rapid Type Analysis (main packages only)
//
func (info *Info) BuildCallGraph(algo string) (*CallGraph, error) {
	var cg *callgraph.Graph
	switch algo {
	case "static":
		cg = static.CallGraph(info.Prog)

	case "cha":
		cg = cha.CallGraph(info.Prog)

	case "rta":
		mains, err := MainPkgs(info.Prog)
		if err != nil {
			return nil, err
		}
		var roots []*ssa.Function
		for _, main := range mains {
			if init := main.Func("init"); init != nil {
				roots = append(roots, init)
			}
			if fn := main.Func("main"); fn != nil {
				roots = append(roots, fn)
			}
		}
		rtares := rta.Analyze(roots, true)
		cg = rtares.CallGraph

	default:
		return nil, errors.Wrapf(ErrUnknownAlgo, "%q", algo)
	}

	cg.DeleteSyntheticNodes()

	return &CallGraph{cg: cg, prog: info.Prog}, nil
}
