package ssa

import (
	"io"
	"sort"

	"golang.org/x/tools/go/ssa"
)

// sortFuncs sorts functions by package path then source position, so that
// output does not depend on map iteration order.
func sortFuncs(fns []*ssa.Function) {
	sort.SliceStable(fns, func(i, j int) bool {
		pi, pj := pkgPath(fns[i]), pkgPath(fns[j])
		if pi != pj {
			return pi < pj
		}
		if fns[i].Pos() != fns[j].Pos() {
			return fns[i].Pos() < fns[j].Pos()
		}
		return fns[i].String() < fns[j].String()
	})
}

func pkgPath(fn *ssa.Function) string {
	if fn.Pkg == nil {
		return ""
	}
	return fn.Pkg.Pkg.Path()
}

// WriteFuncs writes fns to w in human readable SSA IR instruction format.
func WriteFuncs(w io.Writer, fns []*ssa.Function) (int64, error) {
	var n int64
	for _, f := range fns {
		written, err := f.WriteTo(w)
		n += written
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteTo writes the Functions of the built package to w in human readable
// SSA IR instruction format.
func (info *Info) WriteTo(w io.Writer) (int64, error) {
	return WriteFuncs(w, info.PkgFunctions())
}

// WriteAll writes all Functions found in the callgraph of the Program to w in
// human readable SSA IR instruction format.
func (info *Info) WriteAll(w io.Writer, algo string) (int64, error) {
	graph, err := info.BuildCallGraph(algo)
	if err != nil {
		return 0, err
	}
	funcs, err := graph.AllFunctions()
	if err != nil {
		return 0, err
	}
	return WriteFuncs(w, funcs)
}
