package ssa

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// ErrFuncNotFound is returned when a named function is not in the package.
var ErrFuncNotFound = errors.New("ssa: function not found")

// PkgFunctions returns the functions with a body declared in the built
// package, including methods and anonymous functions, in source order.
func (info *Info) PkgFunctions() []*ssa.Function {
	var fns []*ssa.Function
	for fn := range ssautil.AllFunctions(info.Prog) {
		if fn.Pkg == info.Pkg && fn.Blocks != nil {
			fns = append(fns, fn)
		}
	}
	sortFuncs(fns)
	return fns
}

// Functions returns the functions of the built package to analyse.
// For a command, only the functions reachable from main.init() and
// main.main() in the callgraph built with algo are returned, otherwise all
// functions of the package.
func (info *Info) Functions(algo string) ([]*ssa.Function, error) {
	all := info.PkgFunctions()
	if info.Pkg.Func("main") == nil || info.Pkg.Pkg.Name() != "main" {
		return all, nil
	}
	graph, err := info.BuildCallGraph(algo)
	if err != nil {
		return nil, err
	}
	used, err := graph.UsedFunctions()
	if err != nil {
		return nil, err
	}
	reached := make(map[*ssa.Function]bool, len(used))
	for _, fn := range used {
		reached[fn] = true
	}
	var fns []*ssa.Function
	for _, fn := range all {
		if reached[fn] {
			fns = append(fns, fn)
		}
	}
	return fns, nil
}

// FindFunc parses path (e.g. "main".foo, (*main.T).M or foo) and returns
// Function body in SSA IR.
func (info *Info) FindFunc(path string) (*ssa.Function, error) {
	pkgPath, fnName := parseFuncPath(path)
	for _, f := range info.PkgFunctions() {
		if f.String() == path {
			return f, nil
		}
		if (pkgPath == "" || f.Pkg.Pkg.Path() == pkgPath) && f.Name() == fnName {
			return f, nil
		}
	}
	return nil, errors.Wrapf(ErrFuncNotFound, "%s", path)
}

var (
	recvRegex = regexp.MustCompile(`\((?P<pkg>[^)]+)\).(?P<fn>.+)`)
	pkgRegex  = regexp.MustCompile(`"(?P<pkg>[^)]+)".(?P<fn>.+)`)
)

// parseFuncPath splits path to package and function segments.
// Does not handle complex functions with receivers.
func parseFuncPath(path string) (pkgPath, fnName string) {
	if len(path) < 1 {
		return "", ""
	}
	switch path[0] {
	case '(':
		submatches := recvRegex.FindStringSubmatch(path)
		if len(submatches) >= 3 {
			return submatches[1], submatches[2]
		}
	case '"':
		submatches := pkgRegex.FindStringSubmatch(path)
		if len(submatches) >= 3 {
			return submatches[1], submatches[2]
		}
	default:
		parts := strings.Split(path, ".")
		if len(parts) >= 2 {
			return parts[0], parts[1]
		}
	}
	return "", path
}
