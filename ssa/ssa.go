// Package ssa is a library to build and work with SSA.
// For most part the package contains helper or wrapper functions to use the
// packages in Go project's extra tools.
//
// In particular, the SSA IR is from golang.org/x/tools/go/ssa, and reuses many
// of the packages in the static analysis stack built on top of it. Functions
// in the IR are turned into control-flow graphs by FuncGraph.
//
package ssa

import (
	"go/ast"
	"go/token"
	"io"
	"log"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
)

var (
	ErrNoMainPkgs = errors.New("ssa: no main packages")
	ErrNoBody     = errors.New("ssa: function has no body")
)

// Info holds the results of a SSA build for analysis.
// To populate this structure, the 'build' subpackage should be used.
//
type Info struct {
	IgnoredPkgs []string // Record of ignored package during the build process.

	FSet  *token.FileSet // FileSet for parsed source files.
	Prog  *ssa.Program   // SSA IR for whole program.
	Pkg   *ssa.Package   // Package built from the source files.
	Files []*ast.File    // Parsed source files.

	BldLog io.Writer // Build log.

	Logger *log.Logger // Build logger.
}
