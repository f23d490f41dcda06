package build

import (
	"go/ast"
	"go/importer"
	"go/token"
	"go/types"
	"io"
	"io/ioutil"
	"log"

	"github.com/nickng/pathenum/ssa"
	"github.com/pkg/errors"
	gossa "golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

var (
	ErrNoFiles = errors.New("build: no source files")
	ErrBadPkg  = errors.New("build: package marked bad")
)

// srcParser is a wrapper for source code which can be parsed into files.
type srcParser interface {
	parse(fset *token.FileSet) ([]*ast.File, error)
}

type Configurer interface {
	Builder
	Default() Configurer
	AddBadPkg(pkg, reason string) Configurer
	WithBuildLog(l io.Writer, flags int) Configurer
	WithMode(mode gossa.BuilderMode) Configurer
}

// Config represents a build configuration.
type Config struct {
	badPkgs map[string]string

	bldLog    io.Writer // Build log.
	bldLFlags int       // Build log flags.

	mode gossa.BuilderMode

	src srcParser // src points to the program source.
}

func newConfig(src srcParser) *Config {
	return &Config{
		badPkgs:   make(map[string]string),
		bldLog:    ioutil.Discard,
		bldLFlags: log.LstdFlags,
		src:       src,
	}
}

// WithBuildLog adds build log to config.
func (c *Config) WithBuildLog(l io.Writer, flags int) Configurer {
	c.bldLog = l
	c.bldLFlags = flags
	return c
}

// WithMode sets the SSA builder mode.
func (c *Config) WithMode(mode gossa.BuilderMode) Configurer {
	c.mode = mode
	return c
}

// AddBadPkg marks a package 'bad' to avoid building.
// The package is still type checked.
func (c *Config) AddBadPkg(pkg, reason string) Configurer {
	c.badPkgs[pkg] = reason
	return c
}

func (c *Config) Build() (*ssa.Info, error) {
	bldLog := log.New(c.bldLog, "ssabuild: ", c.bldLFlags)

	fset := token.NewFileSet()
	files, err := c.src.parse(fset)
	if err != nil {
		return nil, err
	}
	name := files[0].Name.Name
	for _, f := range files[1:] {
		if f.Name.Name != name {
			return nil, errors.Errorf("files from different packages: %s and %s", name, f.Name.Name)
		}
	}

	if reason, badPkg := c.badPkgs[name]; badPkg {
		bldLog.Printf("Skip package: %s (%s)", name, reason)
		return nil, errors.Wrapf(ErrBadPkg, "%s (%s)", name, reason)
	}

	// Type check and build the package, imports are type checked from source.
	tc := &types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, _, err := ssautil.BuildPackage(tc, fset, types.NewPackage(name, name), files, c.mode)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build package")
	}
	bldLog.Print("Program loaded and type checked")

	var ignoredPkgs []string
	for _, imp := range pkg.Pkg.Imports() {
		if reason, badPkg := c.badPkgs[imp.Name()]; badPkg {
			bldLog.Printf("Skip package: %s (%s)", imp.Name(), reason)
			ignoredPkgs = append(ignoredPkgs, imp.Name())
		}
	}

	return &ssa.Info{
		IgnoredPkgs: ignoredPkgs,
		FSet:        fset,
		Prog:        pkg.Prog,
		Pkg:         pkg,
		Files:       files,
		BldLog:      c.bldLog,
		Logger:      bldLog,
	}, nil
}

// Default returns a default configuration for static analysis.
func (c *Config) Default() Configurer {
	return c.
		WithMode(gossa.BareInits).
		AddBadPkg("reflect", "Reflection is not supported").
		AddBadPkg("runtime", "Runtime is ignored for static analysis")
}
