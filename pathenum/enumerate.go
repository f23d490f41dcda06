package pathenum

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/nickng/pathenum/cfg"
	"github.com/nickng/pathenum/pathnum"
	"github.com/nickng/pathenum/unroll"
)

// ErrTooLarge is the cause of every CapError.
var ErrTooLarge = errors.New("pathenum: procedure exceeds enumeration caps")

// Options controls the enumeration of one procedure.
// Zero MaxDepth or MaxVertices disables the corresponding cap.
type Options struct {
	K           int // Unrolling bound per nesting level.
	MaxDepth    int // Maximum loop nesting depth.
	MaxVertices int // Maximum number of product vertices.
}

// CapError is returned when a procedure is over one of the caps of Options.
type CapError struct {
	Name     string
	Depth    int      // Loop nesting depth of the procedure.
	Vertices *big.Int // Product vertices the procedure would need.
	Options  Options
}

func (e *CapError) Error() string {
	return fmt.Sprintf("%s: depth %d (max %d), %s product vertices (max %d)",
		e.Name, e.Depth, e.Options.MaxDepth, e.Vertices, e.Options.MaxVertices)
}

// Unwrap returns ErrTooLarge.
func (e *CapError) Unwrap() error { return ErrTooLarge }

// Number unrolls g with its loop forest f and numbers the paths of the
// product graph.
func Number(g *cfg.Graph, f *cfg.Forest, opts Options) (*pathnum.Numbering, error) {
	c, err := unroll.Classify(g, f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", g.Name)
	}
	if err := checkCaps(g.Name, c, opts); err != nil {
		return nil, err
	}
	p, err := unroll.Build(c, opts.K)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", g.Name)
	}
	p.Patch()
	n, err := pathnum.Number(p)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", g.Name)
	}
	return n, nil
}

// Enumerate numbers the paths of g and returns the reachable part of the
// numbered product graph.
func Enumerate(g *cfg.Graph, f *cfg.Forest, opts Options) (*pathnum.Result, error) {
	n, err := Number(g, f, opts)
	if err != nil {
		return nil, err
	}
	return n.Result(g), nil
}

func checkCaps(name string, c *unroll.Classification, opts Options) error {
	depth := c.MaxDepth()
	if opts.MaxDepth > 0 && depth > opts.MaxDepth {
		return &CapError{Name: name, Depth: depth, Vertices: c.Size(opts.K), Options: opts}
	}
	if opts.MaxVertices > 0 {
		if size := c.Size(opts.K); size.Cmp(big.NewInt(int64(opts.MaxVertices))) > 0 {
			return &CapError{Name: name, Depth: depth, Vertices: size, Options: opts}
		}
	}
	return nil
}
