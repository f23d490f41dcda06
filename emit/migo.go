package emit

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nickng/migo"
	"github.com/pkg/errors"

	"github.com/nickng/pathenum/pathnum"
)

// migoEncoder writes the product graph as a MiGo program.
//
// Every product vertex is a MiGo function: the entry vertex is named after the
// procedure, any other vertex is name#block or name#block_c0_c1... for copies
// inside loops. A vertex calls its successor, and branches are nested
// if-then-else in edge order. The exit vertex is a silent step.
type migoEncoder struct{}

func (migoEncoder) Ext() string { return "migo" }

func (migoEncoder) Encode(w io.Writer, r *pathnum.Result) error {
	prog := migo.NewProgram()
	for _, v := range r.Vertices {
		fn := migo.NewFunction(migoName(r.Name, v.ID, v.Block, v.Context))
		var calls []migo.Statement
		for _, e := range v.Edges {
			calls = append(calls, &migo.CallStatement{Name: migoName(r.Name, e.To, e.Block, e.Context)})
		}
		switch len(calls) {
		case 0:
			fn.AddStmts(&migo.TauStatement{})
		default:
			fn.AddStmts(branch(calls))
		}
		prog.AddFunction(fn)
	}
	if _, err := io.WriteString(w, prog.String()); err != nil {
		return errors.Wrap(err, "migo: cannot write program")
	}
	return nil
}

// branch returns calls[0] if it is the only call, otherwise if-then-else
// between calls[0] and the branch of the remaining calls.
func branch(calls []migo.Statement) migo.Statement {
	if len(calls) == 1 {
		return calls[0]
	}
	return &migo.IfStatement{
		Then: []migo.Statement{calls[0]},
		Else: []migo.Statement{branch(calls[1:])},
	}
}

func migoName(proc string, id, block int, ctx []int) string {
	if id == 0 {
		return proc
	}
	parts := []string{fmt.Sprintf("%s#%d", proc, block)}
	for _, c := range ctx {
		parts = append(parts, strconv.Itoa(c))
	}
	return strings.Join(parts, "_")
}
