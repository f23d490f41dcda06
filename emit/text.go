package emit

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/nickng/pathenum/pathnum"
)

var (
	classColor = map[string]func(a ...interface{}) string{
		"back":  color.New(color.FgYellow).SprintFunc(),
		"exit":  color.New(color.FgRed).SprintFunc(),
		"entry": color.New(color.FgGreen).SprintFunc(),
	}
	headerColor = color.New(color.Bold).SprintFunc()
)

// textEncoder writes a human readable listing.
//
//	proc main.f (f.go) K=1 paths=3 patched=0
//	  block 2 (for.body): x = 1; g()
//	  v1 2[0] paths=3
//	    -> v2 2[1] [0,1] back
type textEncoder struct{}

func (textEncoder) Ext() string { return "txt" }

func (textEncoder) Encode(w io.Writer, r *pathnum.Result) error {
	bufw := bufio.NewWriter(w)
	header := fmt.Sprintf("proc %s", r.Name)
	if r.Source != "" {
		header += fmt.Sprintf(" (%s)", r.Source)
	}
	fmt.Fprintf(bufw, "%s K=%d paths=%s patched=%d\n", headerColor(header), r.K, r.Paths, r.Patched)
	for i, b := range r.Blocks {
		if len(b.Stmts) == 0 {
			continue
		}
		fmt.Fprintf(bufw, "  block %d", i)
		if b.Label != "" {
			fmt.Fprintf(bufw, " (%s)", b.Label)
		}
		fmt.Fprintf(bufw, ": %s\n", strings.Join(b.Stmts, "; "))
	}
	for _, v := range r.Vertices {
		fmt.Fprintf(bufw, "  v%d %s paths=%s\n", v.ID, vertexName(v.Block, v.Context), v.Paths)
		for _, e := range v.Edges {
			class := e.Class
			if c, ok := classColor[class]; ok {
				class = c(class)
			}
			if e.Synthetic {
				class += " (synthetic)"
			}
			fmt.Fprintf(bufw, "    -> v%d %s [%s,%s] %s\n",
				e.To, vertexName(e.Block, e.Context), e.Lo, e.Hi, class)
		}
	}
	return bufw.Flush()
}

// vertexName returns block[c0 c1 ...].
func vertexName(block int, ctx []int) string {
	return fmt.Sprintf("%d%v", block, ctx)
}
