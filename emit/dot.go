package emit

import (
	"bufio"
	"fmt"
	"io"

	"github.com/nickng/pathenum/pathnum"
)

// dotEncoder writes the product graph in graphviz dot format, with the path
// range of each edge as its label.
type dotEncoder struct{}

func (dotEncoder) Ext() string { return "dot" }

func (dotEncoder) Encode(w io.Writer, r *pathnum.Result) error {
	bufw := bufio.NewWriter(w)
	bufw.WriteString(fmt.Sprintf("digraph %q {\n", r.Name))
	bufw.WriteString(fmt.Sprintf("  label=%q;\n", fmt.Sprintf("%s K=%d paths=%s", r.Name, r.K, r.Paths)))
	for _, v := range r.Vertices {
		label := vertexName(v.Block, v.Context)
		if v.Block < len(r.Blocks) && r.Blocks[v.Block].Label != "" {
			label += " " + r.Blocks[v.Block].Label
		}
		bufw.WriteString(fmt.Sprintf("  v%d [label=%q];\n", v.ID, label+"\n"+v.Paths.String()))
	}
	for _, v := range r.Vertices {
		for _, e := range v.Edges {
			attrs := fmt.Sprintf("label=%q", fmt.Sprintf("[%s,%s]", e.Lo, e.Hi))
			if e.Synthetic {
				attrs += ",style=dashed"
			} else if e.Class == "back" {
				attrs += ",color=blue"
			}
			bufw.WriteString(fmt.Sprintf("  v%d -> v%d [%s];\n", v.ID, e.To, attrs))
		}
	}
	bufw.WriteString("}\n")
	return bufw.Flush()
}
