package csrc

import (
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/nickng/pathenum/cfg"
)

var (
	ErrSyntax  = errors.New("csrc: syntax error")
	ErrNoLabel = errors.New("csrc: goto to undefined label")
)

// parserPool is a pool of reusable tree-sitter parsers for C.
var parserPool = sync.Pool{
	New: func() interface{} {
		parser := sitter.NewParser()
		parser.SetLanguage(c.GetLanguage())
		return parser
	},
}

// ParseFile reads the C source file at path and returns the graphs of the
// functions it defines.
func ParseFile(ctx context.Context, path string) ([]*cfg.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading file %s", path)
	}
	return Parse(ctx, path, src)
}

// Parse returns the graphs of the functions defined in src, in source order.
// name is recorded as the source of every graph.
func Parse(ctx context.Context, name string, src []byte) ([]*cfg.Graph, error) {
	parser := parserPool.Get().(*sitter.Parser)
	defer parserPool.Put(parser)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// A cancellation seen by the parser stays set on it, and the parser goes
	// back to the pool. Only ctx is checked between functions.
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, errors.Wrapf(ErrSyntax, "%s", name)
	}
	var graphs []*cfg.Graph
	for _, fn := range functions(root) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, err := newBuilder(src, fn).build()
		if err != nil {
			return nil, errors.Wrapf(err, "%s", name)
		}
		g.Source = name
		graphs = append(graphs, g)
	}
	return graphs, nil
}

// functions returns the function definitions with a body under node.
func functions(node *sitter.Node) []*sitter.Node {
	var fns []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Type() == "function_definition" {
			if child.ChildByFieldName("body") != nil {
				fns = append(fns, child)
			}
			continue
		}
		fns = append(fns, functions(child)...)
	}
	return fns
}

// funcName returns the declared name of a function definition.
func funcName(fn *sitter.Node, src []byte) string {
	decl := fn.ChildByFieldName("declarator")
	for decl != nil {
		if decl.Type() == "identifier" {
			return decl.Content(src)
		}
		decl = decl.ChildByFieldName("declarator")
	}
	return ""
}
