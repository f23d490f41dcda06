package csrc

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nickng/pathenum/cfg"
)

// noReturn are the functions that never return to the caller.
var noReturn = map[string]bool{
	"exit":                  true,
	"abort":                 true,
	"_exit":                 true,
	"_Exit":                 true,
	"quick_exit":            true,
	"longjmp":               true,
	"siglongjmp":            true,
	"__builtin_unreachable": true,
	"__assert_fail":         true,
}

// pendingGoto is a goto whose label may not be seen yet.
type pendingGoto struct {
	from  int
	label string
}

// builder turns the body of one function into a graph.
// cur is the block statements are appended to, NoVertex after a jump.
type builder struct {
	src []byte
	fn  *sitter.Node
	g   *cfg.Graph
	cur int

	breaks    []int
	continues []int
	labels    map[string]int
	gotos     []pendingGoto
}

func newBuilder(src []byte, fn *sitter.Node) *builder {
	return &builder{
		src:    src,
		fn:     fn,
		g:      cfg.New(funcName(fn, src)),
		cur:    cfg.NoVertex,
		labels: make(map[string]int),
	}
}

func (b *builder) build() (*cfg.Graph, error) {
	b.cur = b.newBlock("body", b.fn)
	b.g.AddEdge(cfg.Entry, b.cur)
	b.stmt(b.fn.ChildByFieldName("body"))
	b.jump(cfg.Exit)
	for _, g := range b.gotos {
		dst, ok := b.labels[g.label]
		if !ok {
			return nil, errors.Wrapf(ErrNoLabel, "%s: %s", b.g.Name, g.label)
		}
		b.g.AddEdge(g.from, dst)
	}
	return b.g.Trim(), nil
}

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return strings.Join(strings.Fields(n.Content(b.src)), " ")
}

func (b *builder) newBlock(kind string, n *sitter.Node) int {
	return b.g.AddVertex(fmt.Sprintf("%s:%d", kind, n.StartPoint().Row+1))
}

// block returns the current block, starting an unreachable one after a jump.
func (b *builder) block(n *sitter.Node) int {
	if b.cur == cfg.NoVertex {
		b.cur = b.newBlock("dead", n)
	}
	return b.cur
}

func (b *builder) add(n *sitter.Node, stmt string) {
	blk := b.g.Block(b.block(n))
	blk.Stmts = append(blk.Stmts, stmt)
}

// jump ends the current block with an edge to dst.
func (b *builder) jump(dst int) {
	if b.cur != cfg.NoVertex {
		b.g.AddEdge(b.cur, dst)
	}
	b.cur = cfg.NoVertex
}

// join continues in blk if anything leads to it.
func (b *builder) join(blk int) {
	b.cur = cfg.NoVertex
	if len(b.g.Preds(blk)) > 0 {
		b.cur = blk
	}
}

// branch starts a block for one arm of a conditional.
func (b *builder) branch(from int, kind string, n *sitter.Node, assume string) int {
	blk := b.newBlock(kind, n)
	if from != cfg.NoVertex {
		b.g.AddEdge(from, blk)
	}
	if assume != "" {
		b.g.Block(blk).Stmts = append(b.g.Block(blk).Stmts, assume)
	}
	b.cur = blk
	return blk
}

func (b *builder) stmt(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "compound_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			b.stmt(n.NamedChild(i))
		}
	case "comment":
	case "if_statement":
		b.ifStmt(n)
	case "while_statement":
		b.whileStmt(n)
	case "do_statement":
		b.doStmt(n)
	case "for_statement":
		b.forStmt(n)
	case "switch_statement":
		b.switchStmt(n)
	case "break_statement":
		b.add(n, "break")
		if len(b.breaks) > 0 {
			b.jump(b.breaks[len(b.breaks)-1])
		}
		b.cur = cfg.NoVertex
	case "continue_statement":
		b.add(n, "continue")
		if len(b.continues) > 0 {
			b.jump(b.continues[len(b.continues)-1])
		}
		b.cur = cfg.NoVertex
	case "return_statement":
		b.add(n, b.text(n))
		b.record(b.cur, n)
		b.jump(cfg.Exit)
	case "goto_statement":
		b.add(n, b.text(n))
		if label := n.ChildByFieldName("label"); label != nil {
			b.gotos = append(b.gotos, pendingGoto{from: b.cur, label: label.Content(b.src)})
		}
		b.cur = cfg.NoVertex
	case "labeled_statement":
		label := n.ChildByFieldName("label")
		blk := b.newBlock(label.Content(b.src), n)
		b.labels[label.Content(b.src)] = blk
		b.jump(blk)
		b.cur = blk
		for i := 1; i < int(n.NamedChildCount()); i++ {
			b.stmt(n.NamedChild(i))
		}
	default:
		b.simple(n)
	}
}

// simple appends a statement without control flow of its own.
func (b *builder) simple(n *sitter.Node) {
	if n.Type() == "expression_statement" && n.NamedChildCount() == 0 {
		return
	}
	b.add(n, b.text(n))
	if b.record(b.cur, n) {
		b.cur = cfg.NoVertex
	}
}

// record appends the calls in n to blk, and returns true if one of them
// never returns.
func (b *builder) record(blk int, n *sitter.Node) bool {
	if n == nil || blk == cfg.NoVertex {
		return false
	}
	block := b.g.Block(blk)
	exits := false
	calls(n, b.src, func(name string) {
		block.Calls = append(block.Calls, name)
		exits = exits || noReturn[name]
	})
	return exits
}

// calls visits the names of the functions called in n, outermost first.
func calls(n *sitter.Node, src []byte, visit func(string)) {
	if n.Type() == "call_expression" {
		if fn := n.ChildByFieldName("function"); fn != nil && fn.Type() == "identifier" {
			visit(fn.Content(src))
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil {
			calls(child, src, visit)
		}
	}
}

// constTrue returns true for conditions such as (1) and (true).
func constTrue(cond string) bool {
	switch strings.Trim(cond, "() ") {
	case "1", "true":
		return true
	}
	return false
}

func (b *builder) ifStmt(n *sitter.Node) {
	condNode := n.ChildByFieldName("condition")
	cond := b.text(condNode)
	b.add(n, "if "+cond)
	head := b.cur
	b.record(head, condNode)

	b.branch(head, "if.then", n, "assume TRUE "+cond)
	b.stmt(n.ChildByFieldName("consequence"))
	thenEnd := b.cur

	elseEnd := head
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		if alt.Type() == "else_clause" && alt.NamedChildCount() > 0 {
			alt = alt.NamedChild(0)
		}
		b.branch(head, "if.else", alt, "assume FALSE "+cond)
		b.stmt(alt)
		elseEnd = b.cur
	}

	done := b.newBlock("if.done", n)
	b.cur = thenEnd
	b.jump(done)
	b.cur = elseEnd
	b.jump(done)
	b.join(done)
}

func (b *builder) loop(brk, cont int, body *sitter.Node) {
	b.breaks = append(b.breaks, brk)
	b.continues = append(b.continues, cont)
	b.stmt(body)
	b.breaks = b.breaks[:len(b.breaks)-1]
	b.continues = b.continues[:len(b.continues)-1]
}

func (b *builder) whileStmt(n *sitter.Node) {
	condNode := n.ChildByFieldName("condition")
	cond := b.text(condNode)
	header := b.newBlock("while.cond", n)
	b.jump(header)
	b.g.Block(header).Stmts = []string{"while " + cond}
	b.record(header, condNode)

	b.branch(header, "while.body", n, "assume TRUE "+cond)
	done := b.newBlock("while.done", n)
	if !constTrue(cond) {
		b.g.AddEdge(header, done)
		b.g.Block(done).Stmts = []string{"assume FALSE " + cond}
	}
	b.loop(done, header, n.ChildByFieldName("body"))
	b.jump(header)
	b.join(done)
}

func (b *builder) doStmt(n *sitter.Node) {
	condNode := n.ChildByFieldName("condition")
	cond := b.text(condNode)
	body := b.newBlock("do.body", n)
	b.jump(body)
	b.cur = body

	check := b.newBlock("do.cond", n)
	done := b.newBlock("do.done", n)
	b.loop(done, check, n.ChildByFieldName("body"))
	b.jump(check)

	b.g.Block(check).Stmts = []string{"while " + cond}
	b.record(check, condNode)
	b.g.AddEdge(check, body)
	if !constTrue(cond) {
		b.g.AddEdge(check, done)
	}
	b.join(done)
}

func (b *builder) forStmt(n *sitter.Node) {
	if init := n.ChildByFieldName("initializer"); init != nil {
		b.add(init, strings.TrimSuffix(b.text(init), ";"))
	}
	header := b.newBlock("for.cond", n)
	b.jump(header)

	condNode := n.ChildByFieldName("condition")
	cond := ""
	if condNode != nil {
		cond = b.text(condNode)
		b.g.Block(header).Stmts = []string{"for " + cond}
		b.record(header, condNode)
	}
	assume := ""
	if cond != "" {
		assume = "assume TRUE " + cond
	}
	b.branch(header, "for.body", n, assume)
	post := b.newBlock("for.post", n)
	done := b.newBlock("for.done", n)
	if cond != "" && !constTrue(cond) {
		b.g.AddEdge(header, done)
		b.g.Block(done).Stmts = []string{"assume FALSE " + cond}
	}
	b.loop(done, post, n.ChildByFieldName("body"))
	b.jump(post)

	if update := n.ChildByFieldName("update"); update != nil {
		b.g.Block(post).Stmts = []string{b.text(update)}
	}
	b.g.AddEdge(post, header)
	b.join(done)
}

func (b *builder) switchStmt(n *sitter.Node) {
	condNode := n.ChildByFieldName("condition")
	cond := b.text(condNode)
	b.add(n, "switch "+cond)
	head := b.cur
	b.record(head, condNode)
	b.cur = cfg.NoVertex

	done := b.newBlock("switch.done", n)
	b.breaks = append(b.breaks, done)
	hasDefault := false
	body := n.ChildByFieldName("body")
	for i := 0; body != nil && i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() != "case_statement" {
			b.stmt(child)
			continue
		}
		value := child.ChildByFieldName("value")
		kind, first := "default", 0
		if value != nil {
			kind, first = "case", 1
		} else {
			hasDefault = true
		}
		// Falling through from the previous case.
		prev := b.cur
		blk := b.branch(head, kind, child, "")
		if value != nil {
			b.g.Block(blk).Stmts = []string{"case " + b.text(value)}
		}
		if prev != cfg.NoVertex {
			b.g.AddEdge(prev, blk)
		}
		for j := first; j < int(child.NamedChildCount()); j++ {
			b.stmt(child.NamedChild(j))
		}
	}
	b.breaks = b.breaks[:len(b.breaks)-1]
	b.jump(done)
	if !hasDefault {
		b.g.AddEdge(head, done)
	}
	b.join(done)
}
