package unroll

import "fmt"

// IDClashError is the error returned if a vertex copy is added twice.
type IDClashError struct {
	Vertex Vertex
}

func (e IDClashError) Error() string {
	return fmt.Sprintf("product vertex added twice: %v", e.Vertex)
}

// pool assigns dense IDs to product vertices in insertion order.
type pool struct {
	vertices []Vertex
	index    map[string]int
}

func newPool() *pool {
	return &pool{index: make(map[string]int)}
}

func (p *pool) add(v Vertex) (int, error) {
	key := v.Context.key(v.Block)
	if _, ok := p.index[key]; ok {
		return 0, IDClashError{Vertex: v}
	}
	id := len(p.vertices)
	p.vertices = append(p.vertices, v)
	p.index[key] = id
	return id, nil
}

func (p *pool) lookup(block int, ctx Context) (int, bool) {
	id, ok := p.index[ctx.key(block)]
	return id, ok
}
