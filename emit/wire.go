package emit

import (
	"github.com/nickng/pathenum/cfg"
	"github.com/nickng/pathenum/pathnum"
)

// Document is the structured form of a Result shared by the JSON, YAML and
// msgpack encoders.
type Document struct {
	Name     string      `json:"name" yaml:"name" msgpack:"name"`
	Source   string      `json:"source,omitempty" yaml:"source,omitempty" msgpack:"source,omitempty"`
	K        int         `json:"k" yaml:"k" msgpack:"k"`
	Paths    string      `json:"paths" yaml:"paths" msgpack:"paths"`
	Patched  int         `json:"patched" yaml:"patched" msgpack:"patched"`
	Blocks   []cfg.Block `json:"blocks" yaml:"blocks" msgpack:"blocks"`
	Vertices []Vertex    `json:"vertices" yaml:"vertices" msgpack:"vertices"`
}

// Vertex is a product vertex of a Document.
type Vertex struct {
	ID      int    `json:"id" yaml:"id" msgpack:"id"`
	Block   int    `json:"block" yaml:"block" msgpack:"block"`
	Context []int  `json:"context" yaml:"context,flow" msgpack:"context"`
	Paths   string `json:"paths" yaml:"paths" msgpack:"paths"`
	Edges   []Edge `json:"edges,omitempty" yaml:"edges,omitempty" msgpack:"edges,omitempty"`
}

// Edge is a product edge of a Document.
type Edge struct {
	To        int    `json:"to" yaml:"to" msgpack:"to"`
	Class     string `json:"class" yaml:"class" msgpack:"class"`
	Synthetic bool   `json:"synthetic,omitempty" yaml:"synthetic,omitempty" msgpack:"synthetic,omitempty"`
	Lo        string `json:"lo" yaml:"lo" msgpack:"lo"`
	Hi        string `json:"hi" yaml:"hi" msgpack:"hi"`
}

// NewDocument converts r to a Document.
func NewDocument(r *pathnum.Result) *Document {
	doc := &Document{
		Name:     r.Name,
		Source:   r.Source,
		K:        r.K,
		Paths:    r.Paths.String(),
		Patched:  r.Patched,
		Blocks:   r.Blocks,
		Vertices: make([]Vertex, len(r.Vertices)),
	}
	for i, v := range r.Vertices {
		dv := Vertex{
			ID:      v.ID,
			Block:   v.Block,
			Context: v.Context,
			Paths:   v.Paths.String(),
		}
		if dv.Context == nil {
			dv.Context = []int{}
		}
		for _, e := range v.Edges {
			dv.Edges = append(dv.Edges, Edge{
				To:        e.To,
				Class:     e.Class,
				Synthetic: e.Synthetic,
				Lo:        e.Lo.String(),
				Hi:        e.Hi.String(),
			})
		}
		doc.Vertices[i] = dv
	}
	return doc
}
