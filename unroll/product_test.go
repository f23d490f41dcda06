package unroll

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/nickng/pathenum/cfg"
)

// arcs returns the product edges of p as "src -> dst (class)" strings.
func arcs(p *Graph) []string {
	var out []string
	for id, succs := range p.Succs {
		for _, a := range succs {
			s := p.Vertices[id].String() + " -> " + p.Vertices[a.To].String() + " (" + a.Class.String()
			if a.Synthetic {
				s += ", synthetic"
			}
			out = append(out, s+")")
		}
	}
	return out
}

func TestBuildSelfLoop(t *testing.T) {
	c, err := Classify(selfLoopGraph())
	if err != nil {
		t.Fatalf("cannot classify: %v", err)
	}
	p, err := Build(c, 2)
	if err != nil {
		t.Fatalf("cannot build product graph: %v", err)
	}
	if want, got := 5, p.Len(); want != got {
		t.Errorf("vertex count mismatch\nwant: %d\ngot: %d\n", want, got)
	}
	want := []string{
		"0[] -> 2[0] (entry)",
		"2[0] -> 2[1] (back)",
		"2[0] -> 1[] (exit)",
		"2[1] -> 2[2] (back)",
		"2[1] -> 1[] (exit)",
		"2[2] -> 1[] (exit)",
	}
	if got := arcs(p); strings.Join(want, "\n") != strings.Join(got, "\n") {
		t.Errorf("product edges mismatch\nwant:\n%s\ngot:\n%s\n", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
	if n := p.Patch(); n != 0 {
		t.Errorf("nothing to patch, but %d edges added", n)
	}
}

func TestBuildNested(t *testing.T) {
	c, err := Classify(nestedGraph())
	if err != nil {
		t.Fatalf("cannot classify: %v", err)
	}
	p, err := Build(c, 1)
	if err != nil {
		t.Fatalf("cannot build product graph: %v", err)
	}
	want := []string{
		"0[] -> 2[0] (entry)",
		"2[0] -> 3[0 0] (entry)",
		"2[0] -> 1[] (exit)",
		"2[1] -> 1[] (exit)",
		"3[0 0] -> 4[0 0] (normal)",
		"3[0 0] -> 5[0] (exit)",
		"3[0 1] -> 5[0] (exit)",
		"4[0 0] -> 3[0 1] (back)",
		"5[0] -> 2[1] (back)",
	}
	if got := arcs(p); strings.Join(want, "\n") != strings.Join(got, "\n") {
		t.Errorf("product edges mismatch\nwant:\n%s\ngot:\n%s\n", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
	if err := p.Check(); err != nil {
		t.Errorf("all vertices should have successors: %v", err)
	}
}

// An exit edge keeps the leading levels of the context, so each copy of a
// loop continues in the matching copy of what follows it.
func TestBuildExit(t *testing.T) {
	tests := []struct {
		name string
		g    *cfg.Graph
		f    *cfg.Forest
		want []string
	}{
		{
			name: "sequential loops",
			g: cfg.NewN("seq", 4).MustAddEdges(
				[2]int{0, 2}, [2]int{2, 2}, [2]int{2, 3}, [2]int{3, 3}, [2]int{3, 1}),
			f: &cfg.Forest{Loops: []*cfg.Loop{
				cfg.NewLoop(2, []int{2}, []cfg.Edge{{Src: 2, Dst: 3}}),
				cfg.NewLoop(3, []int{3}, []cfg.Edge{{Src: 3, Dst: 1}}),
			}},
			want: []string{
				"0[] -> 2[0] (entry)",
				"2[0] -> 2[1] (back)",
				"2[0] -> 3[0] (exit)",
				"2[1] -> 3[1] (exit)",
				"3[0] -> 3[1] (back)",
				"3[0] -> 1[] (exit)",
				"3[1] -> 1[] (exit)",
			},
		},
		{
			name: "exit two levels",
			g: cfg.NewN("deep", 5).MustAddEdges(
				[2]int{0, 2}, [2]int{2, 3}, [2]int{2, 1}, [2]int{3, 3},
				[2]int{3, 4}, [2]int{3, 1}, [2]int{4, 2}),
			f: &cfg.Forest{Loops: []*cfg.Loop{
				cfg.NewLoop(3, []int{3}, []cfg.Edge{{Src: 3, Dst: 4}, {Src: 3, Dst: 1}}),
				cfg.NewLoop(2, []int{2, 3, 4}, []cfg.Edge{{Src: 2, Dst: 1}, {Src: 3, Dst: 1}}),
			}},
			want: []string{
				"0[] -> 2[0] (entry)",
				"2[0] -> 3[0 0] (entry)",
				"2[0] -> 1[] (exit)",
				"2[1] -> 1[] (exit)",
				"3[0 0] -> 3[0 1] (back)",
				"3[0 0] -> 4[0] (exit)",
				"3[0 0] -> 1[] (exit)",
				"3[0 1] -> 4[0] (exit)",
				"3[0 1] -> 1[] (exit)",
				"4[0] -> 2[1] (back)",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Classify(tt.g, tt.f)
			if err != nil {
				t.Fatalf("cannot classify: %v", err)
			}
			p, err := Build(c, 1)
			if err != nil {
				t.Fatalf("cannot build product graph: %v", err)
			}
			if got := arcs(p); strings.Join(tt.want, "\n") != strings.Join(got, "\n") {
				t.Errorf("product edges mismatch\nwant:\n%s\ngot:\n%s\n", strings.Join(tt.want, "\n"), strings.Join(got, "\n"))
			}
			if err := p.Check(); err != nil {
				t.Errorf("all vertices should have successors: %v", err)
			}
		})
	}
}

// A sink that is not the exit gets a synthetic edge to exit.
func TestPatch(t *testing.T) {
	g := cfg.NewN("sink", 4).MustAddEdges([2]int{0, 2}, [2]int{2, 3}, [2]int{2, 1})
	p, err := Unroll(g, &cfg.Forest{}, 1)
	if err != nil {
		t.Fatalf("cannot unroll: %v", err)
	}
	want := []string{
		"0[] -> 2[] (normal)",
		"2[] -> 3[] (normal)",
		"2[] -> 1[] (normal)",
		"3[] -> 1[] (normal, synthetic)",
	}
	if got := arcs(p); strings.Join(want, "\n") != strings.Join(got, "\n") {
		t.Errorf("product edges mismatch\nwant:\n%s\ngot:\n%s\n", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
	if len(p.Succs[p.Exit]) != 0 {
		t.Errorf("exit must not be patched")
	}
}

func TestCheckUnpatched(t *testing.T) {
	g := cfg.NewN("sink", 3).MustAddEdges([2]int{0, 2})
	c, _ := Classify(g, &cfg.Forest{})
	p, err := Build(c, 1)
	if err != nil {
		t.Fatalf("cannot build product graph: %v", err)
	}
	if err := p.Check(); errors.Cause(err) != ErrNoSuccessor {
		t.Errorf("expecting ErrNoSuccessor, got %v", err)
	}
}

// Normal edges between vertices of different depths cannot be matched.
func TestBuildDropped(t *testing.T) {
	g := cfg.NewN("mismatch", 4).MustAddEdges([2]int{0, 2}, [2]int{2, 2}, [2]int{2, 3}, [2]int{3, 1})
	// Exit edge 2->3 not reported by the forest.
	f := &cfg.Forest{Loops: []*cfg.Loop{cfg.NewLoop(2, []int{2}, nil)}}
	c, err := Classify(g, f)
	if err != nil {
		t.Fatalf("cannot classify: %v", err)
	}
	p, err := Build(c, 1)
	if err != nil {
		t.Fatalf("cannot build product graph: %v", err)
	}
	if len(p.Dropped) != 1 || p.Dropped[0] != (cfg.Edge{Src: 2, Dst: 3}) {
		t.Errorf("expecting 2->3 dropped, got %v", p.Dropped)
	}
}

func TestBuildBadK(t *testing.T) {
	c, _ := Classify(selfLoopGraph())
	for _, k := range []int{0, -1, MaxK + 1} {
		if _, err := Build(c, k); errors.Cause(err) != ErrBadK {
			t.Errorf("K=%d: expecting ErrBadK, got %v", k, err)
		}
	}
}

func TestLookup(t *testing.T) {
	p, err := Unroll(cfg.NewN("line", 3).MustAddEdges([2]int{0, 2}, [2]int{2, 1}), &cfg.Forest{}, 1)
	if err != nil {
		t.Fatalf("cannot unroll: %v", err)
	}
	if id, ok := p.Lookup(cfg.Exit, Context{}); !ok || id != p.Exit {
		t.Errorf("exit lookup mismatch, got %d (found: %v)", id, ok)
	}
	if _, ok := p.Lookup(2, Context{0}); ok {
		t.Errorf("vertex outside loops has no context [0]")
	}
}

func TestIDClash(t *testing.T) {
	pl := newPool()
	v := Vertex{Block: 2, Context: Context{1}}
	if _, err := pl.add(v); err != nil {
		t.Fatalf("first add should succeed: %v", err)
	}
	if _, err := pl.add(v); err == nil {
		t.Errorf("expecting IDClashError")
	} else if _, ok := err.(IDClashError); !ok {
		t.Errorf("expecting IDClashError, got %T", err)
	}
}
