package loop

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/nickng/pathenum/cfg"
)

// Tests a while loop: entry -> 2 (header) -> 3 (body) -> 2, 2 -> exit.
func TestSimpleLoop(t *testing.T) {
	g := cfg.NewN("while", 4).MustAddEdges([2]int{0, 2}, [2]int{2, 3}, [2]int{3, 2}, [2]int{2, 1})
	f, err := Detect(g)
	if err != nil {
		t.Fatalf("cannot detect loops: %v", err)
	}
	if want, got := 1, len(f.Loops); want != got {
		t.Fatalf("loop count mismatch\nwant: %d\ngot: %d\n", want, got)
	}
	l := f.Loops[0]
	if want, got := 2, l.Header; want != got {
		t.Errorf("header mismatch\nwant: %d\ngot: %d\n", want, got)
	}
	if want, got := []int{2, 3}, l.Members; !reflect.DeepEqual(want, got) {
		t.Errorf("members mismatch\nwant: %v\ngot: %v\n", want, got)
	}
	if want, got := []cfg.Edge{{Src: 2, Dst: 1}}, l.Exits; !reflect.DeepEqual(want, got) {
		t.Errorf("exits mismatch\nwant: %v\ngot: %v\n", want, got)
	}
}

func TestSelfLoop(t *testing.T) {
	g := cfg.NewN("self", 3).MustAddEdges([2]int{0, 2}, [2]int{2, 2}, [2]int{2, 1})
	f, err := NewDetector(g).Detect()
	if err != nil {
		t.Fatalf("cannot detect loops: %v", err)
	}
	if len(f.Loops) != 1 || f.Loops[0].Header != 2 {
		t.Fatalf("expecting a single loop at 2, got %v", f.Loops)
	}
	if want, got := []int{2}, f.Loops[0].Members; !reflect.DeepEqual(want, got) {
		t.Errorf("members mismatch\nwant: %v\ngot: %v\n", want, got)
	}
}

// Tests nested loops, the inner loop must be listed first.
//
//	0 -> 2 -> 3 -> 4 -> 3
//	          3 -> 5 -> 2
//	     2 -> 1
func TestNestedLoop(t *testing.T) {
	g := cfg.NewN("nested", 6).MustAddEdges(
		[2]int{0, 2}, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 3},
		[2]int{3, 5}, [2]int{5, 2}, [2]int{2, 1})
	f, err := Detect(g)
	if err != nil {
		t.Fatalf("cannot detect loops: %v", err)
	}
	if want, got := 2, len(f.Loops); want != got {
		t.Fatalf("loop count mismatch\nwant: %d\ngot: %d\n", want, got)
	}
	inner, outer := f.Loops[0], f.Loops[1]
	if inner.Header != 3 || outer.Header != 2 {
		t.Fatalf("expecting inner loop at 3 before outer loop at 2, got %v, %v", inner, outer)
	}
	if want, got := []int{3, 4}, inner.Members; !reflect.DeepEqual(want, got) {
		t.Errorf("inner members mismatch\nwant: %v\ngot: %v\n", want, got)
	}
	if want, got := []int{2, 3, 4, 5}, outer.Members; !reflect.DeepEqual(want, got) {
		t.Errorf("outer members mismatch\nwant: %v\ngot: %v\n", want, got)
	}
	if want, got := []cfg.Edge{{Src: 3, Dst: 5}}, inner.Exits; !reflect.DeepEqual(want, got) {
		t.Errorf("inner exits mismatch\nwant: %v\ngot: %v\n", want, got)
	}
	if want, got := 2, f.Depth(g.Len()); want != got {
		t.Errorf("depth mismatch\nwant: %d\ngot: %d\n", want, got)
	}
	if err := f.Validate(g); err != nil {
		t.Errorf("detected forest should be valid: %v", err)
	}
}

func TestNoLoop(t *testing.T) {
	g := cfg.NewN("diamond", 4).MustAddEdges([2]int{0, 2}, [2]int{0, 3}, [2]int{2, 1}, [2]int{3, 1})
	f, err := Detect(g)
	if err != nil {
		t.Fatalf("cannot detect loops: %v", err)
	}
	if len(f.Loops) != 0 {
		t.Errorf("expecting no loops, got %v", f.Loops)
	}
}

// Tests a cycle with two entries: 2 <-> 3, entered from both 2 and 3.
func TestIrreducible(t *testing.T) {
	g := cfg.NewN("irreducible", 4).MustAddEdges(
		[2]int{0, 2}, [2]int{0, 3}, [2]int{2, 3}, [2]int{3, 2}, [2]int{2, 1})
	if _, err := Detect(g); errors.Cause(err) != ErrIrreducible {
		t.Errorf("expecting ErrIrreducible, got %v", err)
	}
}

func TestStack(t *testing.T) {
	s := NewStack()
	if _, err := s.Pop(); err != ErrEmptyStack {
		t.Errorf("expecting ErrEmptyStack, got %v", err)
	}
	a, b := New(2), New(3)
	s.Push(a, b)
	if top, _ := s.Pop(); top != b {
		t.Errorf("expecting last pushed loop on top")
	}
	if s.Len() != 1 || s.IsEmpty() {
		t.Errorf("expecting one loop left, got %d", s.Len())
	}
}
