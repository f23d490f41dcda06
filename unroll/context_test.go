package unroll

import (
	"testing"
)

func TestContexts(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		head  bool
		k     int
		want  []string
	}{
		{"depth0", 0, false, 3, []string{"[]"}},
		{"header-k2", 1, true, 2, []string{"[0]", "[1]", "[2]"}},
		{"body-k2", 1, false, 2, []string{"[0]", "[1]"}},
		{"nested-body", 2, false, 2, []string{"[0 0]", "[0 1]", "[1 0]", "[1 1]"}},
		{"nested-header-k1", 2, true, 1, []string{"[0 0]", "[0 1]"}},
		{"header-outer-k1", 1, true, 1, []string{"[0]", "[1]"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctxs := Contexts(test.depth, test.head, test.k)
			if len(ctxs) != len(test.want) {
				t.Fatalf("context count mismatch\nwant: %v\ngot: %v\n", test.want, ctxs)
			}
			for i, ctx := range ctxs {
				if got := ctx.String(); got != test.want[i] {
					t.Errorf("context %d mismatch\nwant: %s\ngot: %s\n", i, test.want[i], got)
				}
				if len(ctx) != test.depth {
					t.Errorf("context length should equal depth %d, got %d", test.depth, len(ctx))
				}
			}
		})
	}
}

func TestContextEqual(t *testing.T) {
	if !(Context{1, 2}).Equal(Context{1, 2}) {
		t.Errorf("equal contexts reported different")
	}
	if (Context{1}).Equal(Context{1, 0}) {
		t.Errorf("contexts of different length reported equal")
	}
	if (Context{}).key(2) == (Context{}).key(3) {
		t.Errorf("keys of different blocks should differ")
	}
}

func TestSize(t *testing.T) {
	c, err := Classify(nestedGraph())
	if err != nil {
		t.Fatalf("cannot classify: %v", err)
	}
	for _, k := range []int{1, 2, 3} {
		want := 0
		for v := range c.Depth {
			want += len(c.Contexts(v, k))
		}
		if got := c.Size(k); got.Int64() != int64(want) {
			t.Errorf("K=%d: size mismatch\nwant: %d\ngot: %s\n", k, want, got)
		}
	}
}
