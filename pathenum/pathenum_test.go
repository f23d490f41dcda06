package pathenum

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickng/pathenum/cfg"
	"github.com/nickng/pathenum/config"
	"github.com/nickng/pathenum/loop"
	"github.com/nickng/pathenum/pathnum"
)

func init() {
	color.NoColor = true
}

func testConfig() *config.Config {
	conf := config.DefaultConfig()
	conf.Workers = 2
	return conf
}

func loadOne(t *testing.T, conf *config.Config, file, name string) *cfg.Graph {
	t.Helper()
	conf.Functions = []string{name}
	graphs, err := LoadFiles(context.Background(), conf, []string{file}, nil)
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	return graphs[0]
}

func TestEnumerateGoLoop(t *testing.T) {
	g := loadOne(t, testConfig(), "testdata/sum.go", "sum")
	assert.Equal(t, "main.sum", g.Name)
	forest, err := loop.Detect(g)
	require.NoError(t, err)
	for k := 1; k <= 3; k++ {
		res, err := Enumerate(g, forest, Options{K: k})
		require.NoError(t, err)
		// Zero to k iterations.
		assert.Equal(t, int64(k+1), res.Paths.Int64(), "K=%d", k)
		assert.Equal(t, k, res.K)
	}
}

func TestEnumerateC(t *testing.T) {
	g := loadOne(t, testConfig(), "testdata/reply.c", "example")
	forest, err := loop.Detect(g)
	require.NoError(t, err)

	res, err := Enumerate(g, forest, Options{K: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Paths.Int64())

	res, err = Enumerate(g, forest, Options{K: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.Paths.Int64())
}

func TestNumberDecode(t *testing.T) {
	g := loadOne(t, testConfig(), "testdata/reply.c", "example")
	forest, err := loop.Detect(g)
	require.NoError(t, err)
	n, err := Number(g, forest, Options{K: 1})
	require.NoError(t, err)
	seen := make(map[string]bool)
	for i := int64(0); i < n.Total().Int64(); i++ {
		walk, err := n.Decode(big.NewInt(i))
		require.NoError(t, err)
		index, err := n.Encode(walk)
		require.NoError(t, err)
		assert.Equal(t, i, index.Int64())
		seen[pathKey(n, walk)] = true
	}
	assert.Len(t, seen, 6)
}

func pathKey(n *pathnum.Numbering, walk []int) string {
	var buf bytes.Buffer
	for _, v := range walk {
		buf.WriteString(n.Graph().Vertices[v].String())
		buf.WriteByte(' ')
	}
	return buf.String()
}

func TestEnumerateCaps(t *testing.T) {
	g := loadOne(t, testConfig(), "testdata/reply.c", "example")
	forest, err := loop.Detect(g)
	require.NoError(t, err)

	_, err = Enumerate(g, forest, Options{K: 1, MaxVertices: 5})
	var capErr *CapError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, "example", capErr.Name)
	assert.Equal(t, 1, capErr.Depth)
	assert.True(t, errors.Is(err, ErrTooLarge))

	_, err = Enumerate(g, forest, Options{K: 1, MaxDepth: 1})
	assert.NoError(t, err)
}

func irreducible() *cfg.Graph {
	g := cfg.NewN("irreducible", 5)
	return g.MustAddEdges([2]int{0, 2}, [2]int{2, 3}, [2]int{2, 4}, [2]int{3, 4}, [2]int{4, 3}, [2]int{3, 1})
}

func TestRunOrder(t *testing.T) {
	conf := testConfig()
	procs, err := LoadFiles(context.Background(), conf, []string{"testdata/multi.c", "testdata/reply.c"}, nil)
	require.NoError(t, err)
	procs = append(procs[:1], append([]*cfg.Graph{irreducible()}, procs[1:]...)...)

	var names []string
	e := New(conf, nil)
	err = e.Run(context.Background(), procs, func(r *pathnum.Result) error {
		names = append(names, r.Name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third", "example"}, names)
	assert.Equal(t, Stats{Done: 4, Failed: 1}, e.Stats())
}

func TestRunStrict(t *testing.T) {
	conf := testConfig()
	conf.Strict = true
	e := New(conf, nil)
	err := e.Run(context.Background(), []*cfg.Graph{irreducible()}, func(*pathnum.Result) error { return nil })
	assert.True(t, errors.Is(err, loop.ErrIrreducible))
}

func TestRunCapped(t *testing.T) {
	conf := testConfig()
	conf.Strict = true
	conf.MaxVertices = 4
	procs, err := LoadFiles(context.Background(), conf, []string{"testdata/multi.c", "testdata/reply.c"}, nil)
	require.NoError(t, err)
	e := New(conf, nil)
	var mu sync.Mutex
	var names []string
	err = e.Run(context.Background(), procs, func(r *pathnum.Result) error {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, r.Name)
		return nil
	})
	require.NoError(t, err)
	// first has 3 vertices, the others need more than 4 product vertices.
	assert.Equal(t, []string{"first"}, names)
	assert.Equal(t, int64(3), e.Stats().Capped)
}

func TestRunSinkError(t *testing.T) {
	conf := testConfig()
	procs, err := LoadFiles(context.Background(), conf, []string{"testdata/multi.c"}, nil)
	require.NoError(t, err)
	sinkErr := errors.New("sink full")
	err = New(conf, nil).Run(context.Background(), procs, func(*pathnum.Result) error { return sinkErr })
	assert.True(t, errors.Is(err, sinkErr))
}

func TestRunCancelled(t *testing.T) {
	conf := testConfig()
	procs, err := LoadFiles(context.Background(), conf, []string{"testdata/multi.c"}, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = New(conf, nil).Run(ctx, procs, func(*pathnum.Result) error { return nil })
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoadFiles(t *testing.T) {
	conf := testConfig()
	graphs, err := LoadFiles(context.Background(), conf, []string{"testdata/multi.c", "testdata/sum.go"}, nil)
	require.NoError(t, err)
	var names []string
	for _, g := range graphs {
		names = append(names, g.Name)
	}
	// Go functions first, unused is not reachable from main.
	assert.Equal(t, []string{"main.init", "main.sum", "main.main", "first", "second", "third"}, names)

	_, err = LoadFiles(context.Background(), conf, []string{"notes.txt"}, nil)
	assert.True(t, errors.Is(err, ErrUnknownSource))
}

// Parsers are pooled across loads, each load parses under its own errgroup
// context which is cancelled when the load returns.
func TestLoadFilesRepeated(t *testing.T) {
	conf := testConfig()
	for i := 0; i < 50; i++ {
		graphs, err := LoadFiles(context.Background(), conf, []string{"testdata/multi.c", "testdata/reply.c"}, nil)
		require.NoError(t, err, "load %d", i)
		require.Len(t, graphs, 4, "load %d", i)
	}
}

func TestOutputDir(t *testing.T) {
	conf := testConfig()
	conf.OutDir = t.TempDir()
	conf.Format = "json"
	procs, err := LoadFiles(context.Background(), conf, []string{"testdata/multi.c"}, nil)
	require.NoError(t, err)

	out, err := NewOutput(conf, nil, nil)
	require.NoError(t, err)
	path := out.Path("first", "testdata/multi.c")
	assert.Equal(t, filepath.Join(conf.OutDir, "multi.c", "first.json"), path)
	assert.Equal(t, filepath.Join(conf.OutDir, "_", "(*main.T).M.json"), out.Path("(*main.T).M", ""))

	require.NoError(t, New(conf, nil).Run(context.Background(), procs, out.Write))
	for _, name := range []string{"first", "second", "third"} {
		_, err := os.Stat(out.Path(name, "testdata/multi.c"))
		assert.NoError(t, err, name)
	}
	entries, err := os.ReadDir(filepath.Join(conf.OutDir, "multi.c"))
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temporary files left behind")

	// Existing outputs are skipped.
	require.NoError(t, os.Remove(out.Path("second", "testdata/multi.c")))
	pending := out.Pending(procs)
	require.Len(t, pending, 1)
	assert.Equal(t, "second", pending[0].Name)

	conf.SkipExisting = false
	out, err = NewOutput(conf, nil, nil)
	require.NoError(t, err)
	assert.Len(t, out.Pending(procs), 3)
}

func TestOutputWriter(t *testing.T) {
	conf := testConfig()
	var buf bytes.Buffer
	out, err := NewOutput(conf, &buf, nil)
	require.NoError(t, err)
	assert.Equal(t, "", out.Path("first", "multi.c"))
	g := loadOne(t, conf, "testdata/multi.c", "first")
	res, err := Enumerate(g, &cfg.Forest{}, Options{K: 1})
	require.NoError(t, err)
	require.NoError(t, out.Write(res))
	assert.Contains(t, buf.String(), "proc first (testdata/multi.c) K=1 paths=1")

	conf.Format = "pdf"
	_, err = NewOutput(conf, &buf, nil)
	assert.Error(t, err)
}
