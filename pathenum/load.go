package pathenum

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/nickng/pathenum/cfg"
	"github.com/nickng/pathenum/config"
	"github.com/nickng/pathenum/csrc"
	"github.com/nickng/pathenum/ssa"
	"github.com/nickng/pathenum/ssa/build"
)

// ErrUnknownSource is returned for a source file that is neither Go nor C.
var ErrUnknownSource = errors.New("pathenum: unknown source file type")

// LoadFiles returns the graphs of the procedures defined in files.
//
// All Go files are built together as one package, and the functions
// selected by the configured callgraph are converted. Every C file is parsed
// on its own. Graphs of Go functions come first, then those of C functions
// in file order. If conf.Functions is not empty, only the procedures named
// there are returned.
func LoadFiles(ctx context.Context, conf *config.Config, files []string, logger *Logger) ([]*cfg.Graph, error) {
	l := withModule(logger, color.BlueString, "load ")
	var goFiles, cFiles []string
	for _, f := range files {
		switch strings.ToLower(filepath.Ext(f)) {
		case ".go":
			goFiles = append(goFiles, f)
		case ".c", ".h":
			cFiles = append(cFiles, f)
		default:
			return nil, errors.Wrapf(ErrUnknownSource, "%s", f)
		}
	}

	var graphs []*cfg.Graph
	if len(goFiles) > 0 {
		gs, err := loadGo(conf, goFiles, l)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, gs...)
	}
	if len(cFiles) > 0 {
		gs, err := loadC(ctx, conf, cFiles, l)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, gs...)
	}
	return filterFuncs(graphs, conf.Functions), nil
}

func loadGo(conf *config.Config, files []string, l *Logger) ([]*cfg.Graph, error) {
	info, err := build.FromFiles(files).Default().Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build SSA")
	}
	fns, err := info.Functions(conf.CallGraph)
	if err != nil {
		return nil, err
	}
	var graphs []*cfg.Graph
	for _, fn := range fns {
		g, err := ssa.FuncGraph(fn)
		if err != nil {
			l.Infof("%s Skip %s: %v", l.Module(), fn, err)
			continue
		}
		graphs = append(graphs, g)
	}
	l.Debugf("%s %d Go functions from %d files", l.Module(), len(graphs), len(files))
	return graphs, nil
}

func loadC(ctx context.Context, conf *config.Config, files []string, l *Logger) ([]*cfg.Graph, error) {
	parsed := make([][]*cfg.Graph, len(files))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(conf.Workers)
	for i, f := range files {
		i, f := i, f
		grp.Go(func() error {
			gs, err := csrc.ParseFile(ctx, f)
			if err != nil {
				return err
			}
			parsed[i] = gs
			l.Debugf("%s %d C functions from %s", l.Module(), len(gs), f)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	var graphs []*cfg.Graph
	for _, gs := range parsed {
		graphs = append(graphs, gs...)
	}
	return graphs, nil
}

// filterFuncs keeps the graphs named in names, by full or short name.
func filterFuncs(graphs []*cfg.Graph, names []string) []*cfg.Graph {
	if len(names) == 0 {
		return graphs
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var kept []*cfg.Graph
	for _, g := range graphs {
		short := g.Name
		if i := strings.LastIndex(short, "."); i >= 0 {
			short = short[i+1:]
		}
		if want[g.Name] || want[short] {
			kept = append(kept, g)
		}
	}
	return kept
}
