package pathenum

import (
	"context"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/nickng/pathenum/cfg"
	"github.com/nickng/pathenum/config"
	"github.com/nickng/pathenum/loop"
	"github.com/nickng/pathenum/pathnum"
)

// Sink receives the results of a run, one procedure at a time.
type Sink func(*pathnum.Result) error

// Stats counts the outcome of the procedures of a run.
type Stats struct {
	Done   int64 // Enumerated and delivered to the sink.
	Capped int64 // Skipped for exceeding the caps.
	Failed int64 // Skipped after an error.
}

// Enumerator runs path enumeration over many procedures.
type Enumerator struct {
	conf  *config.Config
	stats Stats
	*Logger
}

// New returns an Enumerator configured by conf. A nil logger discards all
// log messages.
func New(conf *config.Config, logger *Logger) *Enumerator {
	e := &Enumerator{conf: conf}
	e.SetLogger(logger)
	return e
}

// SetLogger sets logger for Enumerator.
func (e *Enumerator) SetLogger(l *Logger) {
	e.Logger = withModule(l, color.GreenString, "enum ")
}

// Options returns the per-procedure options of the configuration.
func (e *Enumerator) Options() Options {
	return Options{K: e.conf.K, MaxDepth: e.conf.MaxDepth, MaxVertices: e.conf.MaxVertices}
}

// Stats returns the counters of the runs so far.
func (e *Enumerator) Stats() Stats {
	return Stats{
		Done:   atomic.LoadInt64(&e.stats.Done),
		Capped: atomic.LoadInt64(&e.stats.Capped),
		Failed: atomic.LoadInt64(&e.stats.Failed),
	}
}

// Enumerate detects the loop forest of g and enumerates its paths.
func (e *Enumerator) Enumerate(g *cfg.Graph) (*pathnum.Result, error) {
	d := loop.NewDetector(g)
	d.SetLogger(e.SugaredLogger)
	forest, err := d.Detect()
	if err != nil {
		return nil, err
	}
	e.Debugf("%s %s: %d loops, depth %d", e.Module(), g.Name, len(forest.Loops), forest.Depth(g.Len()))
	return Enumerate(g, forest, e.Options())
}

// Run enumerates procs with at most conf.Workers procedures in flight and
// passes the results to sink in the order of procs.
//
// A procedure that fails or exceeds the caps is logged and skipped. In
// strict mode the first failure stops the run and is returned, capped
// procedures are still skipped.
func (e *Enumerator) Run(ctx context.Context, procs []*cfg.Graph, sink Sink) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]chan *pathnum.Result, len(procs))
	for i := range slots {
		slots[i] = make(chan *pathnum.Result, 1)
	}
	delivered := make(chan error, 1)
	go func() {
		err := e.deliver(slots, sink)
		if err != nil {
			cancel()
		}
		delivered <- err
	}()

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(e.conf.Workers)
	for i, proc := range procs {
		i, proc := i, proc
		grp.Go(func() error {
			defer close(slots[i])
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Enumerate(proc)
			var capErr *CapError
			switch {
			case errors.As(err, &capErr):
				atomic.AddInt64(&e.stats.Capped, 1)
				e.Infof("%s Skip %s: %v", e.Module(), proc.Name, err)
				return nil
			case err != nil:
				atomic.AddInt64(&e.stats.Failed, 1)
				if e.conf.Strict {
					return errors.Wrapf(err, "%s", proc.Name)
				}
				e.Warnf("%s Skip %s: %v", e.Module(), proc.Name, err)
				return nil
			}
			e.Debugf("%s %s: %s paths", e.Module(), proc.Name, res.Paths)
			slots[i] <- res
			return nil
		})
	}
	err := grp.Wait()
	if derr := <-delivered; derr != nil {
		return derr
	}
	return err
}

// deliver passes the results to sink in slot order.
func (e *Enumerator) deliver(slots []chan *pathnum.Result, sink Sink) error {
	for _, slot := range slots {
		res, ok := <-slot
		if !ok {
			continue
		}
		if err := sink(res); err != nil {
			return errors.Wrapf(err, "%s", res.Name)
		}
		atomic.AddInt64(&e.stats.Done, 1)
	}
	return nil
}
