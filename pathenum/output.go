package pathenum

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/nickng/pathenum/cfg"
	"github.com/nickng/pathenum/config"
	"github.com/nickng/pathenum/emit"
	"github.com/nickng/pathenum/pathnum"
)

// Output writes results in the configured format, either all to one writer
// or one file per procedure under a directory.
type Output struct {
	enc          emit.Encoder
	w            io.Writer
	dir          string
	skipExisting bool
	*Logger
}

// NewOutput returns an Output for conf. Results are written to w unless
// conf.OutDir is set.
func NewOutput(conf *config.Config, w io.Writer, logger *Logger) (*Output, error) {
	enc, err := emit.ForFormat(conf.Format)
	if err != nil {
		return nil, err
	}
	return &Output{
		enc:          enc,
		w:            w,
		dir:          conf.OutDir,
		skipExisting: conf.SkipExisting,
		Logger:       withModule(logger, color.MagentaString, "out  "),
	}, nil
}

var nameReplacer = strings.NewReplacer("/", "_", string(os.PathSeparator), "_")

// Path returns the output file of the procedure name defined in source, or
// "" if results are written to a single writer.
func (o *Output) Path(name, source string) string {
	if o.dir == "" {
		return ""
	}
	src := "_"
	if source != "" {
		src = filepath.Base(source)
	}
	return filepath.Join(o.dir, src, nameReplacer.Replace(name)+"."+o.enc.Ext())
}

// Pending returns the procedures whose output is still to be written.
// Without skip-existing, or writing to a single writer, all procedures are
// pending.
func (o *Output) Pending(procs []*cfg.Graph) []*cfg.Graph {
	if o.dir == "" || !o.skipExisting {
		return procs
	}
	var pending []*cfg.Graph
	for _, g := range procs {
		path := o.Path(g.Name, g.Source)
		if _, err := os.Stat(path); err == nil {
			o.Infof("%s Skip %s: %s exists", o.Module(), g.Name, path)
			continue
		}
		pending = append(pending, g)
	}
	return pending
}

// Write writes r. It can be used as the Sink of an Enumerator.
func (o *Output) Write(r *pathnum.Result) error {
	path := o.Path(r.Name, r.Source)
	if path == "" {
		return o.enc.Encode(o.w, r)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", filepath.Dir(path))
	}
	// Write to a temporary file first so that an interrupted run does not
	// leave a partial file behind to be skipped later.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pathenum-*")
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	defer os.Remove(tmp.Name())
	if err := o.enc.Encode(tmp, r); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	o.Debugf("%s Wrote %s", o.Module(), path)
	return nil
}
