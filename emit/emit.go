// Package emit serialises numbered path graphs.
//
// An Encoder writes one pathnum.Result at a time. Arbitrary precision values
// (path counts and range bounds) are written as decimal strings in every
// format.
package emit

import (
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/nickng/pathenum/pathnum"
)

// ErrUnknownFormat is returned by ForFormat for an unsupported format name.
var ErrUnknownFormat = errors.New("emit: unknown output format")

// Encoder writes a Result to an io.Writer.
type Encoder interface {
	Encode(w io.Writer, r *pathnum.Result) error
	// Ext is the file extension used for output files, without the dot.
	Ext() string
}

var encoders = map[string]Encoder{
	"text":    textEncoder{},
	"json":    jsonEncoder{},
	"yaml":    yamlEncoder{},
	"msgpack": msgpackEncoder{},
	"dot":     dotEncoder{},
	"migo":    migoEncoder{},
}

// ForFormat returns the Encoder for the named format.
func ForFormat(name string) (Encoder, error) {
	if enc, ok := encoders[name]; ok {
		return enc, nil
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q (available: %v)", name, Formats())
}

// Formats returns the names of the supported formats.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
