package emit

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/nickng/pathenum/pathnum"
)

type jsonEncoder struct{}

func (jsonEncoder) Ext() string { return "json" }

func (jsonEncoder) Encode(w io.Writer, r *pathnum.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(r)); err != nil {
		return errors.Wrapf(err, "json: cannot encode %s", r.Name)
	}
	return nil
}

type yamlEncoder struct{}

func (yamlEncoder) Ext() string { return "yaml" }

// Encode writes r as a YAML document. Every document starts with a "---"
// marker so results can be concatenated in one stream.
func (yamlEncoder) Encode(w io.Writer, r *pathnum.Result) error {
	if _, err := io.WriteString(w, "---\n"); err != nil {
		return errors.Wrap(err, "yaml: cannot write document marker")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(r)); err != nil {
		return errors.Wrapf(err, "yaml: cannot encode %s", r.Name)
	}
	return enc.Close()
}

type msgpackEncoder struct{}

func (msgpackEncoder) Ext() string { return "msgpack" }

func (msgpackEncoder) Encode(w io.Writer, r *pathnum.Result) error {
	if err := msgpack.NewEncoder(w).Encode(NewDocument(r)); err != nil {
		return errors.Wrapf(err, "msgpack: cannot encode %s", r.Name)
	}
	return nil
}

// DecodeMsgpack reads a Document written by the msgpack encoder.
func DecodeMsgpack(rd io.Reader) (*Document, error) {
	var doc Document
	if err := msgpack.NewDecoder(rd).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "msgpack: cannot decode")
	}
	return &doc, nil
}
