package report

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// JSONRenderer writes the snapshot as a JSON document.
type JSONRenderer struct {
	Indent bool
}

// Render implements Renderer.
func (r *JSONRenderer) Render(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	if r.Indent {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(snap); err != nil {
		return errors.Wrap(err, "encoding JSON report")
	}

	return nil
}

// YAMLRenderer writes the snapshot as a YAML document.
type YAMLRenderer struct{}

// Render implements Renderer.
func (*YAMLRenderer) Render(w io.Writer, snap *Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)

	if err := enc.Encode(snap); err != nil {
		return errors.Wrap(err, "encoding YAML report")
	}

	return errors.Wrap(enc.Close(), "flushing YAML report")
}
