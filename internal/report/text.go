package report

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/timemap/pkg/timemap"
)

// TextRenderer writes one canonical line per profile.
type TextRenderer struct{}

// Render implements Renderer.
func (*TextRenderer) Render(w io.Writer, snap *Snapshot) error {
	for _, s := range snap.Profiles {
		if _, err := io.WriteString(w, timemap.FormatLine(s)+"\n"); err != nil {
			return errors.Wrap(err, "writing report line")
		}
	}

	return nil
}
