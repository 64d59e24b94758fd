// Package report renders registry snapshots as text, tables, JSON or YAML.
package report

import (
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/smykla-skalski/timemap/internal/color"
	"github.com/smykla-skalski/timemap/pkg/clock"
	"github.com/smykla-skalski/timemap/pkg/config"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

// ErrUnsupportedFormat is returned when no renderer exists for a format.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Snapshot is a point-in-time copy of the queried profiles.
type Snapshot struct {
	ID          string          `json:"id" yaml:"id"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Clock       string          `json:"clock,omitempty" yaml:"clock,omitempty"`
	Count       int             `json:"count" yaml:"count"`
	Profiles    []timemap.Stats `json:"profiles" yaml:"profiles"`
}

// NewSnapshot wraps profiles with a fresh ID and timestamp.
func NewSnapshot(profiles []timemap.Stats, clockSource string) *Snapshot {
	if profiles == nil {
		profiles = []timemap.Stats{}
	}

	return &Snapshot{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now(),
		Clock:       clockSource,
		Count:       len(profiles),
		Profiles:    profiles,
	}
}

// Renderer writes a snapshot in one output format.
type Renderer interface {
	Render(w io.Writer, snap *Snapshot) error
}

// RenderOptions configures the renderers that care about presentation.
type RenderOptions struct {
	Theme color.Theme

	// Width is the terminal width, 0 when unknown.
	Width int
}

// New returns the renderer for format.
func New(format config.Format, opts RenderOptions) (Renderer, error) {
	switch format {
	case config.FormatText:
		return &TextRenderer{}, nil
	case config.FormatTable:
		return NewTableRenderer(opts.Theme, opts.Width), nil
	case config.FormatJSON:
		return &JSONRenderer{Indent: true}, nil
	case config.FormatYAML:
		return &YAMLRenderer{}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", format)
	}
}

// SourceOf names the clock source behind c, or "" when it is unknown.
func SourceOf(c clock.Clock) string {
	if s, ok := c.(clock.Sourced); ok {
		return s.Source().String()
	}

	return ""
}
