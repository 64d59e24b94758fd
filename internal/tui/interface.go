// Package tui provides the live view of a registry while a workload runs.
package tui

import (
	"context"
	"time"

	"github.com/smykla-skalski/timemap/internal/color"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

// WorkFunc runs the observed workload and returns the number of completed
// rounds.
type WorkFunc func(ctx context.Context) (int, error)

// Viewer renders registry snapshots until the work finishes.
type Viewer interface {
	// Watch runs work and shows the queried profiles every refresh interval.
	Watch(ctx context.Context, work WorkFunc) error

	// IsInteractive returns true if the viewer redraws in place.
	IsInteractive() bool
}

// Options configures a Viewer.
type Options struct {
	// Registry is the observed registry.
	Registry *timemap.Registry

	// Query selects and orders the shown profiles. Its Reporter is ignored.
	Query timemap.Options

	// Refresh is the redraw interval.
	Refresh time.Duration

	Theme color.Theme
}

const defaultRefresh = 500 * time.Millisecond

func (o Options) refresh() time.Duration {
	if o.Refresh <= 0 {
		return defaultRefresh
	}

	return o.Refresh
}

func (o Options) snapshot() []timemap.Stats {
	q := o.Query
	q.Reporter = nil

	return o.Registry.Query(q)
}
