package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/timemap/internal/report"
)

// FallbackViewer prints canonical report blocks on every refresh. It is used
// when stdout is not interactive (CI, pipes, files).
type FallbackViewer struct {
	opts Options
	out  io.Writer
	text report.TextRenderer
}

// NewFallbackViewer creates a FallbackViewer writing to out.
func NewFallbackViewer(opts Options, out io.Writer) *FallbackViewer {
	return &FallbackViewer{opts: opts, out: out}
}

// IsInteractive returns false as FallbackViewer only appends output.
func (*FallbackViewer) IsInteractive() bool {
	return false
}

// Watch implements Viewer. A final block is always printed once work returns.
func (v *FallbackViewer) Watch(ctx context.Context, work WorkFunc) error {
	type outcome struct {
		rounds int
		err    error
	}

	done := make(chan outcome, 1)

	go func() {
		n, err := work(ctx)
		done <- outcome{rounds: n, err: err}
	}()

	ticker := time.NewTicker(v.opts.refresh())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := v.print("--- refresh"); err != nil {
				return err
			}
		case res := <-done:
			if err := v.print(fmt.Sprintf("--- done after %d round(s)", res.rounds)); err != nil {
				return err
			}

			return res.err
		}
	}
}

func (v *FallbackViewer) print(header string) error {
	if _, err := fmt.Fprintln(v.out, header); err != nil {
		return errors.Wrap(err, "writing watch header")
	}

	return v.text.Render(v.out, report.NewSnapshot(v.opts.snapshot(), ""))
}
