package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/smykla-skalski/timemap/pkg/timemap"
)

// benchTiming emits per-phase elapsed times to stderr when TIMEMAP_BENCH_TIMING=1.
// Zero cost when disabled - a single os.Getenv check at construction.
type benchTiming struct {
	enabled  bool
	registry *timemap.Registry
	out      io.Writer
}

func newBenchTiming(reg *timemap.Registry) *benchTiming {
	if os.Getenv("TIMEMAP_BENCH_TIMING") != "1" {
		return &benchTiming{}
	}

	return &benchTiming{enabled: true, registry: reg, out: os.Stderr}
}

// phase runs fn, reporting its elapsed time when enabled.
func (bt *benchTiming) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	if !bt.enabled {
		return fn(ctx)
	}

	return bt.registry.TimeCall(ctx, fn, func(elapsed float64) {
		fmt.Fprintf(bt.out, "{\"phase\":%q,\"elapsed_ms\":%s}\n", name, timemap.Round2(elapsed))
	})
}
