package workload

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/smykla-skalski/timemap/pkg/config"
	"github.com/smykla-skalski/timemap/pkg/logger"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

// RoundFunc runs a single workload round.
type RoundFunc func(ctx context.Context) error

// Runner runs workload rounds.
type Runner interface {
	// Run executes fn the given number of times and returns the number of
	// completed rounds along with the first error.
	Run(ctx context.Context, iterations int, fn RoundFunc) (int, error)
}

// SequentialRunner runs rounds one at a time in order.
type SequentialRunner struct {
	logger logger.Logger
}

// NewSequentialRunner creates a new SequentialRunner.
func NewSequentialRunner(log logger.Logger) *SequentialRunner {
	return &SequentialRunner{logger: log}
}

// Run implements Runner.
func (r *SequentialRunner) Run(ctx context.Context, iterations int, fn RoundFunc) (int, error) {
	for i := range iterations {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		if err := fn(ctx); err != nil {
			r.logger.Error("round failed", "round", i, "error", err)

			return i, err
		}
	}

	return iterations, nil
}

// ParallelRunner runs rounds concurrently, bounded by a worker pool.
type ParallelRunner struct {
	logger logger.Logger
	pool   *semaphore.Weighted
}

// NewParallelRunner creates a ParallelRunner running at most workers rounds
// at once. Non-positive values default to the number of CPUs.
func NewParallelRunner(log logger.Logger, workers int) *ParallelRunner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &ParallelRunner{
		logger: log,
		pool:   semaphore.NewWeighted(int64(workers)),
	}
}

// Run implements Runner. Every round gets a detached exclusion stack so
// concurrent rounds never attribute time to each other.
func (r *ParallelRunner) Run(ctx context.Context, iterations int, fn RoundFunc) (int, error) {
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)

	for i := range iterations {
		if err := r.pool.Acquire(gctx, 1); err != nil {
			break
		}

		g.Go(func() error {
			defer r.pool.Release(1)

			if err := fn(timemap.Detach(gctx)); err != nil {
				r.logger.Error("round failed", "round", i, "error", err)

				return err
			}

			completed.Add(1)

			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	return int(completed.Load()), err
}

// NewRunner picks the runner matching the workload concurrency.
func NewRunner(cfg *config.WorkloadConfig, log logger.Logger) Runner {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	if cfg.IsParallel() {
		return NewParallelRunner(log, cfg.Concurrency)
	}

	return NewSequentialRunner(log)
}
