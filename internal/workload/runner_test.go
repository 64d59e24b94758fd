package workload_test

import (
	"context"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/timemap/internal/workload"
	"github.com/smykla-skalski/timemap/pkg/config"
	"github.com/smykla-skalski/timemap/pkg/logger"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

var errRound = errors.New("round failed")

var _ = Describe("Runner", func() {
	log := logger.NewNoOpLogger()

	Describe("NewRunner", func() {
		It("runs sequentially by default", func() {
			Expect(workload.NewRunner(&config.WorkloadConfig{Concurrency: 1}, nil)).
				To(BeAssignableToTypeOf(&workload.SequentialRunner{}))
		})

		It("runs in parallel above one worker", func() {
			Expect(workload.NewRunner(&config.WorkloadConfig{Concurrency: 4}, nil)).
				To(BeAssignableToTypeOf(&workload.ParallelRunner{}))
		})
	})

	Describe("SequentialRunner", func() {
		It("runs every round in order", func() {
			var seen []int

			n, err := workload.NewSequentialRunner(log).Run(context.Background(), 3, func(context.Context) error {
				seen = append(seen, len(seen))

				return nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3))
			Expect(seen).To(Equal([]int{0, 1, 2}))
		})

		It("stops at the first error", func() {
			calls := 0

			n, err := workload.NewSequentialRunner(log).Run(context.Background(), 5, func(context.Context) error {
				calls++
				if calls == 2 {
					return errRound
				}

				return nil
			})

			Expect(err).To(MatchError(errRound))
			Expect(n).To(Equal(1))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			n, err := workload.NewSequentialRunner(log).Run(ctx, 5, func(context.Context) error { return nil })
			Expect(err).To(MatchError(context.Canceled))
			Expect(n).To(BeZero())
		})
	})

	Describe("ParallelRunner", func() {
		It("runs every round with a detached exclusion stack", func() {
			var (
				rounds atomic.Int64
				deep   atomic.Int64
			)

			n, err := workload.NewParallelRunner(log, 4).Run(context.Background(), 20, func(ctx context.Context) error {
				rounds.Add(1)
				if timemap.Depth(ctx) != 0 {
					deep.Add(1)
				}

				return nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(20))
			Expect(rounds.Load()).To(BeEquivalentTo(20))
			Expect(deep.Load()).To(BeZero())
		})

		It("accumulates every call across concurrent rounds", func() {
			reg := timemap.New()
			set := workload.NewSet(reg, &config.WorkloadConfig{Depth: 5}, nil)

			n, err := workload.NewParallelRunner(log, 4).Run(context.Background(), 8, set.Round)

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(8))
			Expect(callsOf(reg, "math.fib")).To(BeEquivalentTo(8 * 15))

			for _, s := range reg.Snapshot() {
				Expect(s.Self).To(BeNumerically("<=", s.Elapsed), s.Name)
			}
		})

		It("returns the first error", func() {
			n, err := workload.NewParallelRunner(log, 2).Run(context.Background(), 10, func(context.Context) error {
				return errRound
			})

			Expect(err).To(MatchError(errRound))
			Expect(n).To(BeZero())
		})

		It("defaults to one worker per CPU", func() {
			n, err := workload.NewParallelRunner(log, 0).Run(context.Background(), 3, func(context.Context) error {
				return nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3))
		})
	})
})
