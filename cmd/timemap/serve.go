package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/smykla-skalski/timemap/internal/server"
	"github.com/smykla-skalski/timemap/internal/workload"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve live profiles and metrics over HTTP",
	Long: `Run the built-in workload in the background and serve the registry over HTTP.

Endpoints:
  GET  /profiles   JSON export (sort, reverse, min_*, name query parameters)
  GET  /report     Rendered report (format query parameter, default text)
  POST /reset      Zero every profile
  GET  /metrics    Prometheus metrics
  GET  /health     Health check

Examples:
  timemap serve                            # Listen on 127.0.0.1:9464
  timemap serve --listen :8080 --interval 5s`,
	RunE: runServe,
}

var serveBatches int

func init() {
	rootCmd.AddCommand(serveCmd)
	addReportFlags(serveCmd)
	addWorkloadFlags(serveCmd)

	serveCmd.Flags().String("listen", "", "Address to listen on")
	serveCmd.Flags().String("interval", "", "Pause between workload batches (e.g. 1s)")
	serveCmd.Flags().IntVar(
		&serveBatches,
		"batches",
		0,
		"Stop after this many workload batches (0 runs until interrupted)",
	)
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := setup(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	srv := server.New(s.registry, s.cfg.Server, s.cfg.Report, s.log)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ready := make(chan string, 1)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.ListenAndServe(gctx, ready)
	})

	g.Go(func() error {
		select {
		case addr := <-ready:
			fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s\n", addr)
		case <-gctx.Done():
			return nil
		}

		err := serveWorkload(gctx, s)
		if err == nil && serveBatches > 0 {
			// Bounded runs stop the server once the batches are done.
			cancel()
		}

		return err
	})

	return g.Wait()
}

// serveWorkload runs workload batches separated by the configured interval.
func serveWorkload(ctx context.Context, s *session) error {
	set := workload.NewSet(s.registry, s.cfg.Workload, s.log)
	runner := workload.NewRunner(s.cfg.Workload, s.log)
	interval := s.cfg.Server.Interval.ToDuration()

	for batch := 1; ; batch++ {
		rounds, err := runner.Run(ctx, s.cfg.Workload.Iterations, set.Round)
		if ctx.Err() != nil {
			return nil
		}

		if err != nil {
			return err
		}

		s.log.Debug("workload batch finished", "batch", batch, "rounds", rounds)

		if serveBatches > 0 && batch >= serveBatches {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}
