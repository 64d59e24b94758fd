package main

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/timemap/internal/color"
	"github.com/smykla-skalski/timemap/internal/report"
	"github.com/smykla-skalski/timemap/internal/workload"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the built-in workload and print a report",
	Long: `Run the built-in instrumented workload and print a report of every profile.

The workload covers recursion (math.fib), mutual recursion (math.even and
math.odd), nested sleeping calls (outer and inner), a failing call (flaky) and
a constructor with template methods (Widget).

Examples:
  timemap run                              # Canonical text report
  timemap run -f table -s self -r          # Table ordered by self time, descending
  timemap run --name 'math.*' -f json      # JSON export of the math workloads
  timemap run -n 100 -j 8                  # 100 rounds, 8 at a time`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addReportFlags(runCmd)
	addWorkloadFlags(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	s, err := setup(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	bt := newBenchTiming(timemap.New())

	err = bt.phase(cmd.Context(), "workload", func(ctx context.Context) error {
		return runWorkload(ctx, s)
	})
	if err != nil {
		return err
	}

	return bt.phase(cmd.Context(), "report", func(context.Context) error {
		return printReport(cmd.OutOrStdout(), s)
	})
}

// runWorkload runs the configured number of workload rounds on the session
// registry.
func runWorkload(ctx context.Context, s *session) error {
	set := workload.NewSet(s.registry, s.cfg.Workload, s.log)
	runner := workload.NewRunner(s.cfg.Workload, s.log)

	rounds, err := runner.Run(ctx, s.cfg.Workload.Iterations, set.Round)

	s.log.Info("workload finished",
		"rounds", rounds,
		"profiles", s.registry.Len(),
		"parallel", s.cfg.Workload.IsParallel(),
	)

	if err != nil {
		return errors.Wrapf(err, "workload stopped after %d round(s)", rounds)
	}

	return nil
}

// printReport queries the registry with the report settings and renders
// the result to w.
func printReport(w io.Writer, s *session) error {
	opts, err := report.OptionsFrom(s.cfg.Report)
	if err != nil {
		return err
	}

	enabled, set := s.cfg.Report.IsColorEnabled()

	renderer, err := report.New(s.cfg.Report.Format, report.RenderOptions{
		Theme: color.NewTheme(color.Enabled(os.Stdout, noColorFlag, enabled, set)),
		Width: color.Width(os.Stdout),
	})
	if err != nil {
		return err
	}

	var renderErr error

	opts.Reporter = func(list []timemap.Stats) {
		renderErr = renderer.Render(w, report.NewSnapshot(list, report.SourceOf(s.registry.Clock())))
	}

	s.registry.Query(opts)

	return renderErr
}
