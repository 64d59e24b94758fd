package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/timemap/internal/color"
	"github.com/smykla-skalski/timemap/internal/report"
	"github.com/smykla-skalski/timemap/internal/tui"
	"github.com/smykla-skalski/timemap/internal/workload"
)

var noTUIFlag bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch profiles live while the workload runs",
	Long: `Run the built-in workload and redraw a table of profiles while it runs.

When stdout is not a terminal, or with --no-tui, the canonical text report is
printed on every refresh instead.

Examples:
  timemap watch -n 1000 -s self -r
  timemap watch --refresh 100ms --no-tui`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addReportFlags(watchCmd)
	addWorkloadFlags(watchCmd)

	watchCmd.Flags().String("refresh", "", "Redraw interval (e.g. 500ms)")
	watchCmd.Flags().BoolVar(
		&noTUIFlag,
		"no-tui",
		false,
		"Print text reports instead of the interactive view",
	)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	s, err := setup(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	opts, err := report.OptionsFrom(s.cfg.Report)
	if err != nil {
		return err
	}

	enabled, set := s.cfg.Report.IsColorEnabled()

	viewerOpts := tui.Options{
		Registry: s.registry,
		Query:    opts,
		Refresh:  s.cfg.Watch.Refresh.ToDuration(),
		Theme:    color.NewTheme(color.Enabled(os.Stdout, noColorFlag, enabled, set)),
	}

	viewer := tui.NewWithFallback(viewerOpts, noTUIFlag, cmd.OutOrStdout())

	return viewer.Watch(cmd.Context(), func(ctx context.Context) (int, error) {
		rounds := workload.NewSet(s.registry, s.cfg.Workload, s.log)

		return workload.NewRunner(s.cfg.Workload, s.log).Run(ctx, s.cfg.Workload.Iterations, rounds.Round)
	})
}
