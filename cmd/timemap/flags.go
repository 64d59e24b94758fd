package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// configFlags maps flag names to the config keys they override.
var configFlags = map[string]string{
	"clock":     "clock.source",
	"log-file":  "log.file",
	"log-level": "log.level",

	"format":           "report.format",
	"sort":             "report.sort",
	"reverse":          "report.reverse",
	"min-calls":        "report.min_calls",
	"min-elapsed":      "report.min_elapsed",
	"min-average":      "report.min_average",
	"min-self":         "report.min_self",
	"min-self-average": "report.min_self_average",
	"name":             "report.names",

	"iterations":  "workload.iterations",
	"concurrency": "workload.concurrency",
	"depth":       "workload.depth",
	"sleep":       "workload.sleep",

	"listen":   "server.listen",
	"interval": "server.interval",

	"refresh": "watch.refresh",
}

func init() {
	rootCmd.PersistentFlags().String("clock", "", "Clock source (monotonic, hr_time, wall)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, error)")
}

// addReportFlags registers the report selection and rendering flags.
func addReportFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("format", "f", "", "Output format (text, table, json, yaml)")
	f.StringP("sort", "s", "", "Sort key (index, calls, elapsed, average, self, self_average, name)")
	f.BoolP("reverse", "r", false, "Sort descending")
	f.Int64("min-calls", 0, "Hide profiles called fewer times")
	f.Float64("min-elapsed", 0, "Hide profiles with less elapsed time (ms)")
	f.Float64("min-average", 0, "Hide profiles with a lower average (ms)")
	f.Float64("min-self", 0, "Hide profiles with less self time (ms)")
	f.Float64("min-self-average", 0, "Hide profiles with a lower self average (ms)")
	f.StringSlice("name", nil, "Only report profiles matching these globs")
}

// addWorkloadFlags registers the built-in workload flags.
func addWorkloadFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntP("iterations", "n", 0, "Number of workload rounds")
	f.IntP("concurrency", "j", 0, "Rounds running at once")
	f.Int("depth", 0, "Argument of the recursive workloads")
	f.String("sleep", "", "Sleep of the nested workload (e.g. 2ms)")
}

// collectFlags returns the changed config flags of cmd keyed by config path.
func collectFlags(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)

	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := configFlags[f.Name]
		if !ok {
			return
		}

		if slice, ok := f.Value.(pflag.SliceValue); ok {
			flags[key] = slice.GetSlice()

			return
		}

		flags[key] = f.Value.String()
	})

	return flags
}
