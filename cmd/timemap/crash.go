package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/timemap/internal/crashdump"
	"github.com/smykla-skalski/timemap/internal/report"
	"github.com/smykla-skalski/timemap/internal/xdg"
)

var (
	dryRun       bool
	cleanMax     int
	cleanMaxAge  time.Duration
	crashDumpDir string
)

var crashCmd = &cobra.Command{
	Use:   "crash",
	Short: "Manage crash dumps",
	Long: `Manage crash dumps created by timemap on panic.

A crash dump holds the panic value, the stack trace and every profile the
registry had recorded when the crash happened.

Subcommands:
  list   List crash dumps
  view   View crash dump details
  clean  Remove old crash dumps`,
}

var crashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List crash dumps",
	Args:  cobra.NoArgs,
	RunE:  runCrashList,
}

var crashViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View crash dump details",
	Long: `View a crash dump including the profiles recorded before the crash.

Examples:
  timemap crash view crash-20261019T160432-a1b2c3d4`,
	Args: cobra.ExactArgs(1),
	RunE: runCrashView,
}

var crashCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove old crash dumps",
	Long: `Remove crash dumps beyond the retention limits.

Examples:
  timemap crash clean                  # Keep the 10 newest dumps
  timemap crash clean --max-age 168h   # Also drop dumps older than a week
  timemap crash clean --dry-run        # Show what would be removed`,
	Args: cobra.NoArgs,
	RunE: runCrashClean,
}

func init() {
	rootCmd.AddCommand(crashCmd)
	crashCmd.AddCommand(crashListCmd, crashViewCmd, crashCleanCmd)

	crashCmd.PersistentFlags().StringVar(
		&crashDumpDir,
		"dir",
		"",
		"Crash dump directory (default: $XDG_DATA_HOME/timemap/crash_dumps)",
	)

	crashCleanCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Show what would be removed without actually deleting",
	)
	crashCleanCmd.Flags().IntVar(&cleanMax, "max", maxCrashDumps, "Number of dumps to keep (0 keeps all)")
	crashCleanCmd.Flags().DurationVar(&cleanMaxAge, "max-age", 0, "Remove dumps older than this (0 disables)")
}

func crashStorage() (*crashdump.FilesystemStorage, error) {
	dir := crashDumpDir
	if dir == "" {
		dir = xdg.CrashDumpDir()
	}

	storage, err := crashdump.NewFilesystemStorage(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create storage")
	}

	return storage, nil
}

func runCrashList(cmd *cobra.Command, _ []string) error {
	storage, err := crashStorage()
	if err != nil {
		return err
	}

	summaries, err := storage.List()
	if err != nil {
		return errors.Wrap(err, "failed to list crash dumps")
	}

	out := cmd.OutOrStdout()

	if len(summaries) == 0 {
		fmt.Fprintln(out, "No crash dumps found.")
		fmt.Fprintf(out, "Directory: %s\n", storage.DumpDir())

		return nil
	}

	fmt.Fprintf(out, "Directory: %s\n", storage.DumpDir())
	fmt.Fprintf(out, "Total: %d\n\n", len(summaries))

	for i := range summaries {
		displaySummary(out, i+1, &summaries[i])
	}

	return nil
}

func displaySummary(out io.Writer, index int, summary *crashdump.DumpSummary) {
	size := "unknown"
	if summary.Size >= 0 {
		size = humanize.Bytes(uint64(summary.Size))
	}

	fmt.Fprintf(out, "%d. %s\n", index, summary.ID)
	fmt.Fprintf(out, "   Time: %s (%s)\n",
		summary.Timestamp.Format("2006-01-02 15:04:05"),
		humanize.Time(summary.Timestamp),
	)
	fmt.Fprintf(out, "   Panic: %s\n", summary.PanicValue)
	fmt.Fprintf(out, "   Profiles: %d\n", summary.Profiles)
	fmt.Fprintf(out, "   Size: %s\n\n", size)
}

func runCrashView(cmd *cobra.Command, args []string) error {
	storage, err := crashStorage()
	if err != nil {
		return err
	}

	info, err := storage.Get(args[0])
	if err != nil {
		return errors.Wrap(err, "failed to get crash dump")
	}

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "ID: %s\n", info.ID)
	fmt.Fprintf(out, "Timestamp: %s\n", info.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "Panic Value: %s\n", info.PanicValue)

	if len(info.Args) > 0 {
		fmt.Fprintf(out, "Command: %s\n", strings.Join(info.Args, " "))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Runtime: %s %s/%s, %d CPU(s), %d goroutine(s)\n",
		info.Runtime.GoVersion,
		info.Runtime.GOOS,
		info.Runtime.GOARCH,
		info.Runtime.NumCPU,
		info.Runtime.NumGoroutine,
	)
	fmt.Fprintf(out, "Version: %s\n", info.Metadata.Version)

	if info.Metadata.WorkingDir != "" {
		fmt.Fprintf(out, "Working Dir: %s\n", info.Metadata.WorkingDir)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Profiles")
	fmt.Fprintln(out, "--------")

	if len(info.Profiles) == 0 {
		fmt.Fprintln(out, "  (none recorded)")
	} else {
		var text report.TextRenderer
		if err := text.Render(out, report.NewSnapshot(info.Profiles, "")); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Stack Trace")
	fmt.Fprintln(out, "-----------")

	for line := range strings.SplitSeq(info.StackTrace, "\n") {
		if line != "" {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}

	return nil
}

func runCrashClean(cmd *cobra.Command, _ []string) error {
	storage, err := crashStorage()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if dryRun {
		expired, err := storage.Expired(cleanMax, cleanMaxAge)
		if err != nil {
			return errors.Wrap(err, "failed to list crash dumps")
		}

		fmt.Fprintf(out, "Would remove: %d dump(s)\n", len(expired))

		for _, summary := range expired {
			fmt.Fprintf(out, "  %s\n", summary.ID)
		}

		return nil
	}

	removed, err := storage.Prune(cleanMax, cleanMaxAge)
	if err != nil {
		return errors.Wrap(err, "failed to prune crash dumps")
	}

	fmt.Fprintf(out, "Removed: %d dump(s)\n", removed)

	return nil
}
