// Package main provides the CLI entry point for timemap.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/timemap/internal/config"
	"github.com/smykla-skalski/timemap/internal/crashdump"
	"github.com/smykla-skalski/timemap/internal/report"
	"github.com/smykla-skalski/timemap/internal/xdg"
	"github.com/smykla-skalski/timemap/pkg/clock"
	"github.com/smykla-skalski/timemap/pkg/config"
	"github.com/smykla-skalski/timemap/pkg/logger"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

const (
	// ExitCodeError indicates a command failed.
	ExitCodeError = 1

	// ExitCodeCrash indicates an unexpected panic/crash occurred.
	ExitCodeCrash = 3

	// maxCrashDumps is how many crash dumps are kept after writing a new one.
	maxCrashDumps = 10
)

var (
	debugMode    bool
	traceMode    bool
	configPath   string
	globalConfig string
	noColorFlag  bool

	// crashSource is the registry of the running command, dumped on panic.
	crashSource crashdump.ProfileSource
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			handlePanic(r)

			exitCode = ExitCodeCrash
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return ExitCodeError
	}

	return 0
}

var rootCmd = &cobra.Command{
	Use:   "timemap",
	Short: "Call-level timing profiler",
	Long: `timemap instruments callables, counts their invocations and accumulates
inclusive and exclusive ("self") time per callable.

It ships a built-in workload to exercise the profiler, renders reports as
text, tables, JSON or YAML, and can serve live snapshots and Prometheus
metrics over HTTP.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		checkVersionFlag()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceMode, "trace", false, "Enable trace logging")
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to project configuration file (default: .timemap/config.toml or timemap.toml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&globalConfig,
		"global-config",
		"",
		"Path to global configuration file (default: ~/.timemap/config.toml)",
	)
	rootCmd.PersistentFlags().BoolVar(
		&noColorFlag,
		"no-color",
		false,
		"Disable colored output",
	)
}

// loadConfig loads configuration from all sources with precedence. Flags
// changed on cmd override every other source.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config loader")
	}

	if configPath != "" {
		loader.WithProjectPath(configPath)
	}

	if globalConfig != "" {
		loader.WithGlobalPath(globalConfig)
	}

	cfg, err := loader.Load(collectFlags(cmd))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	return cfg, nil
}

// setupLogger writes to the configured log file, or to stderr when none is
// set. --debug and --trace override the configured level. The returned
// function closes the log file.
func setupLogger(cfg *config.Config) (*logger.SlogAdapter, func(), error) {
	level, err := cfg.Log.ParsedLevel()
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid log level")
	}

	if debugMode || traceMode {
		level = logger.LevelFromFlags(debugMode, traceMode)
	}

	if cfg.Log == nil || cfg.Log.File == "" {
		return logger.NewWriterLogger(os.Stderr, level), func() {}, nil
	}

	path, err := xdg.ExpandPath(cfg.Log.File)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid log file")
	}

	log, err := logger.NewFileLogger(path, level)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create logger")
	}

	return log, func() { _ = log.Close() }, nil
}

// newRegistry creates a registry on the configured clock source.
func newRegistry(cfg *config.Config, log logger.Logger) (*timemap.Registry, error) {
	src, forced, err := cfg.Clock.ParsedSource()
	if err != nil {
		return nil, errors.Wrap(err, "invalid clock source")
	}

	clk := clock.Default()

	if forced {
		if clk, err = clock.NewWithSource(src); err != nil {
			return nil, errors.Wrapf(err, "clock source %s", src)
		}
	}

	log.Debug("registry created", "clock", report.SourceOf(clk), "forced", forced)

	return timemap.New(timemap.WithClock(clk), timemap.WithLogger(log)), nil
}

// session holds what the workload commands share.
type session struct {
	cfg      *config.Config
	log      *logger.SlogAdapter
	registry *timemap.Registry
	close    func()
}

// setup loads the config and builds the logger and registry shared by the
// workload commands.
func setup(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		return nil, err
	}

	reg, err := newRegistry(cfg, log)
	if err != nil {
		closeLog()

		return nil, err
	}

	crashSource = reg

	return &session{cfg: cfg, log: log, registry: reg, close: closeLog}, nil
}

// handlePanic writes a crash dump with the profiles recorded so far and
// prunes old dumps.
func handlePanic(recovered any) {
	info := crashdump.NewCollector(version).Collect(recovered, crashSource)

	fmt.Fprintf(os.Stderr, "timemap crashed: %s\n", info.PanicValue)

	writer, err := crashdump.NewFilesystemWriter(xdg.CrashDumpDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create crash dump writer: %v\n%s", err, info.StackTrace)

		return
	}

	path, err := writer.Write(info)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write crash dump: %v\n%s", err, info.StackTrace)

		return
	}

	fmt.Fprintf(os.Stderr, "crash dump saved to: %s\n", path)

	if storage, err := crashdump.NewFilesystemStorage(writer.DumpDir()); err == nil {
		_, _ = storage.Prune(maxCrashDumps, 0)
	}
}
