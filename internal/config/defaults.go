package config

import (
	"time"

	"github.com/smykla-skalski/timemap/pkg/config"
)

const (
	// DefaultListen is the default HTTP listen address.
	DefaultListen = "127.0.0.1:9464"

	// DefaultReadTimeout is the default HTTP read timeout.
	DefaultReadTimeout = 5 * time.Second

	// DefaultServeInterval is the pause between workload rounds while serving.
	DefaultServeInterval = time.Second

	// DefaultIterations is the default number of workload rounds.
	DefaultIterations = 10

	// DefaultConcurrency runs rounds sequentially.
	DefaultConcurrency = 1

	// DefaultDepth is the default argument of the recursive workloads.
	DefaultDepth = 12

	// DefaultSleep is the default sleep of the nested workload.
	DefaultSleep = 2 * time.Millisecond

	// DefaultRefresh is the default redraw interval of the live view.
	DefaultRefresh = 500 * time.Millisecond

	// DefaultLogLevel is the default file log level.
	DefaultLogLevel = "info"
)

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *config.Config {
	return &config.Config{
		Version:  config.CurrentConfigVersion,
		Report:   DefaultReportConfig(),
		Clock:    &config.ClockConfig{},
		Server:   DefaultServerConfig(),
		Log:      &config.LogConfig{Level: DefaultLogLevel},
		Workload: DefaultWorkloadConfig(),
		Watch:    &config.WatchConfig{Refresh: config.Duration(DefaultRefresh)},
	}
}

// DefaultReportConfig returns the default report configuration: every
// profile in registry order as canonical text.
func DefaultReportConfig() *config.ReportConfig {
	return &config.ReportConfig{
		Format: config.FormatText,
		Sort:   config.SortKeyIndex,
		Names:  []string{},
	}
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Listen:      DefaultListen,
		ReadTimeout: config.Duration(DefaultReadTimeout),
		Interval:    config.Duration(DefaultServeInterval),
	}
}

// DefaultWorkloadConfig returns the default workload configuration.
func DefaultWorkloadConfig() *config.WorkloadConfig {
	return &config.WorkloadConfig{
		Iterations:  DefaultIterations,
		Concurrency: DefaultConcurrency,
		Depth:       DefaultDepth,
		Sleep:       config.Duration(DefaultSleep),
	}
}

// defaultsToMap converts the defaults to a map for koanf loading.
func defaultsToMap() map[string]any {
	return map[string]any{
		"version": config.CurrentConfigVersion,
		"report": map[string]any{
			"format":           config.FormatText.String(),
			"sort":             config.SortKeyIndex.String(),
			"reverse":          false,
			"min_calls":        0,
			"min_elapsed":      0.0,
			"min_average":      0.0,
			"min_self":         0.0,
			"min_self_average": 0.0,
			"names":            []string{},
		},
		"clock": map[string]any{
			"source": "",
		},
		"server": map[string]any{
			"listen":       DefaultListen,
			"read_timeout": DefaultReadTimeout.String(),
			"interval":     DefaultServeInterval.String(),
		},
		"log": map[string]any{
			"file":  "",
			"level": DefaultLogLevel,
		},
		"workload": map[string]any{
			"iterations":  DefaultIterations,
			"concurrency": DefaultConcurrency,
			"depth":       DefaultDepth,
			"sleep":       DefaultSleep.String(),
		},
		"watch": map[string]any{
			"refresh": DefaultRefresh.String(),
		},
	}
}
