// Package config provides configuration schema types for timemap.
package config

import (
	"github.com/smykla-skalski/timemap/pkg/clock"
	"github.com/smykla-skalski/timemap/pkg/logger"
)

// CurrentConfigVersion is the latest config schema version.
const CurrentConfigVersion = 1

// Config represents the root configuration for timemap.
type Config struct {
	// Version is the config schema version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Report controls filtering, ordering and rendering of profiles.
	Report *ReportConfig `json:"report,omitempty" koanf:"report" toml:"report,omitempty"`

	// Clock selects the time source used for measurements.
	Clock *ClockConfig `json:"clock,omitempty" koanf:"clock" toml:"clock,omitempty"`

	// Server configures the HTTP API started by "timemap serve".
	Server *ServerConfig `json:"server,omitempty" koanf:"server" toml:"server,omitempty"`

	// Log configures the file logger.
	Log *LogConfig `json:"log,omitempty" koanf:"log" toml:"log,omitempty"`

	// Workload configures the built-in demo workload.
	Workload *WorkloadConfig `json:"workload,omitempty" koanf:"workload" toml:"workload,omitempty"`

	// Watch configures the live view.
	Watch *WatchConfig `json:"watch,omitempty" koanf:"watch" toml:"watch,omitempty"`
}

// ClockConfig selects the clock source.
type ClockConfig struct {
	// Source forces a clock source. Empty picks the best available one.
	Source string `json:"source,omitempty" koanf:"source" toml:"source,omitempty" jsonschema:"enum=monotonic,enum=hr_time,enum=wall"`
}

// ParsedSource returns the configured source, or false when the best
// available source should be probed.
func (c *ClockConfig) ParsedSource() (clock.Source, bool, error) {
	if c == nil || c.Source == "" {
		return 0, false, nil
	}

	src, err := clock.SourceString(c.Source)
	if err != nil {
		return 0, false, err
	}

	return src, true, nil
}

// LogConfig configures logging.
type LogConfig struct {
	// File is the log file path. Empty disables file logging.
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty"`

	// Level is the minimum level written to the log file.
	Level string `json:"level,omitempty" koanf:"level" toml:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=error"`
}

// ParsedLevel returns the configured level, defaulting to info.
func (c *LogConfig) ParsedLevel() (logger.Level, error) {
	if c == nil || c.Level == "" {
		return logger.LevelInfo, nil
	}

	return logger.LevelString(c.Level)
}
