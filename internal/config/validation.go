package config

import (
	"net"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/timemap/pkg/config"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrOutOfRange is returned when a numeric value is outside its allowed range.
	ErrOutOfRange = errors.New("value out of range")

	// ErrEmptyValue is returned when a required value is empty.
	ErrEmptyValue = errors.New("empty value not allowed")

	// ErrInvalidOption is returned when an option value is invalid.
	ErrInvalidOption = errors.New("invalid option value")
)

// MaxDepth bounds the recursive workloads, whose cost grows exponentially.
const MaxDepth = 30

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
// Returns an error describing all validation failures.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	if cfg.Version < 0 || cfg.Version > config.CurrentConfigVersion {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrOutOfRange, "version: %d, must be at most %d", cfg.Version, config.CurrentConfigVersion,
		))
	}

	checks := []struct {
		section string
		err     error
	}{
		{"report", v.validateReportConfig(cfg.Report)},
		{"clock", v.validateClockConfig(cfg.Clock)},
		{"server", v.validateServerConfig(cfg.Server)},
		{"log", v.validateLogConfig(cfg.Log)},
		{"workload", v.validateWorkloadConfig(cfg.Workload)},
		{"watch", v.validateWatchConfig(cfg.Watch)},
	}

	for _, c := range checks {
		if c.err != nil {
			validationErrors = append(validationErrors, errors.Wrap(c.err, c.section))
		}
	}

	if len(validationErrors) > 0 {
		return errors.Wrapf(
			ErrInvalidConfig,
			"validation failed with %d error(s): %v",
			len(validationErrors),
			combineErrors(validationErrors),
		)
	}

	return nil
}

func (*Validator) validateReportConfig(cfg *config.ReportConfig) error {
	if cfg == nil {
		return nil
	}

	var validationErrors []error

	if !cfg.Format.IsAFormat() {
		validationErrors = append(validationErrors,
			errors.Wrapf(ErrInvalidOption, "format: %s", cfg.Format))
	}

	if !cfg.Sort.IsASortKey() {
		validationErrors = append(validationErrors,
			errors.Wrapf(ErrInvalidOption, "sort: %s", cfg.Sort))
	}

	thresholds := map[string]float64{
		"min_calls":        float64(cfg.MinCalls),
		"min_elapsed":      cfg.MinElapsed,
		"min_average":      cfg.MinAverage,
		"min_self":         cfg.MinSelf,
		"min_self_average": cfg.MinSelfAverage,
	}

	for _, name := range []string{"min_calls", "min_elapsed", "min_average", "min_self", "min_self_average"} {
		if thresholds[name] < 0 {
			validationErrors = append(validationErrors,
				errors.Wrapf(ErrOutOfRange, "%s: %v, must be non-negative", name, thresholds[name]))
		}
	}

	if err := timemap.ValidatePatterns(cfg.Names); err != nil {
		validationErrors = append(validationErrors, errors.Wrap(err, "names"))
	}

	return combineErrors(validationErrors)
}

func (*Validator) validateClockConfig(cfg *config.ClockConfig) error {
	if _, _, err := cfg.ParsedSource(); err != nil {
		return errors.Wrapf(ErrInvalidOption, "source: %v", err)
	}

	return nil
}

func (*Validator) validateServerConfig(cfg *config.ServerConfig) error {
	if cfg == nil {
		return nil
	}

	if cfg.Listen == "" {
		return errors.WithMessage(ErrEmptyValue, "listen")
	}

	if _, _, err := net.SplitHostPort(cfg.Listen); err != nil {
		return errors.Wrapf(ErrInvalidOption, "listen: %s", err)
	}

	return nil
}

func (*Validator) validateLogConfig(cfg *config.LogConfig) error {
	if _, err := cfg.ParsedLevel(); err != nil {
		return errors.Wrapf(ErrInvalidOption, "level: %v", err)
	}

	return nil
}

func (*Validator) validateWorkloadConfig(cfg *config.WorkloadConfig) error {
	if cfg == nil {
		return nil
	}

	var validationErrors []error

	if cfg.Iterations < 1 {
		validationErrors = append(validationErrors,
			errors.Wrapf(ErrOutOfRange, "iterations: %d, must be at least 1", cfg.Iterations))
	}

	if cfg.Concurrency < 1 {
		validationErrors = append(validationErrors,
			errors.Wrapf(ErrOutOfRange, "concurrency: %d, must be at least 1", cfg.Concurrency))
	}

	if cfg.Depth < 0 || cfg.Depth > MaxDepth {
		validationErrors = append(validationErrors,
			errors.Wrapf(ErrOutOfRange, "depth: %d, must be between 0 and %d", cfg.Depth, MaxDepth))
	}

	return combineErrors(validationErrors)
}

func (*Validator) validateWatchConfig(cfg *config.WatchConfig) error {
	if cfg == nil {
		return nil
	}

	if cfg.Refresh <= 0 {
		return errors.Wrapf(ErrOutOfRange, "refresh: %s, must be positive", cfg.Refresh.ToDuration())
	}

	return nil
}

// combineErrors combines multiple errors into a single error.
func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}
