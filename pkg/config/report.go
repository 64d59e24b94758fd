package config

import (
	"github.com/cockroachdb/errors"
)

//go:generate enumer -type=SortKey -trimprefix=SortKey -transform=snake -json -text -yaml
//go:generate go run github.com/smykla-skalski/timemap/tools/enumerfix sortkey_enumer.go
//go:generate enumer -type=Format -trimprefix=Format -transform=lower -json -text -yaml
//go:generate go run github.com/smykla-skalski/timemap/tools/enumerfix format_enumer.go

var (
	// ErrInvalidSortKey is returned when an unknown sort key is provided.
	ErrInvalidSortKey = errors.New("invalid sort key")

	// ErrInvalidFormat is returned when an unknown report format is provided.
	ErrInvalidFormat = errors.New("invalid report format")
)

// SortKey names the profile field a report is ordered by.
type SortKey int

const (
	// SortKeyIndex keeps registry order.
	SortKeyIndex SortKey = iota

	// SortKeyCalls orders by call count.
	SortKeyCalls

	// SortKeyElapsed orders by cumulative elapsed time.
	SortKeyElapsed

	// SortKeyAverage orders by average elapsed time.
	SortKeyAverage

	// SortKeySelf orders by cumulative self time.
	SortKeySelf

	// SortKeySelfAverage orders by average self time.
	SortKeySelfAverage

	// SortKeyName orders by profile name.
	SortKeyName
)

// ParseSortKey parses a string into a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	key, err := SortKeyString(s)
	if err != nil {
		return SortKeyIndex, errors.Wrapf(ErrInvalidSortKey, "%q, must be one of %v", s, SortKeyStrings())
	}

	return key, nil
}

// Format is the rendering used for reports.
type Format int

const (
	// FormatText renders the canonical one-line-per-profile format.
	FormatText Format = iota

	// FormatTable renders an aligned table.
	FormatTable

	// FormatJSON renders a JSON export.
	FormatJSON

	// FormatYAML renders a YAML export.
	FormatYAML
)

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	f, err := FormatString(s)
	if err != nil {
		return FormatText, errors.Wrapf(ErrInvalidFormat, "%q, must be one of %v", s, FormatStrings())
	}

	return f, nil
}

// ReportConfig controls which profiles are reported and how.
type ReportConfig struct {
	// Format is the output format.
	Format Format `json:"format,omitempty" koanf:"format" toml:"format,omitempty"`

	// Sort is the field profiles are ordered by.
	Sort SortKey `json:"sort,omitempty" koanf:"sort" toml:"sort,omitempty"`

	// Reverse orders descending instead of ascending.
	Reverse bool `json:"reverse,omitempty" koanf:"reverse" toml:"reverse,omitempty"`

	// MinCalls hides profiles called fewer times.
	MinCalls int64 `json:"min_calls,omitempty" koanf:"min_calls" toml:"min_calls,omitempty" jsonschema:"minimum=0"`

	// MinElapsed hides profiles with less cumulative time, in milliseconds.
	MinElapsed float64 `json:"min_elapsed,omitempty" koanf:"min_elapsed" toml:"min_elapsed,omitempty" jsonschema:"minimum=0"`

	// MinAverage hides profiles with a lower average, in milliseconds.
	MinAverage float64 `json:"min_average,omitempty" koanf:"min_average" toml:"min_average,omitempty" jsonschema:"minimum=0"`

	// MinSelf hides profiles with less cumulative self time, in milliseconds.
	MinSelf float64 `json:"min_self,omitempty" koanf:"min_self" toml:"min_self,omitempty" jsonschema:"minimum=0"`

	// MinSelfAverage hides profiles with a lower self average, in milliseconds.
	MinSelfAverage float64 `json:"min_self_average,omitempty" koanf:"min_self_average" toml:"min_self_average,omitempty" jsonschema:"minimum=0"`

	// Names restricts reports to profiles matching any of these globs.
	Names []string `json:"names,omitempty" koanf:"names" toml:"names,omitempty"`

	// Color enables colored table output. Defaults to auto-detection.
	Color *bool `json:"color,omitempty" koanf:"color" toml:"color,omitempty"`
}

// IsColorEnabled returns whether color was explicitly enabled. The second
// result is false when the setting was left to auto-detection.
func (r *ReportConfig) IsColorEnabled() (enabled, set bool) {
	if r == nil || r.Color == nil {
		return false, false
	}

	return *r.Color, true
}
