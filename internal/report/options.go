package report

import (
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/timemap/pkg/config"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

// SorterFor maps a configured sort key to its comparator.
func SorterFor(key config.SortKey) (timemap.Comparator, error) {
	switch key {
	case config.SortKeyIndex:
		return timemap.ByIndex, nil
	case config.SortKeyCalls:
		return timemap.ByCalls, nil
	case config.SortKeyElapsed:
		return timemap.ByElapsed, nil
	case config.SortKeyAverage:
		return timemap.ByAverage, nil
	case config.SortKeySelf:
		return timemap.BySelf, nil
	case config.SortKeySelfAverage:
		return timemap.BySelfAverage, nil
	case config.SortKeyName:
		return timemap.ByName, nil
	default:
		return nil, errors.Wrapf(config.ErrInvalidSortKey, "%s", key)
	}
}

// OptionsFrom builds query options from the report section of the config.
// A nil config yields registry order with no filtering.
func OptionsFrom(cfg *config.ReportConfig) (timemap.Options, error) {
	if cfg == nil {
		return timemap.Options{}, nil
	}

	sorter, err := SorterFor(cfg.Sort)
	if err != nil {
		return timemap.Options{}, err
	}

	if cfg.Reverse {
		sorter = timemap.Reverse(sorter)
	}

	if err := timemap.ValidatePatterns(cfg.Names); err != nil {
		return timemap.Options{}, err
	}

	return timemap.Options{
		Sorter:         sorter,
		MinCalls:       cfg.MinCalls,
		MinElapsed:     cfg.MinElapsed,
		MinAverage:     cfg.MinAverage,
		MinSelf:        cfg.MinSelf,
		MinSelfAverage: cfg.MinSelfAverage,
		Names:          cfg.Names,
	}, nil
}
