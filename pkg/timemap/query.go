package timemap

import (
	"cmp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

// ErrInvalidPattern is returned by ValidatePatterns for malformed globs.
var ErrInvalidPattern = errors.New("invalid name pattern")

// Comparator orders two snapshots, returning a negative number, zero or a
// positive number like cmp.Compare.
type Comparator func(a, b Stats) int

// Reporter receives the final result of a query.
type Reporter func(list []Stats)

// Options selects, orders and reports profiles. Zero thresholds disable the
// corresponding filter.
type Options struct {
	Sorter   Comparator
	Reporter Reporter

	MinCalls       int64
	MinElapsed     float64
	MinAverage     float64
	MinSelf        float64
	MinSelfAverage float64

	// Names restricts the result to profiles matching at least one glob.
	// Patterns use doublestar syntax, e.g. "Widget.template.*".
	Names []string
}

func (o Options) filtering() bool {
	return o.MinCalls != 0 ||
		o.MinElapsed != 0 ||
		o.MinAverage != 0 ||
		o.MinSelf != 0 ||
		o.MinSelfAverage != 0
}

func (o Options) accepts(s Stats) bool {
	return s.Average >= o.MinAverage &&
		s.Calls >= o.MinCalls &&
		s.Elapsed >= o.MinElapsed &&
		s.Self >= o.MinSelf &&
		s.SelfAverage >= o.MinSelfAverage
}

func (o Options) matchesName(name string) bool {
	if len(o.Names) == 0 {
		return true
	}

	for _, pattern := range o.Names {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}

	return false
}

// Query returns snapshots of the profiles passing every non-zero threshold,
// stably sorted by opts.Sorter when set and in registry order otherwise. The
// reporter, when set, is called once with the returned slice.
func (r *Registry) Query(opts Options) []Stats {
	list := r.Snapshot()

	if opts.filtering() || len(opts.Names) > 0 {
		list = slices.DeleteFunc(list, func(s Stats) bool {
			if opts.filtering() && !opts.accepts(s) {
				return true
			}

			return !opts.matchesName(s.Name)
		})
	}

	if opts.Sorter != nil {
		slices.SortStableFunc(list, opts.Sorter)
	}

	if opts.Reporter != nil {
		opts.Reporter(list)
	}

	return list
}

// QuerySorted returns every profile ordered by cmp.
func (r *Registry) QuerySorted(sorter Comparator) []Stats {
	return r.Query(Options{Sorter: sorter})
}

// ValidatePatterns checks that every name glob is well formed.
func ValidatePatterns(patterns []string) error {
	var bad []string

	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			bad = append(bad, p)
		}
	}

	if len(bad) > 0 {
		return errors.Wrapf(ErrInvalidPattern, "%s", strings.Join(bad, ", "))
	}

	return nil
}

// ByCalls orders by call count.
func ByCalls(a, b Stats) int { return cmp.Compare(a.Calls, b.Calls) }

// ByElapsed orders by cumulative elapsed time.
func ByElapsed(a, b Stats) int { return cmp.Compare(a.Elapsed, b.Elapsed) }

// ByAverage orders by average elapsed time.
func ByAverage(a, b Stats) int { return cmp.Compare(a.Average, b.Average) }

// BySelf orders by cumulative self time.
func BySelf(a, b Stats) int { return cmp.Compare(a.Self, b.Self) }

// BySelfAverage orders by average self time.
func BySelfAverage(a, b Stats) int { return cmp.Compare(a.SelfAverage, b.SelfAverage) }

// ByIndex orders by registry index.
func ByIndex(a, b Stats) int { return cmp.Compare(a.Index, b.Index) }

// ByName orders by name, case sensitive.
func ByName(a, b Stats) int { return strings.Compare(a.Name, b.Name) }

// Reverse inverts c.
func Reverse(c Comparator) Comparator {
	return func(a, b Stats) int { return c(b, a) }
}
