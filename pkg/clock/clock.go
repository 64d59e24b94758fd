// Package clock provides the millisecond timestamps used to measure calls.
//
// The source is chosen once when a Clock is created, preferring the runtime's
// monotonic reading, then a raw CLOCK_MONOTONIC read normalized against a
// reference second, then wall-clock time at millisecond granularity.
package clock

//go:generate mockgen -source=clock.go -destination=clock_mock.go -package=clock
//go:generate enumer -type=Source -trimprefix=Source -transform=snake -json -text -yaml
//go:generate go run github.com/smykla-skalski/timemap/tools/enumerfix source_enumer.go

import (
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrSourceUnavailable is returned when a requested source cannot be used on this host.
var ErrSourceUnavailable = errors.New("clock source unavailable")

// Source identifies where a Clock reads its timestamps from.
type Source int

const (
	// SourceMonotonic reads the Go runtime's monotonic clock.
	SourceMonotonic Source = iota

	// SourceHRTime reads CLOCK_MONOTONIC directly, relative to a reference second.
	SourceHRTime

	// SourceWall reads wall-clock time in whole milliseconds.
	SourceWall
)

// Clock supplies timestamps in milliseconds. The difference between two
// readings taken in order is the elapsed time between them.
type Clock interface {
	// Now returns the current timestamp in milliseconds.
	Now() float64
}

// Sourced is implemented by clocks that know which Source backs them.
type Sourced interface {
	Source() Source
}

// Func adapts a plain function to the Clock interface.
type Func func() float64

// Now calls f.
func (f Func) Now() float64 {
	return f()
}

var defaultClock = sync.OnceValue(func() Clock { return New() })

// Default returns the process-wide clock. It is created on first use and its
// source never changes afterwards.
//
//nolint:ireturn // callers only need the interface
func Default() Clock {
	return defaultClock()
}

// New probes the host and returns a clock backed by the best available source.
//
//nolint:ireturn // concrete type depends on the probed source
func New() Clock {
	for _, src := range SourceValues() {
		if c, err := NewWithSource(src); err == nil {
			return c
		}
	}

	return newWallClock()
}

// NewWithSource returns a clock backed by src, or ErrSourceUnavailable.
//
//nolint:ireturn // concrete type depends on src
func NewWithSource(src Source) (Clock, error) {
	switch src {
	case SourceMonotonic:
		if !hasMonotonicReading(time.Now()) {
			return nil, errors.Wrapf(ErrSourceUnavailable, "%s", src)
		}

		return &monotonicClock{base: time.Now()}, nil

	case SourceHRTime:
		c, err := newHRTimeClock()
		if err != nil {
			return nil, errors.Wrapf(ErrSourceUnavailable, "%s: %v", src, err)
		}

		return c, nil

	case SourceWall:
		return newWallClock(), nil

	default:
		return nil, errors.Wrapf(ErrSourceUnavailable, "unknown source %d", int(src))
	}
}

// ToDuration converts a millisecond reading to a time.Duration.
func ToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// hasMonotonicReading reports whether t carries a monotonic clock reading.
// time.Time.String appends "m=±<value>" only when one is present.
func hasMonotonicReading(t time.Time) bool {
	return strings.Contains(t.String(), " m=")
}

type monotonicClock struct {
	base time.Time
}

func (c *monotonicClock) Now() float64 {
	return float64(time.Since(c.base)) / float64(time.Millisecond)
}

func (*monotonicClock) Source() Source {
	return SourceMonotonic
}

type wallClock struct{}

func newWallClock() *wallClock {
	return &wallClock{}
}

func (*wallClock) Now() float64 {
	return float64(time.Now().UnixMilli())
}

func (*wallClock) Source() Source {
	return SourceWall
}
