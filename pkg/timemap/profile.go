package timemap

import (
	"sync"
	"time"

	"github.com/smykla-skalski/timemap/pkg/clock"
)

// Profile holds the statistics of one instrumented callable. Profiles are
// owned by the Registry that created them; wrapped values only keep a
// reference for updating counters.
type Profile struct {
	index        int
	name         string
	original     any
	instrumented any

	mu          sync.RWMutex
	calls       int64
	elapsed     float64
	self        float64
	average     float64
	selfAverage float64
}

// Stats is a consistent point-in-time copy of a Profile. Times are in
// milliseconds.
type Stats struct {
	Index       int     `json:"index" yaml:"index"`
	Name        string  `json:"name" yaml:"name"`
	Calls       int64   `json:"calls" yaml:"calls"`
	Elapsed     float64 `json:"elapsed" yaml:"elapsed"`
	Average     float64 `json:"average" yaml:"average"`
	Self        float64 `json:"self" yaml:"self"`
	SelfAverage float64 `json:"self_average" yaml:"self_average"`
}

// ElapsedDuration returns Elapsed as a time.Duration.
func (s Stats) ElapsedDuration() time.Duration {
	return clock.ToDuration(s.Elapsed)
}

// SelfDuration returns Self as a time.Duration.
func (s Stats) SelfDuration() time.Duration {
	return clock.ToDuration(s.Self)
}

// Index returns the assignment order of the profile within its registry.
func (p *Profile) Index() int { return p.index }

// Name returns the display name given when the profile was created.
func (p *Profile) Name() string { return p.name }

// Original returns the unwrapped callable, or nil for profiles made with
// MakeProfile.
func (p *Profile) Original() any { return p.original }

// Instrumented returns the wrapped value handed out by Wrap.
func (p *Profile) Instrumented() any { return p.instrumented }

// Calls returns the number of completed invocations.
func (p *Profile) Calls() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.calls
}

// Elapsed returns the cumulative elapsed milliseconds.
func (p *Profile) Elapsed() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.elapsed
}

// Self returns the cumulative exclusive milliseconds.
func (p *Profile) Self() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.self
}

// Average returns Elapsed divided by Calls, or 0 before the first call.
func (p *Profile) Average() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.average
}

// SelfAverage returns Self divided by Calls, or 0 before the first call.
func (p *Profile) SelfAverage() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.selfAverage
}

// Stats returns a snapshot of all counters taken under one lock.
func (p *Profile) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return Stats{
		Index:       p.index,
		Name:        p.name,
		Calls:       p.calls,
		Elapsed:     p.elapsed,
		Average:     p.average,
		Self:        p.self,
		SelfAverage: p.selfAverage,
	}
}

// record accounts one finished invocation. nested is the time spent in
// instrumented calls made during it and is clamped to elapsed.
func (p *Profile) record(elapsed, nested float64) {
	nested = min(max(nested, 0), elapsed)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	p.elapsed += elapsed
	p.self += elapsed - nested
	p.average = p.elapsed / float64(p.calls)
	p.selfAverage = p.self / float64(p.calls)
}

func (p *Profile) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = 0
	p.elapsed = 0
	p.self = 0
	p.average = 0
	p.selfAverage = 0
}
