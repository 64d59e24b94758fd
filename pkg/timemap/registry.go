package timemap

import (
	"fmt"
	"sync"

	"github.com/smykla-skalski/timemap/pkg/clock"
	"github.com/smykla-skalski/timemap/pkg/logger"
)

// Registry owns the profiles of every callable it instrumented, in creation
// order.
type Registry struct {
	clock  clock.Clock
	logger logger.Logger

	mu         sync.RWMutex
	profiles   []*Profile
	byOriginal map[any]*Profile
	byWrapped  map[any]*Profile
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the clock used to time invocations.
func WithClock(c clock.Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty Registry using clock.Default unless WithClock is given.
func New(opts ...Option) *Registry {
	r := &Registry{
		clock:      clock.Default(),
		logger:     logger.NewNoOpLogger(),
		byOriginal: make(map[any]*Profile),
		byWrapped:  make(map[any]*Profile),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Clock returns the clock timing invocations.
//
//nolint:ireturn // the configured clock is an interface by design of the option
func (r *Registry) Clock() clock.Clock {
	return r.clock
}

// MakeProfile appends a profile with zero counters that is not bound to any
// callable.
func (r *Registry) MakeProfile(name string) *Profile {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.appendLocked(name, nil)
}

func (r *Registry) appendLocked(name string, original any) *Profile {
	p := &Profile{
		index:    len(r.profiles),
		name:     name,
		original: original,
	}

	r.profiles = append(r.profiles, p)

	return p
}

// Wrap returns an instrumented version of original named name.
//
// Values that are neither Invoker nor Constructor, nil values and values
// without identity are returned unchanged. Wrapping a value this registry
// already instrumented returns it unchanged, and wrapping the same original
// twice returns the first instrumented value; the second name is ignored.
// An empty name falls back to the original's own name.
//
// Originals are keyed by Go equality: pointers by address, comparable
// value types by value. Two distinct but equal struct values therefore
// share one Profile, and wrapping the second returns the first's
// instrumented value. Use pointer types for callables that must be
// profiled separately.
func (r *Registry) Wrap(original any, name string) any {
	if !isCallable(original) || !hasIdentity(original) {
		r.logger.Debug("skipping value",
			"name", name,
			"type", fmt.Sprintf("%T", original),
		)

		return original
	}

	if name == "" {
		name = nameOf(original)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byWrapped[original]; ok {
		return original
	}

	if p, ok := r.byOriginal[original]; ok {
		return p.instrumented
	}

	p := r.appendLocked(name, original)
	p.instrumented = newInstrumented(&instrumentation{
		registry: r,
		profile:  p,
		original: original,
	})

	r.byOriginal[original] = p
	r.byWrapped[p.instrumented] = p

	r.logger.Debug("instrumented", "name", name, "index", p.index)

	return p.instrumented
}

// WrapOnce matches Wrap, for callers ported from wrapFunctionOnce.
func (r *Registry) WrapOnce(original any, name string) any {
	return r.Wrap(original, name)
}

// WrapInvoker wraps an Invoker and keeps the static type.
//
//nolint:ireturn // mirrors the capability of the argument
func (r *Registry) WrapInvoker(original Invoker, name string) Invoker {
	if w, ok := r.Wrap(original, name).(Invoker); ok {
		return w
	}

	return original
}

// WrapConstructor wraps a Constructor and keeps the static type.
//
//nolint:ireturn // mirrors the capability of the argument
func (r *Registry) WrapConstructor(original Constructor, name string) Constructor {
	if w, ok := r.Wrap(original, name).(Constructor); ok {
		return w
	}

	return original
}

// IsProfiled returns the profile of v, which may be either an original
// callable or the instrumented value produced for it.
func (r *Registry) IsProfiled(v any) (*Profile, bool) {
	if !hasIdentity(v) {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.byOriginal[v]; ok {
		return p, true
	}

	p, ok := r.byWrapped[v]

	return p, ok
}

// FindByName returns every profile called name in registry order.
func (r *Registry) FindByName(name string) []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Profile, 0)

	for _, p := range r.profiles {
		if p.name == name {
			result = append(result, p)
		}
	}

	return result
}

// Profiles returns all profiles in registry order.
func (r *Registry) Profiles() []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Profile, len(r.profiles))
	copy(out, r.profiles)

	return out
}

// Len returns the number of profiles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.profiles)
}

// Snapshot returns the stats of every profile in registry order.
func (r *Registry) Snapshot() []Stats {
	profiles := r.Profiles()
	out := make([]Stats, len(profiles))

	for i, p := range profiles {
		out[i] = p.Stats()
	}

	return out
}

// Reset zeroes the counters of every profile. Profiles, names and indexes are
// kept.
func (r *Registry) Reset() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		p.reset()
	}

	r.logger.Info("profiles reset", "count", len(r.profiles))
}
