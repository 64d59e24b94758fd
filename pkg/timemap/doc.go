// Package timemap instruments callables and records how often they run and
// how long they take.
//
// A Registry wraps values implementing Invoker and/or Constructor. Every
// invocation of a wrapped value updates its Profile: the call count, the
// cumulative elapsed time and the exclusive ("self") time, which is the
// elapsed time minus the time spent in other instrumented calls made during
// the invocation. Nesting is tracked through an exclusion stack carried in the
// context.Context passed to each call, so concurrent call chains never share
// accumulators.
//
// Profiles are read through Query, which filters, sorts and optionally
// reports a consistent snapshot of every profile.
package timemap
