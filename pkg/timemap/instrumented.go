package timemap

import (
	"context"
	"reflect"
)

// Instrumented is implemented by every value returned from Wrap for a
// callable.
type Instrumented interface {
	// Profile returns the profile updated by the value's invocations.
	Profile() *Profile

	// Unwrap returns the original callable.
	Unwrap() any
}

type instrumentation struct {
	registry *Registry
	profile  *Profile
	original any
}

func (in *instrumentation) Profile() *Profile { return in.profile }

func (in *instrumentation) Unwrap() any { return in.original }

// measure runs call with a fresh exclusion frame and accounts the invocation
// once call returns or panics.
func (in *instrumentation) measure(
	ctx context.Context,
	call func(ctx context.Context) (any, error),
) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	parent := currentFrame(ctx)
	inner, own := pushFrame(ctx, parent)
	start := in.registry.clock.Now()

	defer func() {
		elapsed := max(in.registry.clock.Now()-start, 0)

		in.profile.record(elapsed, own.total())
		parent.add(elapsed)
	}()

	return call(inner)
}

type invokeHook struct {
	in     *instrumentation
	target Invoker
}

func (h invokeHook) Invoke(ctx context.Context, args ...any) (any, error) {
	return h.in.measure(ctx, func(ctx context.Context) (any, error) {
		return h.target.Invoke(ctx, args...)
	})
}

type constructHook struct {
	in     *instrumentation
	target Constructor
}

func (h constructHook) Construct(ctx context.Context, args ...any) (any, error) {
	return h.in.measure(ctx, func(ctx context.Context) (any, error) {
		return h.target.Construct(ctx, args...)
	})
}

type templateHook struct {
	target Templater
}

func (h templateHook) Template() Container { return h.target.Template() }

// One type per capability set, so a wrapped value satisfies exactly the
// interfaces its original does.

type instrumentedInvoker struct {
	*instrumentation
	invokeHook
}

type instrumentedConstructor struct {
	*instrumentation
	constructHook
}

type instrumentedInvokerConstructor struct {
	*instrumentation
	invokeHook
	constructHook
}

type instrumentedTemplatedInvoker struct {
	*instrumentation
	invokeHook
	templateHook
}

type instrumentedTemplatedConstructor struct {
	*instrumentation
	constructHook
	templateHook
}

type instrumentedTemplatedInvokerConstructor struct {
	*instrumentation
	invokeHook
	constructHook
	templateHook
}

func newInstrumented(in *instrumentation) any {
	inv, isInvoker := in.original.(Invoker)
	con, isConstructor := in.original.(Constructor)
	tpl, isTemplater := in.original.(Templater)

	ih := invokeHook{in: in, target: inv}
	ch := constructHook{in: in, target: con}
	th := templateHook{target: tpl}

	switch {
	case isInvoker && isConstructor && isTemplater:
		return &instrumentedTemplatedInvokerConstructor{in, ih, ch, th}
	case isInvoker && isConstructor:
		return &instrumentedInvokerConstructor{in, ih, ch}
	case isInvoker && isTemplater:
		return &instrumentedTemplatedInvoker{in, ih, th}
	case isConstructor && isTemplater:
		return &instrumentedTemplatedConstructor{in, ch, th}
	case isInvoker:
		return &instrumentedInvoker{in, ih}
	default:
		return &instrumentedConstructor{in, ch}
	}
}

// isCallable reports whether v can be invoked or constructed with.
func isCallable(v any) bool {
	if isNil(v) {
		return false
	}

	_, isInvoker := v.(Invoker)
	_, isConstructor := v.(Constructor)

	return isInvoker || isConstructor
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// hasIdentity reports whether v can be used as a map key. Function values,
// and structs holding them, cannot, so they are never registered.
func hasIdentity(v any) (ok bool) {
	if v == nil || !reflect.TypeOf(v).Comparable() {
		return false
	}

	// Comparable types with interface fields still panic on incomparable
	// dynamic values.
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	_ = map[any]struct{}{v: {}}

	return true
}
