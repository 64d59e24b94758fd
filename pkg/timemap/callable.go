package timemap

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrNotInvokable is returned by Instance.Call when the named member cannot be
// invoked.
var ErrNotInvokable = errors.New("member is not invokable")

// Invoker is a callable used for its return value.
type Invoker interface {
	Invoke(ctx context.Context, args ...any) (any, error)
}

// Constructor is a callable used to build a new structured value.
type Constructor interface {
	Construct(ctx context.Context, args ...any) (any, error)
}

// Templater exposes the template shared by every value a Constructor builds.
// Instrumenting a Templater forwards the same template.
type Templater interface {
	Template() Container
}

// Named is implemented by callables that know their own display name. Wrap
// uses it when no name is given.
type Named interface {
	Name() string
}

// InvokeFunc adapts a function to Invoker. Function values have no identity,
// so Wrap passes them through untouched; use NewFunc to get a wrappable value.
type InvokeFunc func(ctx context.Context, args ...any) (any, error)

// Invoke calls f.
func (f InvokeFunc) Invoke(ctx context.Context, args ...any) (any, error) {
	return f(ctx, args...)
}

// Func is an Invoker with pointer identity.
type Func struct {
	name string
	fn   InvokeFunc
}

// NewFunc returns a Func calling fn. Its name is derived from fn.
func NewFunc(fn InvokeFunc) *Func {
	return &Func{name: FunctionName(fn), fn: fn}
}

// NewNamedFunc returns a Func calling fn under the given name.
func NewNamedFunc(name string, fn InvokeFunc) *Func {
	return &Func{name: name, fn: fn}
}

// Name returns the function name, or "" for anonymous functions.
func (f *Func) Name() string { return f.name }

// Invoke calls the underlying function.
func (f *Func) Invoke(ctx context.Context, args ...any) (any, error) {
	return f.fn(ctx, args...)
}

// ConstructFunc initializes self from args. A non-nil result replaces self as
// the constructed value.
type ConstructFunc func(ctx context.Context, self *Instance, args ...any) (any, error)

// Type is a Constructor whose instances share a template of members.
type Type struct {
	name     string
	init     ConstructFunc
	template Container
}

// NewType returns a Type running init on every construction. template may be
// nil when instances have no shared members.
func NewType(name string, init ConstructFunc, template Container) *Type {
	return &Type{name: name, init: init, template: template}
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Template returns the shared members of the type's instances.
func (t *Type) Template() Container { return t.template }

// Construct creates an instance and runs the initializer on it.
func (t *Type) Construct(ctx context.Context, args ...any) (any, error) {
	self := &Instance{typ: t, fields: NewObject()}

	if t.init == nil {
		return self, nil
	}

	result, err := t.init(ctx, self, args...)
	if err != nil {
		return nil, err
	}

	if result != nil {
		return result, nil
	}

	return self, nil
}

// Instance is a value built by a Type. Member lookups fall back to the type's
// template when the instance has no own field with that key.
type Instance struct {
	typ    *Type
	fields *Object
}

// Type returns the type that built the instance.
func (i *Instance) Type() *Type { return i.typ }

// Keys returns the own field keys in insertion order.
func (i *Instance) Keys() []string { return i.fields.Keys() }

// Get returns the own field for key, or the template member of that name.
func (i *Instance) Get(key string) any {
	if v := i.fields.Get(key); v != nil {
		return v
	}

	if i.typ != nil && i.typ.template != nil {
		return i.typ.template.Get(key)
	}

	return nil
}

// Set stores an own field.
func (i *Instance) Set(key string, value any) {
	i.fields.Set(key, value)
}

// Call invokes the member named method with the instance as first argument.
func (i *Instance) Call(ctx context.Context, method string, args ...any) (any, error) {
	inv, ok := i.Get(method).(Invoker)
	if !ok {
		return nil, errors.Wrapf(ErrNotInvokable, "calling %q", method)
	}

	return inv.Invoke(ctx, append([]any{i}, args...)...)
}
