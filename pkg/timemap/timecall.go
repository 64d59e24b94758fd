package timemap

import "context"

// TimeCall runs fn and passes its elapsed milliseconds to report, also when fn
// fails or panics. A nil report logs the elapsed time at info level. fn's error
// is returned unchanged.
func (r *Registry) TimeCall(
	ctx context.Context,
	fn func(ctx context.Context) error,
	report func(elapsed float64),
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	start := r.clock.Now()

	defer func() {
		elapsed := max(r.clock.Now()-start, 0)

		if report != nil {
			report(elapsed)

			return
		}

		r.logger.Info("timed call", "elapsed_ms", elapsed)
	}()

	return fn(ctx)
}

// Hooks intercept the invocations of a delegated Invoker.
type Hooks struct {
	// Before runs ahead of every invocation.
	Before func(ctx context.Context, args []any)

	// After runs once the invocation finished. On success its return value
	// replaces the result. On failure it receives a nil result and the error,
	// and its return value is ignored.
	After func(ctx context.Context, result any, args []any, err error) any
}

// Delegation is an Invoker running Hooks around another Invoker.
type Delegation struct {
	target Invoker
	hooks  Hooks
}

// Delegate returns an Invoker calling original between the given hooks. The
// result has pointer identity and can be wrapped by a Registry.
func Delegate(original Invoker, hooks Hooks) *Delegation {
	return &Delegation{target: original, hooks: hooks}
}

// Invoke runs Before, the delegated Invoker, then After.
func (d *Delegation) Invoke(ctx context.Context, args ...any) (any, error) {
	if d.hooks.Before != nil {
		d.hooks.Before(ctx, args)
	}

	result, err := d.target.Invoke(ctx, args...)

	if d.hooks.After == nil {
		return result, err
	}

	if err != nil {
		d.hooks.After(ctx, nil, args, err)

		return nil, err
	}

	return d.hooks.After(ctx, result, args, nil), nil
}

// Name returns the delegated Invoker's name, if it has one.
func (d *Delegation) Name() string {
	return nameOf(d.target)
}
