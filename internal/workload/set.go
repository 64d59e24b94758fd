// Package workload provides built-in instrumented workloads used to exercise
// the registry from the CLI and the HTTP server.
package workload

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/timemap/pkg/config"
	"github.com/smykla-skalski/timemap/pkg/logger"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

var (
	// ErrFlaky is returned by every call of the flaky workload.
	ErrFlaky = errors.New("flaky workload failed")

	// ErrBadArgument is returned when a workload receives an unexpected argument.
	ErrBadArgument = errors.New("bad workload argument")
)

// Set is the instrumented demo workload bound to a registry.
//
// Members are looked up through the root container on every call, so
// recursive workloads go through the instrumented values and nested time is
// attributed to the caller.
type Set struct {
	root   *timemap.Object
	math   *timemap.Object
	depth  int
	sleep  time.Duration
	logger logger.Logger
}

// NewSet creates the workload members and binds them to reg.
func NewSet(reg *timemap.Registry, cfg *config.WorkloadConfig, log logger.Logger) *Set {
	if cfg == nil {
		cfg = &config.WorkloadConfig{}
	}

	if log == nil {
		log = logger.NewNoOpLogger()
	}

	s := &Set{
		root:   timemap.NewObject(),
		math:   timemap.NewObject(),
		depth:  cfg.Depth,
		sleep:  cfg.Sleep.ToDuration(),
		logger: log,
	}

	s.math.Set("fib", timemap.NewNamedFunc("fib", s.fib))
	s.math.Set("even", timemap.NewNamedFunc("even", s.even))
	s.math.Set("odd", timemap.NewNamedFunc("odd", s.odd))

	s.root.Set("math", s.math)
	s.root.Set("outer", timemap.NewNamedFunc("outer", s.outer))
	s.root.Set("inner", timemap.NewNamedFunc("inner", s.inner))
	s.root.Set("flaky", timemap.NewNamedFunc("flaky", flaky))
	s.root.Set("Widget", newWidgetType())

	reg.BindAll(s.root, "")

	return s
}

// Root returns the container holding the bound members.
func (s *Set) Root() timemap.Container {
	return s.root
}

// Round runs every workload once. The flaky failure is expected and only
// logged; any other error aborts the round.
func (s *Set) Round(ctx context.Context) error {
	if _, err := s.call(ctx, s.math, "fib", s.depth); err != nil {
		return err
	}

	if _, err := s.call(ctx, s.math, "even", s.depth); err != nil {
		return err
	}

	if _, err := s.call(ctx, s.root, "outer"); err != nil {
		return err
	}

	if err := s.widgets(ctx); err != nil {
		return err
	}

	if _, err := s.call(ctx, s.root, "flaky"); err != nil {
		if !errors.Is(err, ErrFlaky) {
			return err
		}

		s.logger.Debug("flaky workload failed as expected")
	}

	return nil
}

func (s *Set) widgets(ctx context.Context) error {
	ctor, ok := s.root.Get("Widget").(timemap.Constructor)
	if !ok {
		return errors.Wrap(timemap.ErrNotInvokable, "Widget")
	}

	v, err := ctor.Construct(ctx, 4, 3)
	if err != nil {
		return err
	}

	w, ok := v.(*timemap.Instance)
	if !ok {
		return errors.Wrapf(ErrBadArgument, "Widget constructed %T", v)
	}

	if _, err := w.Call(ctx, "resize", 2); err != nil {
		return err
	}

	_, err = w.Call(ctx, "describe")

	return err
}

func (s *Set) call(ctx context.Context, c timemap.Container, member string, args ...any) (any, error) {
	inv, ok := c.Get(member).(timemap.Invoker)
	if !ok {
		return nil, errors.Wrapf(timemap.ErrNotInvokable, "calling %q", member)
	}

	return inv.Invoke(ctx, args...)
}

func (s *Set) fib(ctx context.Context, args ...any) (any, error) {
	n, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}

	if n < 2 {
		return n, nil
	}

	a, err := s.call(ctx, s.math, "fib", n-1)
	if err != nil {
		return nil, err
	}

	b, err := s.call(ctx, s.math, "fib", n-2)
	if err != nil {
		return nil, err
	}

	return a.(int) + b.(int), nil
}

func (s *Set) even(ctx context.Context, args ...any) (any, error) {
	n, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return true, nil
	}

	return s.call(ctx, s.math, "odd", n-1)
}

func (s *Set) odd(ctx context.Context, args ...any) (any, error) {
	n, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return false, nil
	}

	return s.call(ctx, s.math, "even", n-1)
}

func (s *Set) outer(ctx context.Context, _ ...any) (any, error) {
	if err := sleep(ctx, s.sleep); err != nil {
		return nil, err
	}

	for range 2 {
		if _, err := s.call(ctx, s.root, "inner"); err != nil {
			return nil, err
		}
	}

	return nil, nil
}

func (s *Set) inner(ctx context.Context, _ ...any) (any, error) {
	return nil, sleep(ctx, s.sleep)
}

func flaky(context.Context, ...any) (any, error) {
	return nil, ErrFlaky
}

func newWidgetType() *timemap.Type {
	template := timemap.NewObject()

	template.Set("describe", timemap.NewNamedFunc("describe", func(_ context.Context, args ...any) (any, error) {
		self, err := instanceArg(args)
		if err != nil {
			return nil, err
		}

		return fmt.Sprintf("widget %vx%v", self.Get("width"), self.Get("height")), nil
	}))

	template.Set("resize", timemap.NewNamedFunc("resize", func(_ context.Context, args ...any) (any, error) {
		self, err := instanceArg(args)
		if err != nil {
			return nil, err
		}

		factor, err := intArg(args, 1)
		if err != nil {
			return nil, err
		}

		width, _ := self.Get("width").(int)
		height, _ := self.Get("height").(int)
		self.Set("width", width*factor)
		self.Set("height", height*factor)

		return self, nil
	}))

	return timemap.NewType("Widget", func(_ context.Context, self *timemap.Instance, args ...any) (any, error) {
		width, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}

		height, err := intArg(args, 1)
		if err != nil {
			return nil, err
		}

		self.Set("width", width)
		self.Set("height", height)

		return nil, nil
	}, template)
}

func intArg(args []any, i int) (int, error) {
	if i >= len(args) {
		return 0, errors.Wrapf(ErrBadArgument, "missing argument %d", i)
	}

	n, ok := args[i].(int)
	if !ok {
		return 0, errors.Wrapf(ErrBadArgument, "argument %d is %T, want int", i, args[i])
	}

	return n, nil
}

func instanceArg(args []any) (*timemap.Instance, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(ErrBadArgument, "missing receiver")
	}

	self, ok := args[0].(*timemap.Instance)
	if !ok {
		return nil, errors.Wrapf(ErrBadArgument, "receiver is %T", args[0])
	}

	return self, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
