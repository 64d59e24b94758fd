package timemap_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/timemap/pkg/timemap"
)

var _ = Describe("Wrap", func() {
	var (
		clk *manualClock
		reg *timemap.Registry
	)

	BeforeEach(func() {
		clk = &manualClock{}
		reg = timemap.New(timemap.WithClock(clk))
	})

	Describe("identity", func() {
		It("should return the same instrumented value for the same original", func() {
			fn := spend(clk, 1, nil)

			first := reg.Wrap(fn, "first")
			second := reg.Wrap(fn, "second")

			Expect(second).To(BeIdenticalTo(first))
			Expect(reg.Len()).To(Equal(1))

			p, ok := reg.IsProfiled(fn)
			Expect(ok).To(BeTrue())
			Expect(p.Name()).To(Equal("first"))
			Expect(p.Original()).To(BeIdenticalTo(fn))
			Expect(p.Instrumented()).To(BeIdenticalTo(first))
		})

		It("should not wrap an instrumented value again", func() {
			wrapped := reg.Wrap(spend(clk, 1, nil), "fn")

			Expect(reg.Wrap(wrapped, "again")).To(BeIdenticalTo(wrapped))
			Expect(reg.Len()).To(Equal(1))
		})

		It("should treat WrapOnce like Wrap", func() {
			fn := spend(clk, 1, nil)

			Expect(reg.WrapOnce(fn, "a")).To(BeIdenticalTo(reg.Wrap(fn, "b")))
			Expect(reg.Len()).To(Equal(1))
		})

		It("should share one profile between equal value-type originals", func() {
			first := reg.Wrap(tag{id: 1}, "first")

			Expect(reg.Wrap(tag{id: 1}, "second")).To(BeIdenticalTo(first))
			Expect(reg.Wrap(tag{id: 2}, "third")).NotTo(BeIdenticalTo(first))
			Expect(reg.Len()).To(Equal(2))
		})

		It("should find profiles by instrumented value", func() {
			wrapped := reg.Wrap(spend(clk, 1, nil), "fn")

			p, ok := reg.IsProfiled(wrapped)
			Expect(ok).To(BeTrue())
			Expect(p.Name()).To(Equal("fn"))
			Expect(wrapped.(timemap.Instrumented).Profile()).To(BeIdenticalTo(p))
		})

		It("should report unknown values as not profiled", func() {
			_, ok := reg.IsProfiled(spend(clk, 1, nil))
			Expect(ok).To(BeFalse())

			_, ok = reg.IsProfiled(timemap.InvokeFunc(namedHelper))
			Expect(ok).To(BeFalse())
		})

		It("should keep separate profiles in separate registries", func() {
			fn := spend(clk, 1, nil)
			other := timemap.New(timemap.WithClock(clk))

			Expect(reg.Wrap(fn, "a")).NotTo(BeIdenticalTo(other.Wrap(fn, "a")))
		})
	})

	DescribeTable("passes non-instrumentable values through",
		func(v any) {
			Expect(reg.Wrap(v, "value")).To(BeIdenticalTo(v))
			Expect(reg.Len()).To(BeZero())
		},
		Entry("string", "not callable"),
		Entry("number", 42),
		Entry("container", timemap.NewObject()),
		Entry("typed nil Func", (*timemap.Func)(nil)),
	)

	It("should pass nil through", func() {
		Expect(reg.Wrap(nil, "nil")).To(BeNil())
		Expect(reg.Len()).To(BeZero())
	})

	It("should pass through function values without identity", func() {
		fn := timemap.InvokeFunc(namedHelper)

		out := reg.Wrap(fn, "fn")
		_, instrumented := out.(timemap.Instrumented)
		Expect(instrumented).To(BeFalse())
		Expect(reg.Len()).To(BeZero())
	})

	It("should pass through values that panic when compared", func() {
		out := reg.Wrap(funcHolder{inner: namedHelper}, "holder")

		Expect(out).To(BeAssignableToTypeOf(funcHolder{}))
		Expect(reg.Len()).To(BeZero())
	})

	Describe("capabilities", func() {
		It("should keep a plain function plain", func() {
			wrapped := reg.Wrap(spend(clk, 1, "ok"), "fn")

			_, isInvoker := wrapped.(timemap.Invoker)
			Expect(isInvoker).To(BeTrue())
			_, isConstructor := wrapped.(timemap.Constructor)
			_, isTemplater := wrapped.(timemap.Templater)
			Expect(isConstructor).To(BeFalse())
			Expect(isTemplater).To(BeFalse())
		})

		It("should keep a type constructible with the same template", func() {
			tpl := timemap.NewObject()
			typ := timemap.NewType("Widget", nil, tpl)

			wrapped := reg.Wrap(typ, "Widget")

			_, isInvoker := wrapped.(timemap.Invoker)
			Expect(isInvoker).To(BeFalse())
			Expect(wrapped.(timemap.Templater).Template()).To(BeIdenticalTo(tpl))
			Expect(wrapped.(timemap.Instrumented).Unwrap()).To(BeIdenticalTo(typ))
		})

		It("should support values that are both invokers and constructors", func() {
			wrapped := reg.Wrap(&dual{}, "dual")

			res, err := wrapped.(timemap.Invoker).Invoke(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal("invoked"))

			res, err = wrapped.(timemap.Constructor).Construct(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal("constructed"))

			p, _ := reg.IsProfiled(wrapped)
			Expect(p.Calls()).To(Equal(int64(2)))
		})

		It("should keep static types through the typed helpers", func() {
			var inv timemap.Invoker = spend(clk, 1, nil)
			var con timemap.Constructor = timemap.NewType("T", nil, nil)

			_, ok := reg.WrapInvoker(inv, "inv").(timemap.Instrumented)
			Expect(ok).To(BeTrue())

			_, ok = reg.WrapConstructor(con, "con").(timemap.Instrumented)
			Expect(ok).To(BeTrue())

			_, ok = reg.WrapInvoker(timemap.InvokeFunc(namedHelper), "fn").(timemap.Instrumented)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("naming", func() {
		It("should fall back to the callable's own name", func() {
			reg.Wrap(timemap.NewFunc(namedHelper), "")
			reg.Wrap(timemap.NewType("Widget", nil, nil), "")

			Expect(reg.FindByName("namedHelper")).To(HaveLen(1))
			Expect(reg.FindByName("Widget")).To(HaveLen(1))
		})
	})

	Describe("invocation", func() {
		It("should count every call", func() {
			wrapped := reg.Wrap(spend(clk, 1, nil), "fn")

			for range 5 {
				_, err := invoke(wrapped)
				Expect(err).NotTo(HaveOccurred())
			}

			p, _ := reg.IsProfiled(wrapped)
			Expect(p.Calls()).To(Equal(int64(5)))
			Expect(p.Elapsed()).To(Equal(5.0))
			Expect(p.Average()).To(Equal(1.0))
		})

		It("should forward arguments and results", func() {
			echo := timemap.NewFunc(func(_ context.Context, args ...any) (any, error) {
				return args, nil
			})

			res, err := invoke(reg.Wrap(echo, "echo"), 1, "two")
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal([]any{1, "two"}))
		})

		It("should account failing calls and return the error unchanged", func() {
			boom := errors.New("boom")
			failing := timemap.NewFunc(func(context.Context, ...any) (any, error) {
				clk.Advance(4)

				return nil, boom
			})

			wrapped := reg.Wrap(failing, "failing")

			for range 3 {
				_, err := invoke(wrapped)
				Expect(err).To(BeIdenticalTo(boom))
			}

			p, _ := reg.IsProfiled(wrapped)
			Expect(p.Stats()).To(Equal(timemap.Stats{
				Index: 0, Name: "failing", Calls: 3,
				Elapsed: 12, Average: 4, Self: 12, SelfAverage: 4,
			}))
		})

		It("should account panicking calls and keep panicking", func() {
			panicking := timemap.NewFunc(func(context.Context, ...any) (any, error) {
				clk.Advance(2)
				panic("kaboom")
			})

			wrapped := reg.Wrap(panicking, "panicking")

			Expect(func() { _, _ = invoke(wrapped) }).To(PanicWith("kaboom"))

			p, _ := reg.IsProfiled(wrapped)
			Expect(p.Calls()).To(Equal(int64(1)))
			Expect(p.Elapsed()).To(Equal(2.0))
		})

		It("should mix successes and failures in the call count", func() {
			n := 0
			flaky := timemap.NewFunc(func(context.Context, ...any) (any, error) {
				n++
				if n%2 == 0 {
					return nil, errors.New("even")
				}

				return n, nil
			})

			wrapped := reg.Wrap(flaky, "flaky")
			for range 7 {
				_, _ = invoke(wrapped)
			}

			p, _ := reg.IsProfiled(wrapped)
			Expect(p.Calls()).To(Equal(int64(7)))
		})

		It("should accept a nil context", func() {
			wrapped := reg.Wrap(spend(clk, 1, "ok"), "fn").(timemap.Invoker)

			//nolint:staticcheck // nil context is tolerated
			res, err := wrapped.Invoke(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal("ok"))
		})
	})

	Describe("construction", func() {
		var tpl *timemap.Object

		BeforeEach(func() {
			tpl = timemap.NewObject()
			tpl.Set("kind", "widget")
		})

		It("should build instances sharing the template", func() {
			typ := timemap.NewType("Widget", func(_ context.Context, self *timemap.Instance, args ...any) (any, error) {
				clk.Advance(3)
				self.Set("size", args[0])

				return nil, nil
			}, tpl)

			wrapped := reg.Wrap(typ, "Widget").(timemap.Constructor)

			v, err := wrapped.Construct(context.Background(), 7)
			Expect(err).NotTo(HaveOccurred())

			inst, ok := v.(*timemap.Instance)
			Expect(ok).To(BeTrue())
			Expect(inst.Type()).To(BeIdenticalTo(typ))
			Expect(inst.Get("size")).To(Equal(7))
			Expect(inst.Get("kind")).To(Equal("widget"))
			Expect(inst.Keys()).To(Equal([]string{"size"}))

			p, _ := reg.IsProfiled(typ)
			Expect(p.Calls()).To(Equal(int64(1)))
			Expect(p.Elapsed()).To(Equal(3.0))
		})

		It("should return a replacement value from the initializer", func() {
			typ := timemap.NewType("Custom", func(context.Context, *timemap.Instance, ...any) (any, error) {
				return "replacement", nil
			}, nil)

			v, err := reg.Wrap(typ, "Custom").(timemap.Constructor).Construct(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("replacement"))
		})

		It("should return initializer errors unchanged", func() {
			bad := errors.New("bad size")
			typ := timemap.NewType("Broken", func(context.Context, *timemap.Instance, ...any) (any, error) {
				return nil, bad
			}, nil)

			_, err := reg.Wrap(typ, "Broken").(timemap.Constructor).Construct(context.Background())
			Expect(err).To(BeIdenticalTo(bad))
		})

		It("should call template methods with the instance first", func() {
			tpl.Set("describe", timemap.NewFunc(func(_ context.Context, args ...any) (any, error) {
				self := args[0].(*timemap.Instance)

				return self.Get("kind"), nil
			}))

			v, err := timemap.NewType("Widget", nil, tpl).Construct(context.Background())
			Expect(err).NotTo(HaveOccurred())

			res, err := v.(*timemap.Instance).Call(context.Background(), "describe")
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal("widget"))

			_, err = v.(*timemap.Instance).Call(context.Background(), "kind")
			Expect(err).To(MatchError(timemap.ErrNotInvokable))
		})
	})
})
