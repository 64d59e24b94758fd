package timemap_test

import (
	"bytes"
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/timemap/pkg/logger"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

var _ = Describe("TimeCall", func() {
	var (
		clk *manualClock
		reg *timemap.Registry
	)

	BeforeEach(func() {
		clk = &manualClock{}
		reg = timemap.New(timemap.WithClock(clk))
	})

	It("should report the elapsed time", func() {
		var got []float64

		err := reg.TimeCall(context.Background(), func(context.Context) error {
			clk.Advance(7.5)

			return nil
		}, func(elapsed float64) { got = append(got, elapsed) })

		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal([]float64{7.5}))
	})

	It("should report and return errors unchanged", func() {
		boom := errors.New("boom")

		var got float64

		err := reg.TimeCall(context.Background(), func(context.Context) error {
			clk.Advance(2)

			return boom
		}, func(elapsed float64) { got = elapsed })

		Expect(err).To(BeIdenticalTo(boom))
		Expect(got).To(Equal(2.0))
	})

	It("should report before a panic propagates", func() {
		var got float64

		Expect(func() {
			_ = reg.TimeCall(context.Background(), func(context.Context) error {
				clk.Advance(1)
				panic("stop")
			}, func(elapsed float64) { got = elapsed })
		}).To(PanicWith("stop"))

		Expect(got).To(Equal(1.0))
	})

	It("should log when no reporter is given", func() {
		var buf bytes.Buffer

		logged := timemap.New(
			timemap.WithClock(clk),
			timemap.WithLogger(logger.NewWriterLogger(&buf, logger.LevelInfo)),
		)

		Expect(logged.TimeCall(context.Background(), func(context.Context) error {
			clk.Advance(3)

			return nil
		}, nil)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("INFO timed call elapsed_ms=3"))
	})

	It("should not create profiles", func() {
		_ = reg.TimeCall(context.Background(), func(context.Context) error { return nil }, func(float64) {})

		Expect(reg.Len()).To(BeZero())
	})
})

var _ = Describe("Delegate", func() {
	var events []string

	BeforeEach(func() {
		events = nil
	})

	hooks := timemap.Hooks{
		Before: func(_ context.Context, args []any) {
			events = append(events, "before")
		},
		After: func(_ context.Context, result any, _ []any, err error) any {
			if err != nil {
				events = append(events, "after error: "+err.Error())

				return "ignored"
			}

			events = append(events, "after")

			return result.(string) + "!"
		},
	}

	It("should run hooks around the call and replace the result", func() {
		target := timemap.NewFunc(func(_ context.Context, args ...any) (any, error) {
			events = append(events, "call")

			return args[0], nil
		})

		res, err := timemap.Delegate(target, hooks).Invoke(context.Background(), "hi")

		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal("hi!"))
		Expect(events).To(Equal([]string{"before", "call", "after"}))
	})

	It("should run After on failure and return the error unchanged", func() {
		boom := errors.New("boom")
		target := timemap.NewFunc(func(context.Context, ...any) (any, error) {
			return "partial", boom
		})

		res, err := timemap.Delegate(target, hooks).Invoke(context.Background())

		Expect(err).To(BeIdenticalTo(boom))
		Expect(res).To(BeNil())
		Expect(events).To(Equal([]string{"before", "after error: boom"}))
	})

	It("should pass results through without hooks", func() {
		d := timemap.Delegate(timemap.NewFunc(namedHelper), timemap.Hooks{})

		res, err := d.Invoke(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal("helped"))
		Expect(d.Name()).To(Equal("namedHelper"))
	})

	It("should be wrappable", func() {
		reg := timemap.New()
		d := timemap.Delegate(timemap.NewFunc(namedHelper), timemap.Hooks{})

		wrapped := reg.Wrap(d, "")

		Expect(reg.Wrap(d, "")).To(BeIdenticalTo(wrapped))
		Expect(reg.FindByName("namedHelper")).To(HaveLen(1))
	})
})

var _ = Describe("FunctionName", func() {
	It("should strip the package path", func() {
		Expect(timemap.FunctionName(namedHelper)).To(Equal("namedHelper"))
	})

	It("should keep method receivers", func() {
		w := &widget{}

		Expect(timemap.FunctionName(w.Describe)).To(Equal("(*widget).Describe"))
	})

	It("should return empty for closures and non-functions", func() {
		Expect(timemap.FunctionName(func() {})).To(BeEmpty())
		Expect(timemap.FunctionName("namedHelper")).To(BeEmpty())
		Expect(timemap.FunctionName(nil)).To(BeEmpty())
	})

	It("should name Funcs after their function", func() {
		Expect(timemap.NewFunc(namedHelper).Name()).To(Equal("namedHelper"))
		Expect(timemap.NewNamedFunc("custom", namedHelper).Name()).To(Equal("custom"))
	})
})
