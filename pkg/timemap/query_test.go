package timemap_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/timemap/pkg/timemap"
)

var _ = Describe("Query", func() {
	var (
		clk *manualClock
		reg *timemap.Registry
	)

	// first: calls=3, elapsed=3, average=1; second: calls=2, elapsed=20, average=10
	BeforeEach(func() {
		clk = &manualClock{}
		reg = timemap.New(timemap.WithClock(clk))

		first := reg.Wrap(spend(clk, 1, nil), "first")
		second := reg.Wrap(spend(clk, 10, nil), "second")

		for range 3 {
			_, _ = invoke(first)
		}

		for range 2 {
			_, _ = invoke(second)
		}
	})

	names := func(list []timemap.Stats) []string {
		out := make([]string, 0, len(list))
		for _, s := range list {
			out = append(out, s.Name)
		}

		return out
	}

	It("should return everything in registry order without options", func() {
		Expect(names(reg.Query(timemap.Options{}))).To(Equal([]string{"first", "second"}))
	})

	DescribeTable("filters by threshold",
		func(opts timemap.Options, want []string) {
			Expect(names(reg.Query(opts))).To(Equal(want))
		},
		Entry("min average", timemap.Options{MinAverage: 5}, []string{"second"}),
		Entry("min calls", timemap.Options{MinCalls: 3}, []string{"first"}),
		Entry("min elapsed", timemap.Options{MinElapsed: 4}, []string{"second"}),
		Entry("min self", timemap.Options{MinSelf: 3}, []string{"first", "second"}),
		Entry("min self average", timemap.Options{MinSelfAverage: 10}, []string{"second"}),
		Entry("all thresholds", timemap.Options{MinCalls: 3, MinAverage: 5}, []string{}),
		Entry("negative threshold", timemap.Options{MinElapsed: -1}, []string{"first", "second"}),
	)

	It("should sort with a comparator and report once", func() {
		var reported [][]timemap.Stats

		list := reg.Query(timemap.Options{
			Sorter:   timemap.ByCalls,
			Reporter: func(l []timemap.Stats) { reported = append(reported, l) },
		})

		Expect(names(list)).To(Equal([]string{"second", "first"}))
		Expect(reported).To(HaveLen(1))
		Expect(reported[0]).To(Equal(list))
	})

	It("should accept a comparator directly", func() {
		Expect(names(reg.QuerySorted(timemap.ByCalls))).To(Equal([]string{"second", "first"}))
	})

	DescribeTable("standard comparators",
		func(c timemap.Comparator, want []string) {
			Expect(names(reg.QuerySorted(c))).To(Equal(want))
		},
		Entry("calls", timemap.ByCalls, []string{"second", "first"}),
		Entry("elapsed", timemap.ByElapsed, []string{"first", "second"}),
		Entry("average", timemap.ByAverage, []string{"first", "second"}),
		Entry("self", timemap.BySelf, []string{"first", "second"}),
		Entry("self average", timemap.BySelfAverage, []string{"first", "second"}),
		Entry("index", timemap.ByIndex, []string{"first", "second"}),
		Entry("name", timemap.ByName, []string{"first", "second"}),
		Entry("reversed elapsed", timemap.Reverse(timemap.ByElapsed), []string{"second", "first"}),
	)

	It("should keep registry order for equal keys", func() {
		reg.MakeProfile("third")
		reg.MakeProfile("fourth")

		list := reg.QuerySorted(timemap.Reverse(timemap.ByCalls))
		Expect(names(list)).To(Equal([]string{"first", "second", "third", "fourth"}))
	})

	It("should filter by name globs", func() {
		reg.MakeProfile("Widget.template.describe")

		Expect(names(reg.Query(timemap.Options{Names: []string{"second.*"}}))).To(BeEmpty())
		Expect(names(reg.Query(timemap.Options{Names: []string{"Widget.*"}}))).
			To(Equal([]string{"Widget.template.describe"}))
		Expect(names(reg.Query(timemap.Options{Names: []string{"f*", "s*"}}))).
			To(Equal([]string{"first", "second"}))
	})

	It("should combine name globs with thresholds", func() {
		list := reg.Query(timemap.Options{Names: []string{"*"}, MinCalls: 3})

		Expect(names(list)).To(Equal([]string{"first"}))
	})

	Describe("ValidatePatterns", func() {
		It("should accept valid globs", func() {
			Expect(timemap.ValidatePatterns([]string{"fib", "Widget.*", "{a,b}"})).To(Succeed())
		})

		It("should list every invalid glob", func() {
			err := timemap.ValidatePatterns([]string{"ok", "[", "{a"})

			Expect(err).To(MatchError(timemap.ErrInvalidPattern))
			Expect(err.Error()).To(ContainSubstring("[, {a"))
		})
	})

	Describe("LineReporter", func() {
		It("should write one canonical line per profile", func() {
			var buf bytes.Buffer

			reg.Query(timemap.Options{Reporter: timemap.LineReporter(&buf)})

			Expect(buf.String()).To(Equal(
				"[0] first, 3, 3.00 (1.00), 3.00 (1.00)\n" +
					"[1] second, 2, 20.00 (10.00), 20.00 (10.00)\n",
			))
		})
	})
})

var _ = Describe("FormatLine", func() {
	It("should render the canonical columns", func() {
		line := timemap.FormatLine(timemap.Stats{
			Index: 4, Name: "outer", Calls: 3,
			Elapsed: 10, Average: 10.0 / 3, Self: 2.5, SelfAverage: 2.5 / 3,
		})

		Expect(line).To(Equal("[4] outer, 3, 10.00 (3.33), 2.50 (0.83)"))
	})

	DescribeTable("Round2 rounds halves up",
		func(v float64, want string) {
			Expect(timemap.Round2(v)).To(Equal(want))
		},
		Entry("exact", 1.0, "1.00"),
		Entry("half", 0.125, "0.13"),
		Entry("another half", 0.375, "0.38"),
		Entry("below half", 0.124, "0.12"),
		Entry("decimal half stored below itself", 1.005, "1.00"),
		Entry("zero", 0.0, "0.00"),
		Entry("large", 123456.789, "123456.79"),
	)
})
