package workload_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/timemap/internal/workload"
	"github.com/smykla-skalski/timemap/pkg/config"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

func callsOf(reg *timemap.Registry, name string) int64 {
	profiles := reg.FindByName(name)
	Expect(profiles).To(HaveLen(1), "profile %q", name)

	return profiles[0].Calls()
}

var _ = Describe("Set", func() {
	var (
		reg *timemap.Registry
		set *workload.Set
	)

	BeforeEach(func() {
		reg = timemap.New()
		set = workload.NewSet(reg, &config.WorkloadConfig{Depth: 5}, nil)
	})

	It("binds every member under its dotted name", func() {
		names := make([]string, 0, reg.Len())
		for _, p := range reg.Profiles() {
			names = append(names, p.Name())
		}

		Expect(names).To(Equal([]string{
			"math.fib", "math.even", "math.odd",
			"outer", "inner", "flaky",
			"Widget", "Widget.template.describe", "Widget.template.resize",
		}))
	})

	It("replaces members with instrumented values", func() {
		for _, key := range []string{"outer", "inner", "flaky", "Widget"} {
			_, ok := set.Root().Get(key).(timemap.Instrumented)
			Expect(ok).To(BeTrue(), "member %q", key)
		}
	})

	It("counts recursive and nested calls through the instrumented members", func() {
		Expect(set.Round(context.Background())).To(Succeed())

		Expect(callsOf(reg, "math.fib")).To(BeEquivalentTo(15))
		Expect(callsOf(reg, "math.even")).To(BeEquivalentTo(3))
		Expect(callsOf(reg, "math.odd")).To(BeEquivalentTo(3))
		Expect(callsOf(reg, "outer")).To(BeEquivalentTo(1))
		Expect(callsOf(reg, "inner")).To(BeEquivalentTo(2))
		Expect(callsOf(reg, "flaky")).To(BeEquivalentTo(1))
		Expect(callsOf(reg, "Widget")).To(BeEquivalentTo(1))
		Expect(callsOf(reg, "Widget.template.resize")).To(BeEquivalentTo(1))
		Expect(callsOf(reg, "Widget.template.describe")).To(BeEquivalentTo(1))
	})

	It("keeps self time within elapsed time", func() {
		reg = timemap.New()
		set = workload.NewSet(reg, &config.WorkloadConfig{
			Depth: 4,
			Sleep: config.Duration(time.Millisecond),
		}, nil)

		Expect(set.Round(context.Background())).To(Succeed())

		for _, s := range reg.Snapshot() {
			Expect(s.Self).To(BeNumerically("<=", s.Elapsed), s.Name)
			Expect(s.Self).To(BeNumerically(">=", 0), s.Name)
		}
	})

	It("excludes the sleeping children from the outer self time", func() {
		reg = timemap.New()
		set = workload.NewSet(reg, &config.WorkloadConfig{Sleep: config.Duration(5 * time.Millisecond)}, nil)

		Expect(set.Round(context.Background())).To(Succeed())

		outer := reg.FindByName("outer")[0].Stats()
		inner := reg.FindByName("inner")[0].Stats()

		Expect(outer.Elapsed).To(BeNumerically(">=", 15))
		Expect(outer.Self).To(BeNumerically("~", outer.Elapsed-inner.Elapsed, 0.001))
	})

	It("stops when the context is cancelled", func() {
		set = workload.NewSet(timemap.New(), &config.WorkloadConfig{Sleep: config.Duration(time.Hour)}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Expect(set.Round(ctx)).To(MatchError(context.Canceled))
	})

	It("reports the flaky failure from direct calls", func() {
		flaky := set.Root().Get("flaky").(timemap.Invoker)

		_, err := flaky.Invoke(context.Background())
		Expect(err).To(MatchError(workload.ErrFlaky))
	})

	It("rejects arguments of the wrong type", func() {
		fib := reg.FindByName("math.fib")[0].Instrumented().(timemap.Invoker)

		_, err := fib.Invoke(context.Background(), "five")
		Expect(err).To(MatchError(workload.ErrBadArgument))
	})
})
