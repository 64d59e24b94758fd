package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/smykla-skalski/timemap/internal/config"
	"github.com/smykla-skalski/timemap/pkg/config"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

var _ = Describe("Validator", func() {
	var (
		v   *internalconfig.Validator
		cfg *config.Config
	)

	BeforeEach(func() {
		v = internalconfig.NewValidator()
		cfg = internalconfig.DefaultConfig()
	})

	It("should accept the defaults", func() {
		Expect(v.Validate(cfg)).To(Succeed())
	})

	It("should accept empty sections", func() {
		Expect(v.Validate(&config.Config{})).To(Succeed())
	})

	It("should reject nil", func() {
		Expect(v.Validate(nil)).To(MatchError(internalconfig.ErrInvalidConfig))
	})

	DescribeTable("rejects invalid values",
		func(mutate func(*config.Config), want error, fragment string) {
			mutate(cfg)

			err := v.Validate(cfg)
			Expect(err).To(MatchError(internalconfig.ErrInvalidConfig))
			Expect(err.Error()).To(ContainSubstring(want.Error()))
			Expect(err.Error()).To(ContainSubstring(fragment))
		},
		Entry("future version",
			func(c *config.Config) { c.Version = 2 }, internalconfig.ErrOutOfRange, "version"),
		Entry("negative threshold",
			func(c *config.Config) { c.Report.MinAverage = -1 }, internalconfig.ErrOutOfRange, "min_average"),
		Entry("bad glob",
			func(c *config.Config) { c.Report.Names = []string{"["} }, timemap.ErrInvalidPattern, "names"),
		Entry("unknown sort key",
			func(c *config.Config) { c.Report.Sort = config.SortKey(99) }, internalconfig.ErrInvalidOption, "sort"),
		Entry("unknown format",
			func(c *config.Config) { c.Report.Format = config.Format(99) }, internalconfig.ErrInvalidOption, "format"),
		Entry("unknown clock source",
			func(c *config.Config) { c.Clock.Source = "sundial" }, internalconfig.ErrInvalidOption, "clock"),
		Entry("empty listen address",
			func(c *config.Config) { c.Server.Listen = "" }, internalconfig.ErrEmptyValue, "server"),
		Entry("listen address without port",
			func(c *config.Config) { c.Server.Listen = "localhost" }, internalconfig.ErrInvalidOption, "listen"),
		Entry("unknown log level",
			func(c *config.Config) { c.Log.Level = "loud" }, internalconfig.ErrInvalidOption, "log"),
		Entry("no iterations",
			func(c *config.Config) { c.Workload.Iterations = 0 }, internalconfig.ErrOutOfRange, "iterations"),
		Entry("no workers",
			func(c *config.Config) { c.Workload.Concurrency = 0 }, internalconfig.ErrOutOfRange, "concurrency"),
		Entry("too deep",
			func(c *config.Config) { c.Workload.Depth = internalconfig.MaxDepth + 1 }, internalconfig.ErrOutOfRange, "depth"),
		Entry("zero refresh",
			func(c *config.Config) { c.Watch.Refresh = 0 }, internalconfig.ErrOutOfRange, "refresh"),
	)

	It("should collect every failure", func() {
		cfg.Workload.Iterations = 0
		cfg.Report.MinCalls = -1

		err := v.Validate(cfg)
		Expect(err.Error()).To(ContainSubstring("2 error(s)"))
	})
})
