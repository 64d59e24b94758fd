package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/smykla-skalski/timemap/internal/config"
	"github.com/smykla-skalski/timemap/pkg/config"
)

func writeTOML(path, content string) {
	GinkgoHelper()

	Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
}

func setenv(key, value string) {
	GinkgoHelper()

	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(os.Unsetenv, key)
}

var _ = Describe("KoanfLoader", func() {
	var (
		homeDir string
		workDir string
		loader  *internalconfig.KoanfLoader
	)

	BeforeEach(func() {
		homeDir = GinkgoT().TempDir()
		workDir = GinkgoT().TempDir()
		loader = internalconfig.NewKoanfLoaderWithDirs(homeDir, workDir)
	})

	Describe("defaults", func() {
		It("should match DefaultConfig when nothing is configured", func() {
			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			def := internalconfig.DefaultConfig()
			Expect(cfg.Version).To(Equal(config.CurrentConfigVersion))
			Expect(cfg.Report.Format).To(Equal(def.Report.Format))
			Expect(cfg.Report.Sort).To(Equal(def.Report.Sort))
			Expect(cfg.Server).To(Equal(def.Server))
			Expect(cfg.Workload).To(Equal(def.Workload))
			Expect(cfg.Watch).To(Equal(def.Watch))
			Expect(cfg.Log.Level).To(Equal("info"))
		})

		It("should report missing config files", func() {
			Expect(loader.HasGlobalConfig()).To(BeFalse())
			Expect(loader.HasProjectConfig()).To(BeFalse())
			Expect(loader.FindProjectConfigPath()).To(BeEmpty())
		})
	})

	Describe("precedence", func() {
		BeforeEach(func() {
			writeTOML(loader.GlobalConfigPath(), `
[report]
sort = "calls"
format = "table"
min_calls = 2

[workload]
iterations = 3
`)
		})

		It("should read the global config", func() {
			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(loader.HasGlobalConfig()).To(BeTrue())
			Expect(cfg.Report.Sort).To(Equal(config.SortKeyCalls))
			Expect(cfg.Report.Format).To(Equal(config.FormatTable))
			Expect(cfg.Report.MinCalls).To(Equal(int64(2)))
			Expect(cfg.Workload.Iterations).To(Equal(3))
			Expect(cfg.Workload.Depth).To(Equal(internalconfig.DefaultDepth))
		})

		It("should let the project config override the global one", func() {
			writeTOML(filepath.Join(workDir, ".timemap", "config.toml"), `
[report]
sort = "self_average"
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Report.Sort).To(Equal(config.SortKeySelfAverage))
			Expect(cfg.Report.Format).To(Equal(config.FormatTable))
		})

		It("should find the alternative project file", func() {
			writeTOML(filepath.Join(workDir, "timemap.toml"), `
[workload]
depth = 5
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(loader.FindProjectConfigPath()).To(Equal(filepath.Join(workDir, "timemap.toml")))
			Expect(cfg.Workload.Depth).To(Equal(5))
		})

		It("should let environment variables override files", func() {
			setenv("TIMEMAP_REPORT_SORT", "elapsed")
			setenv("TIMEMAP_REPORT_MIN_SELF_AVERAGE", "1.5")
			setenv("TIMEMAP_REPORT_NAMES", "fib,Widget.*")
			setenv("TIMEMAP_SERVER_READ_TIMEOUT", "9s")

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Report.Sort).To(Equal(config.SortKeyElapsed))
			Expect(cfg.Report.MinSelfAverage).To(Equal(1.5))
			Expect(cfg.Report.Names).To(Equal([]string{"fib", "Widget.*"}))
			Expect(cfg.Server.ReadTimeout.ToDuration()).To(Equal(9 * time.Second))
		})

		It("should let flags override everything", func() {
			setenv("TIMEMAP_REPORT_SORT", "elapsed")

			cfg, err := loader.Load(map[string]any{
				"report.sort":          "name",
				"report.reverse":       true,
				"workload.concurrency": 4,
				"report.names":         []string{"even", "odd"},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Report.Sort).To(Equal(config.SortKeyName))
			Expect(cfg.Report.Reverse).To(BeTrue())
			Expect(cfg.Workload.Concurrency).To(Equal(4))
			Expect(cfg.Workload.IsParallel()).To(BeTrue())
			Expect(cfg.Report.Names).To(Equal([]string{"even", "odd"}))
		})
	})

	Describe("explicit paths", func() {
		It("should load an explicit project file", func() {
			path := filepath.Join(workDir, "custom.toml")
			writeTOML(path, "[report]\nformat = \"json\"\n")

			cfg, err := loader.WithProjectPath(path).Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Report.Format).To(Equal(config.FormatJSON))
		})

		It("should fail when an explicit file is missing", func() {
			_, err := loader.WithGlobalPath(filepath.Join(homeDir, "nope.toml")).Load(nil)

			Expect(err).To(MatchError(internalconfig.ErrConfigNotFound))
		})
	})

	Describe("errors", func() {
		It("should reject world-writable files", func() {
			path := loader.GlobalConfigPath()
			writeTOML(path, "[report]\n")
			Expect(os.Chmod(path, 0o666)).To(Succeed())

			_, err := loader.Load(nil)
			Expect(err).To(MatchError(internalconfig.ErrInvalidPermissions))
		})

		It("should reject malformed TOML", func() {
			writeTOML(loader.GlobalConfigPath(), "[report\n")

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to load global config"))
		})

		It("should reject unknown enum values", func() {
			writeTOML(loader.GlobalConfigPath(), "[report]\nsort = \"speed\"\n")

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(config.ErrInvalidSortKey.Error()))
		})

		It("should validate loaded values", func() {
			_, err := loader.Load(map[string]any{"workload.iterations": 0})

			Expect(err).To(MatchError(internalconfig.ErrInvalidConfig))
		})

		It("should skip validation when asked", func() {
			cfg, err := loader.LoadWithoutValidation(map[string]any{"workload.iterations": 0})

			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Workload.Iterations).To(BeZero())
		})
	})

	It("should expose the merged koanf state", func() {
		_, err := loader.Load(map[string]any{"server.listen": "0.0.0.0:1"})
		Expect(err).NotTo(HaveOccurred())

		Expect(loader.Koanf().String("server.listen")).To(Equal("0.0.0.0:1"))
	})
})
