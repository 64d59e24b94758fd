package report_test

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/smykla-skalski/timemap/internal/color"
	"github.com/smykla-skalski/timemap/internal/report"
	"github.com/smykla-skalski/timemap/pkg/config"
	"github.com/smykla-skalski/timemap/pkg/timemap"
)

var _ = Describe("Snapshot", func() {
	It("carries a unique ID and the profile count", func() {
		a := report.NewSnapshot(sampleStats(), "monotonic")
		b := report.NewSnapshot(sampleStats(), "monotonic")

		Expect(uuid.Validate(a.ID)).To(Succeed())
		Expect(a.ID).NotTo(Equal(b.ID))
		Expect(a.Count).To(Equal(2))
		Expect(a.Clock).To(Equal("monotonic"))
	})

	It("never holds a nil profile list", func() {
		snap := report.NewSnapshot(nil, "")
		Expect(snap.Profiles).NotTo(BeNil())
		Expect(snap.Count).To(BeZero())
	})
})

var _ = Describe("New", func() {
	DescribeTable("returns a renderer per format",
		func(format config.Format, want any) {
			r, err := report.New(format, report.RenderOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(BeAssignableToTypeOf(want))
		},
		Entry("text", config.FormatText, &report.TextRenderer{}),
		Entry("table", config.FormatTable, &report.TableRenderer{}),
		Entry("json", config.FormatJSON, &report.JSONRenderer{}),
		Entry("yaml", config.FormatYAML, &report.YAMLRenderer{}),
	)

	It("rejects unknown formats", func() {
		_, err := report.New(config.Format(99), report.RenderOptions{})
		Expect(err).To(MatchError(report.ErrUnsupportedFormat))
	})
})

var _ = Describe("Renderers", func() {
	var (
		buf  *bytes.Buffer
		snap *report.Snapshot
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		snap = report.NewSnapshot(sampleStats(), "wall")
	})

	Describe("TextRenderer", func() {
		It("writes one canonical line per profile", func() {
			Expect((&report.TextRenderer{}).Render(buf, snap)).To(Succeed())
			Expect(buf.String()).To(Equal(
				"[0] outer, 2, 30.00 (15.00), 10.00 (5.00)\n" +
					"[1] inner, 1200, 20.00 (0.02), 20.00 (0.02)\n",
			))
		})

		It("writes nothing for an empty snapshot", func() {
			Expect((&report.TextRenderer{}).Render(buf, report.NewSnapshot(nil, ""))).To(Succeed())
			Expect(buf.Len()).To(BeZero())
		})
	})

	Describe("JSONRenderer", func() {
		It("exports every field", func() {
			Expect((&report.JSONRenderer{Indent: true}).Render(buf, snap)).To(Succeed())

			var decoded struct {
				ID       string          `json:"id"`
				Clock    string          `json:"clock"`
				Count    int             `json:"count"`
				Profiles []timemap.Stats `json:"profiles"`
			}

			Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
			Expect(decoded.ID).To(Equal(snap.ID))
			Expect(decoded.Clock).To(Equal("wall"))
			Expect(decoded.Count).To(Equal(2))
			Expect(decoded.Profiles).To(Equal(snap.Profiles))
			Expect(buf.String()).To(ContainSubstring(`"self_average": 5`))
		})

		It("writes compact JSON without indent", func() {
			Expect((&report.JSONRenderer{}).Render(buf, snap)).To(Succeed())
			Expect(strings.Count(buf.String(), "\n")).To(Equal(1))
		})
	})

	Describe("YAMLRenderer", func() {
		It("exports snake case keys", func() {
			Expect((&report.YAMLRenderer{}).Render(buf, snap)).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("generated_at:"))
			Expect(buf.String()).To(ContainSubstring("self_average: 5"))

			var decoded map[string]any
			Expect(yaml.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
			Expect(decoded).To(HaveKeyWithValue("count", 2))
			Expect(decoded["profiles"]).To(HaveLen(2))
		})
	})

	Describe("TableRenderer", func() {
		It("renders names, humanized counts and a summary", func() {
			r := report.NewTableRenderer(color.NewTheme(false), 0)
			Expect(r.Render(buf, snap)).To(Succeed())

			out := buf.String()
			Expect(out).To(ContainSubstring("outer"))
			Expect(out).To(ContainSubstring("1,200"))
			Expect(out).To(ContainSubstring("30.00"))
			Expect(out).To(ContainSubstring("╭"))
			Expect(out).To(ContainSubstring("2 profile(s), 1,202 call(s), 30 milliseconds exclusive"))
		})

		It("right-aligns numeric columns", func() {
			r := report.NewTableRenderer(color.NewTheme(false), 0)
			Expect(r.Render(buf, snap)).To(Succeed())

			Expect(buf.String()).To(ContainSubstring("    2 "))
		})

		It("truncates long names on narrow terminals", func() {
			long := strings.Repeat("x", 200)
			snap = report.NewSnapshot([]timemap.Stats{{Name: long, Calls: 1}}, "")

			r := report.NewTableRenderer(color.NewTheme(false), 100)
			Expect(r.Render(buf, snap)).To(Succeed())

			Expect(buf.String()).NotTo(ContainSubstring(long))
			Expect(buf.String()).To(ContainSubstring("…"))
		})

		It("reports an empty snapshot", func() {
			r := report.NewTableRenderer(color.NewTheme(false), 0)
			Expect(r.Render(buf, report.NewSnapshot(nil, ""))).To(Succeed())
			Expect(buf.String()).To(Equal("no profiles\n"))
		})
	})
})

var _ = Describe("FormatDuration", func() {
	DescribeTable("formats milliseconds",
		func(ms float64, want string) {
			Expect(report.FormatDuration(ms)).To(Equal(want))
		},
		Entry("zero", 0.0, "0 seconds"),
		Entry("milliseconds", 30.0, "30 milliseconds"),
		Entry("limits units", 61_500.25, "1 minute 1 second"),
	)
})
