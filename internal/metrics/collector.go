// Package metrics exposes registry profiles as Prometheus metrics.
package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smykla-skalski/timemap/pkg/timemap"
)

const namespace = "timemap"

var profileLabels = []string{"name", "index"}

// Source is the subset of the registry the collector reads.
type Source interface {
	Snapshot() []timemap.Stats
}

// Collector reports a fresh snapshot of every profile on each scrape.
type Collector struct {
	source Source

	calls       *prometheus.Desc
	elapsed     *prometheus.Desc
	self        *prometheus.Desc
	average     *prometheus.Desc
	selfAverage *prometheus.Desc
	profiles    *prometheus.Desc
}

// NewCollector creates a Collector over source.
func NewCollector(source Source) *Collector {
	return &Collector{
		source: source,
		calls: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "calls_total"),
			"Number of completed invocations per profile.",
			profileLabels, nil,
		),
		elapsed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "elapsed_milliseconds_total"),
			"Cumulative inclusive time per profile in milliseconds.",
			profileLabels, nil,
		),
		self: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "self_milliseconds_total"),
			"Cumulative exclusive time per profile in milliseconds.",
			profileLabels, nil,
		),
		average: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "average_milliseconds"),
			"Average inclusive time per call in milliseconds.",
			profileLabels, nil,
		),
		selfAverage: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "self_average_milliseconds"),
			"Average exclusive time per call in milliseconds.",
			profileLabels, nil,
		),
		profiles: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "profiles"),
			"Number of registered profiles.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.calls
	ch <- c.elapsed
	ch <- c.self
	ch <- c.average
	ch <- c.selfAverage
	ch <- c.profiles
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	list := c.source.Snapshot()

	ch <- prometheus.MustNewConstMetric(c.profiles, prometheus.GaugeValue, float64(len(list)))

	for _, s := range list {
		// Label values must be valid UTF-8; profile names are arbitrary strings.
		labels := []string{strings.ToValidUTF8(s.Name, "\uFFFD"), strconv.Itoa(s.Index)}

		ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(s.Calls), labels...)
		ch <- prometheus.MustNewConstMetric(c.elapsed, prometheus.CounterValue, s.Elapsed, labels...)
		ch <- prometheus.MustNewConstMetric(c.self, prometheus.CounterValue, s.Self, labels...)
		ch <- prometheus.MustNewConstMetric(c.average, prometheus.GaugeValue, s.Average, labels...)
		ch <- prometheus.MustNewConstMetric(c.selfAverage, prometheus.GaugeValue, s.SelfAverage, labels...)
	}
}

// NewRegistry returns a private Prometheus registry with only the collector
// registered.
func NewRegistry(source Source) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(source))

	return reg
}
