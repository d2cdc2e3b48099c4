// Package promobs implements observability.Metrics on Prometheus collectors.
//
// The parser's metrics are registered up front with fixed label sets:
//
//	archmesh_parse_outcomes_total{outcome}
//	archmesh_parse_duration_ms{outcome}
//	archmesh_decode_failures_total{provider}
//
// Any other metric name gets an unlabelled collector on first use, with dots
// turned into underscores.
package promobs

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/archmesh/archmesh/providers/observability"
)

// DurationBuckets are the histogram buckets for parse latency, in
// milliseconds. Parsing is CPU-only, so most calls land well under 10ms.
var DurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100}

// Metrics routes observability counters and histograms to Prometheus.
type Metrics struct {
	factory promauto.Factory

	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

var _ observability.Metrics = (*Metrics)(nil)

// New registers the parser collectors with reg. A nil reg uses a fresh
// registry, which keeps tests and repeated CLI runs independent of
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	m := &Metrics{
		factory:    factory,
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}

	m.counters[observability.MetricParseOutcomes] = &counter{
		labels: []string{observability.AttrParseOutcome},
		vec: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "archmesh",
			Subsystem: "parse",
			Name:      "outcomes_total",
			Help:      "Parse calls by terminal outcome (empty, direct, repaired, fallback, failed)",
		}, []string{"outcome"}),
	}
	m.histograms[observability.MetricParseDuration] = &histogram{
		labels: []string{observability.AttrParseOutcome},
		vec: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "archmesh",
			Subsystem: "parse",
			Name:      "duration_ms",
			Help:      "Parse call latency in milliseconds by outcome",
			Buckets:   DurationBuckets,
		}, []string{"outcome"}),
	}
	m.counters[observability.MetricDecodeFailures] = &counter{
		labels: []string{observability.AttrLLMProvider},
		vec: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "archmesh",
			Subsystem: "decode",
			Name:      "failures_total",
			Help:      "Provider envelopes that did not match the expected shape",
		}, []string{"provider"}),
	}
	return m
}

// Counter returns the collector for name, creating an unlabelled one for
// names the parser does not define.
func (m *Metrics) Counter(name string) observability.Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.counters[name]; ok {
		return c
	}
	c := &counter{vec: m.factory.NewCounterVec(prometheus.CounterOpts{
		Name: metricName(name) + "_total",
		Help: fmt.Sprintf("Counter %s", name),
	}, nil)}
	m.counters[name] = c
	return c
}

// Histogram returns the collector for name, creating an unlabelled one with
// DurationBuckets for names the parser does not define.
func (m *Metrics) Histogram(name string) observability.Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.histograms[name]; ok {
		return h
	}
	h := &histogram{vec: m.factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metricName(name),
		Help:    fmt.Sprintf("Histogram %s", name),
		Buckets: DurationBuckets,
	}, nil)}
	m.histograms[name] = h
	return h
}

type counter struct {
	vec    *prometheus.CounterVec
	labels []string
}

// Add ignores negative values; Prometheus counters only go up.
func (c *counter) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	if value < 0 {
		return
	}
	c.vec.WithLabelValues(observability.LabelValues(attrs, c.labels...)...).Add(float64(value))
}

type histogram struct {
	vec    *prometheus.HistogramVec
	labels []string
}

func (h *histogram) Record(_ context.Context, value float64, attrs ...observability.Attribute) {
	h.vec.WithLabelValues(observability.LabelValues(attrs, h.labels...)...).Observe(value)
}

// WriteText writes every metric family gathered from g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("write metric %s: %w", family.GetName(), err)
		}
	}
	return nil
}

func metricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(name)
}
