package parse

import (
	"context"
	"sync"

	"github.com/archmesh/archmesh/providers/observability"
)

type logRecord struct {
	level string
	msg   string
	attrs map[string]any
}

type sample struct {
	metric string
	value  float64
	attrs  map[string]any
}

// recorder is an in-memory observability.Provider for assertions.
type recorder struct {
	mu      sync.Mutex
	logs    []logRecord
	samples []sample
}

var _ observability.Provider = (*recorder)(nil)

func toMap(attrs []observability.Attribute) map[string]any {
	m := make(map[string]any, len(attrs))
	for _, attr := range attrs {
		m[attr.Key] = attr.Value
	}
	return m
}

func (r *recorder) log(level, msg string, attrs []observability.Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, logRecord{level: level, msg: msg, attrs: toMap(attrs)})
}

func (r *recorder) Trace(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("trace", msg, attrs)
}
func (r *recorder) Debug(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("debug", msg, attrs)
}
func (r *recorder) Info(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("info", msg, attrs)
}
func (r *recorder) Warn(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("warn", msg, attrs)
}
func (r *recorder) Error(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("error", msg, attrs)
}

type recorderInstrument struct {
	r    *recorder
	name string
}

func (i recorderInstrument) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	i.r.mu.Lock()
	defer i.r.mu.Unlock()
	i.r.samples = append(i.r.samples, sample{metric: i.name, value: float64(value), attrs: toMap(attrs)})
}

func (i recorderInstrument) Record(_ context.Context, value float64, attrs ...observability.Attribute) {
	i.r.mu.Lock()
	defer i.r.mu.Unlock()
	i.r.samples = append(i.r.samples, sample{metric: i.name, value: value, attrs: toMap(attrs)})
}

func (r *recorder) Counter(name string) observability.Counter {
	return recorderInstrument{r: r, name: name}
}

func (r *recorder) Histogram(name string) observability.Histogram {
	return recorderInstrument{r: r, name: name}
}

// outcomes returns the parse.outcome label of every outcome counter sample.
func (r *recorder) outcomes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range r.samples {
		if s.metric == observability.MetricParseOutcomes {
			out = append(out, s.attrs[observability.AttrParseOutcome].(string))
		}
	}
	return out
}

func (r *recorder) messages(level string) []logRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []logRecord
	for _, record := range r.logs {
		if record.level == level {
			out = append(out, record)
		}
	}
	return out
}
