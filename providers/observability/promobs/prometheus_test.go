package promobs

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/archmesh/archmesh/core/parse"
	"github.com/archmesh/archmesh/providers/observability"
)

func TestMetrics_ParseOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := New(reg)
	parser := parse.New(parse.WithMetrics(metrics))
	ctx := context.Background()

	parser.Parse(ctx, `{"a": 1}`, nil)
	parser.Parse(ctx, `{"a": 1}`, nil)
	parser.Parse(ctx, `{"a": 1,}`, nil)
	parser.Parse(ctx, "no json here", nil)
	parser.Parse(ctx, "", nil)

	outcomes := metrics.counters[observability.MetricParseOutcomes].vec
	tests := map[string]float64{"direct": 2, "repaired": 1, "fallback": 1, "empty": 1, "failed": 0}
	for outcome, want := range tests {
		if got := testutil.ToFloat64(outcomes.WithLabelValues(outcome)); got != want {
			t.Errorf("outcomes{outcome=%q} = %v, want %v", outcome, got, want)
		}
	}

	if got := testutil.CollectAndCount(metrics.histograms[observability.MetricParseDuration].vec); got != 4 {
		t.Errorf("duration series = %d, want 4", got)
	}
}

func TestMetrics_DecodeFailures(t *testing.T) {
	metrics := New(nil)
	parser := parse.New(parse.WithMetrics(metrics))

	_, err := parser.ParseResponse(context.Background(), parse.ProviderAnthropic, parse.RawResponse{}, nil)
	if err == nil {
		t.Fatal("expected an envelope error")
	}

	failures := metrics.counters[observability.MetricDecodeFailures].vec
	if got := testutil.ToFloat64(failures.WithLabelValues("anthropic")); got != 1 {
		t.Errorf("decode failures{provider=anthropic} = %v, want 1", got)
	}
}

func TestMetrics_AdHocNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := New(reg)
	ctx := context.Background()

	metrics.Counter("cli.files.read").Add(ctx, 2)
	metrics.Counter("cli.files.read").Add(ctx, -5)
	metrics.Histogram("cli.read.ms").Record(ctx, 3)

	expected := `
# HELP cli_files_read_total Counter cli.files.read
# TYPE cli_files_read_total counter
cli_files_read_total 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "cli_files_read_total"); err != nil {
		t.Error(err)
	}
	if got := testutil.CollectAndCount(metrics.histograms["cli.read.ms"].vec); got != 1 {
		t.Errorf("ad hoc histogram series = %d, want 1", got)
	}
}

func TestMetrics_MissingLabel(t *testing.T) {
	metrics := New(nil)
	metrics.Counter(observability.MetricParseOutcomes).Add(context.Background(), 1)

	outcomes := metrics.counters[observability.MetricParseOutcomes].vec
	if got := testutil.ToFloat64(outcomes.WithLabelValues("")); got != 1 {
		t.Errorf("unlabelled sample should land on outcome=\"\", got %v", got)
	}
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	parser := parse.New(parse.WithMetrics(New(reg)))
	parser.Parse(context.Background(), `{"ok": true}`, nil)

	var buf bytes.Buffer
	if err := WriteText(&buf, reg); err != nil {
		t.Fatalf("WriteText() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`archmesh_parse_outcomes_total{outcome="direct"} 1`,
		"# TYPE archmesh_parse_duration_ms histogram",
		`archmesh_parse_duration_ms_count{outcome="direct"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("exposition missing %q:\n%s", want, out)
		}
	}
}
