package slogobs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/archmesh/archmesh/providers/observability"
)

func TestObserver_Logging(t *testing.T) {
	var buf bytes.Buffer
	obs := New(WithOutput(&buf), WithFormat(FormatJSON), WithLevel(slog.LevelDebug))
	ctx := context.Background()

	obs.Trace(ctx, "hidden")
	obs.Debug(ctx, "debug record", observability.String(observability.AttrParseStage, "parse_1"))
	obs.Warn(ctx, "warn record", observability.Bool(observability.AttrParseFallbackSupplied, true))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %d: %s", len(lines), buf.String())
	}

	var warn map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &warn); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if warn["level"] != "WARN" || warn[observability.AttrParseFallbackSupplied] != true {
		t.Errorf("unexpected warn record: %v", warn)
	}
}

func TestObserver_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	obs := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	obs.Info(context.Background(), "from custom logger", observability.Int("n", 3))

	if !strings.Contains(buf.String(), "from custom logger") || !strings.Contains(buf.String(), "n=3") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestObserver_Metrics(t *testing.T) {
	var buf bytes.Buffer
	obs := New(WithOutput(&buf), WithLevel(slog.LevelDebug))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obs.Counter(observability.MetricParseOutcomes).Add(ctx, 1,
				observability.String(observability.AttrParseOutcome, "direct"))
		}()
	}
	wg.Wait()
	obs.Histogram(observability.MetricParseDuration).Record(ctx, 1.5)

	if got := obs.CounterValue(observability.MetricParseOutcomes); got != 20 {
		t.Errorf("CounterValue() = %d, want 20", got)
	}
	if got := obs.CounterValue("never.used"); got != 0 {
		t.Errorf("CounterValue(unused) = %d, want 0", got)
	}
	if obs.Counter("x") != obs.Counter("x") {
		t.Error("Counter should return the same instance for the same name")
	}
	if !strings.Contains(buf.String(), `"type":"histogram"`) {
		t.Errorf("expected a histogram debug record, got: %s", buf.String())
	}
}

func TestObserver_MetricsQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	obs := New(WithOutput(&buf), WithLevel(slog.LevelInfo))
	obs.Counter(observability.MetricParseOutcomes).Add(context.Background(), 1)

	if buf.Len() != 0 {
		t.Errorf("metric echoes should be DEBUG only, got: %s", buf.String())
	}
	if obs.CounterValue(observability.MetricParseOutcomes) != 1 {
		t.Error("counter total should still be kept")
	}
}
