package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/", "200", time.Millisecond)
	m.IncAggregateConflict("user_stats", "complete_session")
	m.IncClassifierFallback()
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus on nil: %v", err)
	}
}

func TestWritePrometheusExposition(t *testing.T) {
	m := newMetrics()
	m.ObserveAPI("POST", "/api/calories/analyze", "200", 120*time.Millisecond)
	m.IncAggregateRetry("user_stats", "complete_session")
	m.IncAggregateRetry("user_stats", "complete_session")
	m.IncClassifierFallback()

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`af_api_requests_total{method="POST",route="/api/calories/analyze",status="200"} 1`,
		`af_api_request_duration_seconds_bucket{method="POST",route="/api/calories/analyze",status="200",le="0.25"} 1`,
		`af_api_request_duration_seconds_bucket{method="POST",route="/api/calories/analyze",status="200",le="0.1"} 0`,
		`af_aggregate_retries_total{aggregate="user_stats",operation="complete_session"} 2`,
		`af_meal_classifier_fallbacks_total 1`,
		`# TYPE af_api_inflight_requests gauge`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in exposition:\n%s", want, out)
		}
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"route", "status"}, []string{`/a"b`})
	if got != `{route="/a\"b",status="unknown"}` {
		t.Fatalf("labelString: %s", got)
	}
}
