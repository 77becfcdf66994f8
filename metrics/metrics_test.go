package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncScrape("success")
	m.ObserveAttempt("static", OutcomeSuccess, time.Second)
	m.IncCache("hit")
}

func TestObserveAttempt(t *testing.T) {
	m := New()

	m.ObserveAttempt("static", OutcomeLowQuality, 100*time.Millisecond)
	m.ObserveAttempt("headless", OutcomeSuccess, 3*time.Second)
	m.ObserveAttempt("static", OutcomeLowQuality, 200*time.Millisecond)

	if got := counterValue(t, m.AttemptsTotal.WithLabelValues("static", OutcomeLowQuality)); got != 2 {
		t.Fatalf("static low_quality = %v, want 2", got)
	}
	if got := counterValue(t, m.AttemptsTotal.WithLabelValues("headless", OutcomeSuccess)); got != 1 {
		t.Fatalf("headless success = %v, want 1", got)
	}
}

func TestRegistryGathersAllFamilies(t *testing.T) {
	m := New()
	m.IncScrape("failed")
	m.ObserveAttempt("static", OutcomeError, time.Millisecond)
	m.IncCache("miss")

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"leadscrape_scrape_requests_total",
		"leadscrape_backend_attempts_total",
		"leadscrape_backend_duration_seconds",
		"leadscrape_cache_lookups_total",
	} {
		if !names[want] {
			t.Errorf("missing metric family %s", want)
		}
	}
}
