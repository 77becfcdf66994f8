// Package metrics exposes Prometheus collectors for the scrape pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Attempt outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeError      = "error"
	OutcomeLowQuality = "low_quality"
)

// Metrics bundles Prometheus collectors on a dedicated registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry        *prometheus.Registry
	ScrapesTotal    *prometheus.CounterVec
	AttemptsTotal   *prometheus.CounterVec
	AttemptDuration *prometheus.HistogramVec
	CacheTotal      *prometheus.CounterVec
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadscrape_scrape_requests_total",
			Help: "Total scrape calls by final result.",
		},
		[]string{"result"},
	)
	attempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadscrape_backend_attempts_total",
			Help: "Backend attempts by backend and outcome.",
		},
		[]string{"backend", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadscrape_backend_duration_seconds",
			Help:    "Backend attempt latency.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"backend"},
	)
	cache := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadscrape_cache_lookups_total",
			Help: "Response cache lookups by status.",
		},
		[]string{"status"},
	)

	registry.MustRegister(scrapes, attempts, duration, cache)

	return &Metrics{
		Registry:        registry,
		ScrapesTotal:    scrapes,
		AttemptsTotal:   attempts,
		AttemptDuration: duration,
		CacheTotal:      cache,
	}
}

// IncScrape counts one finished scrape call ("success", "invalid_url", "failed").
func (m *Metrics) IncScrape(result string) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(result).Inc()
}

// ObserveAttempt records one backend attempt.
func (m *Metrics) ObserveAttempt(backend, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.AttemptsTotal.WithLabelValues(backend, outcome).Inc()
	m.AttemptDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// IncCache counts a cache lookup ("hit", "miss").
func (m *Metrics) IncCache(status string) {
	if m == nil {
		return
	}
	m.CacheTotal.WithLabelValues(status).Inc()
}
