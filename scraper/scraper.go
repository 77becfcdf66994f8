// Package scraper runs the ordered backend fallback chain for a URL and
// applies the quality gate to each candidate result.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/use-agent/leadscrape/config"
	"github.com/use-agent/leadscrape/engine"
	"github.com/use-agent/leadscrape/metrics"
	"github.com/use-agent/leadscrape/models"
)

// Scraper tries each backend in order and returns the first result that
// passes IsValid. It holds no per-call state and is safe for concurrent use.
type Scraper struct {
	backends []Backend
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      Clock
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithMetrics records attempts and results on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// WithLogger replaces slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// WithClock sets the time source used for metadata and attempt timing.
func WithClock(now Clock) Option {
	return func(s *Scraper) { s.now = now }
}

// New builds the standard chain from cfg: static, headless, remote-reader.
func New(cfg *config.Config, opts ...Option) *Scraper {
	s := newScraper(opts)
	headers := cfg.Fetch.ExtraHeaders
	s.backends = []Backend{
		NewEngineBackend(engine.NewHTTPEngine(cfg.Static), headers, s.now),
		NewEngineBackend(engine.NewRodEngine(cfg.Headless, nil), headers, s.now),
		NewEngineBackend(engine.NewReaderEngine(cfg.Reader), headers, s.now),
	}
	return s
}

// NewWithBackends builds a Scraper over an explicit backend chain.
func NewWithBackends(backends []Backend, opts ...Option) *Scraper {
	s := newScraper(opts)
	s.backends = backends
	return s
}

func newScraper(opts []Option) *Scraper {
	s := &Scraper{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backends returns the backend names in attempt order.
func (s *Scraper) Backends() []string {
	names := make([]string, len(s.backends))
	for i, b := range s.backends {
		names[i] = b.Name()
	}
	return names
}

// ScrapeURL validates url, then runs the backend chain. The only errors
// it returns are *InvalidURLError and *FailedError.
func (s *Scraper) ScrapeURL(ctx context.Context, url string) (*models.ScrapedResult, error) {
	if err := ValidateURL(url); err != nil {
		s.metrics.IncScrape("invalid_url")
		return nil, err
	}

	reasons := make([]string, 0, len(s.backends))
	for _, b := range s.backends {
		name := b.Name()
		start := s.now()

		res, err := b.Attempt(ctx, url)
		elapsed := s.now().Sub(start)

		switch {
		case err == nil && res == nil:
			s.metrics.ObserveAttempt(name, metrics.OutcomeError, elapsed)
			s.logger.Warn("backend returned no result",
				"url", url, "backend", name, "duration_ms", elapsed.Milliseconds())
			reasons = append(reasons, name+": "+noResultReason)

		case err != nil:
			s.metrics.ObserveAttempt(name, metrics.OutcomeError, elapsed)
			s.logger.Warn("backend failed",
				"url", url, "backend", name, "error", err, "duration_ms", elapsed.Milliseconds())
			reasons = append(reasons, name+": "+describe(err))

		case !IsValid(res):
			s.metrics.ObserveAttempt(name, metrics.OutcomeLowQuality, elapsed)
			s.logger.Warn("backend returned low-quality data",
				"url", url, "backend", name,
				"company_name", res.CompanyName, "duration_ms", elapsed.Milliseconds())
			reasons = append(reasons, name+": "+lowQualityReason)

		default:
			s.metrics.ObserveAttempt(name, metrics.OutcomeSuccess, elapsed)
			s.metrics.IncScrape("success")
			s.logger.Info("scrape succeeded",
				"url", url, "backend", name, "company_name", res.CompanyName, "duration_ms", elapsed.Milliseconds())
			return res, nil
		}
	}

	s.metrics.IncScrape("failed")
	return nil, &FailedError{URL: url, Reasons: reasons}
}

// describe renders a backend error as a short single-line reason.
func describe(err error) string {
	var ce *engine.ConfigError
	if errors.As(err, &ce) {
		return "not configured: " + ce.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out: " + err.Error()
	}
	return err.Error()
}
