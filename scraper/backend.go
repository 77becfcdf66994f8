package scraper

import (
	"context"
	"time"

	"github.com/use-agent/leadscrape/engine"
	"github.com/use-agent/leadscrape/extractor"
	"github.com/use-agent/leadscrape/models"
)

// Backend is one extraction strategy in the fallback chain.
type Backend interface {
	Name() string
	Attempt(ctx context.Context, url string) (*models.ScrapedResult, error)
}

// Clock returns the current time.
type Clock func() time.Time

type engineBackend struct {
	engine  engine.Engine
	headers map[string]string
	now     Clock
}

// NewEngineBackend adapts an engine into a Backend: it fetches HTML with
// headers added to every request, runs the field extractor over it and
// stamps the result metadata. The backend and its Method take the engine's
// name. A nil clock uses time.Now.
func NewEngineBackend(e engine.Engine, headers map[string]string, now Clock) Backend {
	if now == nil {
		now = time.Now
	}
	return &engineBackend{engine: e, headers: headers, now: now}
}

func (b *engineBackend) Name() string { return b.engine.Name() }

func (b *engineBackend) Attempt(ctx context.Context, url string) (*models.ScrapedResult, error) {
	start := b.now()

	res, err := b.engine.Fetch(ctx, &engine.FetchRequest{URL: url, Headers: b.headers})
	if err != nil {
		return nil, err
	}

	finished := b.now()
	return &models.ScrapedResult{
		CompanyInfo: extractor.Extract(res.HTML),
		RawHTML:     res.HTML,
		Metadata: models.ResultMetadata{
			Method:     models.Method(b.engine.Name()),
			URL:        url,
			ScrapedAt:  finished.UTC(),
			FinalURL:   res.FinalURL,
			StatusCode: res.StatusCode,
			DurationMs: finished.Sub(start).Milliseconds(),
		},
	}, nil
}
