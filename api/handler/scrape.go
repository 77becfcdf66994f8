package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/leadscrape/cache"
	"github.com/use-agent/leadscrape/metrics"
	"github.com/use-agent/leadscrape/models"
	"github.com/use-agent/leadscrape/scraper"
)

// CompanyScraper runs the backend fallback chain for one URL.
type CompanyScraper interface {
	ScrapeURL(ctx context.Context, url string) (*models.ScrapedResult, error)
}

// Digester builds a Markdown digest of a page's main content.
type Digester interface {
	Digest(rawHTML, sourceURL string) (*models.ContentDigest, error)
}

// Scrape returns a handler for POST /api/v1/scrape.
//
// Orchestration flow:
//  1. Parse & validate request.
//  2. Cache lookup when max_age > 0.
//  3. ScrapeURL under the request timeout     (records scrape_ms)
//  4. Digest when include_content is set      (records cleaning_ms)
//  5. Fill Timing, store in cache, return 200.
//
// cc and m may be nil.
func Scrape(sc CompanyScraper, cl Digester, cc *cache.Cache, m *metrics.Metrics, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err), models.TimingInfo{})
			return
		}
		req.URL = strings.TrimSpace(req.URL)

		// ── 2. Cache lookup ────────────────────────────────────────
		useCache := cc != nil && req.MaxAge > 0
		cacheKey := cache.Key(req.URL, req.IncludeContent)
		if useCache {
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				m.IncCache("hit")
				resp := *cached
				resp.CacheStatus = "hit"
				resp.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(http.StatusOK, resp)
				return
			}
			m.IncCache("miss")
		}

		// ── 3. Scrape ───────────────────────────────────────────────
		ctx := c.Request.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		scrapeStart := time.Now()
		result, err := sc.ScrapeURL(ctx, req.URL)
		scrapeMs := time.Since(scrapeStart).Milliseconds()

		if err != nil {
			respondError(c, classify(ctx, err), models.TimingInfo{
				TotalMs:  time.Since(totalStart).Milliseconds(),
				ScrapeMs: scrapeMs,
			})
			return
		}

		resp := &models.ScrapeResponse{
			Success: true,
			Data:    result,
		}

		// ── 4. Digest ───────────────────────────────────────────────
		var cleaningMs int64
		if req.IncludeContent && cl != nil {
			cleanStart := time.Now()
			digest, err := cl.Digest(result.RawHTML, req.URL)
			cleaningMs = time.Since(cleanStart).Milliseconds()
			if err != nil {
				slog.Warn("content digest failed, returning record without content",
					"url", req.URL, "error", err)
			} else {
				resp.Content = digest
			}
		}

		// ── 5. Timing + cache store ─────────────────────────────────
		resp.Timing = models.TimingInfo{
			TotalMs:    time.Since(totalStart).Milliseconds(),
			ScrapeMs:   scrapeMs,
			CleaningMs: cleaningMs,
		}

		if useCache {
			cc.Set(cacheKey, resp)
			out := *resp
			out.CacheStatus = "miss"
			c.JSON(http.StatusOK, out)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// classify turns a ScrapeURL error into a coded ScrapeError.
func classify(ctx context.Context, err error) *models.ScrapeError {
	var invalid *scraper.InvalidURLError
	if errors.As(err, &invalid) {
		return models.NewScrapeError(models.ErrCodeInvalidURL, invalid.Error(), err)
	}

	var failed *scraper.FailedError
	if errors.As(err, &failed) {
		code := models.ErrCodeScrapeFailed
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			code = models.ErrCodeTimeout
		}
		se := models.NewScrapeError(code, failed.Error(), err)
		se.Details = failed.Reasons
		return se
	}

	return models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
}

// respondError maps a ScrapeError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err *models.ScrapeError, timing models.TimingInfo) {
	c.JSON(mapErrorToStatus(err), models.ScrapeResponse{
		Success: false,
		Error:   err.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput, models.ErrCodeInvalidURL:
		return http.StatusBadRequest // 400
	case models.ErrCodeScrapeFailed:
		return http.StatusUnprocessableEntity // 422
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
