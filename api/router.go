package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/use-agent/leadscrape/api/handler"
	"github.com/use-agent/leadscrape/api/middleware"
	"github.com/use-agent/leadscrape/cache"
	"github.com/use-agent/leadscrape/cleaner"
	"github.com/use-agent/leadscrape/config"
	"github.com/use-agent/leadscrape/metrics"
	"github.com/use-agent/leadscrape/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health and metrics sit outside auth so probes and scrapers always work.
func NewRouter(sc *scraper.Scraper, cl *cleaner.Cleaner, cc *cache.Cache, m *metrics.Metrics, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	if m != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(sc.Backends(), cfg.Reader.APIKey != "", startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/scrape", handler.Scrape(sc, cl, cc, m, cfg.Server.RequestTimeout))

	return r
}
