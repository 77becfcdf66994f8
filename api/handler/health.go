package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/leadscrape/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// The service reports "degraded" when the remote reader has no API key,
// since the last fallback backend can then never succeed.
func Health(backends []string, readerConfigured bool, startTime time.Time) gin.HandlerFunc {
	status, reader := "healthy", "configured"
	if !readerConfigured {
		status, reader = "degraded", "not_configured"
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:   status,
			Uptime:   time.Since(startTime).Round(time.Second).String(),
			Backends: backends,
			Reader:   reader,
			Version:  Version,
		})
	}
}
