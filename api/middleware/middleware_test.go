package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/use-agent/leadscrape/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r http.Handler, header, value string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuth(t *testing.T) {
	r := newEngine(Auth([]string{"secret", ""}))

	assert.Equal(t, http.StatusUnauthorized, get(r, "", ""))
	assert.Equal(t, http.StatusUnauthorized, get(r, "X-API-Key", "wrong"))
	assert.Equal(t, http.StatusOK, get(r, "X-API-Key", "secret"))
	assert.Equal(t, http.StatusOK, get(r, "Authorization", "Bearer secret"))
	assert.Equal(t, http.StatusUnauthorized, get(r, "Authorization", "Basic secret"))
}

func TestAuth_NoKeysIsOpen(t *testing.T) {
	r := newEngine(Auth(nil))
	assert.Equal(t, http.StatusOK, get(r, "", ""))
}

func TestRateLimit(t *testing.T) {
	r := newEngine(RateLimit(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}))

	assert.Equal(t, http.StatusOK, get(r, "", ""))
	assert.Equal(t, http.StatusOK, get(r, "", ""))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "", ""))
}

func TestRateLimit_PerAPIKey(t *testing.T) {
	r := newEngine(
		Auth([]string{"a", "b"}),
		RateLimit(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}),
	)

	assert.Equal(t, http.StatusOK, get(r, "X-API-Key", "a"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "X-API-Key", "a"))
	assert.Equal(t, http.StatusOK, get(r, "X-API-Key", "b"))
}
