package engine

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/leadscrape/config"
)

func testStaticConfig() config.StaticConfig {
	return config.StaticConfig{
		Timeout:      5 * time.Second,
		UserAgent:    config.DefaultUserAgent,
		MaxBodyBytes: 1 << 20,
	}
}

func TestHTTPEngine_Success(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "https://acme.example/",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, config.DefaultUserAgent, req.Header.Get("User-Agent"))
			assert.Contains(t, req.Header.Get("Accept"), "text/html")
			assert.Equal(t, "yes", req.Header.Get("X-Extra"))
			return httpmock.NewStringResponse(200, "<html><title>Acme</title></html>"), nil
		})

	e := NewHTTPEngine(testStaticConfig(), WithTransport(transport))
	res, err := e.Fetch(context.Background(), &FetchRequest{
		URL:     "https://acme.example/",
		Headers: map[string]string{"X-Extra": "yes"},
	})

	require.NoError(t, err)
	assert.Equal(t, "<html><title>Acme</title></html>", res.HTML)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "static", e.Name())
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestHTTPEngine_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{301, 403, 404, 503} {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponder("GET", "https://acme.example/", httpmock.NewStringResponder(status, "nope"))

		e := NewHTTPEngine(testStaticConfig(), WithTransport(transport))
		_, err := e.Fetch(context.Background(), &FetchRequest{URL: "https://acme.example/"})

		var fe *FetchError
		require.ErrorAs(t, err, &fe, "status %d", status)
		assert.Equal(t, status, fe.StatusCode)
		assert.Contains(t, err.Error(), "unexpected status")
	}
}

func TestHTTPEngine_TransportError(t *testing.T) {
	transport := httpmock.NewMockTransport()
	boom := errors.New("connection refused")
	transport.RegisterResponder("GET", "https://acme.example/", httpmock.NewErrorResponder(boom))

	e := NewHTTPEngine(testStaticConfig(), WithTransport(transport))
	_, err := e.Fetch(context.Background(), &FetchRequest{URL: "https://acme.example/"})

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
	assert.ErrorIs(t, err, boom)
}

func TestHTTPEngine_BodyCap(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "https://acme.example/", httpmock.NewStringResponder(200, "0123456789"))

	cfg := testStaticConfig()
	cfg.MaxBodyBytes = 4
	e := NewHTTPEngine(cfg, WithTransport(transport))
	res, err := e.Fetch(context.Background(), &FetchRequest{URL: "https://acme.example/"})

	require.NoError(t, err)
	assert.Equal(t, "0123", res.HTML)
}

func TestNewHTTPEngine_DefaultTimeout(t *testing.T) {
	e := NewHTTPEngine(config.StaticConfig{})
	assert.Equal(t, DefaultStaticTimeout, e.client.Timeout)

	e = NewHTTPEngine(testStaticConfig())
	assert.Equal(t, 5*time.Second, e.client.Timeout)
}
