package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/leadscrape/config"
)

func TestReaderEngine_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "html", r.Header.Get("X-Return-Format"))
		assert.Equal(t, "/https://acme.example", r.URL.Path)

		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><meta property="og:site_name" content="Acme"></head></html>`))
	}))
	defer srv.Close()

	e := NewReaderEngine(config.ReaderConfig{APIKey: "test-key", Timeout: 5 * time.Second}, WithReaderBaseURL(srv.URL))
	res, err := e.Fetch(context.Background(), &FetchRequest{URL: "https://acme.example"})

	require.NoError(t, err)
	assert.Contains(t, res.HTML, "og:site_name")
	assert.Equal(t, "remote-reader", e.Name())
	assert.Equal(t, "https://acme.example", res.FinalURL)
}

func TestReaderEngine_NotConfigured(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	e := NewReaderEngine(config.ReaderConfig{Timeout: 5 * time.Second}, WithReaderBaseURL(srv.URL))
	_, err := e.Fetch(context.Background(), &FetchRequest{URL: "https://acme.example"})

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, ErrReaderNotConfigured)
	assert.False(t, e.Configured())
	assert.Zero(t, calls.Load(), "no network call without a key")
}

func TestReaderEngine_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limit exceeded"}`))
	}))
	defer srv.Close()

	e := NewReaderEngine(config.ReaderConfig{APIKey: "k", Timeout: 5 * time.Second}, WithReaderBaseURL(srv.URL))
	_, err := e.Fetch(context.Background(), &FetchRequest{URL: "https://acme.example"})

	var re *ReaderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusTooManyRequests, re.StatusCode)
	assert.Equal(t, "reader returned status 429", err.Error())
}

func TestReaderEngine_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	e := NewReaderEngine(
		config.ReaderConfig{APIKey: "k"},
		WithReaderBaseURL(srv.URL),
		WithReaderHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)
	_, err := e.Fetch(context.Background(), &FetchRequest{URL: "https://acme.example"})

	var re *ReaderError
	require.ErrorAs(t, err, &re)
	assert.Zero(t, re.StatusCode)
	assert.False(t, errors.Is(err, ErrReaderNotConfigured))
}

func TestReaderEngine_ForwardsHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://www.google.com/", r.Header.Get("Referer"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"), "auth is not overridable")
		assert.Equal(t, "html", r.Header.Get("X-Return-Format"))
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	e := NewReaderEngine(config.ReaderConfig{APIKey: "k"}, WithReaderBaseURL(srv.URL))
	_, err := e.Fetch(context.Background(), &FetchRequest{
		URL: "https://acme.example",
		Headers: map[string]string{
			"Referer":       "https://www.google.com/",
			"Authorization": "Bearer other",
		},
	})
	require.NoError(t, err)
}

func TestNewReaderEngine_DefaultTimeout(t *testing.T) {
	e := NewReaderEngine(config.ReaderConfig{APIKey: "k"})
	assert.Equal(t, DefaultReaderTimeout, e.http.Timeout)

	e = NewReaderEngine(config.ReaderConfig{APIKey: "k", Timeout: 3 * time.Second})
	assert.Equal(t, 3*time.Second, e.http.Timeout)
}
