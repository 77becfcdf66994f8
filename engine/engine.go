package engine

import (
	"context"
	"time"
)

// Client timeouts used when the configuration leaves them unset.
const (
	DefaultStaticTimeout     = 20 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultReaderTimeout     = 30 * time.Second
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier ("static", "headless", "remote-reader").
	Name() string

	// Fetch retrieves the page HTML for the given request. Engines never
	// retry; a failure is returned as-is to the caller.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL string

	// Headers are sent in addition to the engine's browser-like defaults
	// and override them on conflict. The reader engine forwards them but
	// keeps its own Authorization and X-Return-Format.
	Headers map[string]string
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	HTML       string
	StatusCode int
	FinalURL   string
}
