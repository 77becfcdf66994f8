package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/use-agent/leadscrape/config"
)

// ReaderEngine is the remote-reader backend: it asks a Jina-style reader
// service (GET {base}/{url}) to render the page server-side and return HTML.
type ReaderEngine struct {
	apiKey  string
	baseURL string
	http    *http.Client
	maxBody int64
}

// ReaderOption configures a ReaderEngine.
type ReaderOption func(*ReaderEngine)

// WithReaderBaseURL sets a custom reader endpoint (for testing).
func WithReaderBaseURL(url string) ReaderOption {
	return func(e *ReaderEngine) {
		e.baseURL = url
	}
}

// WithReaderHTTPClient sets a custom HTTP client.
func WithReaderHTTPClient(hc *http.Client) ReaderOption {
	return func(e *ReaderEngine) {
		e.http = hc
	}
}

// NewReaderEngine creates a ReaderEngine. An empty cfg.APIKey is allowed;
// Fetch then fails with ErrReaderNotConfigured. A zero cfg.Timeout falls
// back to DefaultReaderTimeout.
func NewReaderEngine(cfg config.ReaderConfig, opts ...ReaderOption) *ReaderEngine {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultReaderTimeout
	}
	e := &ReaderEngine{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		maxBody: 10 << 20,
	}
	if e.baseURL == "" {
		e.baseURL = "https://r.jina.ai"
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *ReaderEngine) Name() string { return "remote-reader" }

// Configured reports whether an API key is set.
func (e *ReaderEngine) Configured() bool { return e.apiKey != "" }

func (e *ReaderEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if !e.Configured() {
		return nil, &ConfigError{Err: ErrReaderNotConfigured}
	}

	endpoint := strings.TrimRight(e.baseURL, "/") + "/" + req.URL
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ReaderError{Err: err}
	}
	httpReq.Header.Set("Accept", "text/html")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)
	httpReq.Header.Set("X-Return-Format", "html")

	resp, err := e.http.Do(httpReq)
	if err != nil {
		return nil, &ReaderError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, &ReaderError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBody))
	if err != nil {
		return nil, &ReaderError{Err: fmt.Errorf("read body: %w", err)}
	}

	return &FetchResult{
		HTML:       string(body),
		StatusCode: resp.StatusCode,
		FinalURL:   req.URL,
	}, nil
}
