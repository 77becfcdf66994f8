package engine

import (
	"errors"
	"fmt"
)

// ErrReaderNotConfigured is returned by the reader engine when no API key
// is set. No network call is made in that case.
var ErrReaderNotConfigured = errors.New("reader API key not configured")

// FetchError reports a failed static fetch: either a transport failure
// (Err set) or a non-2xx response (StatusCode set).
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RenderError reports a headless browser failure at a given stage
// ("launch", "navigate", "settle", "capture").
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ReaderError reports a failed call to the remote reader service.
type ReaderError struct {
	StatusCode int
	Err        error
}

func (e *ReaderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("reader returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("reader request failed: %v", e.Err)
}

func (e *ReaderError) Unwrap() error { return e.Err }

// ConfigError reports that an engine cannot run with its current
// configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }
