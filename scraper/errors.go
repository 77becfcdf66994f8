package scraper

import (
	"fmt"
	"strings"
)

// InvalidURLError is returned before any backend runs when the input is
// not an absolute http(s) URL.
type InvalidURLError struct {
	URL    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL %q: %s", e.URL, e.Reason)
}

// FailedError is returned when every backend failed or produced data
// that did not pass the quality gate. Reasons holds one
// "<backend>: <reason>" entry per backend, in attempt order.
type FailedError struct {
	URL     string
	Reasons []string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf(
		"all scraping methods failed for %s. Errors: %s. Please try a different URL or check if the website is accessible.",
		e.URL, strings.Join(e.Reasons, "; "),
	)
}
