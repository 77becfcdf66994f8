package scraper

import (
	"net/url"
	"strings"
)

// ValidateURL accepts only absolute http or https URLs with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return &InvalidURLError{URL: raw, Reason: "empty"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return &InvalidURLError{URL: raw, Reason: "malformed"}
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return &InvalidURLError{URL: raw, Reason: "not an absolute URL"}
	default:
		return &InvalidURLError{URL: raw, Reason: "unsupported scheme " + u.Scheme}
	}

	if u.Hostname() == "" {
		return &InvalidURLError{URL: raw, Reason: "missing host"}
	}
	return nil
}
