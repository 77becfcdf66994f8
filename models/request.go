package models

// ScrapeRequest is the payload for POST /api/v1/scrape.
type ScrapeRequest struct {
	// URL is the company website to scrape. Required.
	// Scheme validation happens in the scraper so that non-http(s) input
	// surfaces as INVALID_URL rather than a generic binding error.
	URL string `json:"url" binding:"required"`

	// IncludeContent adds a Markdown digest of the page's main content to
	// the response, for downstream prompt construction.
	IncludeContent bool `json:"include_content,omitempty"`

	// MaxAge allows serving a cached response younger than this many
	// milliseconds. Zero (the default) always scrapes fresh.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}
