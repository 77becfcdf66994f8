package models

import "time"

// Sentinel values used when no extraction strategy produced an acceptable
// value for a required field.
const (
	UnknownCompany = "Unknown Company"
	NoDescription  = "No description available"
)

// Method identifies which backend produced a ScrapedResult.
type Method string

const (
	MethodStatic       Method = "static"
	MethodHeadless     Method = "headless"
	MethodRemoteReader Method = "remote-reader"
)

// CompanyInfo is the set of fields derived from a page's HTML.
// Optional fields are empty when absent.
type CompanyInfo struct {
	CompanyName string `json:"company_name"`
	Description string `json:"description"`
	Industry    string `json:"industry,omitempty"`
	Size        string `json:"size,omitempty"`
	Location    string `json:"location,omitempty"`
}

// ScrapedResult is the canonical output of the scraping pipeline.
type ScrapedResult struct {
	CompanyInfo

	// RawHTML is the full payload as obtained by the winning backend.
	RawHTML string `json:"raw_html"`

	Metadata ResultMetadata `json:"metadata"`
}

// ResultMetadata records how and when a result was obtained.
type ResultMetadata struct {
	Method     Method    `json:"method"`
	URL        string    `json:"url"`
	ScrapedAt  time.Time `json:"scraped_at"`
	FinalURL   string    `json:"final_url,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}
