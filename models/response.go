package models

// ScrapeResponse is the response for POST /api/v1/scrape.
type ScrapeResponse struct {
	// Success indicates whether the scrape completed without errors.
	Success bool `json:"success"`

	// Data is the extracted company record.
	Data *ScrapedResult `json:"data,omitempty"`

	// Content is the cleaned main-content digest, present only when
	// include_content was requested.
	Content *ContentDigest `json:"content,omitempty"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// ContentDigest is the readable main content of a scraped page.
type ContentDigest struct {
	Title    string    `json:"title,omitempty"`
	Excerpt  string    `json:"excerpt,omitempty"`
	Markdown string    `json:"markdown"`
	Tokens   TokenInfo `json:"tokens"`
}

// TokenInfo provides before/after token estimates to show cleaning efficacy.
type TokenInfo struct {
	// OriginalEstimate is the estimated token count of the raw HTML.
	OriginalEstimate int `json:"original_estimate"`

	// CleanedEstimate is the estimated token count of the cleaned output.
	CleanedEstimate int `json:"cleaned_estimate"`

	// SavingsPercent is the percentage of tokens removed (0-100).
	SavingsPercent float64 `json:"savings_percent"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// ScrapeMs is the time spent in the backend fallback pipeline.
	ScrapeMs int64 `json:"scrape_ms"`

	// CleaningMs is the time spent building the content digest.
	CleaningMs int64 `json:"cleaning_ms,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status   string   `json:"status"` // "healthy" or "degraded"
	Uptime   string   `json:"uptime"`
	Backends []string `json:"backends"`
	Reader   string   `json:"reader"` // "configured" or "not_configured"
	Version  string   `json:"version"`
}
