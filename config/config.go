package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultUserAgent is the desktop Chrome user agent sent by the static and
// headless backends.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Static    StaticConfig
	Headless  HeadlessConfig
	Reader    ReaderConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"

	// RequestTimeout bounds a single scrape request end to end. It must
	// leave room for all three backends to run in sequence.
	RequestTimeout time.Duration // default: 120s
}

// FetchConfig holds settings shared by every backend.
type FetchConfig struct {
	// ExtraHeaders are sent with every backend request on top of the
	// browser-like defaults. Set as a JSON object in LEADSCRAPE_EXTRA_HEADERS.
	ExtraHeaders map[string]string
}

// StaticConfig controls the plain HTTP backend.
type StaticConfig struct {
	// Timeout bounds the whole GET including body read.
	Timeout time.Duration // default: 20s

	UserAgent string

	// MaxBodyBytes caps how much of the response body is read.
	MaxBodyBytes int64 // default: 10 MB
}

// HeadlessConfig controls the per-request headless browser backend.
type HeadlessConfig struct {
	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// NoSandbox disables Chrome's sandbox (needed in some containers).
	NoSandbox bool // default: false

	// NavigationTimeout bounds navigation plus the network-idle wait.
	NavigationTimeout time.Duration // default: 30s

	// SettleDelay is the fixed pause after network idle that lets
	// late client-side rendering finish.
	SettleDelay time.Duration // default: 2s

	// IdleWindow is how long the network must stay quiet to count as idle.
	IdleWindow time.Duration // default: 500ms

	// Stealth injects anti-bot-detection evasions before navigation.
	Stealth bool // default: false

	UserAgent string
}

// ReaderConfig controls the remote reader backend.
type ReaderConfig struct {
	// APIKey authenticates against the reader service. When empty the
	// backend reports itself as not configured.
	APIKey string

	// BaseURL is the reader endpoint; the target URL is appended as a path.
	BaseURL string // default: "https://r.jina.ai"

	Timeout time.Duration // default: 30s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// CacheConfig controls the opt-in scrape response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 500

	// TTL is the hard upper bound on how long an entry is kept,
	// regardless of the max_age a request asks for.
	TTL time.Duration // default: 1h
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           envOr("LEADSCRAPE_HOST", "0.0.0.0"),
			Port:           envIntOr("LEADSCRAPE_PORT", 8080),
			Mode:           envOr("LEADSCRAPE_MODE", "release"),
			RequestTimeout: envDurationOr("LEADSCRAPE_REQUEST_TIMEOUT", 120*time.Second),
		},
		Fetch: FetchConfig{
			ExtraHeaders: envHeadersOr("LEADSCRAPE_EXTRA_HEADERS", nil),
		},
		Static: StaticConfig{
			Timeout:      envDurationOr("LEADSCRAPE_STATIC_TIMEOUT", 20*time.Second),
			UserAgent:    envOr("LEADSCRAPE_USER_AGENT", DefaultUserAgent),
			MaxBodyBytes: int64(envIntOr("LEADSCRAPE_STATIC_MAX_BODY", 10<<20)),
		},
		Headless: HeadlessConfig{
			BrowserBin:        os.Getenv("LEADSCRAPE_BROWSER_BIN"),
			NoSandbox:         envBoolOr("LEADSCRAPE_NO_SANDBOX", false),
			NavigationTimeout: envDurationOr("LEADSCRAPE_NAV_TIMEOUT", 30*time.Second),
			SettleDelay:       envDurationOr("LEADSCRAPE_SETTLE_DELAY", 2*time.Second),
			IdleWindow:        envDurationOr("LEADSCRAPE_IDLE_WINDOW", 500*time.Millisecond),
			Stealth:           envBoolOr("LEADSCRAPE_STEALTH", false),
			UserAgent:         envOr("LEADSCRAPE_USER_AGENT", DefaultUserAgent),
		},
		Reader: ReaderConfig{
			APIKey:  envOr("LEADSCRAPE_READER_API_KEY", os.Getenv("JINA_API_KEY")),
			BaseURL: envOr("LEADSCRAPE_READER_BASE_URL", "https://r.jina.ai"),
			Timeout: envDurationOr("LEADSCRAPE_READER_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("LEADSCRAPE_AUTH_ENABLED", true),
			APIKeys: envSliceOr("LEADSCRAPE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("LEADSCRAPE_RATE_RPS", 1.0),
			Burst:             envIntOr("LEADSCRAPE_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("LEADSCRAPE_CACHE_MAX_ENTRIES", 500),
			TTL:        envDurationOr("LEADSCRAPE_CACHE_TTL", time.Hour),
		},
		Log: LogConfig{
			Level:  envOr("LEADSCRAPE_LOG_LEVEL", "info"),
			Format: envOr("LEADSCRAPE_LOG_FORMAT", "json"),
		},
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.Static.Timeout <= 0 {
		return fmt.Errorf("static timeout must be positive")
	}
	if c.Static.MaxBodyBytes <= 0 {
		return fmt.Errorf("static max body must be positive")
	}
	if c.Headless.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive")
	}
	if c.Headless.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative")
	}
	if c.Reader.Timeout <= 0 {
		return fmt.Errorf("reader timeout must be positive")
	}
	if c.Reader.BaseURL == "" {
		return fmt.Errorf("reader base URL cannot be empty")
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive")
	}
	for name := range c.Fetch.ExtraHeaders {
		if name == "" || strings.ContainsAny(name, ": \t\r\n") {
			return fmt.Errorf("invalid extra header name %q", name)
		}
	}
	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("auth enabled but LEADSCRAPE_API_KEYS is empty")
	}
	return nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

// envHeadersOr parses a JSON object of header names to values.
func envHeadersOr(key string, fallback map[string]string) map[string]string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var headers map[string]string
	if err := json.Unmarshal([]byte(v), &headers); err != nil {
		return fallback
	}
	return headers
}
