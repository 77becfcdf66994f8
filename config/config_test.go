package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LEADSCRAPE_READER_API_KEY", "")
	t.Setenv("JINA_API_KEY", "")

	cfg := Load()

	if cfg.Headless.NavigationTimeout != 30*time.Second {
		t.Errorf("navigation timeout = %v, want 30s", cfg.Headless.NavigationTimeout)
	}
	if cfg.Headless.SettleDelay != 2*time.Second {
		t.Errorf("settle delay = %v, want 2s", cfg.Headless.SettleDelay)
	}
	if cfg.Headless.NoSandbox {
		t.Error("browser sandbox should be on by default")
	}
	if cfg.Static.Timeout != 20*time.Second {
		t.Errorf("static timeout = %v, want 20s", cfg.Static.Timeout)
	}
	if cfg.Reader.APIKey != "" {
		t.Errorf("reader key = %q, want empty", cfg.Reader.APIKey)
	}
	if cfg.Reader.BaseURL != "https://r.jina.ai" {
		t.Errorf("reader base URL = %q", cfg.Reader.BaseURL)
	}
}

func TestLoad_ReaderKeyFallsBackToJinaKey(t *testing.T) {
	t.Setenv("LEADSCRAPE_READER_API_KEY", "")
	t.Setenv("JINA_API_KEY", "jina-key")

	if got := Load().Reader.APIKey; got != "jina-key" {
		t.Errorf("reader key = %q, want jina-key", got)
	}

	t.Setenv("LEADSCRAPE_READER_API_KEY", "primary")
	if got := Load().Reader.APIKey; got != "primary" {
		t.Errorf("reader key = %q, want primary", got)
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	t.Setenv("LEADSCRAPE_PORT", "9090")
	t.Setenv("LEADSCRAPE_NAV_TIMEOUT", "45s")
	t.Setenv("LEADSCRAPE_API_KEYS", " a, b ,,c ")
	t.Setenv("LEADSCRAPE_NO_SANDBOX", "true")
	t.Setenv("LEADSCRAPE_RATE_RPS", "not-a-number")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Headless.NavigationTimeout != 45*time.Second {
		t.Errorf("navigation timeout = %v, want 45s", cfg.Headless.NavigationTimeout)
	}
	if len(cfg.Auth.APIKeys) != 3 || cfg.Auth.APIKeys[1] != "b" {
		t.Errorf("api keys = %v, want [a b c]", cfg.Auth.APIKeys)
	}
	if !cfg.Headless.NoSandbox {
		t.Error("expected no-sandbox override")
	}
	if cfg.RateLimit.RequestsPerSecond != 1.0 {
		t.Errorf("malformed rps should fall back to default, got %v", cfg.RateLimit.RequestsPerSecond)
	}
}

func TestLoad_ExtraHeaders(t *testing.T) {
	t.Setenv("LEADSCRAPE_EXTRA_HEADERS", `{"Referer":"https://www.google.com/","Accept-Language":"en-GB,en;q=0.8"}`)

	h := Load().Fetch.ExtraHeaders
	if h["Referer"] != "https://www.google.com/" || h["Accept-Language"] != "en-GB,en;q=0.8" {
		t.Errorf("extra headers = %v", h)
	}

	t.Setenv("LEADSCRAPE_EXTRA_HEADERS", "Referer=nope")
	if h := Load().Fetch.ExtraHeaders; h != nil {
		t.Errorf("malformed headers should fall back to nil, got %v", h)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Load()
		cfg.Auth.Enabled = false
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "zero static timeout", mutate: func(c *Config) { c.Static.Timeout = 0 }, wantErr: true},
		{name: "negative settle", mutate: func(c *Config) { c.Headless.SettleDelay = -time.Second }, wantErr: true},
		{name: "empty reader url", mutate: func(c *Config) { c.Reader.BaseURL = "" }, wantErr: true},
		{name: "auth without keys", mutate: func(c *Config) { c.Auth.Enabled = true; c.Auth.APIKeys = nil }, wantErr: true},
		{name: "auth with keys", mutate: func(c *Config) { c.Auth.Enabled = true; c.Auth.APIKeys = []string{"k"} }},
		{name: "extra header", mutate: func(c *Config) { c.Fetch.ExtraHeaders = map[string]string{"Referer": "https://www.google.com/"} }},
		{name: "extra header with colon", mutate: func(c *Config) { c.Fetch.ExtraHeaders = map[string]string{"Referer:": "x"} }, wantErr: true},
		{name: "empty extra header name", mutate: func(c *Config) { c.Fetch.ExtraHeaders = map[string]string{"": "x"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
