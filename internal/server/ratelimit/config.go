package ratelimit

import (
	"time"

	"github.com/jonathan/resume-builder/internal/config"
)

// Rule limits one group of endpoints. Paths ending in "/" match by prefix.
type Rule struct {
	Name   string
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds rate limiting configuration
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	DefaultBurst    int
	CleanupInterval time.Duration
	Allowlist       map[string]bool
	Rules           []Rule
}

// FromConfig builds the limiter configuration from the server settings. The
// configured rate applies to ordinary API calls; export and summarize get their
// own tighter buckets.
func FromConfig(cfg config.RateLimitConfig) *Config {
	return &Config{
		Enabled:         cfg.Enabled,
		DefaultLimit:    cfg.RequestsPerMinute,
		DefaultWindow:   time.Minute,
		DefaultBurst:    cfg.Burst,
		CleanupInterval: 5 * time.Minute,
		Allowlist:       map[string]bool{},
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the endpoint-specific limits
func DefaultRules() []Rule {
	return []Rule{
		// printing and hosted models are slow and cost money
		{Name: "export", Path: "/api/export", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Name: "summarize", Path: "/api/summarize", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		// streams are long-lived; only reconnects count
		{Name: "stream", Path: "/api/preview/stream", Method: "GET", Limit: 30, Window: time.Minute, Burst: 10},
	}
}
