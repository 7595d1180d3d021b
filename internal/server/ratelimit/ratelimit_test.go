package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/config"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute, DefaultBurst: 3})

	for i := range 3 {
		allowed, info := l.Allow("10.0.0.1", "/api/document", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 60, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/api/document", "GET")
	assert.False(t, allowed)
	assert.Equal(t, time.Second, info.RetryAfter)
	assert.Equal(t, 0, info.Remaining)
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute, DefaultBurst: 2})

	l.Allow("c", "/api/next", "POST")
	l.Allow("c", "/api/next", "POST")
	allowed, _ := l.Allow("c", "/api/next", "POST")
	require.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _ = l.Allow("c", "/api/next", "POST")
	assert.True(t, allowed, "one token per second at 60/min")
	allowed, _ = l.Allow("c", "/api/next", "POST")
	assert.False(t, allowed)

	clock.Advance(time.Hour)
	_, info := l.Allow("c", "/api/next", "POST")
	assert.Equal(t, 1, info.Remaining, "refill stops at capacity")
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	allowed, _ := l.Allow("a", "/api/document", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "/api/document", "GET")
	assert.False(t, allowed)
	allowed, _ = l.Allow("b", "/api/document", "GET")
	assert.True(t, allowed)
}

func TestLimiter_DefaultBucketIsSharedAcrossPaths(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 2, DefaultWindow: time.Minute})

	l.Allow("a", "/api/document", "GET")
	l.Allow("a", "/api/errors", "GET")
	allowed, _ := l.Allow("a", "/api/next", "POST")
	assert.False(t, allowed)
}

func TestLimiter_EndpointRules(t *testing.T) {
	l, _ := newTestLimiter(t, FromConfig(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1000, Burst: 1000}))

	for range 3 {
		allowed, _ := l.Allow("a", "/api/export", "POST")
		require.True(t, allowed)
	}
	allowed, info := l.Allow("a", "/api/export", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 10, info.Limit)

	allowed, _ = l.Allow("a", "/api/document", "GET")
	assert.True(t, allowed, "other endpoints use the default bucket")
}

func TestLimiter_Unlimited(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		clientID string
		path     string
	}{
		{name: "disabled", cfg: &Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Minute}, clientID: "a", path: "/api/document"},
		{name: "nil config", cfg: nil, clientID: "a", path: "/api/document"},
		{name: "allowlisted", cfg: &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, Allowlist: map[string]bool{"127.0.0.1": true}}, clientID: "127.0.0.1", path: "/api/document"},
		{name: "health", cfg: &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute}, clientID: "a", path: "/health"},
		{name: "metrics", cfg: &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute}, clientID: "a", path: "/metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLimiter(t, tt.cfg)
			for range 5 {
				allowed, _ := l.Allow(tt.clientID, tt.path, "GET")
				assert.True(t, allowed)
			}
		})
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	l.Allow("old", "/api/document", "GET")
	clock.Advance(2 * time.Hour)
	l.Allow("new", "/api/document", "GET")

	l.cleanup(clock.Now().Add(-time.Hour))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "new|default")
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})

	var mu sync.Mutex
	allowed := 0
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("a", "/api/document", "GET"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestMatchRule(t *testing.T) {
	rules := []Rule{
		{Name: "exact", Path: "/api/export", Method: "POST"},
		{Name: "prefix", Path: "/api/preview/", Method: "GET"},
	}

	tests := []struct {
		path   string
		method string
		want   string
	}{
		{path: "/api/export", method: "POST", want: "exact"},
		{path: "/api/export", method: "GET", want: ""},
		{path: "/api/preview/stream", method: "GET", want: "prefix"},
		{path: "/health", method: "GET", want: "unlimited"},
		{path: "/api/document", method: "GET", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchRule(tt.path, tt.method, rules)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestStop_Idempotent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Hour})
	l.Stop()
	l.Stop()
}
