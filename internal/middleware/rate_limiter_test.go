package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Hour, 2, time.Hour)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first request should pass")
	}
	if !limiter.Allow("10.0.0.1") {
		t.Fatal("burst request should pass")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("request beyond burst should be blocked")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Hour, 1, time.Hour)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first key should pass")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("first key should now be blocked")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Fatal("second key should be unaffected")
	}
}

func TestRateLimiterExpiresIdleVisitors(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Hour, 1, time.Minute)

	concrete, ok := limiter.(*ipRateLimiter)
	if !ok {
		t.Fatal("expected ipRateLimiter implementation")
	}

	base := time.Now()
	concrete.WithNowFunc(func() time.Time { return base })

	limiter.Allow("10.0.0.1")
	if len(concrete.visitors) != 1 {
		t.Fatalf("expected one tracked visitor, got %d", len(concrete.visitors))
	}

	concrete.WithNowFunc(func() time.Time { return base.Add(2 * time.Minute) })
	limiter.Allow("10.0.0.2")

	concrete.mu.Lock()
	_, stale := concrete.visitors["10.0.0.1"]
	concrete.mu.Unlock()
	if stale {
		t.Fatal("idle visitor should have been evicted")
	}
}
