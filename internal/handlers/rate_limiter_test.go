package handlers

import (
	"testing"
	"time"
)

func TestSimpleRateLimiterWindowReset(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	limiter := newSimpleRateLimiter(2, time.Minute, clock)

	if !limiter.Allow("10.0.0.1") || !limiter.Allow("10.0.0.1") {
		t.Fatal("expected first two requests to pass")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("expected third request rejected")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Fatal("expected separate keys tracked independently")
	}

	now = now.Add(61 * time.Second)
	if !limiter.Allow("10.0.0.1") {
		t.Fatal("expected allowance after window reset")
	}
}

func TestSimpleRateLimiterDisabled(t *testing.T) {
	if limiter := newSimpleRateLimiter(0, time.Minute, nil); limiter != nil {
		t.Fatal("expected nil limiter for zero limit")
	}
}

func TestSimpleRateLimiterBlankKey(t *testing.T) {
	limiter := newSimpleRateLimiter(1, time.Minute, nil)
	if !limiter.Allow("") {
		t.Fatal("expected first anonymous request to pass")
	}
	if limiter.Allow("  ") {
		t.Fatal("expected blank keys to share the anonymous bucket")
	}
}
