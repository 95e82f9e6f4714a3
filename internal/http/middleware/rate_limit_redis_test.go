package middleware

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisLimiterForTest(t *testing.T) (*miniredis.Miniredis, *RedisFixedWindowLimiter) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return m, NewRedisFixedWindowLimiter(client, "rl_test")
}

func TestRedisFixedWindowLimiterAllowsThenDenies(t *testing.T) {
	_, limiter := newRedisLimiterForTest(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(ctx, "1.2.3.4", 2, time.Minute)
		if err != nil {
			t.Fatalf("allow request %d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}

	allowed, retryAfter, err := limiter.Allow(ctx, "1.2.3.4", 2, time.Minute)
	if err != nil {
		t.Fatalf("allow over-limit request: %v", err)
	}
	if allowed {
		t.Fatal("expected over-limit request to be denied")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry-after, got %v", retryAfter)
	}
}

func TestRedisFixedWindowLimiterResetsAfterWindow(t *testing.T) {
	m, limiter := newRedisLimiterForTest(t)
	ctx := context.Background()

	if allowed, _, err := limiter.Allow(ctx, "1.2.3.4", 1, time.Second); err != nil || !allowed {
		t.Fatalf("first request: allowed=%v err=%v", allowed, err)
	}
	if allowed, _, _ := limiter.Allow(ctx, "1.2.3.4", 1, time.Second); allowed {
		t.Fatal("expected second request denied within window")
	}

	m.FastForward(2 * time.Second)

	if allowed, _, err := limiter.Allow(ctx, "1.2.3.4", 1, time.Second); err != nil || !allowed {
		t.Fatalf("expected fresh window after expiry: allowed=%v err=%v", allowed, err)
	}
}

func TestRedisFixedWindowLimiterNilClientFails(t *testing.T) {
	limiter := NewRedisFixedWindowLimiter(nil, "")
	if _, _, err := limiter.Allow(context.Background(), "k", 1, time.Second); err == nil {
		t.Fatal("expected nil client error")
	}
}

func TestRedisFixedWindowLimiterEmptyKeyFallsBack(t *testing.T) {
	m, limiter := newRedisLimiterForTest(t)

	if allowed, _, err := limiter.Allow(context.Background(), "", 1, time.Minute); err != nil || !allowed {
		t.Fatalf("empty key request: allowed=%v err=%v", allowed, err)
	}
	if !m.Exists("rl_test:unknown") {
		t.Fatal("expected fallback key in redis")
	}
}
