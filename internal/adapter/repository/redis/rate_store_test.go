package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRateStoreSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewRateStore(client, time.Minute)
	ctx := context.Background()

	if err := store.Set(ctx, "USD", decimal.RequireFromString("41.25")); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	rate, stale, err := store.Get(ctx, "USD")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stale {
		t.Fatalf("expected fresh rate right after set")
	}
	if !rate.Equal(decimal.RequireFromString("41.25")) {
		t.Fatalf("expected 41.25, got %s", rate)
	}
}

func TestRateStoreFallbackAfterExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewRateStore(client, time.Minute)
	ctx := context.Background()

	if err := store.Set(ctx, "EUR", decimal.RequireFromString("47.80")); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	rate, stale, err := store.Get(ctx, "EUR")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !stale {
		t.Fatalf("expected stale fallback after TTL expiry")
	}
	if !rate.Equal(decimal.RequireFromString("47.80")) {
		t.Fatalf("expected fallback 47.80, got %s", rate)
	}
}

func TestRateStoreMiss(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewRateStore(client, time.Minute)

	_, _, err := store.Get(context.Background(), "GBP")
	if !errors.Is(err, ErrRateMiss) {
		t.Fatalf("expected ErrRateMiss, got %v", err)
	}
}
