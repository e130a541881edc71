package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/evraktakip/evraktakip/internal/adapter/repository/redis"
)

func newTestStore(t *testing.T) (*redis.RateStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return redis.NewRateStore(client, time.Minute), mr
}

func TestRateBaseCurrency(t *testing.T) {
	store, mr := newTestStore(t)
	defer mr.Close()

	svc := NewService("http://unused", time.Second, store)

	rate, err := svc.Rate(context.Background(), "TRY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected base currency rate 1, got %s", rate)
	}
}

func TestRateFetchesAndCaches(t *testing.T) {
	store, mr := newTestStore(t)
	defer mr.Close()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"result":"success","rates":{"USD":0.025,"EUR":0.02}}`))
	}))
	defer server.Close()

	svc := NewService(server.URL, time.Second, store)
	ctx := context.Background()

	rate, err := svc.Rate(ctx, "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1 / 0.025 = 40 TRY per USD
	if !rate.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected 40, got %s", rate)
	}

	// Second call served from cache.
	if _, err := svc.Rate(ctx, "USD"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single provider call, got %d", calls)
	}
}

func TestRateServesStaleWhenProviderDown(t *testing.T) {
	store, mr := newTestStore(t)
	defer mr.Close()

	if err := store.Set(context.Background(), "EUR", decimal.RequireFromString("48.5")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	server.Close() // provider unreachable

	svc := NewService(server.URL, 100*time.Millisecond, store)

	rate, err := svc.Rate(context.Background(), "EUR")
	if err != nil {
		t.Fatalf("expected stale rate, got error: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("48.5")) {
		t.Fatalf("expected stale 48.5, got %s", rate)
	}
}

func TestRateUnavailable(t *testing.T) {
	store, mr := newTestStore(t)
	defer mr.Close()

	server := httptest.NewServer(nil)
	server.Close()

	svc := NewService(server.URL, 100*time.Millisecond, store)

	_, err := svc.Rate(context.Background(), "CHF")
	if !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}
