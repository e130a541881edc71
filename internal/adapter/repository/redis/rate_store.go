package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// ErrRateMiss is returned when no rate is cached for a currency.
var ErrRateMiss = errors.New("rate not cached")

// RateStore caches exchange rates in Redis. Each rate is written twice: a
// fresh key with a TTL and a fallback key without one, so a stale rate can
// still be served when the upstream provider is down.
type RateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRateStore creates a new RateStore.
func NewRateStore(client *redis.Client, ttl time.Duration) *RateStore {
	return &RateStore{client: client, ttl: ttl}
}

func freshKey(currency string) string    { return "rates:fresh:" + currency }
func fallbackKey(currency string) string { return "rates:last:" + currency }

// Get returns the cached rate for a currency. stale is true when only the
// fallback value was available.
func (s *RateStore) Get(ctx context.Context, currency string) (rate decimal.Decimal, stale bool, err error) {
	val, err := s.client.Get(ctx, freshKey(currency)).Result()
	if err == nil {
		rate, err = decimal.NewFromString(val)
		return rate, false, err
	}
	if !errors.Is(err, redis.Nil) {
		return decimal.Zero, false, err
	}

	val, err = s.client.Get(ctx, fallbackKey(currency)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, ErrRateMiss
	}
	if err != nil {
		return decimal.Zero, false, err
	}

	rate, err = decimal.NewFromString(val)
	return rate, true, err
}

// Set stores a freshly fetched rate.
func (s *RateStore) Set(ctx context.Context, currency string, rate decimal.Decimal) error {
	val := rate.String()
	if err := s.client.Set(ctx, freshKey(currency), val, s.ttl).Err(); err != nil {
		return err
	}
	return s.client.Set(ctx, fallbackKey(currency), val, 0).Err()
}
