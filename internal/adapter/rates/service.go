package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/evraktakip/evraktakip/internal/adapter/repository/redis"
	"github.com/evraktakip/evraktakip/internal/domain"
)

// ErrRateUnavailable is returned when no rate can be obtained for a currency,
// neither from the provider nor from the cache.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// Service fetches TRY exchange rates from an external provider and caches
// them in Redis. A stale cached rate is served when the provider is down.
type Service struct {
	url    string
	client *http.Client
	store  *redis.RateStore
	logger zerolog.Logger
}

// NewService creates a new Service.
func NewService(url string, timeout time.Duration, store *redis.RateStore) *Service {
	return &Service{
		url:    url,
		client: &http.Client{Timeout: timeout},
		store:  store,
		logger: log.Logger,
	}
}

// Rate returns how many TRY one unit of the given currency is worth.
func (s *Service) Rate(ctx context.Context, currency string) (decimal.Decimal, error) {
	if currency == domain.BaseCurrency {
		return decimal.NewFromInt(1), nil
	}
	if !domain.ValidCurrencies[currency] {
		return decimal.Zero, fmt.Errorf("%w: unknown currency %q", domain.ErrValidation, currency)
	}

	rate, stale, err := s.store.Get(ctx, currency)
	if err == nil && !stale {
		return rate, nil
	}
	if err != nil && !errors.Is(err, redis.ErrRateMiss) {
		s.logger.Warn().Err(err).Msg("rate cache read failed")
	}

	fetched, fetchErr := s.fetch(ctx, currency)
	if fetchErr == nil {
		if storeErr := s.store.Set(ctx, currency, fetched); storeErr != nil {
			s.logger.Warn().Err(storeErr).Msg("rate cache write failed")
		}
		return fetched, nil
	}

	if stale {
		s.logger.Warn().Err(fetchErr).Str("currency", currency).Msg("serving stale exchange rate")
		return rate, nil
	}

	return decimal.Zero, fmt.Errorf("%w: %s", ErrRateUnavailable, currency)
}

type providerResponse struct {
	Result string                     `json:"result"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

// fetch queries the provider with exponential backoff. The provider quotes
// rates against TRY, so the inverse gives TRY per unit of foreign currency.
func (s *Service) fetch(ctx context.Context, currency string) (decimal.Decimal, error) {
	var resp providerResponse

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		res, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			return fmt.Errorf("rate provider returned %d", res.StatusCode)
		}

		return json.NewDecoder(res.Body).Decode(&resp)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return decimal.Zero, err
	}

	quoted, ok := resp.Rates[currency]
	if !ok || quoted.IsZero() {
		return decimal.Zero, fmt.Errorf("provider quoted no rate for %s", currency)
	}

	return decimal.NewFromInt(1).DivRound(quoted, 6), nil
}
