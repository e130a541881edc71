package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier() *Retrier {
	r := NewRetrier()
	r.initialInterval = time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 100 * time.Millisecond
	return r
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0

	err := fastRetrier().Retry(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryRecoversFromDeadlock(t *testing.T) {
	calls := 0

	err := fastRetrier().Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: pgErrDeadlock}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryRecoversFromSerializationFailure(t *testing.T) {
	calls := 0

	err := fastRetrier().Retry(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &pgconn.PgError{Code: pgErrSerializationFailure}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("kayit bulunamadi")

	err := fastRetrier().Retry(context.Background(), func() error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetryGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0

	err := fastRetrier().Retry(context.Background(), func() error {
		calls++
		return &pgconn.PgError{Code: pgErrDeadlock}
	})

	require.Error(t, err)
	// initial attempt plus maxRetries
	assert.Equal(t, 4, calls)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	err := fastRetrier().Retry(ctx, func() error {
		cancel()
		return &pgconn.PgError{Code: pgErrDeadlock}
	})

	require.Error(t, err)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"deadlock", &pgconn.PgError{Code: pgErrDeadlock}, true},
		{"serialization failure", &pgconn.PgError{Code: pgErrSerializationFailure}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("baglanti koptu"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryableError(tt.err))
		})
	}
}
