package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	coremocks "github.com/amirhossein-jamali/points-ledger/internal/mocks/port/core"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func noJitter() RetryConfig {
	return RetryConfig{
		MaxRetries:    4,
		RetryInterval: 10 * time.Millisecond,
		MaxInterval:   25 * time.Millisecond,
	}
}

func TestRetryOnTransientError(t *testing.T) {
	t.Run("Succeeds after transient failures", func(t *testing.T) {
		tp := coremocks.NewFixedTimeProvider(time.Now())
		calls := 0

		err := RetryOnTransientError(context.Background(), noJitter(), tp, coremocks.NewPermissiveLogger(), func() error {
			calls++
			if calls < 3 {
				return driver.ErrBadConn
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []coreport.Duration{
			coreport.Duration(10 * time.Millisecond),
			coreport.Duration(20 * time.Millisecond),
		}, tp.Sleeps())
	})

	t.Run("Backoff is capped", func(t *testing.T) {
		tp := coremocks.NewFixedTimeProvider(time.Now())

		err := RetryOnTransientError(context.Background(), noJitter(), tp, coremocks.NewPermissiveLogger(), func() error {
			return driver.ErrBadConn
		})

		assert.ErrorIs(t, err, driver.ErrBadConn)
		assert.Equal(t, []coreport.Duration{
			coreport.Duration(10 * time.Millisecond),
			coreport.Duration(20 * time.Millisecond),
			coreport.Duration(25 * time.Millisecond),
		}, tp.Sleeps())
	})

	t.Run("Permanent errors are not retried", func(t *testing.T) {
		tp := coremocks.NewFixedTimeProvider(time.Now())
		permanent := errors.New("syntax error")
		calls := 0

		err := RetryOnTransientError(context.Background(), noJitter(), tp, coremocks.NewPermissiveLogger(), func() error {
			calls++
			return permanent
		})

		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
		assert.Empty(t, tp.Sleeps())
	})

	t.Run("Custom predicate", func(t *testing.T) {
		cfg := noJitter()
		cfg.RetryIf = func(error) bool { return true }
		calls := 0

		_ = RetryOnTransientError(context.Background(), cfg, coremocks.NewFixedTimeProvider(time.Now()), coremocks.NewPermissiveLogger(), func() error {
			calls++
			return errors.New("anything")
		})

		assert.Equal(t, cfg.MaxRetries, calls)
	})

	t.Run("Stops when the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0

		err := RetryOnTransientError(ctx, noJitter(), coremocks.NewFixedTimeProvider(time.Now()), coremocks.NewPermissiveLogger(), func() error {
			calls++
			cancel()
			return driver.ErrBadConn
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestCalculateBackoffWithJitter(t *testing.T) {
	cfg := RetryConfig{RetryInterval: 100 * time.Millisecond, MaxInterval: time.Second, JitterFactor: 0.5}

	for attempt := 0; attempt < 6; attempt++ {
		backoff := calculateBackoffWithJitter(attempt, cfg)
		base := cfg.RetryInterval * (1 << uint(attempt))
		if base > cfg.MaxInterval {
			base = cfg.MaxInterval
		}
		assert.GreaterOrEqual(t, backoff, base)
		assert.LessOrEqual(t, backoff, base+base/2)
	}
}

func TestIsTransientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"Bad connection", driver.ErrBadConn, true},
		{"Serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"Deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"Connection exception class", &pgconn.PgError{Code: "08006"}, true},
		{"Unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"Refused", errors.New("dial tcp: connect: connection refused"), true},
		{"Canceled", context.Canceled, false},
		{"Plain", errors.New("syntax error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransientError(tt.err))
		})
	}
}
