package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	coremocks "github.com/amirhossein-jamali/points-ledger/internal/mocks/port/core"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func newRedisLock(t *testing.T) (*RedisUserLock, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return NewRedisUserLock(client, coremocks.NewPermissiveLogger()), mock
}

func TestRedisUserLockAcquire(t *testing.T) {
	t.Run("Free key", func(t *testing.T) {
		l, mock := newRedisLock(t)
		mock.ExpectSetNX("points-ledger:user-lock:7", l.Owner(), 5*time.Second).SetVal(true)

		assert.NoError(t, l.AcquireLock(context.Background(), 7, 5*time.Second))
	})

	t.Run("Held by someone else", func(t *testing.T) {
		l, mock := newRedisLock(t)
		mock.ExpectSetNX("points-ledger:user-lock:7", l.Owner(), time.Second).SetVal(false)

		assert.ErrorIs(t, l.AcquireLock(context.Background(), 7, time.Second), errs.ErrUserLocked)
	})

	t.Run("Redis unavailable", func(t *testing.T) {
		l, mock := newRedisLock(t)
		mock.ExpectSetNX("points-ledger:user-lock:7", l.Owner(), time.Second).SetErr(errors.New("connection refused"))

		err := l.AcquireLock(context.Background(), 7, time.Second)
		assert.ErrorIs(t, err, errs.ErrPersistence)
	})
}

func TestRedisUserLockRelease(t *testing.T) {
	t.Run("Owned key is deleted", func(t *testing.T) {
		l, mock := newRedisLock(t)
		mock.ExpectEval(releaseScript, []string{"points-ledger:user-lock:7"}, l.Owner()).SetVal(int64(1))

		assert.NoError(t, l.ReleaseLock(context.Background(), 7))
	})

	t.Run("Expired key is not an error", func(t *testing.T) {
		l, mock := newRedisLock(t)
		mock.ExpectEval(releaseScript, []string{"points-ledger:user-lock:7"}, l.Owner()).SetVal(int64(0))

		assert.NoError(t, l.ReleaseLock(context.Background(), 7))
	})

	t.Run("Redis error", func(t *testing.T) {
		l, mock := newRedisLock(t)
		mock.ExpectEval(releaseScript, []string{"points-ledger:user-lock:7"}, l.Owner()).SetErr(errors.New("READONLY"))

		assert.ErrorIs(t, l.ReleaseLock(context.Background(), 7), errs.ErrDatabaseConnection)
	})
}

func TestRedisUserLockOwnersDiffer(t *testing.T) {
	a, _ := newRedisLock(t)
	b, _ := newRedisLock(t)
	assert.NotEqual(t, a.Owner(), b.Owner())
}
