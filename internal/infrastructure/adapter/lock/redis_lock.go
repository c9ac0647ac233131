package lock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "points-ledger:user-lock:"

// releaseScript deletes the key only while it still holds our token
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisUserLock implements user leases as Redis keys with a TTL
type RedisUserLock struct {
	client redis.Cmdable
	owner  string
	logger coreport.Logger
}

// NewRedisUserLock creates a lock backend on the given client
func NewRedisUserLock(client redis.Cmdable, logger coreport.Logger) *RedisUserLock {
	return &RedisUserLock{
		client: client,
		owner:  uuid.NewString(),
		logger: logger,
	}
}

var _ persistence.UserLockRepository = (*RedisUserLock)(nil)

// NewRedisClient connects to Redis and checks the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Owner returns the token stored in the keys this instance holds
func (l *RedisUserLock) Owner() string {
	return l.owner
}

func lockKey(userID uint64) string {
	return keyPrefix + strconv.FormatUint(userID, 10)
}

// AcquireLock sets the user's key if nobody holds it
func (l *RedisUserLock) AcquireLock(ctx context.Context, userID uint64, duration time.Duration) error {
	ok, err := l.client.SetNX(ctx, lockKey(userID), l.owner, duration).Result()
	if err != nil {
		return l.mapError("acquire", userID, err)
	}
	if !ok {
		return errs.ErrUserLocked
	}
	return nil
}

// ReleaseLock deletes the user's key if this instance still holds it
func (l *RedisUserLock) ReleaseLock(ctx context.Context, userID uint64) error {
	deleted, err := l.client.Eval(ctx, releaseScript, []string{lockKey(userID)}, l.owner).Int64()
	if err != nil {
		return l.mapError("release", userID, err)
	}
	if deleted == 0 {
		l.logger.Debug("No lock found to release, it may have expired", map[string]any{"user_id": userID})
	}
	return nil
}

func (l *RedisUserLock) mapError(operation string, userID uint64, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	l.logger.Error("Redis lock operation failed", map[string]any{
		"operation": operation,
		"user_id":   userID,
		"error":     err.Error(),
	})
	return fmt.Errorf("%w: redis: %s", errs.ErrDatabaseConnection, err.Error())
}
