package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/eightysix/analytics/internal/application/analytics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ analytics.Locker = (*RedisLocker)(nil)

// ErrLockTimeout is returned when the lock stays held until ctx ends
var ErrLockTimeout = errors.New("timed out waiting for lock")

// RedisLocker implements analytics.Locker with redislock
type RedisLocker struct {
	client    *redislock.Client
	ttl       time.Duration
	retry     time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisLocker creates a locker whose locks expire after ttl if never released
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{
		client:    redislock.New(rdb),
		ttl:       ttl,
		retry:     25 * time.Millisecond,
		keyPrefix: "eightysix:lock:",
		logger:    logger,
	}
}

// Lock waits for key until ctx ends, retrying at a fixed interval
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lock, err := l.client.Obtain(ctx, l.keyPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.retry),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	return func() {
		// released on a fresh context so a cancelled request still frees the key
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
