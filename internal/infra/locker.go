package infra

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotObtained is returned when another caller holds the lock.
var ErrLockNotObtained = errors.New("lock no obtenido")

// Locker serializes operations per key. Stage transitions of one import
// group must never be evaluated concurrently; transitions of different
// groups proceed in parallel.
type Locker interface {
	// Obtain acquires the lock and returns its release func.
	Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

type redisLocker struct {
	client *redislock.Client
}

// NewLocker wraps a redis connection with redislock. A short retry window
// absorbs back-to-back UI clicks without surfacing spurious conflicts.
func NewLocker(rdb *redis.Client) Locker {
	return &redisLocker{client: redislock.New(rdb)}
}

func (l *redisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lock, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 10),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return func() { _ = lock.Release(context.Background()) }, nil
}
