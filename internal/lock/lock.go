package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/PlayraLive/h-ai-sub006/internal/config"
)

// ErrNotAcquired means the lock backend could not be reached or the lock
// stayed taken. Callers may proceed unlocked when they have another guard.
var ErrNotAcquired = errors.New("lock not acquired")

type Locker interface {
	WithLock(ctx context.Context, name string, ttl time.Duration, fn func() error) error
}

// NewLocker returns a redis backed locker when REDIS_URL is set, a no-op one otherwise.
func NewLocker(cfg *config.Config) (Locker, func(), error) {
	if cfg.Redis.URL == "" {
		log.Info().Msg("REDIS_URL not set, conversation create lock disabled")
		return NoopLocker{}, func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Msg("connected to Redis for locking")
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis client")
		}
	}
	return &RedisLocker{rs: redsync.New(goredis.NewPool(client))}, cleanup, nil
}

type RedisLocker struct {
	rs *redsync.Redsync
}

func (l *RedisLocker) WithLock(ctx context.Context, name string, ttl time.Duration, fn func() error) error {
	mutex := l.rs.NewMutex("lock:"+name, redsync.WithExpiry(ttl), redsync.WithTries(8))

	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrNotAcquired, err)
	}

	defer func() {
		if _, err := mutex.UnlockContext(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Str("lock", name).Msg("Failed to unlock mutex")
		}
	}()

	return fn()
}

type NoopLocker struct{}

func (NoopLocker) WithLock(_ context.Context, _ string, _ time.Duration, fn func() error) error {
	return fn()
}
