// Package redislock holds series locks in Redis so that several API server
// instances refuse concurrent mutations of the same series.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/teamcal-backend/internal/config"
	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

const releaseTimeout = 2 * time.Second

// releaseScript deletes the key only while it still carries our token, so an
// expired lock taken over by another holder is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a lease-based lock. A holder that dies keeps the key until TTL.
type Locker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redislock.NewClient: ping: %w", err)
	}
	return client, nil
}

// New creates a Locker. Keys are stored under prefix.
func New(client *redis.Client, prefix string, ttl time.Duration) *Locker {
	return &Locker{client: client, prefix: prefix, ttl: ttl}
}

// Acquire takes key for at most the configured TTL. It fails with
// domain.ErrConflict when someone else holds it. The returned release is
// idempotent and survives cancellation of ctx.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redislock.Acquire %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s already in progress", domain.ErrConflict, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(ctx, redisKey, token) })
	}, nil
}

func (l *Locker) release(ctx context.Context, redisKey, token string) {
	relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	// A failed release leaves the key to expire on its own.
	_ = releaseScript.Run(relCtx, l.client, []string{redisKey}, token).Err()
}

// Held reports whether key is currently held by anyone.
func (l *Locker) Held(ctx context.Context, key string) (bool, error) {
	err := l.client.Get(ctx, l.prefix+key).Err()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("redislock.Held %s: %w", key, err)
	}
	return true, nil
}

// Ping checks the Redis connection.
func (l *Locker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
