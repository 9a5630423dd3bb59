package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmptyCacheKey is returned for operations on an empty key.
var ErrEmptyCacheKey = errors.New("cache key cannot be empty")

// RedisCacheRepo backs the receiver cache with any go-redis client shape
// (single node, sentinel or cluster).
type RedisCacheRepo struct {
	client redis.UniversalClient
}

// NewRedisCacheRepo wraps client.
func NewRedisCacheRepo(client redis.UniversalClient) *RedisCacheRepo {
	return &RedisCacheRepo{client: client}
}

// Set writes value under key. A zero ttl keeps the key until deleted.
func (r *RedisCacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyCacheKey
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Get returns the stored bytes, or (nil, nil) on a miss.
func (r *RedisCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyCacheKey
	}
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return raw, nil
}

// Delete drops key and reports whether it was present.
func (r *RedisCacheRepo) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyCacheKey
	}
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache delete: %w", err)
	}
	return n > 0, nil
}

// Health pings the server; used by the readiness probe.
func (r *RedisCacheRepo) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache ping: %w", err)
	}
	return nil
}
