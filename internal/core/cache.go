// Package core holds the ports between the notification services and their adapters,
// plus the small pieces of business logic that sit directly on those ports.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/target/mmk-alert-notify/internal/domain/model"
)

// CacheRepository defines the interface for caching operations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// ReceiverCache stores serialized receivers keyed by ID.
type ReceiverCache struct {
	cache CacheRepository
	ttl   time.Duration
}

// ReceiverCacheConfig holds configuration for receiver caching.
type ReceiverCacheConfig struct {
	TTL time.Duration `json:"ttl"`
}

// ReceiverCacheOptions bundles dependencies for NewReceiverCache.
type ReceiverCacheOptions struct {
	Cache  CacheRepository
	Config ReceiverCacheConfig
}

// DefaultReceiverCacheConfig returns a ReceiverCacheConfig with sensible defaults.
func DefaultReceiverCacheConfig() ReceiverCacheConfig {
	return ReceiverCacheConfig{TTL: 5 * time.Minute}
}

// NewReceiverCache creates a ReceiverCache. A nil cache yields a cache that always misses.
func NewReceiverCache(opts ReceiverCacheOptions) *ReceiverCache {
	ttl := opts.Config.TTL
	if ttl <= 0 {
		ttl = DefaultReceiverCacheConfig().TTL
	}
	return &ReceiverCache{cache: opts.Cache, ttl: ttl}
}

// Get returns the cached receiver, or nil on a miss.
func (c *ReceiverCache) Get(ctx context.Context, id string) (*model.AlertReceiver, error) {
	if c == nil || c.cache == nil || id == "" {
		return nil, nil
	}
	raw, err := c.cache.Get(ctx, receiverKey(id))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var r cachedReceiver
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode cached receiver: %w", err)
	}
	out := model.AlertReceiver(r)
	return &out, nil
}

// Put caches receiver under its ID.
func (c *ReceiverCache) Put(ctx context.Context, receiver *model.AlertReceiver) error {
	if c == nil || c.cache == nil || receiver == nil || receiver.ID == "" {
		return nil
	}
	raw, err := json.Marshal(cachedReceiver(*receiver))
	if err != nil {
		return fmt.Errorf("encode receiver: %w", err)
	}
	return c.cache.Set(ctx, receiverKey(receiver.ID), raw, c.ttl)
}

// Invalidate removes the cached receiver for id.
// This should be called whenever the stored receiver changes.
func (c *ReceiverCache) Invalidate(ctx context.Context, id string) error {
	if c == nil || c.cache == nil || id == "" {
		return nil
	}
	_, err := c.cache.Delete(ctx, receiverKey(id))
	return err
}

// cachedReceiver is the cache encoding of model.AlertReceiver, kept apart from its API JSON tags.
type cachedReceiver struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        model.ChannelType `json:"type"`
	AccessToken string            `json:"access_token"`
	URL         string            `json:"url"`
	Method      string            `json:"method"`
	BodyExpr    *string           `json:"body_expr"`
	Headers     *string           `json:"headers"`
	OkStatus    int               `json:"ok_status"`
	Enabled     bool              `json:"enabled"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func receiverKey(id string) string {
	return "receiver:v1:" + id
}
