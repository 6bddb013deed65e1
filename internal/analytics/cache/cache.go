// Package cache stores rendered analytics rollups in Redis for a short TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"rollcall/pkg/platform/circuit"
)

const keyPrefix = "rollcall:analytics:"

// RedisCache is a JSON value cache on top of go-redis. A circuit breaker
// stops it from calling Redis while Redis keeps failing; an open breaker
// turns every Get into a miss and every Set into a no-op.
type RedisCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// Option configures a RedisCache.
type Option func(*RedisCache)

// WithBreaker replaces the default breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *RedisCache) {
		c.breaker = b
	}
}

// WithLogger sets the logger used for breaker transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *RedisCache) {
		c.logger = logger
	}
}

// NewRedis returns a cache writing entries with the given TTL.
func NewRedis(client redis.Cmdable, ttl time.Duration, opts ...Option) *RedisCache {
	c := &RedisCache{
		client:  client,
		ttl:     ttl,
		breaker: circuit.New("analytics-cache"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get decodes the cached value for key into dest. A miss returns false and no
// error.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.breaker.Allow() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.succeeded(ctx)
			return false, nil
		}
		c.failed(ctx, err)
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	c.succeeded(ctx)
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores v under key.
func (c *RedisCache) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if !c.breaker.Allow() {
		return nil
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.failed(ctx, err)
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	c.succeeded(ctx)
	return nil
}

func (c *RedisCache) failed(ctx context.Context, err error) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "analytics cache disabled after repeated redis failures",
			"breaker", c.breaker.Name(),
			"error", err,
		)
	}
}

func (c *RedisCache) succeeded(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "analytics cache re-enabled", "breaker", c.breaker.Name())
	}
}
