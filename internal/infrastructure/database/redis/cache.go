package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/veridocs/kycengine/internal/config"
	"github.com/veridocs/kycengine/pkg/errors"
)

// ErrCacheMiss is returned when a key is absent.  Callers fall through to
// postgres on a miss; it is never a failure.
var ErrCacheMiss = errors.New(errors.ErrCodeNotFound, "cache miss")

// RunCache stores the heavy per-run artifacts (assembled profile, validation
// result, trace) so that repeated reads skip recomputation and the database.
// Values are JSON blobs keyed by run ID under the configured prefix.
type RunCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRunCache wires the cache to a client with the configured prefix and TTL.
func NewRunCache(client *redis.Client, cfg config.RedisConfig) *RunCache {
	return &RunCache{client: client, prefix: cfg.KeyPrefix, ttl: cfg.DefaultTTL}
}

func (c *RunCache) key(kind, runID string) string {
	return c.prefix + kind + ":" + runID
}

// get unmarshals the cached JSON blob into dest.
func (c *RunCache) get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache read failed")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cache payload corrupt")
	}
	return nil
}

// set marshals value and stores it under key with the default TTL.
func (c *RunCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cache payload marshal failed")
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache write failed")
	}
	return nil
}

// GetProfile loads the cached assembled profile for a run.
func (c *RunCache) GetProfile(ctx context.Context, runID string, dest any) error {
	return c.get(ctx, c.key("profile", runID), dest)
}

// SetProfile caches the assembled profile for a run.
func (c *RunCache) SetProfile(ctx context.Context, runID string, profile any) error {
	return c.set(ctx, c.key("profile", runID), profile)
}

// GetValidation loads the cached validation result for a run.
func (c *RunCache) GetValidation(ctx context.Context, runID string, dest any) error {
	return c.get(ctx, c.key("validation", runID), dest)
}

// SetValidation caches the validation result for a run.
func (c *RunCache) SetValidation(ctx context.Context, runID string, result any) error {
	return c.set(ctx, c.key("validation", runID), result)
}

// GetTrace loads the cached trace section for a run.
func (c *RunCache) GetTrace(ctx context.Context, runID string, dest any) error {
	return c.get(ctx, c.key("trace", runID), dest)
}

// SetTrace caches the trace section for a run.
func (c *RunCache) SetTrace(ctx context.Context, runID string, trace any) error {
	return c.set(ctx, c.key("trace", runID), trace)
}

// Invalidate drops every cached artifact of a run, used when new documents
// arrive after validation.
func (c *RunCache) Invalidate(ctx context.Context, runID string) error {
	keys := []string{
		c.key("profile", runID),
		c.key("validation", runID),
		c.key("trace", runID),
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache invalidation failed")
	}
	return nil
}
