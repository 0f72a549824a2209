package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

const (
	cacheKeyPrefix  = "gymstats::stats::"
	cacheVersionKey = cacheKeyPrefix + "version"

	DefaultCacheTTL = 6 * time.Hour
)

// ResultCache keeps computed analytics results in redis. Every key embeds the current
// value of a version counter, and Invalidate bumps that counter, so results computed
// before a write are never served after it. Old entries simply expire.
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResultCache(rdb *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResultCache{
		rdb: rdb,
		ttl: ttl,
	}
}

// Key returns the cache key for op and params under the current version.
// Read it before loading the inputs, so a concurrent write can only make the key stale.
func (c *ResultCache) Key(ctx context.Context, op, params string) (string, error) {
	version, err := c.rdb.Get(ctx, cacheVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("get cache version: %w", err)
	}
	return fmt.Sprintf("%sv%d::%s::%s", cacheKeyPrefix, version, op, params), nil
}

// Load decodes the cached value into dst. It reports false when nothing is cached.
func (c *ResultCache) Load(ctx context.Context, key string, dst any) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.gymstats.stats.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		span.SetAttributes(attribute.Bool("hit", false))
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("get cached result: %w", err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("unmarshal cached result: %w", err)
	}
	span.SetAttributes(attribute.Bool("hit", true))
	return true, nil
}

func (c *ResultCache) Store(ctx context.Context, key string, value any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.gymstats.stats.store")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached result: %w", err)
	}
	return nil
}

func (c *ResultCache) Invalidate(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.gymstats.stats.invalidate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	version, err := c.rdb.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("bump cache version: %w", err)
	}
	span.SetAttributes(attribute.Int64("version", version))
	return nil
}
