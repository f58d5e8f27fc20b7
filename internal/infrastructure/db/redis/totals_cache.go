package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	totalsTTL    = 5 * time.Minute
	totalsPrefix = "totals:"
)

// TotalsCache caches entry sum aggregations in Redis. Cache failures are
// reported as misses so a Redis outage degrades to recomputing sums, never
// to request failures.
type TotalsCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewTotalsCache creates a TotalsCache wrapping the given Redis client.
func NewTotalsCache(client *redis.Client, log zerolog.Logger) *TotalsCache {
	return &TotalsCache{client: client, log: log}
}

// Get returns a cached total, or ok=false on miss or error.
func (t *TotalsCache) Get(ctx context.Context, key string) (float64, bool) {
	raw, err := t.client.Get(ctx, totalsPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			t.log.Warn().Err(err).Str("key", key).Msg("totals cache read failed")
		}
		return 0, false
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Set stores a total with the cache TTL.
func (t *TotalsCache) Set(ctx context.Context, key string, value float64) {
	raw := strconv.FormatFloat(value, 'f', -1, 64)
	if err := t.client.Set(ctx, totalsPrefix+key, raw, totalsTTL).Err(); err != nil {
		t.log.Warn().Err(err).Str("key", key).Msg("totals cache write failed")
	}
}

// Invalidate drops every cached total. Called after any entry mutation so
// sums are never stale beyond the write.
func (t *TotalsCache) Invalidate(ctx context.Context) {
	iter := t.client.Scan(ctx, 0, totalsPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		t.log.Warn().Err(err).Msg("totals cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := t.client.Del(ctx, keys...).Err(); err != nil {
		t.log.Warn().Err(err).Msg("totals cache invalidation failed")
	}
}
