package service

import (
	"Atelier/internal/pkg/redis"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"
)

// cachedCount 先读计数缓存，未命中时回源并回填
func cachedCount(ctx context.Context, counter redis.Counter, key string, ttl time.Duration, load func(ctx context.Context) (int64, error)) (int64, error) {
	count, err := counter.Get(ctx, key)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, redis.ErrMiss) {
		log.WarnContext(ctx, "counter cache unavailable", "key", key, "err", err)
	}
	count, err = load(ctx)
	if err != nil {
		return 0, err
	}
	if err = counter.Set(ctx, key, count, ttl); err != nil {
		log.WarnContext(ctx, "counter cache set failed", "key", key, "err", err)
	}
	return count, nil
}

func bumpCount(ctx context.Context, counter redis.Counter, key string, delta int64) {
	if err := counter.IncrBy(ctx, key, delta); err != nil {
		log.WarnContext(ctx, "counter cache incr failed", "key", key, "err", err)
	}
}

func dropCounts(ctx context.Context, counter redis.Counter, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := counter.Delete(ctx, keys...); err != nil {
		log.WarnContext(ctx, "counter cache delete failed", "keys", keys, "err", err)
	}
}

func countKey(prefix string, id uint64) string {
	return prefix + strconv.FormatUint(id, 10)
}
