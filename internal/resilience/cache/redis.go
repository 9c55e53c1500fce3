package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/craftly/craftd/internal/observability/metrics"
)

// RedisKV is the subset of the Redis client the cache needs.
type RedisKV interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Redis is a Store backed by a shared Redis instance. Backend failures
// never fail the caller's request: a broken Get degrades to a miss and a
// broken Set is dropped, both logged.
type Redis struct {
	kv  RedisKV
	log *slog.Logger
}

// NewRedis creates a Redis-backed store.
func NewRedis(kv RedisKV, log *slog.Logger) *Redis {
	if log == nil {
		log = slog.Default()
	}
	return &Redis{kv: kv, log: log}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, ok, err := r.kv.GetBytes(ctx, key)
	if err != nil {
		r.log.Warn("Cache read failed, treating as miss", "key", key, "error", err)
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil, false
	}
	if !ok {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.kv.SetBytes(ctx, key, val, ttl); err != nil {
		r.log.Warn("Cache write failed, entry dropped", "key", key, "error", err)
	}
}
