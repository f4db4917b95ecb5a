package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// Redis is a Store shared between API instances. Failures degrade to cache misses.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedis(cfg RedisConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return NewRedisFromClient(rdb, cfg.TTL, cfg.Prefix)
}

func NewRedisFromClient(rdb *redis.Client, ttl time.Duration, prefix string) *Redis {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if prefix == "" {
		prefix = "ivms3:"
	}
	return &Redis{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Default().WarnContext(ctx, "cache.redis.get_failed", "key", key, "err", err)
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte) {
	if err := r.rdb.Set(ctx, r.prefix+key, val, r.ttl).Err(); err != nil {
		slog.Default().WarnContext(ctx, "cache.redis.set_failed", "key", key, "err", err)
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.rdb.Del(ctx, r.prefix+key).Err(); err != nil {
		slog.Default().WarnContext(ctx, "cache.redis.delete_failed", "key", key, "err", err)
	}
}

// Ping checks connectivity for readiness probes.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
