package cache

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a RedisCache.
type RedisConfig struct {
	// Addr is host:port, or a redis:// URL.
	Addr     string
	Password string
	DB       int
	Backoff  Backoff
}

// redisClient is the subset of *redis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisCache stores entries in Redis with native expiry. Transient
// connection failures are retried with the configured backoff.
type RedisCache struct {
	client  redisClient
	backoff Backoff
	closed  atomic.Bool
}

// NewRedisCache connects to Redis and pings it.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	var opts *redis.Options
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		o, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, err
		}
		opts = o
	} else {
		opts = &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
	}

	c := newRedisCache(redis.NewClient(opts), cfg.Backoff)
	if err := c.backoff.Do(ctx, func() error { return classify(c.client.Ping(ctx).Err()) }); err != nil {
		_ = c.client.Close()
		return nil, err
	}
	return c, nil
}

func newRedisCache(client redisClient, b Backoff) *RedisCache {
	if b.Attempts == 0 {
		b = DefaultBackoff
	}
	return &RedisCache{client: client, backoff: b}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrClosed
	}
	var data []byte
	hit := false
	err := c.backoff.Do(ctx, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return classify(err)
		}
		data, hit = b, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, hit, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.backoff.Do(ctx, func() error {
		return classify(c.client.Set(ctx, key, data, ttl).Err())
	})
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.backoff.Do(ctx, func() error {
		return classify(c.client.Del(ctx, key).Err())
	})
}

func (c *RedisCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.client.Close()
}

// classify marks connection-level failures as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return Retryable(err)
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
