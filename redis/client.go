package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/kbukum/container/errors"
	"github.com/kbukum/container/logger"
)

// Client wraps a go-redis client. It satisfies container.CacheHandle.
type Client struct {
	rdb    *goredis.Client
	log    *logger.Logger
	cfg    Config
	closed bool
	mu     sync.Mutex
}

// New creates a client for cfg. No connection is made until the first
// command; call Ping to verify reachability.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if !cfg.Enabled {
		return nil, apperrors.ServiceUnavailable("cache " + cfg.Name).WithDetail("reason", "disabled")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: duration(cfg.MinRetryBackoff),
		MaxRetryBackoff: duration(cfg.MaxRetryBackoff),
		DialTimeout:     duration(cfg.DialTimeout),
		ReadTimeout:     duration(cfg.ReadTimeout),
		WriteTimeout:    duration(cfg.WriteTimeout),
		PoolTimeout:     duration(cfg.PoolTimeout),
		ConnMaxIdleTime: duration(cfg.ConnMaxIdleTime),
	})

	log = log.WithFields(logger.Fields("cache", cfg.Name, "addr", cfg.Addr))
	log.Debug("Redis client created", logger.Fields("db", cfg.DB, "pool_size", cfg.PoolSize))
	return &Client{rdb: rdb, log: log, cfg: cfg}, nil
}

// Name returns the configured cache name.
func (c *Client) Name() string { return c.cfg.Name }

// Ping verifies the server answers.
func (c *Client) Ping(ctx context.Context) error {
	pong, err := c.rdb.Ping(ctx).Result()
	if err != nil {
		return apperrors.ConnectionFailed("redis " + c.cfg.Addr).WithCause(err)
	}
	if pong != "PONG" {
		return fmt.Errorf("unexpected redis ping response: %s", pong)
	}
	return nil
}

// Get returns the value stored at key. A missing key yields a NOT_FOUND
// AppError.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", apperrors.NotFound("cache key", key)
	}
	return v, err
}

// Set stores value at key. A zero ttl means no expiry.
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Del deletes keys. Missing keys are ignored.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// Exists returns how many of keys exist.
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	return c.rdb.Exists(ctx, keys...).Result()
}

// Close closes the connection pool. Safe to call multiple times.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.log.Info("Closing Redis connection")
	return c.rdb.Close()
}

// Unwrap returns the underlying go-redis client.
func (c *Client) Unwrap() *goredis.Client {
	return c.rdb
}
