package redis

import (
	"time"

	"github.com/kbukum/container/validation"
)

// Config holds Redis connection configuration, loaded from the
// caches.<name> section of the application config.
type Config struct {
	// Name identifies the cache. A cache named "sessions" is attached under
	// "cache_sessions".
	Name string `mapstructure:"name" validate:"required"`

	// Enabled controls whether the Redis component is active.
	Enabled bool `mapstructure:"enabled"`

	// Addr is the Redis server address (host:port).
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0,max=15"`

	PoolSize     int `mapstructure:"pool_size" validate:"min=1"`
	MinIdleConns int `mapstructure:"min_idle_conns" validate:"min=0,ltefield=PoolSize"`

	// MaxRetries is the number of command retries (go-redis semantics).
	MaxRetries      int    `mapstructure:"max_retries" validate:"min=-1"`
	MinRetryBackoff string `mapstructure:"min_retry_backoff" validate:"duration"`
	MaxRetryBackoff string `mapstructure:"max_retry_backoff" validate:"duration"`

	DialTimeout  string `mapstructure:"dial_timeout" validate:"duration"`
	ReadTimeout  string `mapstructure:"read_timeout" validate:"duration"`
	WriteTimeout string `mapstructure:"write_timeout" validate:"duration"`
	PoolTimeout  string `mapstructure:"pool_timeout" validate:"duration"`

	// ConnMaxIdleTime closes connections idle longer than this. Empty keeps
	// the go-redis default.
	ConnMaxIdleTime string `mapstructure:"conn_max_idle_time" validate:"duration"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns > c.PoolSize {
		c.MinIdleConns = c.PoolSize
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.MinRetryBackoff == "" {
		c.MinRetryBackoff = "8ms"
	}
	if c.MaxRetryBackoff == "" {
		c.MaxRetryBackoff = "512ms"
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "3s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "3s"
	}
}

// Validate checks the config. A disabled cache is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.Validate(c)
}

// duration parses s, returning zero for empty or malformed values.
func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
