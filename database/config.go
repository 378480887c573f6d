package database

import (
	"time"

	"github.com/kbukum/container/validation"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds database connection configuration. It is loaded from the
// databases.<name> section of the application config.
type Config struct {
	// Name identifies the database. It becomes the registry name, so a
	// database named "primary" is attached under "db_primary".
	Name string `mapstructure:"name" validate:"required"`

	// Enabled controls whether the database component is active.
	Enabled bool `mapstructure:"enabled"`

	// Driver selects the GORM dialector: "sqlite" or "mysql".
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite mysql"`

	// DSN is the driver-specific connection string.
	DSN string `mapstructure:"dsn" validate:"required"`

	MaxOpenConns int `mapstructure:"max_open_conns" validate:"min=1"`
	MaxIdleConns int `mapstructure:"max_idle_conns" validate:"min=1,ltefield=MaxOpenConns"`

	// ConnMaxLifetime is the maximum time a connection may be reused (e.g. "1h").
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime" validate:"duration"`

	// ConnMaxIdleTime is the maximum time a connection may sit idle. Empty
	// means no idle timeout.
	ConnMaxIdleTime string `mapstructure:"conn_max_idle_time" validate:"duration"`

	// MaxRetries is the number of connection attempts before giving up.
	MaxRetries int `mapstructure:"max_retries" validate:"min=1"`

	// RetryBackoff is the base delay between attempts; attempt n waits n times
	// this long.
	RetryBackoff string `mapstructure:"retry_backoff" validate:"duration"`

	// SlowQueryThreshold is the duration above which queries are logged as slow.
	SlowQueryThreshold string `mapstructure:"slow_query_threshold" validate:"duration"`

	// LogLevel is the GORM log level: silent, error, warn or info.
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=silent error warn info"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverSQLite
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 5
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "1h"
	}
	if c.ConnMaxIdleTime == "" {
		c.ConnMaxIdleTime = "5m"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.RetryBackoff == "" {
		c.RetryBackoff = "1s"
	}
	if c.SlowQueryThreshold == "" {
		c.SlowQueryThreshold = "200ms"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Validate checks the config. A disabled database is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.Validate(c)
}

func (c *Config) duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
