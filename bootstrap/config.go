package bootstrap

import (
	"fmt"
	"sort"

	"github.com/kbukum/container/config"
	"github.com/kbukum/container/database"
	"github.com/kbukum/container/observability"
	"github.com/kbukum/container/redis"
	"github.com/kbukum/container/server"
	"github.com/kbukum/container/validation"
)

// Config is the containerd application config. Databases and caches are
// keyed by registry name:
//
//	databases:
//	  primary:
//	    enabled: true
//	    driver: sqlite
//	    dsn: file:primary.db
//	caches:
//	  sessions:
//	    enabled: true
//	    addr: localhost:6379
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server    server.Config              `yaml:"server" mapstructure:"server"`
	Telemetry observability.Config       `yaml:"telemetry" mapstructure:"telemetry"`
	Databases map[string]database.Config `yaml:"databases" mapstructure:"databases"`
	Caches    map[string]redis.Config    `yaml:"caches" mapstructure:"caches"`
}

// ApplyDefaults fills every section. A database or cache without an explicit
// name takes its map key.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults()

	for key, db := range c.Databases {
		if db.Name == "" {
			db.Name = key
		}
		db.ApplyDefaults()
		c.Databases[key] = db
	}
	for key, cache := range c.Caches {
		if cache.Name == "" {
			cache.Name = key
		}
		cache.ApplyDefaults()
		c.Caches[key] = cache
	}
}

// Validate checks every section. Disabled databases and caches are not
// checked.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if c.Telemetry.Enabled {
		if err := validation.Validate(&c.Telemetry); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}
	for _, key := range sortedKeys(c.Databases) {
		db := c.Databases[key]
		if err := db.Validate(); err != nil {
			return fmt.Errorf("databases.%s: %w", key, err)
		}
	}
	for _, key := range sortedKeys(c.Caches) {
		cache := c.Caches[key]
		if err := cache.Validate(); err != nil {
			return fmt.Errorf("caches.%s: %w", key, err)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
