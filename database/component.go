package database

import (
	"context"
	"fmt"

	"github.com/kbukum/container/component"
	"github.com/kbukum/container/logger"
)

// Component owns one named database and implements component.Component.
type Component struct {
	db  *DB
	cfg Config
	log *logger.Logger
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a database component. Defaults are applied to cfg.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("database"),
	}
}

// DB returns the open database, or nil before Start or when disabled.
func (c *Component) DB() *DB { return c.db }

// Config returns the effective configuration.
func (c *Component) Config() Config { return c.cfg }

// Name returns "db_<name>", the same key the handle is registered under.
func (c *Component) Name() string { return "db_" + c.cfg.Name }

// Start validates the config and connects. A disabled component does nothing.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Debug("Database disabled, skipping", logger.Fields("database", c.cfg.Name))
		return nil
	}
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("database %s config: %w", c.cfg.Name, err)
	}
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database %s start: %w", c.cfg.Name, err)
	}
	c.db = db
	return nil
}

// Stop closes the connection pool.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health pings the database and reports pool usage.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name()}
	switch {
	case !c.cfg.Enabled:
		h.Status = component.StatusDisabled
	case c.db == nil:
		h.Status, h.Message = component.StatusUnhealthy, "database not initialized"
	default:
		if err := c.db.PingContext(ctx); err != nil {
			h.Status, h.Message = component.StatusUnhealthy, fmt.Sprintf("ping failed: %v", err)
			break
		}
		stats := c.db.Stats()
		h.Status = component.StatusHealthy
		h.Message = fmt.Sprintf("open=%d in_use=%d idle=%d", stats.OpenConnections, stats.InUse, stats.Idle)
	}
	return h
}

// Describe summarizes the driver and pool configuration.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "database",
		Details: fmt.Sprintf("driver=%s pool=%d/%d", c.cfg.Driver, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns),
	}
}
