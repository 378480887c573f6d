package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/container/component"
	"github.com/kbukum/container/logger"
)

// Component owns one named cache client and implements component.Component.
type Component struct {
	client *Client
	cfg    Config
	log    *logger.Logger
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a Redis component. Defaults are applied to cfg.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("redis"),
	}
}

// Client returns the client, or nil before Start or when disabled.
func (c *Component) Client() *Client { return c.client }

// Config returns the effective configuration.
func (c *Component) Config() Config { return c.cfg }

// Name returns "cache_<name>", the same key the client is registered under.
func (c *Component) Name() string { return "cache_" + c.cfg.Name }

// Start creates the client and verifies connectivity.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Debug("Cache disabled, skipping", logger.Fields("cache", c.cfg.Name))
		return nil
	}
	client, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("redis %s start: %w", c.cfg.Name, err)
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis %s start ping: %w", c.cfg.Name, err)
	}

	c.client = client
	c.log.Info("Redis component started", logger.Fields("cache", c.cfg.Name))
	return nil
}

// Stop closes the client.
func (c *Component) Stop(_ context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Health pings the server.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case !c.cfg.Enabled:
		h.Status = component.StatusDisabled
	case c.client == nil:
		h.Status, h.Message = component.StatusUnhealthy, "redis not initialized"
	default:
		if err := c.client.Ping(ctx); err != nil {
			h.Status, h.Message = component.StatusUnhealthy, fmt.Sprintf("ping failed: %v", err)
		}
	}
	return h
}

// Describe summarizes the server address and pool size.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d pool=%d", c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize),
	}
}
