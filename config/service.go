package config

import (
	"fmt"

	"github.com/kbukum/container/logger"
	"github.com/kbukum/container/validation"
)

// Environments accepted by ServiceConfig.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// ServiceConfig holds the fields every service needs. Application configs
// embed it:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Databases map[string]database.Config `mapstructure:"databases"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging" validate:"-"`
}

// ApplyDefaults fills the environment and propagates the service name into
// the logging config.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = EnvDevelopment
	}
	if c.Environment == EnvDevelopment {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the service fields and the logging section.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
