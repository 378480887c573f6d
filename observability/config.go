package observability

import "time"

// Config is the telemetry section of the application config.
type Config struct {
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the OTLP/HTTP collector host:port.
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure bool   `mapstructure:"insecure"`
	// SampleRate is the trace sampling ratio from 0 to 1.
	SampleRate float64 `mapstructure:"sample_rate" validate:"min=0,max=1"`
	// MetricInterval is how often metrics are pushed (e.g. "15s").
	MetricInterval string `mapstructure:"metric_interval" validate:"duration"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == "" {
		c.MetricInterval = "15s"
	}
}

// Resource identifies the service in exported telemetry.
type Resource struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}

func (c Config) interval() time.Duration {
	d, err := time.ParseDuration(c.MetricInterval)
	if err != nil {
		return 15 * time.Second
	}
	return d
}
