package container

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/container/logger"
)

const instrumentationName = "github.com/kbukum/container/container"

// Option configures a Registry built with New.
type Option func(*options)

type options struct {
	log   *logger.Logger
	meter metric.Meter
}

// WithLogger sets the logger used for attach and detach events.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMeter sets the meter the registry counters are created on.
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

func resolveOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.WithComponent("container")
	}
	if o.meter == nil {
		o.meter = otel.Meter(instrumentationName)
	}
	return o
}
