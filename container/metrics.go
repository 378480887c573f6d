package container

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/kbukum/container/logger"
)

// Metric names recorded by the registry.
const (
	MetricLookups  = "container.lookups"
	MetricAttaches = "container.attaches"
	MetricDetaches = "container.detaches"
)

type metrics struct {
	lookups  metric.Int64Counter
	attaches metric.Int64Counter
	detaches metric.Int64Counter
}

func newMetrics(meter metric.Meter, log *logger.Logger) *metrics {
	m := &metrics{}
	var err error

	if m.lookups, err = meter.Int64Counter(MetricLookups,
		metric.WithDescription("Registry lookups by category and result (hit|miss)"),
	); err != nil {
		log.Warn("Falling back to no-op counter", logger.ErrorFields(MetricLookups, err))
		m.lookups = noop.Int64Counter{}
	}
	if m.attaches, err = meter.Int64Counter(MetricAttaches,
		metric.WithDescription("Attach calls by category and result (stored|discarded)"),
	); err != nil {
		log.Warn("Falling back to no-op counter", logger.ErrorFields(MetricAttaches, err))
		m.attaches = noop.Int64Counter{}
	}
	if m.detaches, err = meter.Int64Counter(MetricDetaches,
		metric.WithDescription("Entries removed by category"),
	); err != nil {
		log.Warn("Falling back to no-op counter", logger.ErrorFields(MetricDetaches, err))
		m.detaches = noop.Int64Counter{}
	}
	return m
}

func (m *metrics) lookup(c Category, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.lookups.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("category", c.String()),
		attribute.String("result", result),
	))
}

func (m *metrics) attach(c Category, stored bool) {
	result := "discarded"
	if stored {
		result = "stored"
	}
	m.attaches.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("category", c.String()),
		attribute.String("result", result),
	))
}

func (m *metrics) detach(c Category) {
	m.detaches.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("category", c.String()),
	))
}
