package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/container/logger"
)

// InitMeter installs an OTLP/HTTP meter provider as the global provider. The
// registry counters and HTTP metrics are created on it.
func InitMeter(ctx context.Context, cfg Config, res Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	r, err := newResource(res)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.interval()))),
		sdkmetric.WithResource(r),
	)
	otel.SetMeterProvider(mp)

	logger.Info("Meter initialized", logger.Fields(
		logger.FieldService, res.ServiceName, "endpoint", cfg.Endpoint, "interval", cfg.interval().String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// HTTPMetrics holds the admin server's request instruments.
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewHTTPMetrics creates the request instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Admin API requests by route and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.requests counter: %w", err)
	}
	duration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("Admin API request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.duration histogram: %w", err)
	}
	return &HTTPMetrics{requests: requests, duration: duration}, nil
}

// Record records one completed request.
func (m *HTTPMetrics) Record(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
