package observability

import (
	"context"
	"errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Providers holds the installed tracer and meter providers. Either may be nil
// when telemetry is disabled.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
}

// Init installs both providers when cfg.Enabled is set. With telemetry
// disabled the global no-op providers stay in place and Init returns empty
// Providers.
func Init(ctx context.Context, cfg Config, res Resource) (*Providers, error) {
	p := &Providers{}
	if !cfg.Enabled {
		return p, nil
	}
	cfg.ApplyDefaults()

	tp, err := InitTracer(ctx, cfg, res)
	if err != nil {
		return nil, err
	}
	p.Tracer = tp

	mp, err := InitMeter(ctx, cfg, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	p.Meter = mp
	return p, nil
}

// Shutdown flushes and stops whichever providers were installed.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
