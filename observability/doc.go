// Package observability installs OpenTelemetry tracing and metrics with
// OTLP/HTTP exporters.
//
//	providers, err := observability.Init(ctx, cfg.Telemetry, observability.Resource{
//	    ServiceName: "containerd", Environment: "production",
//	})
//	defer providers.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "bootstrap.start",
//	    attribute.String(observability.AttrComponent, "db_primary"))
//	defer observability.EndSpan(span, err)
package observability
