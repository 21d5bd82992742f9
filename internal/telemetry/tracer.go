package telemetry

import (
	"context"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

const ServiceName = "endpoint-search"

// InitTracer installs a global tracer provider exporting to the OTLP/HTTP
// collector at endpoint. With an empty endpoint the global no-op provider stays
// in place. The returned function flushes and stops the exporter.
func InitTracer(ctx context.Context, endpoint string, logger *zap.Logger) (func(context.Context) error, error) {
	if endpoint == "" {
		logger.Info("Tracing disabled, no collector endpoint configured")
		return func(context.Context) error { return nil }, nil
	}

	options, err := exporterOptions(endpoint)
	if err != nil {
		return nil, err
	}
	exporter, err := otlptracehttp.New(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	logger.Info("Tracing enabled", zap.String("endpoint", endpoint))
	return tp.Shutdown, nil
}

// exporterOptions accepts either host:port or a full URL.
func exporterOptions(endpoint string) ([]otlptracehttp.Option, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure()}, nil
	}
	options := []otlptracehttp.Option{otlptracehttp.WithEndpoint(u.Host)}
	switch u.Scheme {
	case "http":
		options = append(options, otlptracehttp.WithInsecure())
	case "https":
	default:
		return nil, fmt.Errorf("unsupported tracing endpoint scheme %q", u.Scheme)
	}
	if u.Path != "" && u.Path != "/" {
		options = append(options, otlptracehttp.WithURLPath(u.Path))
	}
	return options, nil
}
