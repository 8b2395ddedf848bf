package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig configures the tracer provider (spans around
// ValidateSentence/SolveLabels/BuildTree, exported via OTLP gRPC).
type TracingConfig struct {
	ServiceName string
	Environment string
	Endpoint string
	SampleRate float64
}

// TracerProvider wraps the OpenTelemetry SDK provider with the service's
// default resource attribution and sampling, grounded on this codebase's
// infrastructure/observability.TracerProvider (Lambda/X-Ray specifics
// dropped — this service runs as a long-lived process, not a Lambda
// handler, per the dropped-dependency note in DESIGN.md).
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer trace.Tracer
}

// InitTracing builds and installs the process-wide tracer provider.
func InitTracing(cfg TracingConfig) (*TracerProvider, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "depconstraints"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = defaultSampleRate(cfg.Environment)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}

	exporter, err := newOTLPExporter(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &TracerProvider{provider: tp, tracer: tp.Tracer(cfg.ServiceName)}, nil
}

func newOTLPExporter(endpoint string) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if endpoint == "localhost:4317" || endpoint == "127.0.0.1:4317" {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	return otlptrace.New(context.Background(), otlptracegrpc.NewClient(opts...))
}

func defaultSampleRate(environment string) float64 {
	if environment == "production" {
		return 0.1
	}
	return 1.0
}

// Tracer returns the configured tracer for starting spans.
func (tp *TracerProvider) Tracer() trace.Tracer { return tp.tracer }

// Shutdown flushes pending spans and releases the exporter, to be called on
// graceful process shutdown.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.provider.Shutdown(ctx)
}
