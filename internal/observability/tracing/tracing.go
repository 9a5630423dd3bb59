// Package tracing configures the OpenTelemetry tracer provider used for delivery and HTTP spans.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Exporter names accepted by Config.Exporter.
const (
	ExporterOTLPHTTP = "otlp-http"
	ExporterStdout   = "stdout"
	ExporterNone     = "none"
)

// Config describes how spans are sampled and exported.
type Config struct {
	Enabled     bool
	ServiceName string
	Exporter    string
	// Endpoint is host:port of the OTLP HTTP collector.
	Endpoint    string
	Insecure    bool
	SampleRatio float64
	// Writer receives stdout exporter output; defaults to os.Stdout.
	Writer io.Writer
}

// Provider owns the SDK tracer provider, if one was started.
type Provider struct {
	sdk *sdktrace.TracerProvider
}

// Setup installs a global tracer provider. When tracing is disabled the global
// provider stays a no-op and the returned Provider's Shutdown does nothing.
func Setup(ctx context.Context, cfg Config) (*Provider, error) {
	exporterName := strings.ToLower(strings.TrimSpace(cfg.Exporter))
	if !cfg.Enabled || exporterName == ExporterNone {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return &Provider{}, nil
	}

	exporter, err := newExporter(ctx, exporterName, cfg)
	if err != nil {
		return nil, err
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "alert-notify"
	}
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return &Provider{sdk: tp}, nil
}

func newExporter(ctx context.Context, name string, cfg Config) (sdktrace.SpanExporter, error) {
	switch name {
	case ExporterStdout:
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		return stdouttrace.New(stdouttrace.WithWriter(w))
	case ExporterOTLPHTTP, "":
		opts := []otlptracehttp.Option{}
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
		if err != nil {
			return nil, fmt.Errorf("create otlp http exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", name)
	}
}

func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio <= 0 || ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// Enabled reports whether spans are being exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.sdk != nil
}

// TracerProvider returns the active provider, falling back to the global one.
func (p *Provider) TracerProvider() trace.TracerProvider {
	if p == nil || p.sdk == nil {
		return otel.GetTracerProvider()
	}
	return p.sdk
}

// Shutdown flushes pending spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}
