package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/target/mmk-alert-notify/config"
	"github.com/target/mmk-alert-notify/internal/observability/metrics"
	"github.com/target/mmk-alert-notify/internal/observability/statsd"
	"github.com/target/mmk-alert-notify/internal/observability/tracing"
)

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	Registry *prometheus.Registry
	Recorder *metrics.DeliveryRecorder
	Statsd   *statsd.Client
	Tracing  *tracing.Provider
}

// BuildObservability sets up the Prometheus registry, the optional StatsD sink and tracing.
// A StatsD dial failure is logged and metrics continue on Prometheus alone.
func BuildObservability(ctx context.Context, logger *slog.Logger, cfg config.ObservabilityConfig) (ObservabilityContainer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var sink statsd.Sink
	var statsdClient *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  logger,
		})
		if err != nil {
			logger.ErrorContext(ctx, "failed to initialise statsd client", "error", err)
		} else {
			statsdClient = client
			sink = client
		}
	}

	recorder, err := metrics.NewDeliveryRecorder(metrics.DeliveryRecorderOptions{
		Sink:       sink,
		Registerer: reg,
	})
	if err != nil {
		return ObservabilityContainer{}, fmt.Errorf("register delivery metrics: %w", err)
	}

	tp, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Exporter:    cfg.Tracing.Exporter,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return ObservabilityContainer{}, fmt.Errorf("setup tracing: %w", err)
	}
	if tp.Enabled() {
		logger.InfoContext(ctx, "tracing enabled", "exporter", cfg.Tracing.Exporter)
	}

	return ObservabilityContainer{
		Registry: reg,
		Recorder: recorder,
		Statsd:   statsdClient,
		Tracing:  tp,
	}, nil
}

// Close flushes spans and releases the StatsD socket.
func (o ObservabilityContainer) Close(ctx context.Context) error {
	var errs []error
	if err := o.Tracing.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
	}
	if err := o.Statsd.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close statsd: %w", err))
	}
	return errors.Join(errs...)
}
