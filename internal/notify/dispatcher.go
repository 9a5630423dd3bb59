package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/target/mmk-alert-notify/internal/domain/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/target/mmk-alert-notify/internal/notify"

const defaultConcurrency = 8

// DeliveryRecorder receives one observation per delivery attempt (metrics hook).
type DeliveryRecorder interface {
	RecordDelivery(channel model.ChannelType, err error, elapsed time.Duration)
}

// DispatcherOptions configures the dispatcher.
type DispatcherOptions struct {
	Registry *Registry
	Logger   *slog.Logger
	Recorder DeliveryRecorder
	// Concurrency bounds parallel sends in DispatchAll.
	Concurrency int
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// Dispatcher routes receivers to the strategy registered for their channel type.
type Dispatcher struct {
	registry    *Registry
	logger      *slog.Logger
	recorder    DeliveryRecorder
	tracer      trace.Tracer
	concurrency int
}

// Result is the outcome of delivering one alert to one receiver.
type Result struct {
	ReceiverID string
	Channel    model.ChannelType
	Skipped    bool
	Err        error
	Elapsed    time.Duration
}

// OK reports whether the delivery succeeded or was deliberately skipped.
func (r Result) OK() bool {
	return r.Err == nil
}

// NewDispatcher constructs a dispatcher over a registry.
func NewDispatcher(opts DispatcherOptions) (*Dispatcher, error) {
	if opts.Registry == nil {
		return nil, errors.New("dispatcher: registry is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "notify_dispatcher")
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Dispatcher{
		registry:    opts.Registry,
		logger:      logger,
		recorder:    opts.Recorder,
		tracer:      tp.Tracer(tracerName),
		concurrency: concurrency,
	}, nil
}

// Dispatch delivers alert to a single receiver. The returned error, if any, is a *DeliveryError.
func (d *Dispatcher) Dispatch(ctx context.Context, receiver *model.AlertReceiver, alert *model.AlarmContent) (err error) {
	if receiver == nil {
		return Tag("Dispatch").Invalid("receiver is required")
	}

	ctx, span := d.tracer.Start(ctx, "notify.dispatch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("notify.receiver_id", receiver.ID),
			attribute.String("notify.channel", receiver.Type.String()),
		),
	)
	defer func() { endSpan(span, err) }()

	strategy, ok := d.registry.Get(receiver.Type)
	if !ok {
		err = ChannelTag(receiver.Type).Unsupported()
		d.observe(ctx, receiver, err, 0)
		return err
	}

	start := time.Now()
	err = strategy.Send(ctx, receiver, alert)
	if err != nil {
		// Non-DeliveryError failures become transport errors.
		err = ChannelTag(receiver.Type).Wrap(err)
	}
	d.observe(ctx, receiver, err, time.Since(start))
	return err
}

// DispatchAll fans alert out to every enabled receiver concurrently.
// Each receiver gets its own Result; one failure never cancels the others.
// Results are returned in the order of receivers.
func (d *Dispatcher) DispatchAll(
	ctx context.Context,
	receivers []*model.AlertReceiver,
	alert *model.AlarmContent,
) []Result {
	results := make([]Result, len(receivers))

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, receiver := range receivers {
		if receiver == nil {
			results[i] = Result{Err: Tag("Dispatch").Invalid("receiver is required")}
			continue
		}
		results[i] = Result{ReceiverID: receiver.ID, Channel: receiver.Type}
		if !receiver.Enabled {
			results[i].Skipped = true
			d.logger.DebugContext(ctx, "skipping disabled receiver",
				"receiver_id", receiver.ID,
				"channel", receiver.Type.String(),
			)
			continue
		}
		g.Go(func() error {
			start := time.Now()
			results[i].Err = d.Dispatch(ctx, receiver, alert)
			results[i].Elapsed = time.Since(start)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in results

	return results
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err)))
		if de, ok := AsDeliveryError(err); ok && de.StatusCode != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", de.StatusCode))
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (d *Dispatcher) observe(ctx context.Context, receiver *model.AlertReceiver, err error, elapsed time.Duration) {
	if d.recorder != nil {
		d.recorder.RecordDelivery(receiver.Type, err, elapsed)
	}

	if err == nil {
		d.logger.InfoContext(ctx, "alert delivered",
			"receiver_id", receiver.ID,
			"channel", receiver.Type.String(),
			"duration", elapsed,
		)
		return
	}

	attrs := []any{
		"receiver_id", receiver.ID,
		"channel", receiver.Type.String(),
		"error", err,
	}
	if de, ok := AsDeliveryError(err); ok {
		attrs = append(attrs, "kind", string(de.Kind))
		if de.StatusCode != 0 {
			attrs = append(attrs, "status", de.StatusCode)
		}
	}
	d.logger.WarnContext(ctx, "alert delivery failed", attrs...)
}
