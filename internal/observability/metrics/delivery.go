// Package metrics records alert delivery outcomes to StatsD and Prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/notify"
	obserrors "github.com/target/mmk-alert-notify/internal/observability/errors"
	"github.com/target/mmk-alert-notify/internal/observability/statsd"
)

// Result values used for the "result" tag and label.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

const defaultNamespace = "alertnotify"

// DeliveryRecorderOptions configures a DeliveryRecorder. Both sinks are optional.
type DeliveryRecorderOptions struct {
	Sink       statsd.Sink
	Registerer prometheus.Registerer
	Namespace  string
}

// DeliveryRecorder implements notify.DeliveryRecorder.
type DeliveryRecorder struct {
	sink       statsd.Sink
	deliveries *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

var _ notify.DeliveryRecorder = (*DeliveryRecorder)(nil)

// NewDeliveryRecorder builds a recorder and registers its collectors when a Registerer is given.
func NewDeliveryRecorder(opts DeliveryRecorderOptions) (*DeliveryRecorder, error) {
	ns := opts.Namespace
	if ns == "" {
		ns = defaultNamespace
	}

	r := &DeliveryRecorder{
		sink: opts.Sink,
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "deliveries_total",
			Help:      "Alert delivery attempts by channel, result and error kind.",
		}, []string{"channel", "result", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "delivery_duration_seconds",
			Help:      "Time spent delivering one alert to one receiver.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"channel", "result"}),
	}

	if opts.Registerer != nil {
		for _, c := range []prometheus.Collector{r.deliveries, r.duration} {
			if err := register(opts.Registerer, c); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// register tolerates collectors that are already registered so a recorder can be rebuilt in tests.
func register(reg prometheus.Registerer, c prometheus.Collector) error {
	err := reg.Register(c)
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}

// RecordDelivery emits one observation for a delivery attempt.
func (r *DeliveryRecorder) RecordDelivery(channel model.ChannelType, err error, elapsed time.Duration) {
	if r == nil {
		return
	}

	ch := channel.String()
	result := ResultSuccess
	kind := ""
	if err != nil {
		result = ResultError
		kind = string(notify.KindOf(err))
		if kind == "" {
			kind = "unknown"
		}
	}

	r.deliveries.WithLabelValues(ch, result, kind).Inc()
	if elapsed > 0 {
		r.duration.WithLabelValues(ch, result).Observe(elapsed.Seconds())
	}

	if r.sink == nil {
		return
	}
	tags := map[string]string{
		"channel": ch,
		"result":  result,
	}
	if err != nil {
		tags["kind"] = kind
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}
	r.sink.Count("notify.delivery", 1, tags)
	if elapsed > 0 {
		r.sink.Timing("notify.delivery.duration", elapsed, cloneTags(tags))
	}
}

// cloneTags returns a shallow copy of src.
func cloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
