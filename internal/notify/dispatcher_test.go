package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/mmk-alert-notify/internal/domain/model"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type recordedDelivery struct {
	channel model.ChannelType
	err     error
}

type fakeRecorder struct {
	mu   sync.Mutex
	seen []recordedDelivery
}

func (r *fakeRecorder) RecordDelivery(channel model.ChannelType, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, recordedDelivery{channel: channel, err: err})
}

func newTestDispatcher(t *testing.T, logs *bytes.Buffer, strategies ...Strategy) (*Dispatcher, *fakeRecorder) {
	t.Helper()
	reg, err := NewRegistry(strategies...)
	require.NoError(t, err)

	rec := &fakeRecorder{}
	d, err := NewDispatcher(DispatcherOptions{
		Registry: reg,
		Logger:   slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Recorder: rec,
	})
	require.NoError(t, err)
	return d, rec
}

func TestNewDispatcherRequiresRegistry(t *testing.T) {
	_, err := NewDispatcher(DispatcherOptions{})
	require.Error(t, err)
}

func TestDispatchRoutesByChannel(t *testing.T) {
	var weworkCalls, slackCalls atomic.Int32
	wework := &fakeStrategy{channel: model.ChannelWeWorkRobot, send: func(context.Context, *model.AlertReceiver, *model.AlarmContent) error {
		weworkCalls.Add(1)
		return nil
	}}
	slack := &fakeStrategy{channel: model.ChannelSlackWebhook, send: func(context.Context, *model.AlertReceiver, *model.AlarmContent) error {
		slackCalls.Add(1)
		return nil
	}}

	var logs bytes.Buffer
	d, rec := newTestDispatcher(t, &logs, wework, slack)

	rcv := &model.AlertReceiver{ID: "r1", Type: model.ChannelWeWorkRobot, AccessToken: "super-secret-key"}
	require.NoError(t, d.Dispatch(context.Background(), rcv, &model.AlarmContent{Title: "t"}))

	assert.Equal(t, int32(1), weworkCalls.Load())
	assert.Zero(t, slackCalls.Load())
	require.Len(t, rec.seen, 1)
	assert.NoError(t, rec.seen[0].err)
	assert.Contains(t, logs.String(), "alert delivered")
	assert.NotContains(t, logs.String(), "super-secret-key")
}

func TestDispatchUnsupportedChannel(t *testing.T) {
	var logs bytes.Buffer
	d, rec := newTestDispatcher(t, &logs, &fakeStrategy{channel: model.ChannelWeWorkRobot})

	err := d.Dispatch(context.Background(), &model.AlertReceiver{ID: "r", Type: model.ChannelPagerDuty}, &model.AlarmContent{Title: "t"})
	assert.Equal(t, KindUnsupportedChannel, KindOf(err))
	assert.True(t, strings.HasPrefix(err.Error(), "[PagerDuty Notify Error]"), err.Error())
	require.Len(t, rec.seen, 1)
	assert.Equal(t, model.ChannelPagerDuty, rec.seen[0].channel)

	err = d.Dispatch(context.Background(), &model.AlertReceiver{ID: "r", Type: model.ChannelType(7)}, &model.AlarmContent{Title: "t"})
	assert.True(t, strings.HasPrefix(err.Error(), "[Channel 7 Notify Error]"), err.Error())

	err = d.Dispatch(context.Background(), nil, &model.AlarmContent{Title: "t"})
	assert.Equal(t, KindInvalidRequest, KindOf(err))
}

func TestDispatchWrapsForeignErrors(t *testing.T) {
	failing := &fakeStrategy{channel: model.ChannelDingTalkRobot, send: func(context.Context, *model.AlertReceiver, *model.AlarmContent) error {
		return errors.New("raw failure")
	}}
	var logs bytes.Buffer
	d, _ := newTestDispatcher(t, &logs, failing)

	err := d.Dispatch(context.Background(), &model.AlertReceiver{Type: model.ChannelDingTalkRobot}, &model.AlarmContent{Title: "t"})
	de, ok := AsDeliveryError(err)
	require.True(t, ok)
	assert.Equal(t, "DingTalk", de.Channel)
	assert.True(t, strings.HasPrefix(err.Error(), "[DingTalk Notify Error]"), err.Error())
	assert.Contains(t, logs.String(), "alert delivery failed")
}

func TestDispatchAllIsolatesFailuresAndSkipsDisabled(t *testing.T) {
	strategy := &fakeStrategy{channel: model.ChannelWeWorkRobot, send: func(_ context.Context, r *model.AlertReceiver, _ *model.AlarmContent) error {
		if r.ID == "bad" {
			return Tag("WeWork").Rejected(93000, "invalid key")
		}
		return nil
	}}
	var logs bytes.Buffer
	d, rec := newTestDispatcher(t, &logs, strategy)

	receivers := []*model.AlertReceiver{
		{ID: "good-1", Type: model.ChannelWeWorkRobot, Enabled: true},
		{ID: "bad", Type: model.ChannelWeWorkRobot, Enabled: true},
		{ID: "off", Type: model.ChannelWeWorkRobot, Enabled: false},
		nil,
		{ID: "good-2", Type: model.ChannelWeWorkRobot, Enabled: true},
	}
	results := d.DispatchAll(context.Background(), receivers, &model.AlarmContent{Title: "t"})

	require.Len(t, results, 5)
	assert.Equal(t, "good-1", results[0].ReceiverID)
	assert.True(t, results[0].OK())
	assert.Equal(t, KindProviderRejection, KindOf(results[1].Err))
	assert.True(t, results[2].Skipped)
	assert.True(t, results[2].OK())
	assert.Equal(t, KindInvalidRequest, KindOf(results[3].Err))
	assert.True(t, results[4].OK())
	assert.Len(t, rec.seen, 3)
}

func TestDispatchAllBoundsConcurrency(t *testing.T) {
	var inflight, peak atomic.Int32
	strategy := &fakeStrategy{channel: model.ChannelSlackWebhook, send: func(context.Context, *model.AlertReceiver, *model.AlarmContent) error {
		n := inflight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inflight.Add(-1)
		return nil
	}}
	reg, err := NewRegistry(strategy)
	require.NoError(t, err)
	d, err := NewDispatcher(DispatcherOptions{Registry: reg, Concurrency: 2})
	require.NoError(t, err)

	receivers := make([]*model.AlertReceiver, 10)
	for i := range receivers {
		receivers[i] = &model.AlertReceiver{Type: model.ChannelSlackWebhook, Enabled: true}
	}
	results := d.DispatchAll(context.Background(), receivers, &model.AlarmContent{Title: "t"})

	assert.Len(t, results, 10)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestDispatchRecordsSpans(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	failing := &fakeStrategy{channel: model.ChannelDingTalkRobot, send: func(context.Context, *model.AlertReceiver, *model.AlarmContent) error {
		return Tag("DingTalk").Status(502)
	}}
	reg, err := NewRegistry(failing)
	require.NoError(t, err)
	d, err := NewDispatcher(DispatcherOptions{Registry: reg, TracerProvider: tp})
	require.NoError(t, err)

	receiver := &model.AlertReceiver{ID: "r-1", Type: model.ChannelDingTalkRobot, Enabled: true}
	require.Error(t, d.Dispatch(context.Background(), receiver, &model.AlarmContent{Title: "t"}))

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "notify.dispatch", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, string(KindHTTPStatus), ended[0].Status().Description)

	attrs := map[string]string{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "r-1", attrs["notify.receiver_id"])
	assert.Equal(t, "dingtalk", attrs["notify.channel"])
	assert.Equal(t, "502", attrs["http.response.status_code"])
}
