package testutil

import (
	"fmt"
	"time"

	"github.com/target/mmk-alert-notify/internal/domain/model"
)

// ReceiverRequestBuilder provides a fluent interface for building CreateAlertReceiverRequest objects for testing.
type ReceiverRequestBuilder struct {
	req *model.CreateAlertReceiverRequest
}

// NewReceiverRequest creates a builder for a WeWork robot receiver with sensible defaults.
func NewReceiverRequest() *ReceiverRequestBuilder {
	return &ReceiverRequestBuilder{
		req: &model.CreateAlertReceiverRequest{
			Name:        "ops-wework",
			Type:        model.ChannelWeWorkRobot,
			AccessToken: "test-robot-key",
		},
	}
}

// WithName sets the receiver name.
func (b *ReceiverRequestBuilder) WithName(name string) *ReceiverRequestBuilder {
	b.req.Name = name
	return b
}

// WithType sets the channel type.
func (b *ReceiverRequestBuilder) WithType(ct model.ChannelType) *ReceiverRequestBuilder {
	b.req.Type = ct
	return b
}

// WithToken sets the access token.
func (b *ReceiverRequestBuilder) WithToken(token string) *ReceiverRequestBuilder {
	b.req.AccessToken = token
	return b
}

// WithURL sets the receiver URL.
func (b *ReceiverRequestBuilder) WithURL(uri string) *ReceiverRequestBuilder {
	b.req.URL = uri
	return b
}

// WithBodyExpr sets the JMESPath body expression.
func (b *ReceiverRequestBuilder) WithBodyExpr(expr string) *ReceiverRequestBuilder {
	b.req.BodyExpr = &expr
	return b
}

// WithHeaders sets the extra request headers.
func (b *ReceiverRequestBuilder) WithHeaders(headers string) *ReceiverRequestBuilder {
	b.req.Headers = &headers
	return b
}

// Disabled marks the receiver as disabled.
func (b *ReceiverRequestBuilder) Disabled() *ReceiverRequestBuilder {
	b.req.Enabled = BoolPtr(false)
	return b
}

// Build returns the constructed request.
func (b *ReceiverRequestBuilder) Build() *model.CreateAlertReceiverRequest {
	return b.req
}

// WebhookReceiverRequest creates a generic webhook receiver request pointing at uri.
func WebhookReceiverRequest(name, uri string) *model.CreateAlertReceiverRequest {
	return NewReceiverRequest().
		WithName(name).
		WithType(model.ChannelWebhook).
		WithToken("").
		WithURL(uri).
		Build()
}

// Receiver returns a stored-looking receiver of the given type.
func Receiver(id string, ct model.ChannelType) *model.AlertReceiver {
	now := TestTime()
	return &model.AlertReceiver{
		ID:          id,
		Name:        fmt.Sprintf("receiver-%s", id),
		Type:        ct,
		AccessToken: "token-" + id,
		OkStatus:    200,
		Enabled:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Alarm returns a valid alert with a fixed fire time.
func Alarm(title string, level model.AlarmLevel) *model.AlarmContent {
	return &model.AlarmContent{
		Title:   title,
		Content: title + " on host-1",
		Level:   level,
		Labels:  map[string]string{"host": "host-1"},
		FiredAt: TestTime().Add(-time.Minute),
	}
}

// TestTime is the fixed instant fixtures are stamped with.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// FixedTimeFunc returns a clock frozen at t.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// StringPtr returns &s.
func StringPtr(s string) *string { return &s }

// BoolPtr returns &b.
func BoolPtr(b bool) *bool { return &b }

// IntPtr returns &i.
func IntPtr(i int) *int { return &i }
