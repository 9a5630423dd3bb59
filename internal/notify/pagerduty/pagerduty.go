// Package pagerduty raises PagerDuty incidents through the Events API v2.
package pagerduty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/notify"
)

const (
	// APIEndpoint is the PagerDuty Events API v2 ingest URL.
	APIEndpoint = "https://events.pagerduty.com/v2/enqueue"

	// TemplateName is the template used to render the incident summary.
	TemplateName = "alertNotifyPagerDuty"

	// maxSummaryLen is the Events API limit on payload.summary.
	maxSummaryLen = 1024

	statusSuccess = "success"
)

var tag = notify.ChannelTag(model.ChannelPagerDuty)

// Config captures runtime configuration for the PagerDuty strategy.
type Config struct {
	BaseURL   string
	Source    string
	Component string
	Renderer  notify.Renderer
	Client    notify.HTTPDoer
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Strategy triggers one PagerDuty event per alert; the receiver's token is the routing key.
type Strategy struct {
	endpoint  string
	source    string
	component string
	renderer  notify.Renderer
	client    notify.HTTPDoer
	logger    *slog.Logger
}

var _ notify.Strategy = (*Strategy)(nil)

type event struct {
	RoutingKey  string       `json:"routing_key"`
	EventAction string       `json:"event_action"`
	DedupKey    string       `json:"dedup_key,omitempty"`
	Payload     eventPayload `json:"payload"`
}

type eventPayload struct {
	Summary       string         `json:"summary"`
	Severity      string         `json:"severity"`
	Source        string         `json:"source"`
	Component     string         `json:"component,omitempty"`
	Timestamp     string         `json:"timestamp"`
	CustomDetails map[string]any `json:"custom_details,omitempty"`
}

type eventResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// NewStrategy constructs a PagerDuty strategy. A renderer is required.
func NewStrategy(cfg Config) (*Strategy, error) {
	if cfg.Renderer == nil {
		return nil, errors.New("pagerduty: renderer is required")
	}

	hc := cfg.Client
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Strategy{
		endpoint:  fallbackString(strings.TrimSpace(cfg.BaseURL), APIEndpoint),
		source:    fallbackString(strings.TrimSpace(cfg.Source), "alert-notify"),
		component: strings.TrimSpace(cfg.Component),
		renderer:  cfg.Renderer,
		client:    hc,
		logger:    logger.With("component", "notify.pagerduty"),
	}, nil
}

// Type implements notify.Strategy.
func (s *Strategy) Type() model.ChannelType { return model.ChannelPagerDuty }

// TemplateName implements notify.Strategy.
func (s *Strategy) TemplateName() string { return TemplateName }

// Send submits a trigger event for the alert.
func (s *Strategy) Send(ctx context.Context, receiver *model.AlertReceiver, alert *model.AlarmContent) error {
	if receiver == nil || alert == nil {
		return tag.Invalid("receiver and alert are required")
	}
	routingKey := strings.TrimSpace(receiver.AccessToken)
	if routingKey == "" {
		return tag.Invalid("receiver has no routing key")
	}

	summary, err := s.renderer.Render(TemplateName, alert)
	if err != nil {
		return tag.Rendering(err)
	}

	body, err := notify.EncodeJSON(s.buildEvent(routingKey, summary, alert))
	if err != nil {
		return tag.Encoding(err)
	}

	s.logger.DebugContext(ctx, "sending pagerduty event", "receiver_id", receiver.ID, "dedup_key", alert.ID)
	resp, err := notify.PostJSON(ctx, s.client, s.endpoint, body)
	if err != nil {
		return tag.Transport(err)
	}
	return checkResponse(resp)
}

func (s *Strategy) buildEvent(routingKey, summary string, alert *model.AlarmContent) event {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary = fallbackString(strings.TrimSpace(alert.Title), "alert")
	}

	custom := map[string]any{
		"title": alert.Title,
		"level": alert.Level.String(),
	}
	if alert.Content != "" {
		custom["content"] = alert.Content
	}
	for k, v := range alert.Labels {
		if _, exists := custom[k]; !exists {
			custom[k] = v
		}
	}

	return event{
		RoutingKey:  routingKey,
		EventAction: "trigger",
		DedupKey:    alert.ID,
		Payload: eventPayload{
			Summary:       truncate(summary, maxSummaryLen),
			Severity:      severityFor(alert.Level),
			Source:        s.source,
			Component:     s.component,
			Timestamp:     alert.OccurredAt().Format(time.RFC3339),
			CustomDetails: custom,
		},
	}
}

// severityFor maps alert levels onto the four PagerDuty severities.
func severityFor(level model.AlarmLevel) string {
	switch level {
	case model.AlarmLevelEmergency, model.AlarmLevelCritical:
		return "critical"
	case model.AlarmLevelWarning:
		return "warning"
	case model.AlarmLevelInfo:
		return "info"
	default:
		return "error"
	}
}

func checkResponse(resp *notify.Response) error {
	var ack eventResponse
	decodeErr := errorIfEmpty(resp.Body)
	if decodeErr == nil {
		decodeErr = json.Unmarshal(resp.Body, &ack)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		de := tag.Status(resp.StatusCode)
		if decodeErr == nil && ack.Message != "" {
			de.Cause = errors.New(describe(ack))
		}
		return de
	}
	if decodeErr != nil {
		return tag.Malformed(decodeErr)
	}
	if ack.Status != statusSuccess {
		de := tag.Rejected(0, describe(ack))
		de.StatusCode = resp.StatusCode
		return de
	}
	return nil
}

func errorIfEmpty(body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("empty response body")
	}
	return nil
}

func describe(ack eventResponse) string {
	msg := strings.TrimSpace(ack.Message)
	if msg == "" {
		msg = fmt.Sprintf("status %q", ack.Status)
	}
	if len(ack.Errors) > 0 {
		msg += ": " + strings.Join(ack.Errors, "; ")
	}
	return msg
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func fallbackString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
