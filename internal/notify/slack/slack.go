// Package slack delivers alerts to Slack incoming webhooks.
package slack

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/notify"
)

// TemplateName is the template used to render Slack messages.
const TemplateName = "alertNotifySlack"

const (
	defaultUsername = "alert-notify"
	maxErrorBody    = 256
)

var tag = notify.ChannelTag(model.ChannelSlackWebhook)

// Config captures the subset of Slack webhook behaviour we need.
type Config struct {
	// Username and Channel override the webhook's defaults when set.
	Username string
	Channel  string
	Renderer notify.Renderer
	Client   notify.HTTPDoer
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Strategy posts rendered alerts to the incoming webhook stored on each receiver.
type Strategy struct {
	username string
	channel  string
	renderer notify.Renderer
	client   notify.HTTPDoer
	logger   *slog.Logger
}

var _ notify.Strategy = (*Strategy)(nil)

type message struct {
	Text     string `json:"text"`
	Username string `json:"username,omitempty"`
	Channel  string `json:"channel,omitempty"`
}

// NewStrategy builds a Slack strategy. A renderer is required.
func NewStrategy(cfg Config) (*Strategy, error) {
	if cfg.Renderer == nil {
		return nil, errors.New("slack: renderer is required")
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
		username: fallbackString(strings.TrimSpace(cfg.Username), defaultUsername),
		channel:  strings.TrimSpace(cfg.Channel),
		renderer: cfg.Renderer,
		client:   hc,
		logger:   logger.With("component", "notify.slack"),
	}, nil
}

// Type implements notify.Strategy.
func (s *Strategy) Type() model.ChannelType { return model.ChannelSlackWebhook }

// TemplateName implements notify.Strategy.
func (s *Strategy) TemplateName() string { return TemplateName }

// Send renders the alert and posts it to the receiver's webhook URL.
func (s *Strategy) Send(ctx context.Context, receiver *model.AlertReceiver, alert *model.AlarmContent) error {
	if receiver == nil || alert == nil {
		return tag.Invalid("receiver and alert are required")
	}
	webhookURL := strings.TrimSpace(receiver.URL)
	if webhookURL == "" {
		return tag.Invalid("receiver has no webhook url")
	}

	text, err := s.renderer.Render(TemplateName, alert)
	if err != nil {
		return tag.Rendering(err)
	}

	body, err := notify.EncodeJSON(message{Text: text, Username: s.username, Channel: s.channel})
	if err != nil {
		return tag.Encoding(err)
	}

	s.logger.DebugContext(ctx, "sending slack webhook", "url", model.RedactURL(webhookURL))
	resp, err := notify.PostJSON(ctx, s.client, webhookURL, body)
	if err != nil {
		return tag.Transport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	return nil
}

// statusError keeps Slack's short error code ("invalid_payload", "no_service") as the cause.
func statusError(resp *notify.Response) error {
	de := tag.Status(resp.StatusCode)
	if detail := strings.TrimSpace(string(resp.Body)); detail != "" {
		de.Cause = errors.New(truncate(detail, maxErrorBody))
	}
	return de
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "…"
}

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
