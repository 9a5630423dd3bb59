// Package wework delivers alerts to WeWork (WeCom) group robots.
package wework

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/notify"
)

const (
	// WebhookURL is the robot endpoint; the receiver's robot key is appended to it.
	WebhookURL = "https://qyapi.weixin.qq.com/cgi-bin/webhook/send?key="

	// TemplateName is the template used to render WeWork messages.
	TemplateName = "alertNotifyWeWorkRobot"

	msgTypeMarkdown = "markdown"
	successCode     = 0
)

var tag = notify.ChannelTag(model.ChannelWeWorkRobot)

// Config captures runtime configuration for the WeWork strategy.
type Config struct {
	// BaseURL overrides WebhookURL (tests, egress proxies).
	BaseURL  string
	Renderer notify.Renderer
	Client   notify.HTTPDoer
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Strategy posts markdown messages to a WeWork robot webhook.
type Strategy struct {
	baseURL  string
	renderer notify.Renderer
	client   notify.HTTPDoer
	logger   *slog.Logger
}

var _ notify.Strategy = (*Strategy)(nil)

type webhookPayload struct {
	MsgType  string          `json:"msgtype"`
	Markdown markdownMessage `json:"markdown"`
}

type markdownMessage struct {
	Content string `json:"content"`
}

// NewStrategy builds a WeWork strategy. A renderer is required.
func NewStrategy(cfg Config) (*Strategy, error) {
	if cfg.Renderer == nil {
		return nil, errors.New("wework: renderer is required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = WebhookURL
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Strategy{
		baseURL:  baseURL,
		renderer: cfg.Renderer,
		client:   client,
		logger:   logger.With("component", "notify.wework"),
	}, nil
}

// Type implements notify.Strategy.
func (s *Strategy) Type() model.ChannelType { return model.ChannelWeWorkRobot }

// TemplateName implements notify.Strategy.
func (s *Strategy) TemplateName() string { return TemplateName }

// Send renders the alert and posts it to the receiver's robot.
func (s *Strategy) Send(ctx context.Context, receiver *model.AlertReceiver, alert *model.AlarmContent) error {
	if receiver == nil || alert == nil {
		return tag.Invalid("receiver and alert are required")
	}
	key := strings.TrimSpace(receiver.AccessToken)
	if key == "" {
		return tag.Invalid("receiver has no robot key")
	}

	content, err := s.renderer.Render(TemplateName, alert)
	if err != nil {
		return tag.Rendering(err)
	}

	body, err := notify.EncodeJSON(webhookPayload{
		MsgType:  msgTypeMarkdown,
		Markdown: markdownMessage{Content: content},
	})
	if err != nil {
		return tag.Encoding(err)
	}

	endpoint := s.baseURL + key
	s.logger.DebugContext(ctx, "sending wework webhook", "url", model.RedactURL(endpoint))

	resp, err := notify.PostJSON(ctx, s.client, endpoint, body)
	if err != nil {
		return tag.Transport(err)
	}
	if err := notify.CheckRobotAck(tag, resp, successCode); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "wework webhook accepted", "receiver_id", receiver.ID)
	return nil
}
