// Package dingtalk delivers alerts to DingTalk custom robots.
package dingtalk

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
	// WebhookURL is the robot endpoint; the receiver's access token is appended to it.
	WebhookURL = "https://oapi.dingtalk.com/robot/send?access_token="

	// TemplateName is the template used to render DingTalk messages.
	TemplateName = "alertNotifyDingTalkRobot"

	defaultTitle = "Alert"
)

var tag = notify.ChannelTag(model.ChannelDingTalkRobot)

// Config captures runtime configuration for the DingTalk strategy.
type Config struct {
	BaseURL  string
	Renderer notify.Renderer
	Client   notify.HTTPDoer
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Strategy posts markdown messages to a DingTalk robot.
type Strategy struct {
	baseURL  string
	renderer notify.Renderer
	client   notify.HTTPDoer
	logger   *slog.Logger
}

var _ notify.Strategy = (*Strategy)(nil)

type robotMessage struct {
	MsgType  string   `json:"msgtype"`
	Markdown markdown `json:"markdown"`
}

// DingTalk shows title in the conversation list and text in the chat.
type markdown struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// NewStrategy builds a DingTalk strategy. A renderer is required.
func NewStrategy(cfg Config) (*Strategy, error) {
	if cfg.Renderer == nil {
		return nil, errors.New("dingtalk: renderer is required")
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
		logger:   logger.With("component", "notify.dingtalk"),
	}, nil
}

// Type implements notify.Strategy.
func (s *Strategy) Type() model.ChannelType { return model.ChannelDingTalkRobot }

// TemplateName implements notify.Strategy.
func (s *Strategy) TemplateName() string { return TemplateName }

// Send renders the alert and posts it to the receiver's robot.
func (s *Strategy) Send(ctx context.Context, receiver *model.AlertReceiver, alert *model.AlarmContent) error {
	if receiver == nil || alert == nil {
		return tag.Invalid("receiver and alert are required")
	}
	token := strings.TrimSpace(receiver.AccessToken)
	if token == "" {
		return tag.Invalid("receiver has no access token")
	}

	text, err := s.renderer.Render(TemplateName, alert)
	if err != nil {
		return tag.Rendering(err)
	}

	title := strings.TrimSpace(alert.Title)
	if title == "" {
		title = defaultTitle
	}
	body, err := notify.EncodeJSON(robotMessage{
		MsgType:  "markdown",
		Markdown: markdown{Title: title, Text: text},
	})
	if err != nil {
		return tag.Encoding(err)
	}

	endpoint := s.baseURL + token
	s.logger.DebugContext(ctx, "sending dingtalk webhook", "url", model.RedactURL(endpoint))

	resp, err := notify.PostJSON(ctx, s.client, endpoint, body)
	if err != nil {
		return tag.Transport(err)
	}
	return notify.CheckRobotAck(tag, resp, 0)
}
