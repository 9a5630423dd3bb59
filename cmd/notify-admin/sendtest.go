package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/target/mmk-alert-notify/internal/bootstrap"
	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/notify"
)

type sendTestOptions struct {
	Type    string
	Token   string
	URL     string
	Title   string
	Content string
	Level   uint
}

type sendTestReport struct {
	Channel    string `json:"channel"`
	Status     string `json:"status"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

func runSendTest(cmdCtx *commandContext, args []string) error {
	opts := sendTestOptions{}
	fs := newFlagSet("send-test", cmdCtx.Out)
	fs.StringVar(&opts.Type, "type", "", "channel type name or code (wework, dingtalk, slack, pagerduty, webhook)")
	fs.StringVar(&opts.Token, "token", "", "access token / routing key for token-addressed channels")
	fs.StringVar(&opts.URL, "url", "", "endpoint for webhook and slack channels")
	fs.StringVar(&opts.Title, "title", "Test notification", "alert title")
	fs.StringVar(&opts.Content, "content", "Sent by notify-admin. No action is required.", "alert body")
	fs.UintVar(&opts.Level, "level", uint(model.AlarmLevelInfo), "alarm level 0-3 (0 = emergency)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	receiver, alert, err := buildTestSend(opts)
	if err != nil {
		fs.Usage()
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	dispatcher, err := newAdminDispatcher(cmdCtx, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, cmdCtx.Config.Notify.Timeout+5*time.Second)
	defer cancel()

	start := time.Now()
	sendErr := dispatcher.Dispatch(ctx, receiver, alert)
	report := sendTestReport{
		Channel:    receiver.Type.String(),
		Status:     "delivered",
		DurationMS: time.Since(start).Milliseconds(),
	}
	if sendErr != nil {
		report.Status = "failed"
		report.Error = sendErr.Error()
		report.ErrorKind = string(notify.KindOf(sendErr))
		if de, ok := notify.AsDeliveryError(sendErr); ok {
			report.StatusCode = de.StatusCode
		}
	}

	enc := json.NewEncoder(cmdCtx.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if sendErr != nil {
		return fmt.Errorf("delivery failed: %s", report.ErrorKind)
	}
	return nil
}

// buildTestSend turns flags into an unsaved receiver and a fresh alert.
func buildTestSend(opts sendTestOptions) (*model.AlertReceiver, *model.AlarmContent, error) {
	ct, err := model.ParseChannelType(opts.Type)
	if err != nil {
		return nil, nil, err
	}

	req := &model.CreateAlertReceiverRequest{
		Name:        "notify-admin send-test",
		Type:        ct,
		AccessToken: opts.Token,
		URL:         opts.URL,
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	level := model.AlarmLevel(opts.Level)
	if opts.Level > 255 || !level.Valid() {
		return nil, nil, fmt.Errorf("level %d is out of range", opts.Level)
	}

	receiver := &model.AlertReceiver{
		ID:          "send-test",
		Name:        req.Name,
		Type:        req.Type,
		AccessToken: req.AccessToken,
		URL:         req.URL,
		Method:      req.Method,
		Enabled:     true,
	}
	alert := &model.AlarmContent{
		ID:      uuid.NewString(),
		Title:   strings.TrimSpace(opts.Title),
		Content: opts.Content,
		Level:   level,
		Labels:  map[string]string{"source": "notify-admin", "test": "true"},
		FiredAt: time.Now().UTC(),
	}
	if err := alert.Validate(); err != nil {
		return nil, nil, err
	}
	return receiver, alert, nil
}

// newAdminDispatcher builds the same registry the service uses; client overrides outbound HTTP.
func newAdminDispatcher(cmdCtx *commandContext, client notify.HTTPDoer) (*notify.Dispatcher, error) {
	renderer, err := bootstrap.BuildRenderer(cmdCtx.Config.Notify, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	registry, err := bootstrap.BuildRegistry(bootstrap.NotifyDeps{
		Config: cmdCtx.Config.Notify,
		Logger: cmdCtx.Logger,
		Client: client,
	}, renderer)
	if err != nil {
		return nil, err
	}
	return notify.NewDispatcher(notify.DispatcherOptions{
		Registry: registry,
		Logger:   cmdCtx.Logger,
	})
}
