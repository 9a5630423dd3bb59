package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/target/mmk-alert-notify/config"
	"github.com/target/mmk-alert-notify/internal/notify"
	"github.com/target/mmk-alert-notify/internal/notify/dingtalk"
	"github.com/target/mmk-alert-notify/internal/notify/pagerduty"
	"github.com/target/mmk-alert-notify/internal/notify/slack"
	"github.com/target/mmk-alert-notify/internal/notify/webhook"
	"github.com/target/mmk-alert-notify/internal/notify/wework"
	"github.com/target/mmk-alert-notify/internal/render"
)

// NotifyDeps groups what the channel strategies need.
type NotifyDeps struct {
	Config config.NotifyConfig
	Logger *slog.Logger
	// Client overrides the shared outbound HTTP client (tests).
	Client notify.HTTPDoer
}

// BuildRenderer loads the embedded templates plus any override directory.
func BuildRenderer(cfg config.NotifyConfig, logger *slog.Logger) (*render.Store, error) {
	store, err := render.NewStore(render.Options{OverrideDir: cfg.TemplateDir, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return store, nil
}

// BuildRegistry constructs every channel strategy and registers them by channel type.
// Every strategy's template must exist in renderer.
func BuildRegistry(deps NotifyDeps, renderer *render.Store) (*notify.Registry, error) {
	if renderer == nil {
		return nil, errors.New("build registry: renderer is required")
	}
	cfg := deps.Config
	client := deps.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	weworkStrategy, err := wework.NewStrategy(wework.Config{
		BaseURL:  cfg.WeWorkBaseURL,
		Renderer: renderer,
		Client:   client,
		Timeout:  cfg.Timeout,
		Logger:   deps.Logger,
	})
	if err != nil {
		return nil, err
	}
	dingtalkStrategy, err := dingtalk.NewStrategy(dingtalk.Config{
		BaseURL:  cfg.DingTalkBaseURL,
		Renderer: renderer,
		Client:   client,
		Timeout:  cfg.Timeout,
		Logger:   deps.Logger,
	})
	if err != nil {
		return nil, err
	}
	slackStrategy, err := slack.NewStrategy(slack.Config{
		Username: cfg.Slack.Username,
		Channel:  cfg.Slack.Channel,
		Renderer: renderer,
		Client:   client,
		Timeout:  cfg.Timeout,
		Logger:   deps.Logger,
	})
	if err != nil {
		return nil, err
	}
	pagerdutyStrategy, err := pagerduty.NewStrategy(pagerduty.Config{
		BaseURL:   cfg.PagerDutyBaseURL,
		Source:    cfg.PagerDuty.Source,
		Component: cfg.PagerDuty.Component,
		Renderer:  renderer,
		Client:    client,
		Timeout:   cfg.Timeout,
		Logger:    deps.Logger,
	})
	if err != nil {
		return nil, err
	}
	webhookStrategy, err := webhook.NewStrategy(webhook.Config{
		Renderer: renderer,
		Client:   client,
		Timeout:  cfg.Timeout,
		Logger:   deps.Logger,
	})
	if err != nil {
		return nil, err
	}

	registry, err := notify.NewRegistry(
		weworkStrategy,
		dingtalkStrategy,
		slackStrategy,
		pagerdutyStrategy,
		webhookStrategy,
	)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(registry.TemplateNames()))
	for _, name := range registry.TemplateNames() {
		names = append(names, name)
	}
	if err := renderer.Require(names...); err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	return registry, nil
}
