package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("env.Parse: %v", err)
	}
	cfg.Sanitize()

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Postgres.Name != "alertnotify" {
		t.Errorf("Postgres.Name = %q, want alertnotify", cfg.Postgres.Name)
	}
	if cfg.Cache.ReceiverTTL != 5*time.Minute {
		t.Errorf("Cache.ReceiverTTL = %v, want 5m", cfg.Cache.ReceiverTTL)
	}
	if cfg.Notify.Timeout != 5*time.Second {
		t.Errorf("Notify.Timeout = %v, want 5s", cfg.Notify.Timeout)
	}
	if cfg.Notify.DispatchConcurrency != 8 {
		t.Errorf("Notify.DispatchConcurrency = %d, want 8", cfg.Notify.DispatchConcurrency)
	}
	if cfg.Notify.MaxReceivers != 100 {
		t.Errorf("Notify.MaxReceivers = %d, want 100", cfg.Notify.MaxReceivers)
	}
	if cfg.Notify.Slack.Username != "alert-notify" {
		t.Errorf("Notify.Slack.Username = %q, want alert-notify", cfg.Notify.Slack.Username)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Observability.Tracing.Enabled {
		t.Error("tracing should be disabled by default")
	}
}

func TestAppConfig_ParseNotifyEnv(t *testing.T) {
	t.Setenv("NOTIFY_TIMEOUT", "2s")
	t.Setenv("NOTIFY_TEMPLATE_DIR", " /etc/alert-notify/templates ")
	t.Setenv("NOTIFY_DISPATCH_CONCURRENCY", "16")
	t.Setenv("NOTIFY_WEWORK_BASE_URL", "http://proxy.internal/wework?key=")
	t.Setenv("NOTIFY_DINGTALK_BASE_URL", "http://proxy.internal/dingtalk?access_token=")
	t.Setenv("NOTIFY_PAGERDUTY_BASE_URL", "http://proxy.internal/pd")
	t.Setenv("NOTIFY_SLACK_USERNAME", "paging-bot")
	t.Setenv("NOTIFY_SLACK_CHANNEL", "#ops")
	t.Setenv("NOTIFY_PAGERDUTY_SOURCE", "monitoring")
	t.Setenv("NOTIFY_PAGERDUTY_COMPONENT", "checkout")
	t.Setenv("CACHE_RECEIVER_TTL", "90s")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("env.Parse: %v", err)
	}
	cfg.Sanitize()

	n := cfg.Notify
	if n.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v", n.Timeout)
	}
	if n.TemplateDir != "/etc/alert-notify/templates" {
		t.Errorf("TemplateDir = %q", n.TemplateDir)
	}
	if n.DispatchConcurrency != 16 {
		t.Errorf("DispatchConcurrency = %d", n.DispatchConcurrency)
	}
	if n.WeWorkBaseURL != "http://proxy.internal/wework?key=" {
		t.Errorf("WeWorkBaseURL = %q", n.WeWorkBaseURL)
	}
	if n.DingTalkBaseURL != "http://proxy.internal/dingtalk?access_token=" {
		t.Errorf("DingTalkBaseURL = %q", n.DingTalkBaseURL)
	}
	if n.PagerDutyBaseURL != "http://proxy.internal/pd" {
		t.Errorf("PagerDutyBaseURL = %q", n.PagerDutyBaseURL)
	}
	if n.Slack.Username != "paging-bot" || n.Slack.Channel != "#ops" {
		t.Errorf("Slack = %+v", n.Slack)
	}
	if n.PagerDuty.Source != "monitoring" || n.PagerDuty.Component != "checkout" {
		t.Errorf("PagerDuty = %+v", n.PagerDuty)
	}
	if cfg.Cache.ReceiverTTL != 90*time.Second {
		t.Errorf("Cache.ReceiverTTL = %v", cfg.Cache.ReceiverTTL)
	}
}

func TestNotifyConfig_Sanitize(t *testing.T) {
	cfg := NotifyConfig{
		Timeout:             -1,
		DispatchConcurrency: 10000,
		MaxReceivers:        0,
		Slack:               SlackChannelConfig{Username: "  ", Channel: " #alerts "},
		PagerDuty:           PagerDutyChannelConfig{Source: "", Component: " api "},
	}
	cfg.Sanitize()

	if cfg.Timeout != defaultNotifyTimeout {
		t.Errorf("Timeout = %v, want default", cfg.Timeout)
	}
	if cfg.DispatchConcurrency != maxNotifyConcurrency {
		t.Errorf("DispatchConcurrency = %d, want clamp to %d", cfg.DispatchConcurrency, maxNotifyConcurrency)
	}
	if cfg.MaxReceivers != defaultMaxReceivers {
		t.Errorf("MaxReceivers = %d", cfg.MaxReceivers)
	}
	if cfg.Slack.Username != defaultNotifyName || cfg.Slack.Channel != "#alerts" {
		t.Errorf("Slack = %+v", cfg.Slack)
	}
	if cfg.PagerDuty.Source != defaultNotifyName || cfg.PagerDuty.Component != "api" {
		t.Errorf("PagerDuty = %+v", cfg.PagerDuty)
	}

	cfg = NotifyConfig{DispatchConcurrency: -3}
	cfg.Sanitize()
	if cfg.DispatchConcurrency != defaultNotifyConcurrency {
		t.Errorf("DispatchConcurrency = %d, want default", cfg.DispatchConcurrency)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{}
	cfg.Sanitize()

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		t.Errorf("timeouts not defaulted: %+v", cfg)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
	}
}

func TestCacheConfig_Sanitize(t *testing.T) {
	cfg := CacheConfig{ReceiverTTL: -time.Second}
	cfg.Sanitize()
	if cfg.ReceiverTTL != defaultReceiverCacheTTL {
		t.Errorf("ReceiverTTL = %v", cfg.ReceiverTTL)
	}
}

func TestAppConfig_LogLevelFallback(t *testing.T) {
	cfg := AppConfig{LogLevel: " LOUD "}
	cfg.Sanitize()
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}

	cfg = AppConfig{LogLevel: " Debug "}
	cfg.Sanitize()
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg := AppConfig{}
	cfg.Sanitize()
	if !cfg.IsDev {
		t.Error("expected APP_ENV=development to enable dev mode")
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
		Prefix:        " .alertnotify. ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
	if cfg.Prefix != "alertnotify" {
		t.Fatalf("expected prefix to be trimmed, got %q", cfg.Prefix)
	}
}

func TestObservabilityTracingConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityTracingConfig{
		Enabled:     true,
		Exporter:    " STDOUT ",
		ServiceName: " ",
		SampleRatio: 3,
	}
	cfg.Sanitize()

	if cfg.Exporter != "stdout" {
		t.Errorf("Exporter = %q", cfg.Exporter)
	}
	if cfg.ServiceName != defaultServiceName {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.SampleRatio != 1 {
		t.Errorf("SampleRatio = %v, want clamp to 1", cfg.SampleRatio)
	}

	cfg = ObservabilityTracingConfig{Enabled: true, Exporter: "none"}
	cfg.Sanitize()
	if cfg.Enabled {
		t.Error("exporter none should disable tracing")
	}
}
