package config

import (
	"strings"
	"time"
)

const (
	defaultNotifyTimeout     = 5 * time.Second
	defaultNotifyConcurrency = 8
	defaultMaxReceivers      = 100
	defaultNotifyName        = "alert-notify"
	maxNotifyConcurrency     = 256
)

// NotifyConfig controls channel strategies and dispatch fan-out. All variables carry the NOTIFY_ prefix.
type NotifyConfig struct {
	// Timeout bounds each outbound provider request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`

	// TemplateDir optionally overrides the embedded message templates by file name.
	TemplateDir string `env:"TEMPLATE_DIR"`

	// DispatchConcurrency bounds parallel sends for one alert.
	DispatchConcurrency int `env:"DISPATCH_CONCURRENCY" envDefault:"8"`

	// MaxReceivers caps receiver_ids per notify request.
	MaxReceivers int `env:"MAX_RECEIVERS" envDefault:"100"`

	// Base URLs override the public provider endpoints (egress proxies, tests).
	WeWorkBaseURL    string `env:"WEWORK_BASE_URL"`
	DingTalkBaseURL  string `env:"DINGTALK_BASE_URL"`
	PagerDutyBaseURL string `env:"PAGERDUTY_BASE_URL"`

	Slack     SlackChannelConfig     `envPrefix:"SLACK_"`
	PagerDuty PagerDutyChannelConfig `envPrefix:"PAGERDUTY_"`
}

// SlackChannelConfig overrides the username and channel of every Slack webhook post.
type SlackChannelConfig struct {
	Username string `env:"USERNAME" envDefault:"alert-notify"`
	Channel  string `env:"CHANNEL"`
}

// PagerDutyChannelConfig fills the source and component of PagerDuty events.
type PagerDutyChannelConfig struct {
	Source    string `env:"SOURCE"    envDefault:"alert-notify"`
	Component string `env:"COMPONENT"`
}

// Sanitize normalises notify configuration values.
func (c *NotifyConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = defaultNotifyTimeout
	}
	if c.DispatchConcurrency <= 0 {
		c.DispatchConcurrency = defaultNotifyConcurrency
	}
	if c.DispatchConcurrency > maxNotifyConcurrency {
		c.DispatchConcurrency = maxNotifyConcurrency
	}
	if c.MaxReceivers <= 0 {
		c.MaxReceivers = defaultMaxReceivers
	}

	c.TemplateDir = strings.TrimSpace(c.TemplateDir)
	c.WeWorkBaseURL = strings.TrimSpace(c.WeWorkBaseURL)
	c.DingTalkBaseURL = strings.TrimSpace(c.DingTalkBaseURL)
	c.PagerDutyBaseURL = strings.TrimSpace(c.PagerDutyBaseURL)

	c.Slack.Channel = strings.TrimSpace(c.Slack.Channel)
	if c.Slack.Username = strings.TrimSpace(c.Slack.Username); c.Slack.Username == "" {
		c.Slack.Username = defaultNotifyName
	}
	if c.PagerDuty.Source = strings.TrimSpace(c.PagerDuty.Source); c.PagerDuty.Source == "" {
		c.PagerDuty.Source = defaultNotifyName
	}
	c.PagerDuty.Component = strings.TrimSpace(c.PagerDuty.Component)
}
