package config

import "strings"

const defaultServiceName = "alert-notify"

// ObservabilityConfig groups configuration that controls metrics and tracing.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
	Tracing ObservabilityTracingConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.Tracing.Sanitize()
}

// ObservabilityMetricsConfig controls emission of metrics to StatsD. The Prometheus
// endpoint is always served.
type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"OBSERVABILITY_METRICS_PREFIX"         envDefault:"alertnotify"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
	c.Prefix = strings.Trim(strings.TrimSpace(c.Prefix), ".")
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// ObservabilityTracingConfig controls OpenTelemetry span export.
type ObservabilityTracingConfig struct {
	Enabled     bool    `env:"OBSERVABILITY_TRACING_ENABLED"      envDefault:"false"`
	Exporter    string  `env:"OBSERVABILITY_TRACING_EXPORTER"     envDefault:"otlp-http"`
	Endpoint    string  `env:"OBSERVABILITY_TRACING_ENDPOINT"     envDefault:"localhost:4318"`
	Insecure    bool    `env:"OBSERVABILITY_TRACING_INSECURE"     envDefault:"true"`
	ServiceName string  `env:"OBSERVABILITY_TRACING_SERVICE_NAME" envDefault:"alert-notify"`
	// SampleRatio between 0 and 1 samples that fraction of root spans; 0 or 1 samples all.
	SampleRatio float64 `env:"OBSERVABILITY_TRACING_SAMPLE_RATIO" envDefault:"1"`
}

// Sanitize normalises tracing configuration values.
func (c *ObservabilityTracingConfig) Sanitize() {
	c.Exporter = strings.ToLower(strings.TrimSpace(c.Exporter))
	if c.Exporter == "" {
		c.Exporter = "otlp-http"
	}
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.ServiceName = strings.TrimSpace(c.ServiceName); c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}
	if c.SampleRatio < 0 {
		c.SampleRatio = 0
	}
	if c.SampleRatio > 1 {
		c.SampleRatio = 1
	}
	if c.Exporter == "none" {
		c.Enabled = false
	}
}
