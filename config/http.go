package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT"  envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout bounds graceful shutdown after SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 15 * time.Second
	}
	// Notify fans out synchronously, so the write timeout must outlast one delivery.
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 60 * time.Second
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 30 * time.Second
	}
	if h.MaxBodyBytes <= 0 {
		h.MaxBodyBytes = 1 << 20
	}
}
