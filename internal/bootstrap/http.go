package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/target/mmk-alert-notify/config"
	httpx "github.com/target/mmk-alert-notify/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   config.HTTPConfig
	Services ServiceContainer
	DB       *sql.DB
	Logger   *slog.Logger
}

// BuildHTTPHandler assembles the router and its middleware.
// Order: Recover -> Logging -> Tracing -> MaxBody -> Router.
func BuildHTTPHandler(cfg HTTPServerConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rs := httpx.RouterServices{Checks: readinessChecks(cfg.DB, cfg.Services)}
	// Interface fields stay nil unless the concrete service exists.
	if svc := cfg.Services.Receivers; svc != nil {
		rs.Receivers = svc
	}
	if svc := cfg.Services.Notifications; svc != nil {
		rs.Notifier = svc
		rs.Tester = svc
	}
	if reg := cfg.Services.Observability.Registry; reg != nil {
		rs.Gatherer = reg
	}
	router := httpx.NewRouter(rs)

	h := httpx.MaxBody(cfg.Config.MaxBodyBytes)(router)
	h = httpx.Tracing(cfg.Services.Observability.Tracing.TracerProvider())(h)
	h = httpx.Logging(logger)(h)
	h = httpx.Recover(logger)(h)
	return h
}

func readinessChecks(db *sql.DB, svcs ServiceContainer) map[string]httpx.HealthCheck {
	checks := map[string]httpx.HealthCheck{}
	if db != nil {
		checks["postgres"] = db.PingContext
	}
	if svcs.Cache != nil {
		checks["redis"] = svcs.Cache.Health
	}
	return checks
}

// NewHTTPServer returns a configured but not yet started server.
func NewHTTPServer(cfg HTTPServerConfig) *http.Server {
	addr := cfg.Config.Addr
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           BuildHTTPHandler(cfg),
		ReadTimeout:       cfg.Config.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Config.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
}

// ServeConfig groups what Serve needs to run and stop the server.
type ServeConfig struct {
	Server          *http.Server
	Listener        net.Listener
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Serve runs the server until ctx is cancelled or the server fails, then drains
// in-flight requests within ShutdownTimeout.
func Serve(ctx context.Context, cfg ServeConfig) error {
	if cfg.Server == nil {
		return errors.New("serve: server is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", cfg.Server.Addr)
		var err error
		if cfg.Listener != nil {
			err = cfg.Server.Serve(cfg.Listener)
		} else {
			err = cfg.Server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
