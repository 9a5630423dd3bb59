package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/mmk-alert-notify/config"
	"github.com/target/mmk-alert-notify/internal/core"
	"github.com/target/mmk-alert-notify/internal/data"
	"github.com/target/mmk-alert-notify/internal/notify"
	"github.com/target/mmk-alert-notify/internal/render"
	"github.com/target/mmk-alert-notify/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Receivers     *service.ReceiverService
	Notifications *service.NotificationService
	Dispatcher    *notify.Dispatcher
	Registry      *notify.Registry
	Renderer      *render.Store
	// Cache is nil when Redis is disabled.
	Cache         *data.RedisCacheRepo
	Observability ObservabilityContainer
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config        *config.AppConfig
	DB            *sql.DB
	RedisClient   redis.UniversalClient
	Logger        *slog.Logger
	Observability ObservabilityContainer
	// HTTPClient overrides the outbound client used by every channel.
	HTTPClient notify.HTTPDoer
}

// BuildServices wires repositories, the channel registry and the services on top of them.
func BuildServices(deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("build services: config is required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("build services: database is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	renderer, err := BuildRenderer(cfg.Notify, logger)
	if err != nil {
		return ServiceContainer{}, err
	}
	registry, err := BuildRegistry(NotifyDeps{
		Config: cfg.Notify,
		Logger: logger,
		Client: deps.HTTPClient,
	}, renderer)
	if err != nil {
		return ServiceContainer{}, err
	}

	dispatcher, err := notify.NewDispatcher(notify.DispatcherOptions{
		Registry:       registry,
		Logger:         logger,
		Recorder:       recorderOrNil(deps.Observability),
		Concurrency:    cfg.Notify.DispatchConcurrency,
		TracerProvider: deps.Observability.Tracing.TracerProvider(),
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build dispatcher: %w", err)
	}

	var cacheRepo *data.RedisCacheRepo
	var cache core.CacheRepository
	if deps.RedisClient != nil {
		cacheRepo = data.NewRedisCacheRepo(deps.RedisClient)
		cache = cacheRepo
	}

	receivers := service.NewReceiverService(service.ReceiverServiceOptions{
		Repo:        data.NewReceiverRepo(deps.DB),
		Cache:       cache,
		CacheConfig: core.ReceiverCacheConfig{TTL: cfg.Cache.ReceiverTTL},
		Logger:      logger,
	})

	notifications, err := service.NewNotificationService(service.NotificationServiceOptions{
		Receivers:    receivers,
		Dispatcher:   dispatcher,
		Logger:       logger,
		MaxReceivers: cfg.Notify.MaxReceivers,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	logger.Info("notification channels registered", "channels", registry.Types())

	return ServiceContainer{
		Receivers:     receivers,
		Notifications: notifications,
		Dispatcher:    dispatcher,
		Registry:      registry,
		Renderer:      renderer,
		Cache:         cacheRepo,
		Observability: deps.Observability,
	}, nil
}

// recorderOrNil avoids handing the dispatcher a typed-nil interface.
func recorderOrNil(o ObservabilityContainer) notify.DeliveryRecorder {
	if o.Recorder == nil {
		return nil
	}
	return o.Recorder
}
