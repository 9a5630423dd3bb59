package httpx

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterServices holds the services and options needed by the HTTP router.
type RouterServices struct {
	Receivers ReceiverService
	Notifier  Notifier
	Tester    ReceiverTester
	// Gatherer backs /metrics; defaults to the Prometheus default registry.
	Gatherer prometheus.Gatherer
	// Checks back /readyz; an empty map always reports ready.
	Checks map[string]HealthCheck
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readinessHandler(services.Checks))

	gatherer := services.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if services.Receivers != nil {
		h := &ReceiverHandlers{Svc: services.Receivers, Tester: services.Tester}
		registerCRUD(mux, crudRoutes{
			Base:    "/api/receivers",
			Create:  h.Create,
			List:    h.List,
			GetByID: h.GetByID,
			Update:  h.Update,
			Delete:  h.Delete,
		})
		if services.Tester != nil {
			mux.HandleFunc("POST /api/receivers/{id}/test", h.Test)
		}
	}

	if services.Notifier != nil {
		h := &NotifyHandlers{Svc: services.Notifier}
		mux.HandleFunc("POST /api/notify", h.Notify)
	}

	return mux
}

type crudRoutes struct {
	Base    string
	Create  http.HandlerFunc
	List    http.HandlerFunc
	GetByID http.HandlerFunc
	Update  http.HandlerFunc
	Delete  http.HandlerFunc
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Create == nil ||
		cfg.List == nil ||
		cfg.GetByID == nil ||
		cfg.Update == nil ||
		cfg.Delete == nil {
		panic("registerCRUD: nil handler for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}

	mux.Handle("POST "+cfg.Base, cfg.Create)
	mux.Handle("GET "+cfg.Base, cfg.List)
	mux.Handle("GET "+cfg.Base+"/{id}", cfg.GetByID)
	mux.Handle("PUT "+cfg.Base+"/{id}", cfg.Update)
	mux.Handle("DELETE "+cfg.Base+"/{id}", cfg.Delete)
}
