package httpx

import (
	"context"
	"net/http"

	"github.com/target/mmk-alert-notify/internal/service"
)

// Notifier fans one alert out to a set of receivers.
type Notifier interface {
	Notify(ctx context.Context, req *service.NotifyRequest) (*service.NotifyResult, error)
}

// NotifyHandlers provides the alert submission endpoint.
type NotifyHandlers struct {
	Svc Notifier
}

// Notify handles POST /api/notify. Request errors are 4xx; delivery failures are
// reported per receiver with 207 (some failed) or 502 (nothing delivered).
func (h *NotifyHandlers) Notify(w http.ResponseWriter, r *http.Request) {
	var req service.NotifyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Notify(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, notifyStatus(result), result)
}

func notifyStatus(res *service.NotifyResult) int {
	switch {
	case res.Failed == 0:
		return http.StatusOK
	case res.Delivered == 0:
		return http.StatusBadGateway
	default:
		return http.StatusMultiStatus
	}
}
