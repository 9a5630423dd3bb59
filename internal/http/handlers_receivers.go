// Package httpx serves the alert receiver and notification JSON API.
package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/service"
)

const (
	defaultReceiverListLimit = 50  // Default number of receivers returned when limit is not specified
	maxReceiverListLimit     = 200 // Maximum number of receivers that can be requested in one call
)

// ReceiverService is the subset of *service.ReceiverService used by the handlers.
type ReceiverService interface {
	Create(ctx context.Context, req *model.CreateAlertReceiverRequest) (*model.AlertReceiver, error)
	GetByID(ctx context.Context, id string) (*model.AlertReceiver, error)
	List(ctx context.Context, opts model.ReceiverListOptions) ([]*model.AlertReceiver, error)
	Update(ctx context.Context, id string, req *model.UpdateAlertReceiverRequest) (*model.AlertReceiver, error)
	Delete(ctx context.Context, id string) error
}

// ReceiverTester sends a test notification to one receiver.
type ReceiverTester interface {
	TestReceiver(ctx context.Context, id string) (*service.DeliveryOutcome, error)
}

// ReceiverHandlers provides HTTP handlers for alert receiver operations.
// Every receiver leaving the API is redacted.
type ReceiverHandlers struct {
	Svc    ReceiverService
	Tester ReceiverTester
}

// Create handles HTTP requests to create a new alert receiver.
func (h *ReceiverHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAlertReceiverRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	receiver, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, receiver.Redacted())
}

// List handles HTTP requests to list receivers with optional type and enabled filters.
func (h *ReceiverHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pg := pageFromQuery(q, defaultReceiverListLimit, maxReceiverListLimit)
	opts := model.ReceiverListOptions{Limit: pg.Limit, Offset: pg.Offset}

	if raw := strings.TrimSpace(q.Get("type")); raw != "" {
		ct, err := model.ParseChannelType(raw)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_query", Err: err, Field: "type"})
			return
		}
		opts.Type = &ct
	}
	if raw := strings.TrimSpace(q.Get("enabled")); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_query",
				Err:     errors.New("enabled must be true or false"),
				Field:   "enabled",
			})
			return
		}
		opts.Enabled = &enabled
	}
	opts.NameContains = strings.TrimSpace(q.Get("q"))

	receivers, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	out := make([]*model.AlertReceiver, 0, len(receivers))
	for _, rcv := range receivers {
		out = append(out, rcv.Redacted())
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"receivers": out,
		"limit":     pg.Limit,
		"offset":    pg.Offset,
	})
}

// GetByID handles HTTP requests to get a receiver by ID.
func (h *ReceiverHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	receiver, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, receiver.Redacted())
}

// Update handles HTTP requests to partially update a receiver.
func (h *ReceiverHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req model.UpdateAlertReceiverRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	receiver, err := h.Svc.Update(r.Context(), id, &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, receiver.Redacted())
}

// Delete handles HTTP requests to delete a receiver.
func (h *ReceiverHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Test sends a canned alert to the receiver and reports the delivery outcome.
// A failed delivery is still a 200: the outcome carries the failure.
func (h *ReceiverHandlers) Test(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	outcome, err := h.Tester.TestReceiver(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, outcome)
}

func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("receiver id is required"),
		})
		return "", false
	}
	return id, true
}
