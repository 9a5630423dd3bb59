package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/target/mmk-alert-notify/internal/core"
	"github.com/target/mmk-alert-notify/internal/data"
	"github.com/target/mmk-alert-notify/internal/domain/model"
	apperrors "github.com/target/mmk-alert-notify/internal/errors"
	"github.com/target/mmk-alert-notify/internal/notify/webhook"
)

// ReceiverServiceOptions groups dependencies for ReceiverService.
type ReceiverServiceOptions struct {
	Repo core.ReceiverRepository
	// Cache is optional; without it every read goes to the repository.
	Cache       core.CacheRepository
	CacheConfig core.ReceiverCacheConfig
	Evaluator   webhook.Evaluator
	Logger      *slog.Logger
}

// ReceiverService validates receiver changes and serves reads through a cache.
type ReceiverService struct {
	repo   core.ReceiverRepository
	cache  *core.ReceiverCache
	eval   webhook.Evaluator
	logger *slog.Logger
}

// NewReceiverService constructs a new ReceiverService.
func NewReceiverService(opts ReceiverServiceOptions) *ReceiverService {
	eval := opts.Evaluator
	if eval == nil {
		eval = webhook.DefaultEvaluator()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceiverService{
		repo:   opts.Repo,
		cache:  core.NewReceiverCache(core.ReceiverCacheOptions{Cache: opts.Cache, Config: opts.CacheConfig}),
		eval:   eval,
		logger: logger.With("component", "receiver_service"),
	}
}

// Create validates and stores a new receiver.
func (s *ReceiverService) Create(
	ctx context.Context,
	req *model.CreateAlertReceiverRequest,
) (*model.AlertReceiver, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid alert receiver")
	}
	if req.Type == model.ChannelWebhook {
		if err := webhook.ValidateReceiver(s.eval, req.BodyExpr, req.Headers); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid alert receiver")
		}
	}

	receiver, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, mapReceiverErr(err)
	}
	s.logger.InfoContext(ctx, "alert receiver created",
		"receiver_id", receiver.ID,
		"channel", receiver.Type.String(),
	)
	return receiver, nil
}

// GetByID returns a receiver, preferring the cache.
func (s *ReceiverService) GetByID(ctx context.Context, id string) (*model.AlertReceiver, error) {
	if cached := s.fromCache(ctx, id); cached != nil {
		return cached, nil
	}

	receiver, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapReceiverErr(err)
	}
	s.toCache(ctx, receiver)
	return receiver, nil
}

// GetByIDs resolves a set of receiver IDs. IDs that do not exist are absent from the result.
func (s *ReceiverService) GetByIDs(ctx context.Context, ids []string) (map[string]*model.AlertReceiver, error) {
	out := make(map[string]*model.AlertReceiver, len(ids))
	var misses []string
	for _, id := range ids {
		if _, seen := out[id]; seen || slices.Contains(misses, id) {
			continue
		}
		if cached := s.fromCache(ctx, id); cached != nil {
			out[id] = cached
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out, nil
	}

	found, err := s.repo.GetByIDs(ctx, misses)
	if err != nil {
		return nil, mapReceiverErr(err)
	}
	for _, r := range found {
		out[r.ID] = r
		s.toCache(ctx, r)
	}
	return out, nil
}

// List returns a page of receivers.
func (s *ReceiverService) List(ctx context.Context, opts model.ReceiverListOptions) ([]*model.AlertReceiver, error) {
	receivers, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, mapReceiverErr(err)
	}
	return receivers, nil
}

// Update validates and applies a partial update, then drops the cached copy.
func (s *ReceiverService) Update(
	ctx context.Context,
	id string,
	req *model.UpdateAlertReceiverRequest,
) (*model.AlertReceiver, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid alert receiver update")
	}
	if req.BodyExpr != nil || req.Headers != nil {
		if err := webhook.ValidateReceiver(s.eval, req.BodyExpr, req.Headers); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid alert receiver update")
		}
	}

	receiver, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, mapReceiverErr(err)
	}
	s.invalidate(ctx, id)
	return receiver, nil
}

// Delete removes a receiver. Deleting a missing receiver is a NotFound error.
func (s *ReceiverService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return mapReceiverErr(err)
	}
	s.invalidate(ctx, id)
	if !deleted {
		return apperrors.NotFound("alert receiver not found")
	}
	s.logger.InfoContext(ctx, "alert receiver deleted", "receiver_id", id)
	return nil
}

// Cache failures never fail a request; the repository stays the source of truth.

func (s *ReceiverService) fromCache(ctx context.Context, id string) *model.AlertReceiver {
	r, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "receiver cache read failed", "receiver_id", id, "error", err)
		return nil
	}
	return r
}

func (s *ReceiverService) toCache(ctx context.Context, r *model.AlertReceiver) {
	if err := s.cache.Put(ctx, r); err != nil {
		s.logger.WarnContext(ctx, "receiver cache write failed", "receiver_id", r.ID, "error", err)
	}
}

func (s *ReceiverService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "receiver cache invalidation failed", "receiver_id", id, "error", err)
	}
}

func mapReceiverErr(err error) error {
	switch {
	case errors.Is(err, data.ErrReceiverNotFound):
		return apperrors.NotFound("alert receiver not found")
	case errors.Is(err, data.ErrReceiverNameExists):
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeConflict,
			Message: "alert receiver name already exists",
			Field:   "name",
		}
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	mapped := apperrors.MapDBError(err)
	if errors.As(mapped, &appErr) {
		return mapped
	}
	return apperrors.Wrap(err, apperrors.ErrCodeInternal, "alert receiver storage failed")
}
