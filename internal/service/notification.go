package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/target/mmk-alert-notify/internal/core"
	"github.com/target/mmk-alert-notify/internal/domain/model"
	apperrors "github.com/target/mmk-alert-notify/internal/errors"
	"github.com/target/mmk-alert-notify/internal/notify"
)

const defaultMaxReceiversPerNotify = 100

// Delivery statuses reported per receiver.
const (
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// ReceiverLookup resolves receivers by ID; *ReceiverService implements it.
type ReceiverLookup interface {
	GetByID(ctx context.Context, id string) (*model.AlertReceiver, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*model.AlertReceiver, error)
}

// NotifyRequest asks for one alert to be delivered to a set of receivers.
type NotifyRequest struct {
	ReceiverIDs []string            `json:"receiver_ids"`
	Alert       *model.AlarmContent `json:"alert"`
}

// DeliveryOutcome is the API view of one delivery attempt.
type DeliveryOutcome struct {
	ReceiverID string `json:"receiver_id"`
	Channel    string `json:"channel,omitempty"`
	Status     string `json:"status"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// NotifyResult summarizes a Notify call.
type NotifyResult struct {
	AlertID   string            `json:"alert_id"`
	Delivered int               `json:"delivered"`
	Failed    int               `json:"failed"`
	Skipped   int               `json:"skipped"`
	Results   []DeliveryOutcome `json:"results"`
}

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	Receivers  ReceiverLookup
	Dispatcher core.AlertDispatcher
	Logger     *slog.Logger
	// MaxReceivers caps receiver_ids per request.
	MaxReceivers int
	// Now is the clock used for test alerts.
	Now func() time.Time
}

// NotificationService resolves receivers and hands alerts to the dispatcher.
// Each call is fire-and-forget: failed deliveries are reported, never retried.
type NotificationService struct {
	receivers    ReceiverLookup
	dispatcher   core.AlertDispatcher
	logger       *slog.Logger
	maxReceivers int
	now          func() time.Time
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(opts NotificationServiceOptions) (*NotificationService, error) {
	if opts.Receivers == nil {
		return nil, errors.New("notification service: receiver lookup is required")
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("notification service: dispatcher is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxReceivers := opts.MaxReceivers
	if maxReceivers <= 0 {
		maxReceivers = defaultMaxReceiversPerNotify
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &NotificationService{
		receivers:    opts.Receivers,
		dispatcher:   opts.Dispatcher,
		logger:       logger.With("component", "notification_service"),
		maxReceivers: maxReceivers,
		now:          now,
	}, nil
}

// Notify delivers req.Alert to every receiver in req.ReceiverIDs.
// Unknown receivers are reported as failed results rather than failing the call.
func (s *NotificationService) Notify(ctx context.Context, req *NotifyRequest) (*NotifyResult, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Alert.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid alert")
	}
	ids := dedupeIDs(req.ReceiverIDs)
	if len(ids) == 0 {
		return nil, apperrors.ValidationField("receiver_ids", "receiver_ids is required")
	}
	if len(ids) > s.maxReceivers {
		return nil, apperrors.ValidationField("receiver_ids",
			fmt.Sprintf("at most %d receivers may be notified per request", s.maxReceivers))
	}

	alert := *req.Alert
	if strings.TrimSpace(alert.ID) == "" {
		alert.ID = uuid.NewString()
	}

	found, err := s.receivers.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	receivers := make([]*model.AlertReceiver, 0, len(found))
	for _, id := range ids {
		if r, ok := found[id]; ok {
			receivers = append(receivers, r)
		}
	}
	dispatched := s.dispatcher.DispatchAll(ctx, receivers, &alert)
	byID := make(map[string]notify.Result, len(dispatched))
	for _, r := range dispatched {
		byID[r.ReceiverID] = r
	}

	out := &NotifyResult{AlertID: alert.ID, Results: make([]DeliveryOutcome, 0, len(ids))}
	for _, id := range ids {
		var outcome DeliveryOutcome
		if r, ok := byID[id]; ok {
			outcome = toOutcome(r)
		} else {
			outcome = toOutcome(notify.Result{
				ReceiverID: id,
				Err:        notify.Tag("Dispatch").Invalid("receiver not found"),
			})
		}
		switch outcome.Status {
		case StatusDelivered:
			out.Delivered++
		case StatusSkipped:
			out.Skipped++
		default:
			out.Failed++
		}
		out.Results = append(out.Results, outcome)
	}

	s.logger.InfoContext(ctx, "alert notification processed",
		"alert_id", alert.ID,
		"level", alert.Level.String(),
		"delivered", out.Delivered,
		"failed", out.Failed,
		"skipped", out.Skipped,
	)
	return out, nil
}

// TestReceiver sends a canned info-level alert to one receiver, enabled or not.
func (s *NotificationService) TestReceiver(ctx context.Context, id string) (*DeliveryOutcome, error) {
	receiver, err := s.receivers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	alert := &model.AlarmContent{
		ID:      uuid.NewString(),
		Title:   "Test notification",
		Content: fmt.Sprintf("Test alert for receiver %q. No action is required.", receiver.Name),
		Level:   model.AlarmLevelInfo,
		Labels:  map[string]string{"receiver": receiver.Name, "test": "true"},
		FiredAt: now,
	}

	start := time.Now()
	sendErr := s.dispatcher.Dispatch(ctx, receiver, alert)
	outcome := toOutcome(notify.Result{
		ReceiverID: receiver.ID,
		Channel:    receiver.Type,
		Err:        sendErr,
		Elapsed:    time.Since(start),
	})
	return &outcome, nil
}

func toOutcome(r notify.Result) DeliveryOutcome {
	out := DeliveryOutcome{
		ReceiverID: r.ReceiverID,
		DurationMS: r.Elapsed.Milliseconds(),
	}
	if r.Channel.Valid() {
		out.Channel = r.Channel.String()
	}
	switch {
	case r.Skipped:
		out.Status = StatusSkipped
	case r.Err == nil:
		out.Status = StatusDelivered
	default:
		out.Status = StatusFailed
		out.Error = r.Err.Error()
		if de, ok := notify.AsDeliveryError(r.Err); ok {
			out.ErrorKind = string(de.Kind)
			out.StatusCode = de.StatusCode
		}
	}
	return out
}

// canonicalID returns the lowercase hyphenated form of a UUID so it matches
// the IDs the store returns. Anything unparseable is only trimmed.
func canonicalID(id string) string {
	id = strings.TrimSpace(id)
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = canonicalID(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
