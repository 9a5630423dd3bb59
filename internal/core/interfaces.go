package core

import (
	"context"

	"github.com/target/mmk-alert-notify/internal/domain/model"
)

// ReceiverRepository defines the interface for alert receiver storage.
type ReceiverRepository interface {
	Create(ctx context.Context, req *model.CreateAlertReceiverRequest) (*model.AlertReceiver, error)
	GetByID(ctx context.Context, id string) (*model.AlertReceiver, error)
	// GetByIDs returns the receivers that exist; unknown IDs are absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]*model.AlertReceiver, error)
	List(ctx context.Context, opts model.ReceiverListOptions) ([]*model.AlertReceiver, error)
	Update(
		ctx context.Context,
		id string,
		req *model.UpdateAlertReceiverRequest,
	) (*model.AlertReceiver, error)
	Delete(ctx context.Context, id string) (bool, error)
}
