package core

import (
	"context"

	"github.com/target/mmk-alert-notify/internal/domain/model"
	"github.com/target/mmk-alert-notify/internal/notify"
)

// AlertDispatcher delivers alerts to receivers through their channel strategy.
// *notify.Dispatcher is the production implementation.
type AlertDispatcher interface {
	// Dispatch sends alert to one receiver and returns nil or a *notify.DeliveryError.
	Dispatch(ctx context.Context, receiver *model.AlertReceiver, alert *model.AlarmContent) error
	// DispatchAll fans alert out to every receiver, one result per receiver in input order.
	DispatchAll(ctx context.Context, receivers []*model.AlertReceiver, alert *model.AlarmContent) []notify.Result
}

var _ AlertDispatcher = (*notify.Dispatcher)(nil)
