// Package notify defines the contract shared by every alert notification channel
// and the registry/dispatcher that routes receivers to their channel strategy.
package notify

import (
	"context"

	"github.com/target/mmk-alert-notify/internal/domain/model"
)

// Strategy delivers a rendered alert through one notification channel.
//
// Type and TemplateName are fixed at construction. Send blocks for the duration of the
// render and the provider round trip and returns nil only when the provider acknowledged
// the message; every other outcome is reported as a *DeliveryError.
// Implementations hold no mutable state and are safe for concurrent use.
type Strategy interface {
	Type() model.ChannelType
	TemplateName() string
	Send(ctx context.Context, receiver *model.AlertReceiver, alert *model.AlarmContent) error
}

// Renderer turns a named template and an alert into the message text a channel sends.
type Renderer interface {
	Render(name string, alert *model.AlarmContent) (string, error)
}

// RendererFunc adapts a function to the Renderer interface (useful for tests).
type RendererFunc func(name string, alert *model.AlarmContent) (string, error)

// Render implements the Renderer interface.
func (f RendererFunc) Render(name string, alert *model.AlarmContent) (string, error) {
	return f(name, alert)
}
