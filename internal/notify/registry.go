package notify

import (
	"errors"
	"fmt"
	"slices"

	"github.com/target/mmk-alert-notify/internal/domain/model"
)

// Registry maps each channel type to the strategy that serves it.
// It is built once at start-up and read-only afterwards.
type Registry struct {
	strategies map[model.ChannelType]Strategy
}

// NewRegistry registers the given strategies. Nil entries are ignored; two strategies
// claiming the same channel type are a configuration error.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	r := &Registry{strategies: make(map[model.ChannelType]Strategy, len(strategies))}
	for _, s := range strategies {
		if s == nil {
			continue
		}
		ct := s.Type()
		if !ct.Valid() {
			return nil, fmt.Errorf("strategy %T declares unknown channel type %d", s, ct)
		}
		if existing, ok := r.strategies[ct]; ok {
			return nil, fmt.Errorf("channel %s registered twice (%T and %T)", ct, existing, s)
		}
		r.strategies[ct] = s
	}
	if len(r.strategies) == 0 {
		return nil, errors.New("at least one notification strategy is required")
	}
	return r, nil
}

// Get returns the strategy for a channel type.
func (r *Registry) Get(ct model.ChannelType) (Strategy, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.strategies[ct]
	return s, ok
}

// Types returns the registered channel types in ascending order.
func (r *Registry) Types() []model.ChannelType {
	if r == nil {
		return nil
	}
	out := make([]model.ChannelType, 0, len(r.strategies))
	for ct := range r.strategies {
		out = append(out, ct)
	}
	slices.Sort(out)
	return out
}

// TemplateNames returns the template each registered channel renders, keyed by channel.
func (r *Registry) TemplateNames() map[model.ChannelType]string {
	if r == nil {
		return nil
	}
	out := make(map[model.ChannelType]string, len(r.strategies))
	for ct, s := range r.strategies {
		out[ct] = s.TemplateName()
	}
	return out
}
