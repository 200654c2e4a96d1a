// Package events publishes domain events after a store transaction commits.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xelth-com/zapstock/internal/logger"
)

const (
	TypeOrderPlaced         = "order.placed"
	TypeOrderStatusChanged  = "order.status_changed"
	TypeOrderPaymentChanged = "order.payment_changed"
	TypeProductCreated      = "product.created"
	TypeProductArchived     = "product.archived"
	TypeCustomerCreated     = "customer.created"
)

// Event is one committed state change
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	EntityID   string      `json:"entityId"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// New builds an event with a fresh id
func New(eventType, entityID string, at time.Time, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: at,
		Payload:    payload,
	}
}

// Publisher delivers events to some downstream system
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Emit publishes evt and logs, rather than returns, any failure. The state
// change has already been committed when events are emitted.
func Emit(ctx context.Context, pub Publisher, evt Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error().
			Err(err).
			Str("event_type", evt.Type).
			Str("entity_id", evt.EntityID).
			Msg("Failed to publish event")
	}
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Multi fans an event out to several publishers
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt Event) error {
	var firstErr error
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m Multi) Close() error {
	var firstErr error
	for _, p := range m {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
