// Package events carries order lifecycle notifications to whoever listens:
// the kitchen stream, live dashboards and customer status pages.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
)

type OrderEvent struct {
	Type        Type              `json:"type"`
	OrderID     string            `json:"order_id"`
	OrderType   model.OrderType   `json:"order_type"`
	Status      model.OrderStatus `json:"status"`
	TableNumber *int              `json:"table_number,omitempty"`
	Total       decimal.Decimal   `json:"total"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

func NewOrderEvent(t Type, order *model.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:        t,
		OrderID:     order.ID,
		OrderType:   order.OrderType,
		Status:      order.Status,
		TableNumber: order.TableNumber,
		Total:       order.Total,
		OccurredAt:  at.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, OrderEvent) error { return nil }

// Fanout delivers to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event OrderEvent) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
