// Package orders places orders against stock lots and tracks their
// fulfilment status and payment flag.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/xelth-com/zapstock/internal/events"
	"github.com/xelth-com/zapstock/internal/inventory"
	"github.com/xelth-com/zapstock/internal/logger"
	"github.com/xelth-com/zapstock/internal/metrics"
	"github.com/xelth-com/zapstock/internal/models"
	"github.com/xelth-com/zapstock/internal/store"
	"github.com/xelth-com/zapstock/internal/whatsapp"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrProductArchived = errors.New("product lot is archived")
	ErrInvalidStatus   = errors.New("invalid order status")
)

// InsufficientStockError is returned when an order asks for more units than remain
type InsufficientStockError = inventory.InsufficientStockError

// NewOrder is the input for Place
type NewOrder struct {
	CustomerID string `json:"customerId"`
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

// Workflow is the order service
type Workflow struct {
	store  *store.Store
	events events.Publisher
}

// NewWorkflow creates a workflow over s
func NewWorkflow(s *store.Store, pub events.Publisher) *Workflow {
	return &Workflow{store: s, events: pub}
}

// Place reserves stock and records a pending, unpaid order. The stock
// decrement and the new order are persisted together.
//
// An unknown product or customer is not an error: Place returns nil, nil
// and changes nothing. Asking for more than remains returns an
// *InsufficientStockError and also changes nothing.
func (w *Workflow) Place(ctx context.Context, in NewOrder) (*models.Order, error) {
	if in.Quantity < 1 {
		metrics.RecordOrderRejection("invalid_quantity")
		return nil, ErrInvalidQuantity
	}

	var placed *models.Order
	err := w.store.Update(ctx, func(tx *store.Tx) error {
		p := tx.Product(in.ProductID)
		if p == nil || tx.Customer(in.CustomerID) == nil {
			return nil
		}
		if !p.IsActive() {
			return ErrProductArchived
		}
		if err := inventory.Decrement(tx, p.ID, in.Quantity); err != nil {
			return err
		}

		o := models.Order{
			ID:         tx.NewID(),
			CustomerID: in.CustomerID,
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
			Status:     models.OrderStatusPending,
			Notes:      in.Notes,
			Date:       tx.Now(),
			IsPaid:     false,
		}
		tx.AddOrder(o)
		placed = &o
		return nil
	})

	log := logger.FromContext(ctx)
	var short *InsufficientStockError
	switch {
	case errors.As(err, &short):
		metrics.RecordOrderRejection("insufficient_stock")
		log.Info().
			Str("product_id", in.ProductID).
			Int("requested", in.Quantity).
			Int("available", short.Available).
			Msg("Order rejected: insufficient stock")
		return nil, err
	case errors.Is(err, ErrProductArchived):
		metrics.RecordOrderRejection("archived_product")
		return nil, err
	case err != nil:
		return nil, err
	case placed == nil:
		log.Warn().
			Str("product_id", in.ProductID).
			Str("customer_id", in.CustomerID).
			Msg("Order ignored: unknown product or customer")
		return nil, nil
	}

	metrics.RecordOrderPlaced()
	log.Info().
		Str("order_id", placed.ID).
		Str("product_id", placed.ProductID).
		Int("quantity", placed.Quantity).
		Msg("Order placed")
	events.Emit(ctx, w.events, events.New(events.TypeOrderPlaced, placed.ID, placed.Date, placed))
	return placed, nil
}

// SetStatus overwrites an order's status. Any status may follow any other.
// Unknown ids are ignored.
func (w *Workflow) SetStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var updated *models.Order
	err := w.store.Update(ctx, func(tx *store.Tx) error {
		o := tx.Order(id)
		if o == nil || o.Status == status {
			return nil
		}
		o.Status = status
		tx.MarkChanged(store.Orders)
		cp := *o
		updated = &cp
		return nil
	})
	if err != nil || updated == nil {
		return err
	}

	logger.FromContext(ctx).Info().Str("order_id", id).Str("status", string(status)).Msg("Order status changed")
	events.Emit(ctx, w.events, events.New(events.TypeOrderStatusChanged, id, w.store.Clock(), updated))
	return nil
}

// TogglePaid flips the payment flag and returns the updated order, or nil
// when the id is unknown.
func (w *Workflow) TogglePaid(ctx context.Context, id string) (*models.Order, error) {
	return w.updatePaid(ctx, id, func(current bool) bool { return !current })
}

// SetPaid sets the payment flag to paid
func (w *Workflow) SetPaid(ctx context.Context, id string, paid bool) (*models.Order, error) {
	return w.updatePaid(ctx, id, func(bool) bool { return paid })
}

func (w *Workflow) updatePaid(ctx context.Context, id string, next func(bool) bool) (*models.Order, error) {
	var (
		result  *models.Order
		changed bool
	)
	err := w.store.Update(ctx, func(tx *store.Tx) error {
		o := tx.Order(id)
		if o == nil {
			return nil
		}
		if v := next(o.IsPaid); v != o.IsPaid {
			o.IsPaid = v
			tx.MarkChanged(store.Orders)
			changed = true
		}
		cp := *o
		result = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		logger.FromContext(ctx).Info().Str("order_id", id).Bool("paid", result.IsPaid).Msg("Order payment changed")
		events.Emit(ctx, w.events, events.New(events.TypeOrderPaymentChanged, id, w.store.Clock(), result))
	}
	return result, nil
}

// Get returns an order by id
func (w *Workflow) Get(id string) (*models.Order, bool) {
	for _, o := range w.store.Orders() {
		if o.ID == id {
			return &o, true
		}
	}
	return nil, false
}

// MessageLink renders a follow-up template for an order as a chat link to
// its customer. ok is false when the order, customer or product is gone.
func (w *Workflow) MessageLink(id string, kind whatsapp.MessageKind) (link string, ok bool) {
	customers, products, orders := w.store.Snapshot()
	o, ok := findOrder(orders, id)
	if !ok {
		return "", false
	}
	c, ok := findCustomer(customers, o.CustomerID)
	if !ok {
		return "", false
	}
	p, ok := findProduct(products, o.ProductID)
	if !ok {
		return "", false
	}
	return whatsapp.ChatLink(c.WhatsApp, whatsapp.OrderMessage(kind, c, p, o)), true
}
