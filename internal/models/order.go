package models

import (
	"fmt"
	"time"
)

// OrderStatus is the fulfilment stage of an order. Values are the labels
// shown to the operator.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "Pendente"
	OrderStatusLabelGenerated OrderStatus = "Etiqueta Gerada"
	OrderStatusShipped        OrderStatus = "Enviado"
	OrderStatusDelivered      OrderStatus = "Entregue"
)

// OrderStatuses lists every status in fulfilment order
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusLabelGenerated,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts a wire label into an OrderStatus
func ParseOrderStatus(label string) (OrderStatus, error) {
	s := OrderStatus(label)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", label)
	}
	return s, nil
}

// Order is a reservation of some units of one lot for one customer.
// Only Status and IsPaid change after creation.
type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customerId"`
	ProductID  string      `json:"productId"`
	Quantity   int         `json:"quantity"`
	Status     OrderStatus `json:"status"`
	Notes      string      `json:"notes,omitempty"`
	Date       time.Time   `json:"date"`
	IsPaid     bool        `json:"isPaid"`
}

// IsOpen reports whether the order still awaits shipment
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusLabelGenerated
}
