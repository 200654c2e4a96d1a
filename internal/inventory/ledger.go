// Package inventory manages stock lots: creating them, archiving them and
// drawing units down as orders are placed.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xelth-com/zapstock/internal/events"
	"github.com/xelth-com/zapstock/internal/logger"
	"github.com/xelth-com/zapstock/internal/models"
	"github.com/xelth-com/zapstock/internal/store"
	"github.com/xelth-com/zapstock/internal/whatsapp"
)

// LowStockThreshold is the level below which an active lot is flagged
const LowStockThreshold = 10

var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrInvalidAmount  = errors.New("amount must be at least 1")
	ErrInvalidProduct = errors.New("invalid product")
)

// InsufficientStockError reports a request for more units than remain
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Erro: Estoque insuficiente. Restam apenas %d itens.", e.Available)
}

// NewProduct is the input for creating a lot
type NewProduct struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	TotalQuantity int      `json:"totalQuantity"`
	Price         *float64 `json:"price"`
}

// Validate applies the form rules for a new lot
func (n *NewProduct) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if n.TotalQuantity < 1 {
		return fmt.Errorf("%w: totalQuantity must be at least 1", ErrInvalidProduct)
	}
	if n.Price != nil && *n.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidProduct)
	}
	return nil
}

// Ledger is the inventory service
type Ledger struct {
	store  *store.Store
	events events.Publisher
}

// NewLedger creates a ledger over s, publishing changes to pub
func NewLedger(s *store.Store, pub events.Publisher) *Ledger {
	return &Ledger{store: s, events: pub}
}

// Create adds an active lot with all units remaining. Input is not
// checked here; callers run NewProduct.Validate first.
func (l *Ledger) Create(ctx context.Context, in NewProduct) (*models.Product, error) {
	var created models.Product
	err := l.store.Update(ctx, func(tx *store.Tx) error {
		created = models.Product{
			ID:                tx.NewID(),
			Name:              in.Name,
			Description:       in.Description,
			TotalQuantity:     in.TotalQuantity,
			RemainingQuantity: in.TotalQuantity,
			Price:             in.Price,
			Status:            models.ProductStatusActive,
		}
		tx.AddProduct(created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().
		Str("product_id", created.ID).
		Str("name", created.Name).
		Int("quantity", created.TotalQuantity).
		Msg("Product lot created")
	events.Emit(ctx, l.events, events.New(events.TypeProductCreated, created.ID, l.store.Clock(), created))
	return &created, nil
}

// Archive hides a lot from selection lists. Unknown ids are ignored;
// archiving an archived lot changes nothing.
func (l *Ledger) Archive(ctx context.Context, id string) error {
	var archived *models.Product
	err := l.store.Update(ctx, func(tx *store.Tx) error {
		p := tx.Product(id)
		if p == nil || p.Status == models.ProductStatusArchived {
			return nil
		}
		p.Status = models.ProductStatusArchived
		tx.MarkChanged(store.Products)
		cp := *p
		archived = &cp
		return nil
	})
	if err != nil || archived == nil {
		return err
	}

	logger.FromContext(ctx).Info().Str("product_id", id).Msg("Product lot archived")
	events.Emit(ctx, l.events, events.New(events.TypeProductArchived, id, l.store.Clock(), archived))
	return nil
}

// Decrement takes amount units out of a lot inside the caller's
// transaction. It never lets remaining stock go below zero.
func Decrement(tx *store.Tx, id string, amount int) error {
	if amount < 1 {
		return ErrInvalidAmount
	}
	p := tx.Product(id)
	if p == nil {
		return ErrUnknownProduct
	}
	if amount > p.RemainingQuantity {
		return &InsufficientStockError{ProductID: id, Requested: amount, Available: p.RemainingQuantity}
	}
	p.RemainingQuantity -= amount
	tx.MarkChanged(store.Products)
	return nil
}

// List returns every lot, archived ones included
func (l *Ledger) List() []models.Product {
	return l.store.Products()
}

// Active returns the lots offered for sale, in insertion order
func (l *Ledger) Active() []models.Product {
	return FilterActive(l.store.Products())
}

// Get returns a lot by id
func (l *Ledger) Get(id string) (*models.Product, bool) {
	for _, p := range l.store.Products() {
		if p.ID == id {
			return &p, true
		}
	}
	return nil, false
}

// LowStock returns active lots with fewer than threshold units left
func (l *Ledger) LowStock(threshold int) []models.Product {
	return FilterLowStock(l.store.Products(), threshold)
}

// BroadcastMessage is the stock update text for the sales group
func (l *Ledger) BroadcastMessage() string {
	return whatsapp.StockBroadcast(l.store.Products())
}

// ShareLink wraps the broadcast message in a WhatsApp share link
func (l *Ledger) ShareLink() string {
	return whatsapp.ShareLink(l.BroadcastMessage())
}

// FilterActive keeps active lots
func FilterActive(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out
}

// FilterLowStock keeps active lots below threshold
func FilterLowStock(products []models.Product, threshold int) []models.Product {
	out := make([]models.Product, 0)
	for _, p := range products {
		if p.IsActive() && p.RemainingQuantity < threshold {
			out = append(out, p)
		}
	}
	return out
}

// MatchActive returns the first active lot whose name contains keywords,
// ignoring case
func MatchActive(products []models.Product, keywords string) (*models.Product, bool) {
	needle := strings.ToLower(strings.TrimSpace(keywords))
	if needle == "" {
		return nil, false
	}
	for _, p := range products {
		if p.IsActive() && strings.Contains(strings.ToLower(p.Name), needle) {
			return &p, true
		}
	}
	return nil, false
}
