package smartfill

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xelth-com/zapstock/internal/models"
	"github.com/xelth-com/zapstock/internal/orders"
)

// DraftTTL is how long an untouched draft survives
const DraftTTL = 24 * time.Hour

var (
	ErrDraftNotFound   = errors.New("draft not found")
	ErrDraftBusy       = errors.New("draft is being smart-filled")
	ErrDraftIncomplete = errors.New("select a customer and a product first")
)

// DraftFields is a partial update of a draft; nil fields are left alone
type DraftFields struct {
	CustomerID *string `json:"customerId"`
	ProductID  *string `json:"productId"`
	Quantity   *int    `json:"quantity"`
	Notes      *string `json:"notes"`
}

type entry struct {
	draft   models.Draft
	touched time.Time
}

// Board holds the open new-order drafts. A draft is busy while its
// smart-fill call is in flight; edits and submission are refused until
// the call returns.
type Board struct {
	adapter  *Adapter
	workflow *orders.Workflow

	// Now is replaceable in tests
	Now func() time.Time

	mu     sync.Mutex
	drafts map[string]*entry
}

// NewBoard creates an empty board
func NewBoard(adapter *Adapter, workflow *orders.Workflow) *Board {
	return &Board{
		adapter:  adapter,
		workflow: workflow,
		Now:      time.Now,
		drafts:   make(map[string]*entry),
	}
}

// Create opens a blank draft with quantity 1
func (b *Board) Create() models.Draft {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sweepLocked()

	d := models.Draft{ID: uuid.NewString(), Quantity: 1}
	b.drafts[d.ID] = &entry{draft: d, touched: b.Now()}
	return d
}

// Get returns the current state of a draft
func (b *Board) Get(id string) (models.Draft, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.drafts[id]
	if !ok {
		return models.Draft{}, ErrDraftNotFound
	}
	return e.draft, nil
}

// Update applies manual edits
func (b *Board) Update(id string, f DraftFields) (models.Draft, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.drafts[id]
	if !ok {
		return models.Draft{}, ErrDraftNotFound
	}
	if e.draft.Busy {
		return e.draft, ErrDraftBusy
	}

	if f.CustomerID != nil {
		e.draft.CustomerID = *f.CustomerID
	}
	if f.ProductID != nil {
		e.draft.ProductID = *f.ProductID
	}
	if f.Quantity != nil {
		e.draft.Quantity = *f.Quantity
	}
	if f.Notes != nil {
		e.draft.Notes = *f.Notes
	}
	e.touched = b.Now()
	return e.draft, nil
}

// Discard closes a draft
func (b *Board) Discard(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(b.drafts, id)
	return nil
}

// SmartFill runs the adapter on a draft. The draft is busy for the
// duration of the oracle call; on failure it keeps its previous fields.
func (b *Board) SmartFill(ctx context.Context, id, message string) (*Result, error) {
	snapshot, err := b.acquire(id)
	if err != nil {
		return nil, err
	}

	res, err := b.adapter.Apply(ctx, snapshot, message)

	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	e.draft.Busy = false
	e.touched = b.Now()
	if err != nil {
		return nil, err
	}

	res.Draft.ID = id
	res.Draft.Busy = false
	e.draft = res.Draft
	return res, nil
}

// Submit places the order described by a draft. On success the draft is
// closed. A nil order with a nil error means the order was silently
// dropped because its customer or product no longer exists.
func (b *Board) Submit(ctx context.Context, id string) (*models.Order, error) {
	snapshot, err := b.acquire(id)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	if snapshot.CustomerID == "" || snapshot.ProductID == "" {
		err = ErrDraftIncomplete
	} else {
		order, err = b.workflow.Place(ctx, orders.NewOrder{
			CustomerID: snapshot.CustomerID,
			ProductID:  snapshot.ProductID,
			Quantity:   snapshot.Quantity,
			Notes:      snapshot.Notes,
		})
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if e, ok := b.drafts[id]; ok {
		e.draft.Busy = false
		e.touched = b.Now()
		if err == nil && order != nil {
			delete(b.drafts, id)
		}
	}
	return order, err
}

// acquire marks a draft busy and returns a copy of it
func (b *Board) acquire(id string) (models.Draft, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.drafts[id]
	if !ok {
		return models.Draft{}, ErrDraftNotFound
	}
	if e.draft.Busy {
		return models.Draft{}, ErrDraftBusy
	}
	e.draft.Busy = true
	e.touched = b.Now()
	return e.draft, nil
}

// sweepLocked drops idle drafts older than DraftTTL
func (b *Board) sweepLocked() {
	now := b.Now()
	for id, e := range b.drafts {
		if !e.draft.Busy && now.Sub(e.touched) > DraftTTL {
			delete(b.drafts, id)
		}
	}
}

// Len reports how many drafts are open
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.drafts)
}
