// Package store owns the three record collections. It keeps them in memory,
// applies every mutation as a transaction, and writes each touched
// collection back to the blob store as a whole snapshot before the
// mutation becomes visible.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xelth-com/zapstock/internal/blobstore"
	"github.com/xelth-com/zapstock/internal/logger"
	"github.com/xelth-com/zapstock/internal/models"
)

// Collection names one of the persisted record sets
type Collection string

const (
	Customers Collection = "customers"
	Products  Collection = "products"
	Orders    Collection = "orders"
)

var allCollections = []Collection{Customers, Products, Orders}

// Key is the blob store slot the collection is saved under
func (c Collection) Key() string {
	return "zapstock_" + string(c)
}

// Change describes a committed transaction
type Change struct {
	Collections []Collection `json:"collections"`
	At          time.Time    `json:"at"`
}

// Listener is notified after a transaction commits
type Listener func(Change)

// ErrNotLoaded is returned when Update is called before Load
var ErrNotLoaded = errors.New("store: not loaded")

// Store is the single authoritative copy of all records
type Store struct {
	blobs blobstore.Store

	// Clock and NewID are replaceable in tests
	Clock func() time.Time
	NewID func() string

	mu        sync.RWMutex
	loaded    bool
	customers []models.Customer
	products  []models.Product
	orders    []models.Order

	lmu       sync.RWMutex
	listeners []Listener
}

// New creates a store on top of blobs. Call Load before use.
func New(blobs blobstore.Store) *Store {
	return &Store{
		blobs: blobs,
		Clock: func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

// Load reads every collection from the blob store. An empty slot starts
// from the seed dataset; a slot that fails to decode is copied aside
// under a quarantine key and also starts from the seed.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Clock()
	writes := make(map[string][]byte)

	customers, err := loadCollection(ctx, s.blobs, Customers, now, writes, func() []models.Customer {
		return models.SeedCustomers(now)
	})
	if err != nil {
		return err
	}
	products, err := loadCollection(ctx, s.blobs, Products, now, writes, models.SeedProducts)
	if err != nil {
		return err
	}
	orders, err := loadCollection(ctx, s.blobs, Orders, now, writes, func() []models.Order {
		return models.SeedOrders(now)
	})
	if err != nil {
		return err
	}

	if len(writes) > 0 {
		if err := s.blobs.Put(ctx, writes); err != nil {
			return fmt.Errorf("failed to persist seed data: %w", err)
		}
	}

	s.customers, s.products, s.orders = customers, products, orders
	s.loaded = true

	logger.Logger.Info().
		Int("customers", len(customers)).
		Int("products", len(products)).
		Int("orders", len(orders)).
		Msg("Record store loaded")
	return nil
}

func loadCollection[T any](ctx context.Context, blobs blobstore.Store, c Collection, now time.Time, writes map[string][]byte, seed func() []T) ([]T, error) {
	raw, err := blobs.Get(ctx, c.Key())
	if errors.Is(err, blobstore.ErrNotFound) {
		items := seed()
		data, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		writes[c.Key()] = data
		logger.Logger.Info().Str("collection", string(c)).Msg("Empty slot, starting from seed data")
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		quarantine := fmt.Sprintf("%s.corrupt.%d", c.Key(), now.Unix())
		logger.Logger.Warn().
			Err(err).
			Str("collection", string(c)).
			Str("quarantine_key", quarantine).
			Msg("Malformed snapshot, starting from seed data")

		items = seed()
		data, mErr := json.Marshal(items)
		if mErr != nil {
			return nil, mErr
		}
		writes[quarantine] = raw
		writes[c.Key()] = data
		return items, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Reset overwrites every collection with the seed dataset
func (s *Store) Reset(ctx context.Context) error {
	return s.Update(ctx, func(tx *Tx) error {
		now := tx.Now()
		tx.customers = models.SeedCustomers(now)
		tx.products = models.SeedProducts()
		tx.orders = models.SeedOrders(now)
		for _, c := range allCollections {
			tx.MarkChanged(c)
		}
		return nil
	})
}

// Update runs fn against a private copy of the collections. If fn returns
// an error nothing changes. Otherwise the touched collections are written
// to the blob store in one Put and then swapped in. Updates never overlap.
// Listeners run after the lock is released.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	change, err := s.commit(ctx, fn)
	if err != nil || change == nil {
		return err
	}
	s.notify(*change)
	return nil
}

// commit holds the write lock for one transaction. A nil Change means
// nothing was touched.
func (s *Store) commit(ctx context.Context, fn func(tx *Tx) error) (*Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}

	tx := &Tx{
		store:     s,
		now:       s.Clock(),
		customers: cloneCustomers(s.customers),
		products:  cloneProducts(s.products),
		orders:    cloneOrders(s.orders),
		changed:   make(map[Collection]bool),
	}

	if err := fn(tx); err != nil {
		return nil, err
	}

	changed := tx.changedCollections()
	if len(changed) == 0 {
		return nil, nil
	}

	writes := make(map[string][]byte, len(changed))
	for _, c := range changed {
		data, err := tx.encode(c)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", c, err)
		}
		writes[c.Key()] = data
	}

	if err := s.blobs.Put(ctx, writes); err != nil {
		return nil, fmt.Errorf("failed to persist %v: %w", changed, err)
	}

	s.customers, s.products, s.orders = tx.customers, tx.products, tx.orders
	return &Change{Collections: changed, At: tx.now}, nil
}

// OnChange registers a listener called after every committed transaction
func (s *Store) OnChange(l Listener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) notify(c Change) {
	s.lmu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.lmu.RUnlock()

	for _, l := range listeners {
		l(c)
	}
}

// Customers returns a copy of the customer collection in insertion order
func (s *Store) Customers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCustomers(s.customers)
}

// Products returns a copy of the product collection in insertion order
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

// Orders returns a copy of the order collection, newest first
func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.orders)
}

// Snapshot returns consistent copies of all three collections
func (s *Store) Snapshot() ([]models.Customer, []models.Product, []models.Order) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCustomers(s.customers), cloneProducts(s.products), cloneOrders(s.orders)
}

func cloneCustomers(in []models.Customer) []models.Customer {
	return append([]models.Customer{}, in...)
}

func cloneOrders(in []models.Order) []models.Order {
	return append([]models.Order{}, in...)
}

func cloneProducts(in []models.Product) []models.Product {
	out := make([]models.Product, len(in))
	for i, p := range in {
		if p.Price != nil {
			price := *p.Price
			p.Price = &price
		}
		out[i] = p
	}
	return out
}
