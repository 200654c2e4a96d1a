package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/zapstock/internal/blobstore"
	"github.com/xelth-com/zapstock/internal/models"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type failingBlobs struct {
	*blobstore.Memory
	failPut bool
}

func (f *failingBlobs) Put(ctx context.Context, entries map[string][]byte) error {
	if f.failPut {
		return errors.New("disk full")
	}
	return f.Memory.Put(ctx, entries)
}

func newLoaded(t *testing.T, blobs blobstore.Store) *Store {
	t.Helper()
	s := New(blobs)
	s.Clock = func() time.Time { return fixedNow }
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestLoadSeedsEmptySlots(t *testing.T) {
	blobs := blobstore.NewMemory()
	s := newLoaded(t, blobs)

	assert.Len(t, s.Customers(), 2)
	assert.Len(t, s.Products(), 2)
	assert.Len(t, s.Orders(), 2)

	raw, err := blobs.Get(context.Background(), "zapstock_products")
	require.NoError(t, err)
	var persisted []models.Product
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, 85, persisted[1].RemainingQuantity)
}

func TestLoadReadsExistingSnapshots(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemory()
	require.NoError(t, blobs.Put(ctx, map[string][]byte{
		"zapstock_customers": []byte(`[{"id":"c9","name":"Ana","whatsapp":"11","address":"x","createdAt":"2024-01-01T00:00:00Z"}]`),
		"zapstock_orders":    []byte(`[]`),
	}))

	s := newLoaded(t, blobs)

	customers := s.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, "Ana", customers[0].Name)
	assert.Empty(t, s.Orders())
	assert.Len(t, s.Products(), 2, "missing slot falls back to seed")
}

func TestLoadQuarantinesMalformedSnapshot(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemory()
	require.NoError(t, blobs.Put(ctx, map[string][]byte{"zapstock_orders": []byte(`{not json`)}))

	s := newLoaded(t, blobs)
	assert.Len(t, s.Orders(), 2)

	var quarantined string
	for _, k := range blobs.Keys() {
		if strings.HasPrefix(k, "zapstock_orders.corrupt.") {
			quarantined = k
		}
	}
	require.NotEmpty(t, quarantined)
	raw, err := blobs.Get(ctx, quarantined)
	require.NoError(t, err)
	assert.Equal(t, `{not json`, string(raw))
}

func TestUpdateBeforeLoad(t *testing.T) {
	s := New(blobstore.NewMemory())
	err := s.Update(context.Background(), func(tx *Tx) error { return nil })
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestUpdateCommitsAndNotifies(t *testing.T) {
	blobs := blobstore.NewMemory()
	s := newLoaded(t, blobs)
	s.NewID = func() string { return "c3" }

	var got []Change
	s.OnChange(func(c Change) { got = append(got, c) })

	err := s.Update(context.Background(), func(tx *Tx) error {
		tx.AddCustomer(models.Customer{ID: tx.NewID(), Name: "Ana", CreatedAt: tx.Now()})
		return nil
	})
	require.NoError(t, err)

	customers := s.Customers()
	require.Len(t, customers, 3)
	assert.Equal(t, "c3", customers[2].ID)

	require.Len(t, got, 1)
	assert.Equal(t, []Collection{Customers}, got[0].Collections)
	assert.Equal(t, fixedNow, got[0].At)

	raw, err := blobs.Get(context.Background(), Customers.Key())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Ana"`)
}

func TestUpdateErrorDiscardsChanges(t *testing.T) {
	s := newLoaded(t, blobstore.NewMemory())
	notified := false
	s.OnChange(func(Change) { notified = true })

	boom := errors.New("boom")
	err := s.Update(context.Background(), func(tx *Tx) error {
		tx.Product("2").RemainingQuantity = 0
		tx.MarkChanged(Products)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 85, s.Products()[1].RemainingQuantity)
	assert.False(t, notified)
}

func TestUpdatePersistFailureDiscardsChanges(t *testing.T) {
	blobs := &failingBlobs{Memory: blobstore.NewMemory()}
	s := newLoaded(t, blobs)
	blobs.failPut = true

	err := s.Update(context.Background(), func(tx *Tx) error {
		tx.Order("102").IsPaid = true
		tx.MarkChanged(Orders)
		return nil
	})
	require.Error(t, err)
	assert.False(t, s.Orders()[1].IsPaid)
}

func TestUpdateWithoutChangesSkipsPersist(t *testing.T) {
	blobs := &failingBlobs{Memory: blobstore.NewMemory()}
	s := newLoaded(t, blobs)
	blobs.failPut = true

	err := s.Update(context.Background(), func(tx *Tx) error { return nil })
	assert.NoError(t, err)
}

func TestAddOrderPrepends(t *testing.T) {
	s := newLoaded(t, blobstore.NewMemory())
	require.NoError(t, s.Update(context.Background(), func(tx *Tx) error {
		tx.AddOrder(models.Order{ID: "new"})
		return nil
	}))
	assert.Equal(t, "new", s.Orders()[0].ID)
}

func TestReadersGetCopies(t *testing.T) {
	s := newLoaded(t, blobstore.NewMemory())

	products := s.Products()
	*products[0].Price = 999
	products[0].Name = "changed"

	fresh := s.Products()
	assert.Equal(t, 25.0, *fresh[0].Price)
	assert.Equal(t, "Kit Camisetas Básicas (Caixa 01)", fresh[0].Name)
}

func TestReset(t *testing.T) {
	s := newLoaded(t, blobstore.NewMemory())
	require.NoError(t, s.Update(context.Background(), func(tx *Tx) error {
		tx.AddOrder(models.Order{ID: "x"})
		return nil
	}))
	require.Len(t, s.Orders(), 3)

	require.NoError(t, s.Reset(context.Background()))
	assert.Len(t, s.Orders(), 2)
	assert.Equal(t, "101", s.Orders()[0].ID)
}

func TestUpdatePanicReleasesLock(t *testing.T) {
	s := newLoaded(t, blobstore.NewMemory())

	assert.Panics(t, func() {
		s.Update(context.Background(), func(tx *Tx) error {
			tx.Product("2").RemainingQuantity = 0
			tx.MarkChanged(Products)
			panic("handler bug")
		})
	})

	done := make(chan error, 1)
	go func() {
		done <- s.Update(context.Background(), func(tx *Tx) error {
			tx.Product("2").RemainingQuantity--
			tx.MarkChanged(Products)
			return nil
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("store still locked after a panicking transaction")
	}
	assert.Equal(t, 84, s.Products()[1].RemainingQuantity)
}
