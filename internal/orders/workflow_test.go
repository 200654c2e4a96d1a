package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/zapstock/internal/blobstore"
	"github.com/xelth-com/zapstock/internal/events"
	"github.com/xelth-com/zapstock/internal/models"
	"github.com/xelth-com/zapstock/internal/store"
	"github.com/xelth-com/zapstock/internal/whatsapp"
)

type recorder struct {
	mu  sync.Mutex
	got []events.Event
}

func (r *recorder) Publish(_ context.Context, evt events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, evt)
	return nil
}
func (r *recorder) Close() error { return nil }

type fixture struct {
	store    *store.Store
	workflow *Workflow
	events   *recorder
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{clock: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), events: &recorder{}}
	f.store = store.New(blobstore.NewMemory())
	f.store.Clock = func() time.Time { return f.clock }
	n := 0
	f.store.NewID = func() string { n++; return fmt.Sprintf("o%d", n) }
	require.NoError(t, f.store.Load(context.Background()))
	f.workflow = NewWorkflow(f.store, f.events)
	return f
}

func (f *fixture) product(id string) models.Product {
	for _, p := range f.store.Products() {
		if p.ID == id {
			return p
		}
	}
	return models.Product{}
}

func TestPlaceDecrementsStock(t *testing.T) {
	f := newFixture(t)

	o, err := f.workflow.Place(context.Background(), NewOrder{CustomerID: "2", ProductID: "2", Quantity: 5})
	require.NoError(t, err)
	require.NotNil(t, o)

	assert.Equal(t, 80, f.product("2").RemainingQuantity)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.False(t, o.IsPaid)
	assert.Equal(t, 5, o.Quantity)
	assert.Equal(t, f.clock, o.Date)

	all := f.store.Orders()
	require.Len(t, all, 3)
	assert.Equal(t, o.ID, all[0].ID, "new orders go first")

	require.Len(t, f.events.got, 1)
	assert.Equal(t, events.TypeOrderPlaced, f.events.got[0].Type)
}

func TestPlaceRejectsOverQuantity(t *testing.T) {
	f := newFixture(t)

	o, err := f.workflow.Place(context.Background(), NewOrder{CustomerID: "2", ProductID: "2", Quantity: 200})
	assert.Nil(t, o)

	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 85, short.Available)
	assert.Contains(t, err.Error(), "Restam apenas 85 itens")

	assert.Equal(t, 85, f.product("2").RemainingQuantity)
	assert.Len(t, f.store.Orders(), 2)
	assert.Empty(t, f.events.got)
}

func TestPlaceExactRemainder(t *testing.T) {
	f := newFixture(t)

	_, err := f.workflow.Place(context.Background(), NewOrder{CustomerID: "1", ProductID: "2", Quantity: 85})
	require.NoError(t, err)
	assert.Equal(t, 0, f.product("2").RemainingQuantity)

	_, err = f.workflow.Place(context.Background(), NewOrder{CustomerID: "1", ProductID: "2", Quantity: 1})
	var short *InsufficientStockError
	assert.ErrorAs(t, err, &short)
}

func TestPlaceUnknownReferencesAreNoOps(t *testing.T) {
	f := newFixture(t)

	o, err := f.workflow.Place(context.Background(), NewOrder{CustomerID: "1", ProductID: "missing", Quantity: 1})
	assert.NoError(t, err)
	assert.Nil(t, o)

	o, err = f.workflow.Place(context.Background(), NewOrder{CustomerID: "missing", ProductID: "2", Quantity: 1})
	assert.NoError(t, err)
	assert.Nil(t, o)

	assert.Len(t, f.store.Orders(), 2)
	assert.Equal(t, 85, f.product("2").RemainingQuantity)
}

func TestPlaceValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.workflow.Place(ctx, NewOrder{CustomerID: "1", ProductID: "2", Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	require.NoError(t, f.store.Update(ctx, func(tx *store.Tx) error {
		tx.Product("2").Status = models.ProductStatusArchived
		tx.MarkChanged(store.Products)
		return nil
	}))
	_, err = f.workflow.Place(ctx, NewOrder{CustomerID: "1", ProductID: "2", Quantity: 1})
	assert.ErrorIs(t, err, ErrProductArchived)
	assert.Equal(t, 85, f.product("2").RemainingQuantity)
}

func TestSetStatusIsPermissiveAndIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.workflow.SetStatus(ctx, "101", models.OrderStatusDelivered))
	require.NoError(t, f.workflow.SetStatus(ctx, "101", models.OrderStatusDelivered))
	o, _ := f.workflow.Get("101")
	assert.Equal(t, models.OrderStatusDelivered, o.Status)
	assert.Len(t, f.events.got, 1)

	require.NoError(t, f.workflow.SetStatus(ctx, "101", models.OrderStatusPending))
	o, _ = f.workflow.Get("101")
	assert.Equal(t, models.OrderStatusPending, o.Status, "backward moves are allowed")

	assert.NoError(t, f.workflow.SetStatus(ctx, "nope", models.OrderStatusShipped))
	assert.ErrorIs(t, f.workflow.SetStatus(ctx, "101", "Cancelado"), ErrInvalidStatus)
}

func TestSetStatusKeepsStock(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.workflow.SetStatus(context.Background(), "102", models.OrderStatusShipped))
	assert.Equal(t, 85, f.product("2").RemainingQuantity)
}

func TestTogglePaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.workflow.TogglePaid(ctx, "102")
	require.NoError(t, err)
	assert.True(t, o.IsPaid)

	o, err = f.workflow.TogglePaid(ctx, "102")
	require.NoError(t, err)
	assert.False(t, o.IsPaid)

	o, err = f.workflow.TogglePaid(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, o)
}

func TestSetPaidIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.workflow.SetPaid(ctx, "102", true)
	require.NoError(t, err)
	o, err := f.workflow.SetPaid(ctx, "102", true)
	require.NoError(t, err)
	assert.True(t, o.IsPaid)
	assert.Len(t, f.events.got, 1)
}

func TestMessageLink(t *testing.T) {
	f := newFixture(t)

	link, ok := f.workflow.MessageLink("102", whatsapp.MessagePayment)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/21988887777?text="))
	assert.Contains(t, link, whatsapp.EncodeComponent("💰 *Total: R$ 62.50*"))

	_, ok = f.workflow.MessageLink("404", whatsapp.MessageShipped)
	assert.False(t, ok)
}

func TestPlaceConcurrentNeverOversells(t *testing.T) {
	f := newFixture(t)
	const buyers = 200

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		placed   int
		rejected int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := f.workflow.Place(context.Background(), NewOrder{CustomerID: "2", ProductID: "2", Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			var short *InsufficientStockError
			switch {
			case err == nil && o != nil:
				placed++
			case errors.As(err, &short):
				assert.Equal(t, 0, short.Available)
				rejected++
			default:
				t.Errorf("unexpected result: order=%v err=%v", o, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 85, placed)
	assert.Equal(t, buyers-85, rejected)
	assert.Equal(t, 0, f.product("2").RemainingQuantity)
	assert.Len(t, f.store.Orders(), 2+85)
	assert.Len(t, f.events.got, 85)
}
