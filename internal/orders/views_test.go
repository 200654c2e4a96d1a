package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/zapstock/internal/inventory"
	"github.com/xelth-com/zapstock/internal/models"
)

func TestParseTab(t *testing.T) {
	tab, ok := ParseTab("")
	assert.True(t, ok)
	assert.Equal(t, TabAll, tab)

	_, ok = ParseTab("archived")
	assert.False(t, ok)
}

func TestListTabsAndOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.clock = f.clock.Add(time.Hour)
	newest, err := f.workflow.Place(ctx, NewOrder{CustomerID: "1", ProductID: "2", Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, f.workflow.SetStatus(ctx, "101", models.OrderStatusShipped))
	require.NoError(t, f.workflow.SetStatus(ctx, "102", models.OrderStatusLabelGenerated))

	all := f.workflow.List(TabAll)
	require.Len(t, all, 3)
	assert.Equal(t, newest.ID, all[0].ID)

	pending := f.workflow.List(TabPending)
	require.Len(t, pending, 2)
	for _, v := range pending {
		assert.True(t, v.IsOpen())
	}

	shipped := f.workflow.List(TabShipped)
	require.Len(t, shipped, 1)
	assert.Equal(t, "101", shipped[0].ID)
	assert.Equal(t, "Maria Silva", shipped[0].CustomerName)
	assert.Equal(t, "Kit Camisetas Básicas (Caixa 01)", shipped[0].ProductName)
	require.NotNil(t, shipped[0].Total)
	assert.Equal(t, 250.0, *shipped[0].Total)
}

func TestArchivedProductStillResolves(t *testing.T) {
	f := newFixture(t)
	ledger := inventory.NewLedger(f.store, nil)
	require.NoError(t, ledger.Archive(context.Background(), "2"))

	v, ok := f.workflow.View("102")
	require.True(t, ok)
	assert.Equal(t, "Meias Esportivas (Caixa 02)", v.ProductName)
	assert.Len(t, f.workflow.List(TabAll), 2)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)

	d := f.workflow.Dashboard()
	assert.Equal(t, 2, d.ActiveProducts)
	assert.Equal(t, 2, d.PendingOrders)
	assert.Equal(t, 85, d.TotalStock)
	assert.Equal(t, 62.5, d.Receivable)
	assert.Equal(t, 2, d.TotalCustomers)

	require.Len(t, d.LowStock, 1)
	assert.Equal(t, "COMPLETA", d.LowStock[0].Label)
	assert.Len(t, d.RecentOrders, 2)
}

func TestDashboardRecentOrdersCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		_, err := f.workflow.Place(ctx, NewOrder{CustomerID: "1", ProductID: "2", Quantity: 1})
		require.NoError(t, err)
	}

	d := f.workflow.Dashboard()
	assert.Len(t, d.RecentOrders, 5)
	assert.Equal(t, "o6", d.RecentOrders[0].ID)
	assert.Equal(t, 79, d.TotalStock)
}
