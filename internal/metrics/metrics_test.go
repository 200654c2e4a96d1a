package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/xelth-com/zapstock/internal/models"
)

func TestUpdateStockSkipsArchived(t *testing.T) {
	products := models.SeedProducts()
	products[0].Status = models.ProductStatusArchived

	UpdateStock(products)

	assert.Equal(t, 1, testutil.CollectAndCount(StockRemaining))
	assert.Equal(t, 85.0, testutil.ToFloat64(StockRemaining.WithLabelValues("2", "Meias Esportivas (Caixa 02)")))
}

func TestRecordOrderRejection(t *testing.T) {
	before := testutil.ToFloat64(OrderRejectionsTotal.WithLabelValues("insufficient_stock"))
	RecordOrderRejection("insufficient_stock")
	assert.Equal(t, before+1, testutil.ToFloat64(OrderRejectionsTotal.WithLabelValues("insufficient_stock")))
}

func TestObserveHTTP(t *testing.T) {
	counter := HTTPRequestsTotal.WithLabelValues("GET", "/api/orders", "200")
	before := testutil.ToFloat64(counter)
	ObserveHTTP("GET", "/api/orders", 200, 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
