// Package metrics exposes Prometheus counters for orders, smart-fill and HTTP traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xelth-com/zapstock/internal/models"
)

const prefix = "zapstock"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	OrdersPlacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_orders_placed_total",
			Help: "Total number of orders placed",
		},
	)

	OrderRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_rejections_total",
			Help: "Orders refused by validation, by reason",
		},
		[]string{"reason"},
	)

	SmartFillTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_smartfill_total",
			Help: "Smart-fill attempts, by outcome",
		},
		[]string{"outcome"},
	)

	StockRemaining = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_stock_remaining",
			Help: "Units remaining per active lot",
		},
		[]string{"product_id", "product_name"},
	)
)

// RecordOrderPlaced counts a successful placement
func RecordOrderPlaced() {
	OrdersPlacedTotal.Inc()
}

// RecordOrderRejection counts a refused placement
func RecordOrderRejection(reason string) {
	OrderRejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordSmartFill counts a smart-fill attempt
func RecordSmartFill(outcome string) {
	SmartFillTotal.WithLabelValues(outcome).Inc()
}

// UpdateStock resets the stock gauge to the active lots in products
func UpdateStock(products []models.Product) {
	StockRemaining.Reset()
	for _, p := range products {
		if p.IsActive() {
			StockRemaining.WithLabelValues(p.ID, p.Name).Set(float64(p.RemainingQuantity))
		}
	}
}

// ObserveHTTP records one served request
func ObserveHTTP(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
}
