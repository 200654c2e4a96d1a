package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xelth-com/zapstock/internal/buildinfo"
	"github.com/xelth-com/zapstock/internal/config"
	"github.com/xelth-com/zapstock/internal/customers"
	"github.com/xelth-com/zapstock/internal/inventory"
	"github.com/xelth-com/zapstock/internal/logger"
	"github.com/xelth-com/zapstock/internal/middleware"
	"github.com/xelth-com/zapstock/internal/orders"
	"github.com/xelth-com/zapstock/internal/smartfill"
	"github.com/xelth-com/zapstock/internal/websocket"
)

// Services are the domain services the API exposes
type Services struct {
	Ledger    *inventory.Ledger
	Directory *customers.Directory
	Workflow  *orders.Workflow
	Board     *smartfill.Board
	Hub       *websocket.Hub
}

// Router wraps the mux router and the services behind it
type Router struct {
	*mux.Router
	cfg *config.Config
	svc Services
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg *config.Config, svc Services) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		cfg:    cfg,
		svc:    svc,
	}
	r.Use(middleware.RequestLogger)

	r.HandleFunc("/health", r.healthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/auth/login", r.login).Methods("POST")
	if svc.Hub != nil {
		r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
			websocket.ServeWs(svc.Hub, w, req)
		})
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.Auth.JWTSecret))

	api.HandleFunc("/dashboard", r.getDashboard).Methods("GET")

	// Stock lots
	api.HandleFunc("/products", r.listProducts).Methods("GET")
	api.HandleFunc("/products", r.createProduct).Methods("POST")
	api.HandleFunc("/products/active", r.listActiveProducts).Methods("GET")
	api.HandleFunc("/products/low-stock", r.listLowStock).Methods("GET")
	api.HandleFunc("/products/broadcast", r.getBroadcast).Methods("GET")
	api.HandleFunc("/products/{id}/archive", r.archiveProduct).Methods("POST")

	// Customers
	api.HandleFunc("/customers", r.listCustomers).Methods("GET")
	api.HandleFunc("/customers", r.createCustomer).Methods("POST")
	api.HandleFunc("/customers/{id}", r.getCustomer).Methods("GET")
	api.HandleFunc("/customers/{id}/contact", r.getCustomerContact).Methods("GET")

	// Orders
	api.HandleFunc("/orders", r.listOrders).Methods("GET")
	api.HandleFunc("/orders", r.placeOrder).Methods("POST")
	api.HandleFunc("/orders/slips.pdf", r.printSlips).Methods("GET")
	api.HandleFunc("/orders/{id}", r.getOrder).Methods("GET")
	api.HandleFunc("/orders/{id}/status", r.setOrderStatus).Methods("PUT")
	api.HandleFunc("/orders/{id}/toggle-paid", r.toggleOrderPaid).Methods("POST")
	api.HandleFunc("/orders/{id}/paid", r.setOrderPaid).Methods("PUT")
	api.HandleFunc("/orders/{id}/message/{kind}", r.getOrderMessage).Methods("GET")
	api.HandleFunc("/orders/{id}/slip.pdf", r.printSlip).Methods("GET")

	// New-order drafts
	api.HandleFunc("/drafts", r.createDraft).Methods("POST")
	api.HandleFunc("/drafts/{id}", r.getDraft).Methods("GET")
	api.HandleFunc("/drafts/{id}", r.updateDraft).Methods("PUT")
	api.HandleFunc("/drafts/{id}", r.discardDraft).Methods("DELETE")
	api.HandleFunc("/drafts/{id}/smart-fill", r.smartFillDraft).Methods("POST")
	api.HandleFunc("/drafts/{id}/submit", r.submitDraft).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	resp := map[string]interface{}{
		"status": "ok",
		"build":  buildinfo.Get(),
	}
	if r.svc.Hub != nil {
		resp["clients"] = r.svc.Hub.ClientCount()
	}
	respondJSON(w, http.StatusOK, resp)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps a service error to its HTTP status
func respondServiceError(w http.ResponseWriter, req *http.Request, err error) {
	var (
		short     *orders.InsufficientStockError
		extracted *smartfill.ExtractionError
	)
	switch {
	case errors.As(err, &short):
		respondError(w, http.StatusUnprocessableEntity, short.Error())
	case errors.Is(err, orders.ErrProductArchived):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, orders.ErrInvalidQuantity),
		errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, inventory.ErrInvalidProduct),
		errors.Is(err, customers.ErrInvalidCustomer),
		errors.Is(err, smartfill.ErrDraftIncomplete):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, smartfill.ErrDraftNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, smartfill.ErrDraftBusy):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &extracted):
		logger.FromContext(req.Context()).Warn().Err(err).Msg("Smart-fill failed")
		respondError(w, http.StatusBadGateway, extracted.Message)
	default:
		logger.FromContext(req.Context()).Error().Err(err).Str("path", req.URL.Path).Msg("Request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads the request body into v, answering 400 on failure
func decodeJSON(w http.ResponseWriter, req *http.Request, v interface{}) bool {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
