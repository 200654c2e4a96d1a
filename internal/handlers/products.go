package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/zapstock/internal/inventory"
)

// getDashboard returns the overview screen
func (r *Router) getDashboard(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Workflow.Dashboard())
}

// listProducts returns every lot, archived included
func (r *Router) listProducts(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Ledger.List())
}

// listActiveProducts returns the lots that can be ordered
func (r *Router) listActiveProducts(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Ledger.Active())
}

// listLowStock returns active lots under the low stock threshold
func (r *Router) listLowStock(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Ledger.LowStock(inventory.LowStockThreshold))
}

func (r *Router) createProduct(w http.ResponseWriter, req *http.Request) {
	var in inventory.NewProduct
	if !decodeJSON(w, req, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		respondServiceError(w, req, err)
		return
	}
	p, err := r.svc.Ledger.Create(req.Context(), in)
	if err != nil {
		respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (r *Router) archiveProduct(w http.ResponseWriter, req *http.Request) {
	if err := r.svc.Ledger.Archive(req.Context(), mux.Vars(req)["id"]); err != nil {
		respondServiceError(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getBroadcast returns the stock list message and its share link
func (r *Router) getBroadcast(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": r.svc.Ledger.BroadcastMessage(),
		"link":    r.svc.Ledger.ShareLink(),
	})
}
