package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/zapstock/internal/customers"
)

// listCustomers returns all customers, or those matching ?q=
func (r *Router) listCustomers(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.Directory.Search(req.URL.Query().Get("q")))
}

func (r *Router) createCustomer(w http.ResponseWriter, req *http.Request) {
	var in customers.NewCustomer
	if !decodeJSON(w, req, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		respondServiceError(w, req, err)
		return
	}
	c, err := r.svc.Directory.Create(req.Context(), in)
	if err != nil {
		respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (r *Router) getCustomer(w http.ResponseWriter, req *http.Request) {
	c, ok := r.svc.Directory.Get(mux.Vars(req)["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "Customer not found")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// getCustomerContact returns a chat link greeting the customer
func (r *Router) getCustomerContact(w http.ResponseWriter, req *http.Request) {
	link, ok := r.svc.Directory.ContactLink(mux.Vars(req)["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "Customer not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"link": link})
}
