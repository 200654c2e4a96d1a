package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/zapstock/internal/models"
	"github.com/xelth-com/zapstock/internal/orders"
	"github.com/xelth-com/zapstock/internal/services/printer"
	"github.com/xelth-com/zapstock/internal/whatsapp"
)

// listOrders returns the orders on ?tab= (all, pending, shipped)
func (r *Router) listOrders(w http.ResponseWriter, req *http.Request) {
	tab, ok := orders.ParseTab(req.URL.Query().Get("tab"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid tab")
		return
	}
	respondJSON(w, http.StatusOK, r.svc.Workflow.List(tab))
}

func (r *Router) getOrder(w http.ResponseWriter, req *http.Request) {
	v, ok := r.svc.Workflow.View(mux.Vars(req)["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}
	respondJSON(w, http.StatusOK, v)
}

// placeOrder answers 204 when the customer or product is unknown
func (r *Router) placeOrder(w http.ResponseWriter, req *http.Request) {
	var in orders.NewOrder
	if !decodeJSON(w, req, &in) {
		return
	}
	o, err := r.svc.Workflow.Place(req.Context(), in)
	if err != nil {
		respondServiceError(w, req, err)
		return
	}
	if o == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

func (r *Router) setOrderStatus(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, req, &body) {
		return
	}
	status, err := models.ParseOrderStatus(body.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := mux.Vars(req)["id"]
	if err := r.svc.Workflow.SetStatus(req.Context(), id, status); err != nil {
		respondServiceError(w, req, err)
		return
	}
	r.respondOrder(w, id)
}

func (r *Router) toggleOrderPaid(w http.ResponseWriter, req *http.Request) {
	o, err := r.svc.Workflow.TogglePaid(req.Context(), mux.Vars(req)["id"])
	r.respondPaid(w, req, o, err)
}

func (r *Router) setOrderPaid(w http.ResponseWriter, req *http.Request) {
	var body struct {
		IsPaid *bool `json:"isPaid"`
	}
	if !decodeJSON(w, req, &body) {
		return
	}
	if body.IsPaid == nil {
		respondError(w, http.StatusBadRequest, "isPaid is required")
		return
	}
	o, err := r.svc.Workflow.SetPaid(req.Context(), mux.Vars(req)["id"], *body.IsPaid)
	r.respondPaid(w, req, o, err)
}

func (r *Router) respondPaid(w http.ResponseWriter, req *http.Request, o *models.Order, err error) {
	switch {
	case err != nil:
		respondServiceError(w, req, err)
	case o == nil:
		w.WriteHeader(http.StatusNoContent)
	default:
		respondJSON(w, http.StatusOK, o)
	}
}

// respondOrder answers with the joined order, or 204 if it is unknown
func (r *Router) respondOrder(w http.ResponseWriter, id string) {
	v, ok := r.svc.Workflow.View(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

// getOrderMessage returns a follow-up chat link for the order's customer
func (r *Router) getOrderMessage(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	kind, ok := whatsapp.ParseMessageKind(vars["kind"])
	if !ok {
		respondError(w, http.StatusBadRequest, "Unknown message kind")
		return
	}
	link, ok := r.svc.Workflow.MessageLink(vars["id"], kind)
	if !ok {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"link": link})
}

func (r *Router) printSlip(w http.ResponseWriter, req *http.Request) {
	v, ok := r.svc.Workflow.View(mux.Vars(req)["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}
	r.respondSlips(w, req, []orders.View{*v}, "slip-"+v.ID+".pdf")
}

// printSlips renders every order on ?tab= into one PDF
func (r *Router) printSlips(w http.ResponseWriter, req *http.Request) {
	tab, ok := orders.ParseTab(req.URL.Query().Get("tab"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid tab")
		return
	}
	r.respondSlips(w, req, r.svc.Workflow.List(tab), "slips-"+string(tab)+".pdf")
}

func (r *Router) respondSlips(w http.ResponseWriter, req *http.Request, views []orders.View, filename string) {
	pdf, err := printer.GenerateSlipsPDF(printer.SlipConfig{SellerName: r.cfg.SellerName}, views)
	if errors.Is(err, printer.ErrNoOrders) {
		respondError(w, http.StatusNotFound, "No orders to print")
		return
	}
	if err != nil {
		respondServiceError(w, req, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	w.Write(pdf)
}
