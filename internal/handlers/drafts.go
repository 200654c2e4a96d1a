package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/zapstock/internal/smartfill"
)

func (r *Router) createDraft(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusCreated, r.svc.Board.Create())
}

func (r *Router) getDraft(w http.ResponseWriter, req *http.Request) {
	d, err := r.svc.Board.Get(mux.Vars(req)["id"])
	if err != nil {
		respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (r *Router) updateDraft(w http.ResponseWriter, req *http.Request) {
	var f smartfill.DraftFields
	if !decodeJSON(w, req, &f) {
		return
	}
	d, err := r.svc.Board.Update(mux.Vars(req)["id"], f)
	if err != nil {
		respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (r *Router) discardDraft(w http.ResponseWriter, req *http.Request) {
	if err := r.svc.Board.Discard(mux.Vars(req)["id"]); err != nil {
		respondServiceError(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// smartFillDraft fills a draft from a pasted chat message
func (r *Router) smartFillDraft(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if !decodeJSON(w, req, &body) {
		return
	}
	res, err := r.svc.Board.SmartFill(req.Context(), mux.Vars(req)["id"], body.Message)
	if err != nil {
		respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// submitDraft places the drafted order
func (r *Router) submitDraft(w http.ResponseWriter, req *http.Request) {
	o, err := r.svc.Board.Submit(req.Context(), mux.Vars(req)["id"])
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
