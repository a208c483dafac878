package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.advisor.Totals(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.advisor.Categories(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	report, err := h.advisor.Insights(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// EnsureTodayTip returns today's tip, generating it on first call. 204 when no tip applies.
func (h *Handler) EnsureTodayTip(w http.ResponseWriter, r *http.Request) {
	tip, err := h.advisor.EnsureDailyTip(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if tip == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, tip)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateTipStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	vars := mux.Vars(r)
	if err := h.advisor.UpdateTipStatus(r.Context(), vars["userID"], vars["tipID"], req.Status); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkTipDone sets the tip to done and deactivates the expense it refers to.
func (h *Handler) MarkTipDone(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tip, err := h.advisor.MarkTipDone(r.Context(), vars["userID"], vars["tipID"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tip)
}
