// Package web exposes the advisor and the finance store as a JSON API.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"BudgetSentinel/internal/advisor"
	"BudgetSentinel/internal/model"
	"BudgetSentinel/internal/store"
)

var errInvalidDate = errors.New("date must be yyyy-MM-dd")

// Handler serves the /api routes.
type Handler struct {
	advisor *advisor.Advisor
	finance store.FinanceStore
	logger  *logrus.Logger
}

// NewHandler creates a new Handler.
func NewHandler(adv *advisor.Advisor, finance store.FinanceStore, logger *logrus.Logger) *Handler {
	return &Handler{advisor: adv, finance: finance, logger: logger}
}

// NewRouter builds the router with every route mounted under /api.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(h.logRequests)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	h.RegisterRoutes(router.PathPrefix("/api/users/{userID}").Subrouter())
	router.HandleFunc("/api/meta", h.Meta).Methods("GET")
	return router
}

// RegisterRoutes registers the per-user routes on a /users/{userID} subrouter.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/totals", h.GetTotals).Methods("GET")
	router.HandleFunc("/categories", h.GetCategories).Methods("GET")
	router.HandleFunc("/insights", h.GetInsights).Methods("GET")

	router.HandleFunc("/tips/today", h.EnsureTodayTip).Methods("POST")
	router.HandleFunc("/tips/{tipID}", h.UpdateTipStatus).Methods("PATCH")
	router.HandleFunc("/tips/{tipID}/done", h.MarkTipDone).Methods("POST")

	router.HandleFunc("/incomes", h.ListIncomes).Methods("GET")
	router.HandleFunc("/incomes", h.CreateIncome).Methods("POST")
	router.HandleFunc("/incomes/{id}", h.DeleteIncome).Methods("DELETE")

	router.HandleFunc("/expenses", h.ListExpenses).Methods("GET")
	router.HandleFunc("/expenses", h.CreateExpense).Methods("POST")
	router.HandleFunc("/expenses/{id}/active", h.SetExpenseActive).Methods("PATCH")
	router.HandleFunc("/expenses/{id}", h.DeleteExpense).Methods("DELETE")
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Debug("request")
		next.ServeHTTP(w, r)
	})
}

// Meta lists the frequency labels and the conventional expense categories.
func (h *Handler) Meta(w http.ResponseWriter, _ *http.Request) {
	type frequency struct {
		Value model.Frequency `json:"value"`
		Label string          `json:"label"`
	}
	freqs := make([]frequency, 0, len(model.Frequencies))
	for _, f := range model.Frequencies {
		freqs = append(freqs, frequency{Value: f, Label: model.FrequencyLabels[f]})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"frequencies": freqs,
		"categories":  model.ExpenseCategories,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrInvalidFrequency),
		errors.Is(err, model.ErrNegativeAmount),
		errors.Is(err, errInvalidDate),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
