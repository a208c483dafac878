package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"BudgetSentinel/internal/model"
)

var errBadRequest = errors.New("invalid request body")

type incomeRequest struct {
	Name      string      `json:"name"`
	Amount    json.Number `json:"amount"`
	Frequency string      `json:"frequency"`
	StartDate string      `json:"start_date"`
	Notes     string      `json:"notes"`
}

type expenseRequest struct {
	Name            string      `json:"name"`
	Amount          json.Number `json:"amount"`
	Frequency       string      `json:"frequency"`
	Category        string      `json:"category"`
	Necessary       bool        `json:"necessary"`
	Cancellable     bool        `json:"cancellable"`
	Active          *bool       `json:"is_active"`
	ContractEndDate string      `json:"contract_end_date"`
	MerchantHint    string      `json:"merchant_hint"`
	Notes           string      `json:"notes"`
}

type activeRequest struct {
	Active bool `json:"is_active"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func parseMoney(name string, amount json.Number, freq string) (decimal.Decimal, model.Frequency, error) {
	if name == "" {
		return decimal.Zero, "", fmt.Errorf("%w: name is required", errBadRequest)
	}
	d, err := model.ParseAmount(amount.String())
	if errors.Is(err, model.ErrNegativeAmount) {
		return decimal.Zero, "", err
	}
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	f, err := model.ParseFrequency(freq)
	if err != nil {
		return decimal.Zero, "", err
	}
	return d, f, nil
}

func validDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(model.DateLayout, s); err != nil {
		return fmt.Errorf("%w: %q", errInvalidDate, s)
	}
	return nil
}

func (h *Handler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.finance.ListIncomes(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if incomes == nil {
		incomes = []model.IncomeEntry{}
	}
	writeJSON(w, http.StatusOK, incomes)
}

func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	amount, freq, err := parseMoney(req.Name, req.Amount, req.Frequency)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := validDate(req.StartDate); err != nil {
		h.writeError(w, r, err)
		return
	}

	inc := &model.IncomeEntry{
		UserID:    mux.Vars(r)["userID"],
		Name:      req.Name,
		Amount:    amount,
		Frequency: freq,
		StartDate: req.StartDate,
		Notes:     req.Notes,
	}
	if err := h.finance.AddIncome(r.Context(), inc); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inc)
}

func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.finance.DeleteIncome(r.Context(), vars["userID"], vars["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.finance.ListExpenses(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []model.ExpenseEntry{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

// CreateExpense stores a new expense. Expenses are active unless is_active is false.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	amount, freq, err := parseMoney(req.Name, req.Amount, req.Frequency)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := validDate(req.ContractEndDate); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Category == "" {
		h.writeError(w, r, fmt.Errorf("%w: category is required", errBadRequest))
		return
	}

	exp := &model.ExpenseEntry{
		UserID:          mux.Vars(r)["userID"],
		Name:            req.Name,
		Amount:          amount,
		Frequency:       freq,
		Category:        req.Category,
		Necessary:       req.Necessary,
		Cancellable:     req.Cancellable,
		Active:          req.Active == nil || *req.Active,
		ContractEndDate: req.ContractEndDate,
		MerchantHint:    req.MerchantHint,
		Notes:           req.Notes,
	}
	if err := h.finance.AddExpense(r.Context(), exp); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exp)
}

func (h *Handler) SetExpenseActive(w http.ResponseWriter, r *http.Request) {
	var req activeRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	vars := mux.Vars(r)
	if err := h.finance.SetExpenseActive(r.Context(), vars["userID"], vars["id"], req.Active); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.finance.DeleteExpense(r.Context(), vars["userID"], vars["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
