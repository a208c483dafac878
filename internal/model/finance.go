package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date format used for every stored date.
const DateLayout = "2006-01-02"

// IncomeEntry is a recurring income. Incomes have no active flag and are always counted.
type IncomeEntry struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency Frequency       `json:"frequency"`
	StartDate string          `json:"start_date,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ExpenseEntry is a recurring fixed cost.
// Necessary and Cancellable are independent flags; Active gates inclusion in all totals.
type ExpenseEntry struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Frequency       Frequency       `json:"frequency"`
	Category        string          `json:"category"`
	Necessary       bool            `json:"necessary"`
	Cancellable     bool            `json:"cancellable"`
	Active          bool            `json:"is_active"`
	ContractEndDate string          `json:"contract_end_date,omitempty"`
	MerchantHint    string          `json:"merchant_hint,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsQuickWin reports whether the expense is active, cancellable and not necessary.
func (e ExpenseEntry) IsQuickWin() bool {
	return e.Active && e.Cancellable && !e.Necessary
}

// ExpenseCategories is the conventional category tree offered to users.
// Categories are free-form strings; this list is not enforced.
var ExpenseCategories = []string{
	"Housing",
	"Transport",
	"Insurance",
	"Subscriptions",
	"Groceries",
	"Health",
	"Sport & Hobbies",
	"Clothing",
	"Eating out",
	"Education",
	"Travel",
	"Personal care",
	"Children",
	"Pets",
	"Other",
}

// ActiveExpenses returns the expenses with Active set, preserving order.
func ActiveExpenses(expenses []ExpenseEntry) []ExpenseEntry {
	active := make([]ExpenseEntry, 0, len(expenses))
	for _, e := range expenses {
		if e.Active {
			active = append(active, e)
		}
	}
	return active
}
