// Package store persists incomes, expenses, generated tips and insights state.
package store

import (
	"context"
	"errors"

	"BudgetSentinel/internal/model"
)

// ErrNotFound is returned when a row addressed by id does not exist for the user.
var ErrNotFound = errors.New("not found")

// FinanceStore holds a user's incomes and expenses.
type FinanceStore interface {
	AddIncome(ctx context.Context, inc *model.IncomeEntry) error
	ListIncomes(ctx context.Context, userID string) ([]model.IncomeEntry, error)
	DeleteIncome(ctx context.Context, userID, id string) error

	AddExpense(ctx context.Context, exp *model.ExpenseEntry) error
	ListExpenses(ctx context.Context, userID string) ([]model.ExpenseEntry, error)
	SetExpenseActive(ctx context.Context, userID, id string, active bool) error
	DeleteExpense(ctx context.Context, userID, id string) error

	// ListUsers returns every user id owning at least one income or expense.
	ListUsers(ctx context.Context) ([]string, error)
	// ExpiringContracts returns active expenses of all users whose contract
	// end date lies in [from, to], both yyyy-MM-dd.
	ExpiringContracts(ctx context.Context, from, to string) ([]model.ExpenseEntry, error)
}

// TipStore holds the generated daily tips. At most one tip exists per user and date.
type TipStore interface {
	HasTipForDate(ctx context.Context, userID, date string) (bool, error)
	GetTipForDate(ctx context.Context, userID, date string) (*model.GeneratedTip, error)
	GetTip(ctx context.Context, userID, id string) (*model.GeneratedTip, error)
	// InsertTip reports Conflict instead of an error when a tip for the same
	// user and date already exists.
	InsertTip(ctx context.Context, tip *model.GeneratedTip) (model.InsertOutcome, error)
	UpdateTipStatus(ctx context.Context, userID, id string, status model.TipStatus) error
}

// StateStore holds the per-user insights state.
type StateStore interface {
	// LoadState returns nil without error when the user has no state yet.
	LoadState(ctx context.Context, userID string) (*model.InsightsState, error)
	// SaveState inserts or replaces the state of state.UserID.
	SaveState(ctx context.Context, state model.InsightsState) error
}

// Store is the full persistence surface.
type Store interface {
	FinanceStore
	TipStore
	StateStore
	Close() error
}
