package collector

import (
	"context"
	"fmt"

	"BudgetSentinel/internal/model"
	"BudgetSentinel/internal/store"
)

// Snapshot is everything the engines need for one user.
type Snapshot struct {
	UserID   string
	Incomes  []model.IncomeEntry
	Expenses []model.ExpenseEntry
	State    *model.InsightsState
}

// Collector gathers a user's financial snapshot from the store.
type Collector struct {
	Finance store.FinanceStore
	States  store.StateStore
}

// NewCollector creates a new Collector.
func NewCollector(finance store.FinanceStore, states store.StateStore) *Collector {
	return &Collector{Finance: finance, States: states}
}

// Collect loads incomes, expenses and the tip state of userID.
// State is nil when the user never received a tip.
func (c *Collector) Collect(ctx context.Context, userID string) (*Snapshot, error) {
	incomes, err := c.Finance.ListIncomes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	expenses, err := c.Finance.ListExpenses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	snap := &Snapshot{UserID: userID, Incomes: incomes, Expenses: expenses}
	if c.States == nil {
		return snap, nil
	}
	state, err := c.States.LoadState(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load insights state: %w", err)
	}
	snap.State = state
	return snap, nil
}
