package collector

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"BudgetSentinel/internal/model"
	"BudgetSentinel/internal/store"
)

func TestCollect(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	mem.AddIncome(ctx, &model.IncomeEntry{UserID: "u1", Name: "salary", Amount: decimal.NewFromInt(3000), Frequency: model.Monthly})
	mem.AddExpense(ctx, &model.ExpenseEntry{UserID: "u1", Name: "rent", Amount: decimal.NewFromInt(900), Frequency: model.Monthly, Category: "Housing", Active: true})
	mem.AddExpense(ctx, &model.ExpenseEntry{UserID: "u2", Name: "gym", Amount: decimal.NewFromInt(30), Frequency: model.Monthly, Category: "Sport & Hobbies", Active: true})

	c := NewCollector(mem, mem)
	snap, err := c.Collect(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Incomes) != 1 || len(snap.Expenses) != 1 {
		t.Errorf("expected 1 income and 1 expense, got %d/%d", len(snap.Incomes), len(snap.Expenses))
	}
	if snap.State != nil {
		t.Errorf("expected nil state for new user, got %+v", snap.State)
	}

	mem.SaveState(ctx, model.InsightsState{UserID: "u1", LastTipAt: "2024-01-01", TipHistory: []string{"a"}, Cooldowns: map[string]string{"a": "2024-01-01"}})
	snap, err = c.Collect(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.State == nil || snap.State.LastTipAt != "2024-01-01" {
		t.Errorf("expected stored state, got %+v", snap.State)
	}
}

func TestCollect_WithoutStateStore(t *testing.T) {
	mem := store.NewMemoryStore()
	snap, err := NewCollector(mem, nil).Collect(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.UserID != "nobody" || len(snap.Expenses) != 0 || snap.State != nil {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}
