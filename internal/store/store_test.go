package store

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"BudgetSentinel/internal/model"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func openSQLite(t *testing.T) *SQLStore {
	t.Helper()
	s, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"), quietLogger())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// forEachStore runs fn against the SQLite and in-memory implementations.
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, openSQLite(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore()) })
}

func TestStore_IncomesAndExpenses(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		inc := &model.IncomeEntry{UserID: "u1", Name: "salary", Amount: decimal.RequireFromString("3000.50"), Frequency: model.Monthly, StartDate: "2024-01-01"}
		if err := s.AddIncome(ctx, inc); err != nil {
			t.Fatalf("add income: %v", err)
		}
		if inc.ID == "" {
			t.Error("expected generated income id")
		}

		exp := &model.ExpenseEntry{
			UserID: "u1", Name: "gym", Amount: decimal.RequireFromString("29.99"), Frequency: model.FourWeekly,
			Category: "Sport & Hobbies", Cancellable: true, Active: true, ContractEndDate: "2024-06-30",
		}
		if err := s.AddExpense(ctx, exp); err != nil {
			t.Fatalf("add expense: %v", err)
		}
		if err := s.AddExpense(ctx, &model.ExpenseEntry{UserID: "u2", Name: "rent", Amount: decimal.NewFromInt(900), Frequency: model.Monthly, Category: "Housing", Necessary: true, Active: true}); err != nil {
			t.Fatalf("add expense: %v", err)
		}

		incomes, err := s.ListIncomes(ctx, "u1")
		if err != nil || len(incomes) != 1 {
			t.Fatalf("list incomes: %v, %d", err, len(incomes))
		}
		if !incomes[0].Amount.Equal(inc.Amount) || incomes[0].StartDate != "2024-01-01" || incomes[0].Notes != "" {
			t.Errorf("unexpected income %+v", incomes[0])
		}

		expenses, err := s.ListExpenses(ctx, "u1")
		if err != nil || len(expenses) != 1 {
			t.Fatalf("list expenses: %v, %d", err, len(expenses))
		}
		got := expenses[0]
		if !got.Amount.Equal(exp.Amount) || got.Frequency != model.FourWeekly || !got.Cancellable || got.Necessary || !got.Active {
			t.Errorf("unexpected expense %+v", got)
		}
		if got.ContractEndDate != "2024-06-30" || got.MerchantHint != "" {
			t.Errorf("unexpected optional fields %+v", got)
		}

		if err := s.SetExpenseActive(ctx, "u1", exp.ID, false); err != nil {
			t.Fatalf("deactivate: %v", err)
		}
		expenses, _ = s.ListExpenses(ctx, "u1")
		if expenses[0].Active {
			t.Error("expected expense to be inactive")
		}
		if err := s.SetExpenseActive(ctx, "u2", exp.ID, true); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for another user's expense, got %v", err)
		}

		users, err := s.ListUsers(ctx)
		if err != nil || len(users) != 2 || users[0] != "u1" || users[1] != "u2" {
			t.Errorf("unexpected users %v (%v)", users, err)
		}

		if err := s.DeleteExpense(ctx, "u1", exp.ID); err != nil {
			t.Fatalf("delete expense: %v", err)
		}
		if err := s.DeleteExpense(ctx, "u1", exp.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
		if err := s.DeleteIncome(ctx, "u1", inc.ID); err != nil {
			t.Fatalf("delete income: %v", err)
		}
	})
}

func TestStore_ExpiringContracts(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		add := func(user, name, end string, active bool) {
			if err := s.AddExpense(ctx, &model.ExpenseEntry{
				UserID: user, Name: name, Amount: decimal.NewFromInt(10), Frequency: model.Monthly,
				Category: "Other", Active: active, ContractEndDate: end,
			}); err != nil {
				t.Fatal(err)
			}
		}
		add("u1", "in-window", "2024-01-20", true)
		add("u2", "edge", "2024-01-31", true)
		add("u1", "too-late", "2024-02-01", true)
		add("u1", "inactive", "2024-01-10", false)
		add("u1", "no-contract", "", true)

		got, err := s.ExpiringContracts(ctx, "2024-01-01", "2024-01-31")
		if err != nil {
			t.Fatalf("expiring contracts: %v", err)
		}
		if len(got) != 2 || got[0].Name != "in-window" || got[1].Name != "edge" {
			t.Errorf("unexpected expiring contracts %+v", got)
		}
	})
}

func TestStore_TipsInsertOutcome(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		tip := &model.GeneratedTip{
			UserID: "u1", Date: "2024-01-05", TipID: "quick_win_top", Title: "t", Message: "m",
			EstimatedSavingMonthly: decimal.RequireFromString("12.5"), ActionCTA: "cta", ExpenseID: "e1",
		}
		has, err := s.HasTipForDate(ctx, "u1", "2024-01-05")
		if err != nil || has {
			t.Fatalf("expected no tip yet: %v %v", has, err)
		}

		outcome, err := s.InsertTip(ctx, tip)
		if err != nil || outcome != model.Inserted {
			t.Fatalf("expected Inserted, got %v (%v)", outcome, err)
		}
		dup := &model.GeneratedTip{UserID: "u1", Date: "2024-01-05", TipID: "other", Title: "t", Message: "m", EstimatedSavingMonthly: decimal.Zero, ActionCTA: "c"}
		outcome, err = s.InsertTip(ctx, dup)
		if err != nil || outcome != model.Conflict {
			t.Fatalf("expected Conflict, got %v (%v)", outcome, err)
		}

		got, err := s.GetTipForDate(ctx, "u1", "2024-01-05")
		if err != nil {
			t.Fatalf("get tip: %v", err)
		}
		if got.TipID != "quick_win_top" || got.Status != model.TipStatusNew || got.ExpenseID != "e1" {
			t.Errorf("unexpected stored tip %+v", got)
		}
		if !got.EstimatedSavingMonthly.Equal(decimal.RequireFromString("12.5")) {
			t.Errorf("unexpected saving %s", got.EstimatedSavingMonthly)
		}

		if err := s.UpdateTipStatus(ctx, "u1", tip.ID, model.TipStatusDone); err != nil {
			t.Fatalf("update status: %v", err)
		}
		got, _ = s.GetTip(ctx, "u1", tip.ID)
		if got.Status != model.TipStatusDone {
			t.Errorf("expected done, got %s", got.Status)
		}
		if err := s.UpdateTipStatus(ctx, "u2", tip.ID, model.TipStatusSeen); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for another user, got %v", err)
		}
		if _, err := s.GetTipForDate(ctx, "u1", "2024-01-06"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStore_ConcurrentInsertOneWinner(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		var wg sync.WaitGroup
		var mu sync.Mutex
		inserted := 0
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				outcome, err := s.InsertTip(ctx, &model.GeneratedTip{
					UserID: "u1", Date: "2024-02-01", TipID: "x", Title: "t", Message: "m",
					EstimatedSavingMonthly: decimal.Zero, ActionCTA: "c",
				})
				if err != nil {
					t.Errorf("insert: %v", err)
					return
				}
				if outcome == model.Inserted {
					mu.Lock()
					inserted++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		if inserted != 1 {
			t.Errorf("expected exactly one winner, got %d", inserted)
		}
	})
}

func TestStore_StateUpsert(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		state, err := s.LoadState(ctx, "u1")
		if err != nil || state != nil {
			t.Fatalf("expected nil state, got %+v (%v)", state, err)
		}

		first := model.InsightsState{UserID: "u1", LastTipAt: "2024-01-01", TipHistory: []string{"a"}, Cooldowns: map[string]string{"a": "2024-01-01"}}
		if err := s.SaveState(ctx, first); err != nil {
			t.Fatalf("save: %v", err)
		}
		second := model.InsightsState{UserID: "u1", LastTipAt: "2024-01-02", TipHistory: []string{"a", "b"}, Cooldowns: map[string]string{"a": "2024-01-01", "b": "2024-01-02"}}
		if err := s.SaveState(ctx, second); err != nil {
			t.Fatalf("save again: %v", err)
		}

		state, err = s.LoadState(ctx, "u1")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if state.LastTipAt != "2024-01-02" || len(state.TipHistory) != 2 || state.Cooldowns["b"] != "2024-01-02" {
			t.Errorf("unexpected state %+v", state)
		}

		empty := model.InsightsState{UserID: "u3"}
		if err := s.SaveState(ctx, empty); err != nil {
			t.Fatalf("save empty: %v", err)
		}
		state, _ = s.LoadState(ctx, "u3")
		if state == nil || state.TipHistory == nil || state.Cooldowns == nil || state.LastTipAt != "" {
			t.Errorf("expected empty but non-nil collections, got %+v", state)
		}
	})
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{driver: "postgres"}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("unexpected postgres query %q", got)
	}
	lite := &SQLStore{driver: "sqlite"}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite query must be unchanged, got %q", got)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open("mysql", "x", quietLogger()); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
