package insights

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"BudgetSentinel/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func monthlyIncome(amount string) []model.IncomeEntry {
	return []model.IncomeEntry{{ID: "inc", Name: "salary", Amount: dec(amount), Frequency: model.Monthly}}
}

func TestGenerate_Example(t *testing.T) {
	expenses := []model.ExpenseEntry{
		{ID: "rent", Name: "Rent", Amount: dec("1200"), Frequency: model.Monthly, Necessary: true, Active: true, Category: "Housing"},
		{ID: "tv", Name: "Streaming", Amount: dec("15"), Frequency: model.Monthly, Cancellable: true, Active: true, Category: "Subscriptions"},
	}
	r := Generate(monthlyIncome("3000"), expenses, DefaultThresholds())

	if !r.Totals.FixedCostsMonthly.Equal(dec("1215")) {
		t.Errorf("expected fixed costs 1215, got %s", r.Totals.FixedCostsMonthly)
	}
	if !r.FixedCostsRatio.Equal(dec("40.5")) {
		t.Errorf("expected ratio 40.5, got %s", r.FixedCostsRatio)
	}
	if !r.QuickWinTotal.Equal(dec("15")) {
		t.Errorf("expected quick win total 15, got %s", r.QuickWinTotal)
	}
	if r.OverallWarning {
		t.Error("expected no overall warning at 40.5%")
	}
	// Housing is exactly 40% of income, above the 35% threshold.
	if len(r.CategoryWarnings) != 1 || r.CategoryWarnings[0].Category != "Housing" {
		t.Fatalf("expected one Housing warning, got %+v", r.CategoryWarnings)
	}
	if len(r.Top5Expenses) != 2 || r.Top5Expenses[0].Expense.ID != "rent" {
		t.Errorf("unexpected top expenses: %+v", r.Top5Expenses)
	}
	if len(r.Scenarios) != 1 || r.Scenarios[0].Title != "Cancel only Streaming" {
		t.Errorf("expected single solo scenario, got %+v", r.Scenarios)
	}

	// cat_Housing saving = 1200 - 3000*0.35 = 150, ranked before qw_tv (15).
	if len(r.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(r.Items))
	}
	if r.Items[0].ID != "cat_Housing" || !r.Items[0].EstimatedSavingMonthly.Equal(dec("150")) {
		t.Errorf("unexpected first item: %+v", r.Items[0])
	}
	if r.Items[1].ID != "qw_tv" {
		t.Errorf("unexpected second item: %+v", r.Items[1])
	}
}

func TestGenerate_YearlyExpense(t *testing.T) {
	expenses := []model.ExpenseEntry{
		{ID: "ins", Name: "Insurance", Amount: dec("120"), Frequency: model.Yearly, Necessary: true, Active: true, Category: "Insurance"},
	}
	r := Generate(monthlyIncome("2000"), expenses, DefaultThresholds())
	if len(r.AnnualItems) != 1 {
		t.Fatalf("expected 1 annual item, got %d", len(r.AnnualItems))
	}
	a := r.AnnualItems[0]
	if !a.Monthly.Equal(dec("10")) || !a.Annual.Equal(dec("120")) {
		t.Errorf("expected monthly 10 / annual 120, got %s / %s", a.Monthly, a.Annual)
	}
	if len(r.Items) != 1 || r.Items[0].ID != "ann_ins" {
		t.Errorf("expected ann_ins item, got %+v", r.Items)
	}
}

func TestGenerate_QuickWinSelectionRule(t *testing.T) {
	var expenses []model.ExpenseEntry
	i := 0
	for _, necessary := range []bool{false, true} {
		for _, cancellable := range []bool{false, true} {
			for _, active := range []bool{false, true} {
				i++
				expenses = append(expenses, model.ExpenseEntry{
					ID:          fmt.Sprintf("e%d", i),
					Name:        fmt.Sprintf("e%d", i),
					Amount:      decimal.NewFromInt(int64(i * 10)),
					Frequency:   model.Monthly,
					Category:    "Other",
					Necessary:   necessary,
					Cancellable: cancellable,
					Active:      active,
				})
			}
		}
	}

	r := Generate(monthlyIncome("10000"), expenses, DefaultThresholds())

	want := map[string]bool{}
	for _, e := range expenses {
		if e.Active && e.Cancellable && !e.Necessary {
			want[e.ID] = true
		}
	}
	if len(r.QuickWins) != len(want) {
		t.Fatalf("expected %d quick wins, got %d", len(want), len(r.QuickWins))
	}
	for _, q := range r.QuickWins {
		if !want[q.Expense.ID] {
			t.Errorf("unexpected quick win %s (necessary=%v cancellable=%v active=%v)",
				q.Expense.ID, q.Expense.Necessary, q.Expense.Cancellable, q.Expense.Active)
		}
	}
}

func TestGenerate_ItemsCappedAndUnique(t *testing.T) {
	var expenses []model.ExpenseEntry
	for i := 0; i < 8; i++ {
		expenses = append(expenses, model.ExpenseEntry{
			ID: fmt.Sprintf("qw%d", i), Name: fmt.Sprintf("sub %d", i),
			Amount: decimal.NewFromInt(int64(10 + i)), Frequency: model.Monthly,
			Cancellable: true, Active: true, Category: fmt.Sprintf("C%d", i),
		})
		expenses = append(expenses, model.ExpenseEntry{
			ID: fmt.Sprintf("yr%d", i), Name: fmt.Sprintf("yearly %d", i),
			Amount: decimal.NewFromInt(int64(600 + i)), Frequency: model.Yearly,
			Cancellable: true, Active: true, Category: fmt.Sprintf("Y%d", i),
		})
	}
	r := Generate(monthlyIncome("100"), expenses, DefaultThresholds())

	if len(r.Items) > 10 {
		t.Errorf("expected at most 10 items, got %d", len(r.Items))
	}
	seen := map[string]bool{}
	for i, it := range r.Items {
		if seen[it.ID] {
			t.Errorf("duplicate item id %s", it.ID)
		}
		seen[it.ID] = true
		if i > 0 && it.EstimatedSavingMonthly.GreaterThan(r.Items[i-1].EstimatedSavingMonthly) {
			t.Errorf("items not sorted by saving at %d", i)
		}
	}
	if !r.OverallWarning {
		t.Error("expected overall warning with costs far above income")
	}
}

func TestGenerate_Scenarios(t *testing.T) {
	expenses := []model.ExpenseEntry{
		{ID: "a", Name: "A", Amount: dec("40"), Frequency: model.Monthly, Cancellable: true, Active: true},
		{ID: "b", Name: "B", Amount: dec("30"), Frequency: model.Monthly, Cancellable: true, Necessary: true, Active: true},
		{ID: "c", Name: "C", Amount: dec("20"), Frequency: model.Monthly, Cancellable: true, Active: true},
		{ID: "d", Name: "D", Amount: dec("10"), Frequency: model.Monthly, Cancellable: true, Active: true},
	}
	r := Generate(monthlyIncome("5000"), expenses, DefaultThresholds())
	if len(r.Scenarios) != 3 {
		t.Fatalf("expected 3 scenarios, got %d", len(r.Scenarios))
	}
	combo, solo, all := r.Scenarios[0], r.Scenarios[1], r.Scenarios[2]
	if !combo.TotalSavingMonthly.Equal(dec("70")) || len(combo.Expenses) != 2 {
		t.Errorf("unexpected combo scenario: %+v", combo)
	}
	if !solo.TotalSavingMonthly.Equal(dec("40")) || solo.Expenses[0].ID != "a" {
		t.Errorf("unexpected solo scenario: %+v", solo)
	}
	// b is necessary, so the quick-win scenario covers a, c and d only.
	if !all.TotalSavingMonthly.Equal(dec("70")) || len(all.Expenses) != 3 {
		t.Errorf("unexpected all-quick-wins scenario: %+v", all)
	}
}

func TestGenerate_Empty(t *testing.T) {
	r := Generate(nil, nil, DefaultThresholds())
	if len(r.Items) != 0 || len(r.Scenarios) != 0 || r.OverallWarning {
		t.Errorf("expected empty report, got %+v", r)
	}
	if Summary(r) != "no findings" {
		t.Errorf("unexpected summary %q", Summary(r))
	}
}

func TestExcessOverThreshold(t *testing.T) {
	if got := ExcessOverThreshold(dec("100"), dec("1000"), dec("35")); !got.IsZero() {
		t.Errorf("expected 0 below threshold, got %s", got)
	}
	if got := ExcessOverThreshold(dec("500"), dec("1000"), dec("35")); !got.Equal(dec("150")) {
		t.Errorf("expected 150, got %s", got)
	}
}
