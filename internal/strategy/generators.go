package strategy

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"BudgetSentinel/internal/calculator"
	"BudgetSentinel/internal/insights"
	"BudgetSentinel/internal/model"
)

// DefaultContractWindowDays is how far ahead contract end dates are considered.
const DefaultContractWindowDays = 30

// QuickWinCandidate proposes cancelling the most expensive active expense that
// is cancellable and not necessary.
func QuickWinCandidate(entry model.TipCatalogEntry, expenses []model.ExpenseEntry) *model.TipCandidate {
	var quickWins []model.ExpenseEntry
	for _, e := range expenses {
		if e.IsQuickWin() {
			quickWins = append(quickWins, e)
		}
	}
	if len(quickWins) == 0 {
		return nil
	}
	top := calculator.RankByMonthly(quickWins)[0]
	amount := model.FormatEuro(top.Monthly)

	return &model.TipCandidate{
		TipID: entry.TipID,
		Title: fmt.Sprintf("💡 Save %s/m: cancel %q", amount, top.Expense.Name),
		Message: fmt.Sprintf("%q is cancellable and not necessary. Cancelling it leaves you %s extra every month.",
			top.Expense.Name, amount),
		EstimatedSavingMonthly: top.Monthly,
		ActionCTA:              "Mark as cancelled",
		ExpenseID:              top.Expense.ID,
	}
}

// ContractCandidate proposes renegotiating the most expensive active contract
// that ends within windowDays of today, both ends inclusive.
func ContractCandidate(entry model.TipCatalogEntry, expenses []model.ExpenseEntry, today string, windowDays int) *model.TipCandidate {
	todayDate, err := time.Parse(model.DateLayout, today)
	if err != nil {
		return nil
	}
	daysLeft := make(map[string]int)
	var soon []model.ExpenseEntry
	for _, e := range expenses {
		if !e.Active || e.ContractEndDate == "" {
			continue
		}
		end, err := time.Parse(model.DateLayout, e.ContractEndDate)
		if err != nil {
			continue
		}
		diff := int(math.Round(end.Sub(todayDate).Hours() / 24))
		if diff >= 0 && diff <= windowDays {
			daysLeft[e.ID] = diff
			soon = append(soon, e)
		}
	}
	if len(soon) == 0 {
		return nil
	}
	top := calculator.RankByMonthly(soon)[0]

	return &model.TipCandidate{
		TipID: entry.TipID,
		Title: fmt.Sprintf("⏰ Contract %q ends in %d days", top.Expense.Name, daysLeft[top.Expense.ID]),
		Message: fmt.Sprintf("Your contract for %q (%s/m) ends soon. Cancel or renegotiate now: this is the moment.",
			top.Expense.Name, model.FormatEuro(top.Monthly)),
		EstimatedSavingMonthly: top.Monthly,
		ActionCTA:              "Cancel / renegotiate",
		ExpenseID:              top.Expense.ID,
	}
}

// CategoryHeavyCandidate points at the category taking the largest share of
// income above threshold percent.
func CategoryHeavyCandidate(entry model.TipCatalogEntry, expenses []model.ExpenseEntry, incomeMonthly, threshold decimal.Decimal) *model.TipCandidate {
	// Totals come sorted by monthly sum, so the first heavy one has the largest share.
	var top *model.CategoryTotal
	for _, c := range calculator.ComputeCategoryTotals(expenses, incomeMonthly) {
		if c.Percentage.GreaterThan(threshold) {
			top = &c
			break
		}
	}
	if top == nil {
		return nil
	}
	excess := insights.ExcessOverThreshold(top.Monthly, incomeMonthly, threshold)

	return &model.TipCandidate{
		TipID: entry.TipID,
		Title: fmt.Sprintf("📊 %s takes %s%% of your income", top.Category, top.Percentage.Round(0)),
		Message: fmt.Sprintf("You spend %s/m on %s. The guideline is at most %s%%. Cutting back here saves %s/m.",
			model.FormatEuro(top.Monthly), top.Category, threshold, model.FormatEuro(excess)),
		EstimatedSavingMonthly: excess,
		ActionCTA:              "View category in Insights",
	}
}

// AnnualCandidate surfaces the most expensive yearly-billed active expense.
// The saving is zero unless the expense can be cancelled.
func AnnualCandidate(entry model.TipCatalogEntry, expenses []model.ExpenseEntry) *model.TipCandidate {
	var yearly []model.ExpenseEntry
	for _, e := range expenses {
		if e.Active && e.Frequency == model.Yearly {
			yearly = append(yearly, e)
		}
	}
	if len(yearly) == 0 {
		return nil
	}
	top := calculator.RankByMonthly(yearly)[0]

	saving := decimal.Zero
	cta := "View yearly costs"
	if top.Expense.Cancellable {
		saving = top.Monthly
		cta = "Consider cancelling"
	}
	return &model.TipCandidate{
		TipID: entry.TipID,
		Title: fmt.Sprintf("📅 %s costs %s/year", top.Expense.Name, model.FormatEuro(top.Expense.Amount)),
		Message: fmt.Sprintf("This is not in your monthly budget, but spread out it costs %s/m. Keep paying for it, or is there a cheaper alternative?",
			model.FormatEuro(top.Monthly)),
		EstimatedSavingMonthly: saving,
		ActionCTA:              cta,
		ExpenseID:              top.Expense.ID,
	}
}

// ScenarioCandidate combines the two most expensive cancellable expenses, or
// the only one if there is just one.
func ScenarioCandidate(entry model.TipCatalogEntry, expenses []model.ExpenseEntry) *model.TipCandidate {
	var cancellable []model.ExpenseEntry
	for _, e := range expenses {
		if e.Active && e.Cancellable {
			cancellable = append(cancellable, e)
		}
	}
	if len(cancellable) == 0 {
		return nil
	}
	ranked := calculator.RankByMonthly(cancellable)
	ranked = ranked[:min(2, len(ranked))]

	total := decimal.Zero
	names := make([]string, len(ranked))
	for i, r := range ranked {
		total = total.Add(r.Monthly)
		names[i] = fmt.Sprintf("%q", r.Expense.Name)
	}
	joined := strings.Join(names, " + ")

	return &model.TipCandidate{
		TipID: entry.TipID,
		Title: fmt.Sprintf("🎯 Scenario: cancel %s → +%s/m", joined, model.FormatEuro(total)),
		Message: fmt.Sprintf("If you cancel %s, your free budget grows by %s per month (%s/year).",
			joined, model.FormatEuro(total), model.FormatEuro(total.Mul(decimal.NewFromInt(12)))),
		EstimatedSavingMonthly: total,
		ActionCTA:              "View scenario in Insights",
		ExpenseID:              ranked[0].Expense.ID,
	}
}
