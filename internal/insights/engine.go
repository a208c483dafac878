// Package insights derives a ranked report of savings findings from a user's
// incomes and fixed costs.
package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"BudgetSentinel/internal/calculator"
	"BudgetSentinel/internal/model"
)

// Default thresholds, in percent of monthly income.
var (
	DefaultCategoryThreshold = decimal.NewFromInt(35)
	DefaultOverallThreshold  = decimal.NewFromInt(70)
)

const (
	topExpenses     = 5
	maxQuickWins    = 5
	maxItems        = 10
	minQuickWinsAll = 3
)

// Thresholds configures when a category or the overall fixed-cost ratio is flagged.
type Thresholds struct {
	Category decimal.Decimal
	Overall  decimal.Decimal
}

// DefaultThresholds returns 35% per category and 70% overall.
func DefaultThresholds() Thresholds {
	return Thresholds{Category: DefaultCategoryThreshold, Overall: DefaultOverallThreshold}
}

// Generate builds the insights report. Only active expenses are considered.
func Generate(incomes []model.IncomeEntry, expenses []model.ExpenseEntry, th Thresholds) *model.InsightsReport {
	active := model.ActiveExpenses(expenses)
	totals := calculator.ComputeTotals(incomes, active)
	categories := calculator.ComputeCategoryTotals(active, totals.IncomeMonthly)
	ranked := calculator.RankByMonthly(active)

	report := &model.InsightsReport{
		Totals:          totals,
		QuickWinTotal:   decimal.Zero,
		FixedCostsRatio: totals.FixedCostsRatio,
		OverallWarning:  totals.FixedCostsRatio.GreaterThan(th.Overall),
	}

	report.Top5Expenses = ranked[:min(topExpenses, len(ranked))]

	var cancellable []model.ExpenseImpact
	for _, r := range ranked {
		if r.Expense.IsQuickWin() {
			report.QuickWins = append(report.QuickWins, r)
			report.QuickWinTotal = report.QuickWinTotal.Add(r.Monthly)
		}
		if r.Expense.Cancellable {
			cancellable = append(cancellable, r)
		}
		if r.Expense.Frequency == model.Yearly {
			report.AnnualItems = append(report.AnnualItems, model.AnnualItem{
				Expense: r.Expense,
				Monthly: r.Monthly,
				Annual:  r.Expense.Amount,
			})
		}
	}

	for _, c := range categories {
		if c.Percentage.GreaterThan(th.Category) {
			report.CategoryWarnings = append(report.CategoryWarnings, model.CategoryWarning{
				Category:   c.Category,
				Monthly:    c.Monthly,
				Percentage: c.Percentage,
			})
		}
	}

	report.Scenarios = buildScenarios(cancellable, report.QuickWins)
	report.Items = buildItems(report, totals.IncomeMonthly, th.Category)
	return report
}

// ExcessOverThreshold is the monthly amount by which a category exceeds
// threshold percent of income, never negative.
func ExcessOverThreshold(monthly, incomeMonthly, threshold decimal.Decimal) decimal.Decimal {
	allowed := incomeMonthly.Mul(threshold).Div(decimal.NewFromInt(100))
	return decimal.Max(decimal.Zero, monthly.Sub(allowed))
}

func buildScenarios(cancellable, quickWins []model.ExpenseImpact) []model.ScenarioItem {
	var scenarios []model.ScenarioItem
	if len(cancellable) >= 2 {
		a, b := cancellable[0], cancellable[1]
		scenarios = append(scenarios, model.ScenarioItem{
			Title:              fmt.Sprintf("Cancel %s & %s", a.Expense.Name, b.Expense.Name),
			Expenses:           []model.ExpenseEntry{a.Expense, b.Expense},
			TotalSavingMonthly: a.Monthly.Add(b.Monthly),
		})
	}
	if len(cancellable) >= 1 {
		a := cancellable[0]
		scenarios = append(scenarios, model.ScenarioItem{
			Title:              fmt.Sprintf("Cancel only %s", a.Expense.Name),
			Expenses:           []model.ExpenseEntry{a.Expense},
			TotalSavingMonthly: a.Monthly,
		})
	}
	if len(quickWins) >= minQuickWinsAll {
		total := decimal.Zero
		exps := make([]model.ExpenseEntry, len(quickWins))
		for i, q := range quickWins {
			exps[i] = q.Expense
			total = total.Add(q.Monthly)
		}
		scenarios = append(scenarios, model.ScenarioItem{
			Title:              fmt.Sprintf("Cancel all %d quick wins", len(quickWins)),
			Expenses:           exps,
			TotalSavingMonthly: total,
		})
	}
	return scenarios
}

func buildItems(r *model.InsightsReport, incomeMonthly, categoryThreshold decimal.Decimal) []model.InsightItem {
	var items []model.InsightItem

	for _, q := range r.QuickWins[:min(maxQuickWins, len(r.QuickWins))] {
		items = append(items, model.InsightItem{
			ID:                     "qw_" + q.Expense.ID,
			ExpenseID:              q.Expense.ID,
			Type:                   model.InsightQuickWin,
			Title:                  fmt.Sprintf("Cancel %q", q.Expense.Name),
			Description:            "Cancellable and not necessary. You can save on this right away.",
			EstimatedSavingMonthly: q.Monthly,
			Cancellable:            true,
			Necessary:              false,
			Category:               q.Expense.Category,
			Badge:                  "Quick win",
		})
	}

	for _, w := range r.CategoryWarnings {
		pct := w.Percentage.Round(0).String()
		items = append(items, model.InsightItem{
			ID:    "cat_" + w.Category,
			Type:  model.InsightCategoryWarning,
			Title: fmt.Sprintf("%s = %s%% of income", w.Category, pct),
			Description: fmt.Sprintf("You spend %s%% on %s. Guideline: at most %s%%.",
				pct, w.Category, categoryThreshold.String()),
			EstimatedSavingMonthly: ExcessOverThreshold(w.Monthly, incomeMonthly, categoryThreshold),
			Category:               w.Category,
			Badge:                  "Category",
		})
	}

	for _, a := range r.AnnualItems {
		items = append(items, model.InsightItem{
			ID:                     "ann_" + a.Expense.ID,
			ExpenseID:              a.Expense.ID,
			Type:                   model.InsightAnnualVisibility,
			Title:                  fmt.Sprintf("%s: %s/year", a.Expense.Name, model.FormatEuro(a.Expense.Amount)),
			Description:            fmt.Sprintf("Hidden yearly cost. Monthly impact: %s.", model.FormatEuro(a.Monthly)),
			EstimatedSavingMonthly: a.Monthly,
			Cancellable:            a.Expense.Cancellable,
			Necessary:              a.Expense.Necessary,
			Category:               a.Expense.Category,
			Badge:                  "Yearly",
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].EstimatedSavingMonthly.GreaterThan(items[j].EstimatedSavingMonthly)
	})

	seen := make(map[string]bool, len(items))
	deduped := make([]model.InsightItem, 0, maxItems)
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		deduped = append(deduped, it)
		if len(deduped) == maxItems {
			break
		}
	}
	return deduped
}

// Summary returns a one-line description of the report, used in logs and chat replies.
func Summary(r *model.InsightsReport) string {
	var parts []string
	if len(r.QuickWins) > 0 {
		parts = append(parts, fmt.Sprintf("%d quick wins (%s/m)", len(r.QuickWins), model.FormatEuro(r.QuickWinTotal)))
	}
	if len(r.CategoryWarnings) > 0 {
		parts = append(parts, fmt.Sprintf("%d heavy categories", len(r.CategoryWarnings)))
	}
	if len(r.AnnualItems) > 0 {
		parts = append(parts, fmt.Sprintf("%d yearly costs", len(r.AnnualItems)))
	}
	if r.OverallWarning {
		parts = append(parts, "fixed costs above guideline")
	}
	if len(parts) == 0 {
		return "no findings"
	}
	return strings.Join(parts, ", ")
}
