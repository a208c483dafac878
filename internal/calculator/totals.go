package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"BudgetSentinel/internal/model"
)

// ComputeTotals sums all incomes and the active expenses into monthly totals.
func ComputeTotals(incomes []model.IncomeEntry, expenses []model.ExpenseEntry) model.Totals {
	income := decimal.Zero
	for _, inc := range incomes {
		income = income.Add(ToMonthly(inc.Amount, inc.Frequency))
	}
	fixed := decimal.Zero
	for _, exp := range expenses {
		if !exp.Active {
			continue
		}
		fixed = fixed.Add(ToMonthly(exp.Amount, exp.Frequency))
	}
	return model.Totals{
		IncomeMonthly:     income,
		FixedCostsMonthly: fixed,
		SafeToSpend:       income.Sub(fixed),
		FixedCostsRatio:   Percentage(fixed, income),
	}
}

// ComputeCategoryTotals groups active expenses by their exact category string
// and returns the groups sorted by monthly sum, largest first.
func ComputeCategoryTotals(expenses []model.ExpenseEntry, incomeMonthly decimal.Decimal) []model.CategoryTotal {
	index := make(map[string]int)
	var totals []model.CategoryTotal

	for _, exp := range expenses {
		if !exp.Active {
			continue
		}
		monthly := ToMonthly(exp.Amount, exp.Frequency)
		i, ok := index[exp.Category]
		if !ok {
			i = len(totals)
			index[exp.Category] = i
			totals = append(totals, model.CategoryTotal{Category: exp.Category, Monthly: decimal.Zero})
		}
		totals[i].Monthly = totals[i].Monthly.Add(monthly)
		totals[i].Count++
	}

	for i := range totals {
		totals[i].Yearly = totals[i].Monthly.Mul(twelve)
		totals[i].Percentage = Percentage(totals[i].Monthly, incomeMonthly)
	}

	// Stable so that equal sums keep first-seen order.
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Monthly.GreaterThan(totals[j].Monthly)
	})
	return totals
}

// RankByMonthly returns the given expenses paired with their monthly equivalent,
// largest first. Equal amounts keep input order.
func RankByMonthly(expenses []model.ExpenseEntry) []model.ExpenseImpact {
	ranked := make([]model.ExpenseImpact, len(expenses))
	for i, e := range expenses {
		ranked[i] = model.ExpenseImpact{Expense: e, Monthly: ToMonthly(e.Amount, e.Frequency)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Monthly.GreaterThan(ranked[j].Monthly)
	})
	return ranked
}
