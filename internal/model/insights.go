package model

import "github.com/shopspring/decimal"

// Totals holds the monthly figures derived from incomes and active expenses.
type Totals struct {
	IncomeMonthly     decimal.Decimal `json:"income_monthly"`
	FixedCostsMonthly decimal.Decimal `json:"fixed_costs_monthly"`
	SafeToSpend       decimal.Decimal `json:"safe_to_spend"`
	FixedCostsRatio   decimal.Decimal `json:"fixed_costs_ratio"` // percent of income, 0 when income is 0
}

// CategoryTotal is the monthly sum of one expense category.
type CategoryTotal struct {
	Category   string          `json:"category"`
	Monthly    decimal.Decimal `json:"monthly"`
	Yearly     decimal.Decimal `json:"yearly"`
	Percentage decimal.Decimal `json:"percentage"`
	Count      int             `json:"count"`
}

// InsightType tags an InsightItem.
type InsightType string

const (
	InsightQuickWin         InsightType = "quick_win"
	InsightTopCost          InsightType = "top_cost"
	InsightCategoryWarning  InsightType = "category_warning"
	InsightAnnualVisibility InsightType = "annual_visibility"
	InsightScenario         InsightType = "scenario"
)

// ExpenseImpact pairs an expense with its monthly equivalent.
type ExpenseImpact struct {
	Expense ExpenseEntry    `json:"expense"`
	Monthly decimal.Decimal `json:"monthly"`
}

// AnnualItem is a yearly-billed expense made visible per month.
type AnnualItem struct {
	Expense ExpenseEntry    `json:"expense"`
	Monthly decimal.Decimal `json:"monthly"`
	Annual  decimal.Decimal `json:"annual"`
}

// CategoryWarning flags a category above the configured share of income.
type CategoryWarning struct {
	Category   string          `json:"category"`
	Monthly    decimal.Decimal `json:"monthly"`
	Percentage decimal.Decimal `json:"percentage"`
}

// ScenarioItem is a what-if combination of cancellations.
type ScenarioItem struct {
	Title              string          `json:"title"`
	Expenses           []ExpenseEntry  `json:"expenses"`
	TotalSavingMonthly decimal.Decimal `json:"total_saving_monthly"`
}

// InsightItem is one entry of the ranked insight list.
type InsightItem struct {
	ID                     string          `json:"id"`
	ExpenseID              string          `json:"expense_id,omitempty"`
	Type                   InsightType     `json:"type"`
	Title                  string          `json:"title"`
	Description            string          `json:"description"`
	EstimatedSavingMonthly decimal.Decimal `json:"estimated_saving_monthly"`
	Cancellable            bool            `json:"is_cancellable"`
	Necessary              bool            `json:"is_necessary"`
	Category               string          `json:"category,omitempty"`
	Badge                  string          `json:"badge,omitempty"`
}

// InsightsReport is the full, stateless output of the insights generator.
type InsightsReport struct {
	Totals           Totals            `json:"totals"`
	Top5Expenses     []ExpenseImpact   `json:"top5_expenses"`
	QuickWins        []ExpenseImpact   `json:"quick_wins"`
	QuickWinTotal    decimal.Decimal   `json:"quick_win_total"`
	CategoryWarnings []CategoryWarning `json:"category_warnings"`
	AnnualItems      []AnnualItem      `json:"annual_items"`
	Scenarios        []ScenarioItem    `json:"scenarios"`
	OverallWarning   bool              `json:"overall_warning"`
	FixedCostsRatio  decimal.Decimal   `json:"fixed_costs_ratio"`
	Items            []InsightItem     `json:"items"`
}
