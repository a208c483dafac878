// Package strategy selects the single daily tip for a user from the tip catalog.
package strategy

import (
	"time"

	"github.com/shopspring/decimal"

	"BudgetSentinel/internal/calculator"
	"BudgetSentinel/internal/insights"
	"BudgetSentinel/internal/model"
)

// Score weights.
const (
	priorityWeight   = 10
	penaltyPerRepeat = 5
)

// TipContext is everything the engine needs to pick one tip.
// A zero CategoryThreshold means insights.DefaultCategoryThreshold and a zero
// ContractWindowDays means DefaultContractWindowDays.
type TipContext struct {
	Incomes            []model.IncomeEntry
	Expenses           []model.ExpenseEntry
	Catalog            []model.TipCatalogEntry
	State              *model.InsightsState
	Today              string // yyyy-MM-dd, already resolved in the user's timezone
	CategoryThreshold  decimal.Decimal
	ContractWindowDays int
}

// Candidates runs the generator of every active catalog entry that is not in
// cooldown and returns the resulting candidates with their scores, in catalog order.
func Candidates(tc TipContext) []model.TipCandidate {
	active := model.ActiveExpenses(tc.Expenses)
	if len(active) == 0 {
		return nil
	}

	threshold := tc.CategoryThreshold
	if threshold.IsZero() {
		threshold = insights.DefaultCategoryThreshold
	}
	window := tc.ContractWindowDays
	if window <= 0 {
		window = DefaultContractWindowDays
	}

	var history []string
	var cooldowns map[string]string
	if tc.State != nil {
		history = tc.State.TipHistory
		cooldowns = tc.State.Cooldowns
	}
	incomeMonthly := calculator.ComputeTotals(tc.Incomes, active).IncomeMonthly

	var out []model.TipCandidate
	for _, entry := range tc.Catalog {
		if !entry.Active {
			continue
		}
		if isInCooldown(entry.TipID, entry.CooldownDays, cooldowns, tc.Today) {
			continue
		}

		var c *model.TipCandidate
		switch entry.Type {
		case model.TipQuickWin:
			c = QuickWinCandidate(entry, active)
		case model.TipContract:
			c = ContractCandidate(entry, active, tc.Today, window)
		case model.TipCategoryHeavy:
			c = CategoryHeavyCandidate(entry, active, incomeMonthly, threshold)
		case model.TipAnnualVisibility:
			c = AnnualCandidate(entry, active)
		case model.TipScenario:
			c = ScenarioCandidate(entry, active)
		}
		if c == nil {
			continue
		}

		c.Score = score(entry.Priority, c.EstimatedSavingMonthly, repetitionPenalty(entry.TipID, history))
		out = append(out, *c)
	}
	return out
}

// GenerateDailyTip returns the highest-scoring candidate, or nil when no
// catalog entry produces one. Equal scores resolve to the earlier catalog entry.
func GenerateDailyTip(tc TipContext) *model.TipCandidate {
	candidates := Candidates(tc)
	if len(candidates) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score.GreaterThan(candidates[best].Score) {
			best = i
		}
	}
	winner := candidates[best]
	return &winner
}

func score(priority int, saving, penalty decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(priority * priorityWeight)).Add(saving).Sub(penalty)
}

// isInCooldown reports whether today is before lastShown + cooldownDays.
// Dates compare as ISO strings; an unparsable last-shown date never blocks a tip.
func isInCooldown(tipID string, cooldownDays int, cooldowns map[string]string, today string) bool {
	lastShown, ok := cooldowns[tipID]
	if !ok || lastShown == "" {
		return false
	}
	last, err := time.Parse(model.DateLayout, lastShown)
	if err != nil {
		return false
	}
	until := last.AddDate(0, 0, cooldownDays).Format(model.DateLayout)
	return today < until
}

func repetitionPenalty(tipID string, history []string) decimal.Decimal {
	n := 0
	for _, h := range history {
		if h == tipID {
			n++
		}
	}
	return decimal.NewFromInt(int64(n * penaltyPerRepeat))
}
