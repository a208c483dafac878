package calculator

import (
	"github.com/shopspring/decimal"

	"BudgetSentinel/internal/model"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// ToMonthly converts an amount billed at the given frequency to its monthly equivalent.
// Unknown frequencies are treated as already monthly.
func ToMonthly(amount decimal.Decimal, freq model.Frequency) decimal.Decimal {
	switch freq {
	case model.Weekly:
		return amount.Mul(decimal.NewFromInt(52)).Div(twelve)
	case model.Biweekly:
		return amount.Mul(decimal.NewFromInt(26)).Div(twelve)
	case model.FourWeekly:
		return amount.Mul(decimal.NewFromInt(13)).Div(twelve)
	case model.Monthly:
		return amount
	case model.Yearly:
		return amount.Div(twelve)
	default:
		return amount
	}
}

// ToYearly returns ToMonthly(amount, freq) * 12.
// Yearly figures are always derived from the monthly one, never from the raw cadence.
func ToYearly(amount decimal.Decimal, freq model.Frequency) decimal.Decimal {
	return ToMonthly(amount, freq).Mul(twelve)
}

// Percentage returns part/whole*100, or zero when whole is not positive.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
