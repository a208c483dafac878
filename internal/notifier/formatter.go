package notifier

import (
	"fmt"
	"html"
	"strings"

	"BudgetSentinel/internal/calculator"
	"BudgetSentinel/internal/insights"
	"BudgetSentinel/internal/model"
)

// FormatTip formats the daily tip into a Telegram message.
func FormatTip(tip *model.GeneratedTip) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>%s</b>\n\n", html.EscapeString(tip.Title)))
	b.WriteString(html.EscapeString(tip.Message))
	b.WriteString("\n")
	if tip.EstimatedSavingMonthly.IsPositive() {
		b.WriteString(fmt.Sprintf("\n💰 Potential saving: %s/m\n", model.FormatEuro(tip.EstimatedSavingMonthly)))
	}
	if tip.ActionCTA != "" {
		b.WriteString(fmt.Sprintf("👉 %s\n", html.EscapeString(tip.ActionCTA)))
	}
	return b.String()
}

// FormatNoTip is the reply when no tip applies today.
func FormatNoTip(date string) string {
	return fmt.Sprintf("✅ No tip for %s. Your fixed costs look fine.", date)
}

// FormatTotals formats the monthly totals.
func FormatTotals(t model.Totals) string {
	var b strings.Builder
	b.WriteString("📦 <b>Monthly overview</b>\n\n")
	b.WriteString(fmt.Sprintf("Income: %s\n", model.FormatEuro(t.IncomeMonthly)))
	b.WriteString(fmt.Sprintf("Fixed costs: %s (%s%%)\n", model.FormatEuro(t.FixedCostsMonthly), t.FixedCostsRatio.Round(1)))
	b.WriteString(fmt.Sprintf("Safe to spend: %s\n", model.FormatEuro(t.SafeToSpend)))
	return b.String()
}

// FormatInsights formats the top of an insights report.
func FormatInsights(r *model.InsightsReport) string {
	var b strings.Builder
	b.WriteString("📊 <b>Insights</b>\n\n")
	b.WriteString(html.EscapeString(insights.Summary(r)))
	b.WriteString("\n")

	if len(r.Top5Expenses) > 0 {
		b.WriteString("\n<b>Top costs:</b>\n")
		for i, e := range r.Top5Expenses {
			b.WriteString(fmt.Sprintf("  %d. %s: %s/m\n", i+1, html.EscapeString(e.Expense.Name), model.FormatEuro(e.Monthly)))
		}
	}
	if len(r.QuickWins) > 0 {
		b.WriteString(fmt.Sprintf("\n<b>Quick wins:</b> %s/m\n", model.FormatEuro(r.QuickWinTotal)))
		for _, q := range r.QuickWins {
			b.WriteString(fmt.Sprintf("  • %s: %s/m\n", html.EscapeString(q.Expense.Name), model.FormatEuro(q.Monthly)))
		}
	}
	for _, w := range r.CategoryWarnings {
		b.WriteString(fmt.Sprintf("\n⚠️ %s takes %s%% of your income", html.EscapeString(w.Category), w.Percentage.Round(0)))
	}
	if len(r.CategoryWarnings) > 0 {
		b.WriteString("\n")
	}
	if r.OverallWarning {
		b.WriteString(fmt.Sprintf("\n⚠️ Fixed costs are %s%% of your income\n", r.FixedCostsRatio.Round(0)))
	}
	return b.String()
}

// FormatContractAlert formats the list of contracts that end soon.
func FormatContractAlert(date string, contracts []model.ExpenseEntry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⏰ <b>Contracts ending soon</b> | %s\n\n", date))
	for _, c := range contracts {
		monthly := calculator.ToMonthly(c.Amount, c.Frequency)
		b.WriteString(fmt.Sprintf("• %s (%s/m): ends %s\n", html.EscapeString(c.Name), model.FormatEuro(monthly), c.ContractEndDate))
	}
	b.WriteString("\nCancel or renegotiate before the end date.")
	return b.String()
}

// FormatHelp lists the available chat commands.
func FormatHelp() string {
	return "<b>Commands</b>\n/tip - today's tip\n/insights - insights summary\n/totals - monthly overview\n/help - this message"
}
