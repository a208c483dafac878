package strategy

import "BudgetSentinel/internal/model"

// Accept returns the insights state after tipID was shown on today: the tip is
// appended to the history (keeping the most recent model.MaxTipHistory
// entries) and its cooldown is stamped. The input state is not modified.
func Accept(prev *model.InsightsState, userID, tipID, today string) model.InsightsState {
	next := model.InsightsState{
		UserID:    userID,
		LastTipAt: today,
		Cooldowns: make(map[string]string),
	}
	var history []string
	if prev != nil {
		history = prev.TipHistory
		for k, v := range prev.Cooldowns {
			next.Cooldowns[k] = v
		}
	}

	history = append(append(make([]string, 0, len(history)+1), history...), tipID)
	if len(history) > model.MaxTipHistory {
		history = history[len(history)-model.MaxTipHistory:]
	}
	next.TipHistory = history
	next.Cooldowns[tipID] = today
	return next
}
