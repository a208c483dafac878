package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"BudgetSentinel/internal/model"
)

// encodeState serialises history and cooldowns into their JSON columns.
func encodeState(state model.InsightsState) (history, cooldowns string, err error) {
	h := state.TipHistory
	if h == nil {
		h = []string{}
	}
	c := state.Cooldowns
	if c == nil {
		c = map[string]string{}
	}
	hb, err := json.Marshal(h)
	if err != nil {
		return "", "", fmt.Errorf("marshal tip history: %w", err)
	}
	cb, err := json.Marshal(c)
	if err != nil {
		return "", "", fmt.Errorf("marshal cooldowns: %w", err)
	}
	return string(hb), string(cb), nil
}

// decodeState is the inverse of encodeState. Empty columns decode to empty values.
func decodeState(userID string, lastTipAt sql.NullString, history, cooldowns string) (*model.InsightsState, error) {
	state := &model.InsightsState{
		UserID:     userID,
		LastTipAt:  lastTipAt.String,
		TipHistory: []string{},
		Cooldowns:  map[string]string{},
	}
	if history != "" {
		if err := json.Unmarshal([]byte(history), &state.TipHistory); err != nil {
			return nil, fmt.Errorf("decode tip history: %w", err)
		}
	}
	if cooldowns != "" {
		if err := json.Unmarshal([]byte(cooldowns), &state.Cooldowns); err != nil {
			return nil, fmt.Errorf("decode cooldowns: %w", err)
		}
	}
	return state, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
