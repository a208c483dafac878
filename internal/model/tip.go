package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TipType names the candidate strategy a catalog entry drives.
type TipType string

const (
	TipQuickWin         TipType = "quick_win"
	TipContract         TipType = "contract"
	TipCategoryHeavy    TipType = "category_heavy"
	TipAnnualVisibility TipType = "annual_visibility"
	TipScenario         TipType = "scenario"
)

// TipStatus is the lifecycle state of a GeneratedTip.
type TipStatus string

const (
	TipStatusNew       TipStatus = "new"
	TipStatusSeen      TipStatus = "seen"
	TipStatusDone      TipStatus = "done"
	TipStatusDismissed TipStatus = "dismissed"
	TipStatusSnoozed   TipStatus = "snoozed"
)

// ErrInvalidStatus is returned by ParseTipStatus for unknown values.
var ErrInvalidStatus = errors.New("invalid tip status")

// ParseTipStatus validates a status value.
func ParseTipStatus(s string) (TipStatus, error) {
	switch st := TipStatus(s); st {
	case TipStatusNew, TipStatusSeen, TipStatusDone, TipStatusDismissed, TipStatusSnoozed:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// TipCatalogEntry is an admin-curated tip definition. The engine never mutates it.
type TipCatalogEntry struct {
	TipID        string  `json:"tip_id" yaml:"tip_id"`
	Type         TipType `json:"type" yaml:"type"`
	TemplateKey  string  `json:"template_key" yaml:"template_key"`
	Priority     int     `json:"priority" yaml:"priority"`
	CooldownDays int     `json:"cooldown_days" yaml:"cooldown_days"`
	Active       bool    `json:"is_active" yaml:"is_active"`
}

// MaxTipHistory bounds InsightsState.TipHistory.
const MaxTipHistory = 50

// InsightsState is the per-user selection memory of the tip engine.
type InsightsState struct {
	UserID     string            `json:"user_id"`
	LastTipAt  string            `json:"last_tip_at,omitempty"`
	TipHistory []string          `json:"tip_history"`
	Cooldowns  map[string]string `json:"cooldowns"` // tip_id -> yyyy-MM-dd last shown
}

// TipCandidate is a scored tip proposed by one strategy.
type TipCandidate struct {
	TipID                  string          `json:"tip_id"`
	Title                  string          `json:"title"`
	Message                string          `json:"message"`
	EstimatedSavingMonthly decimal.Decimal `json:"estimated_saving_monthly"`
	ActionCTA              string          `json:"action_cta"`
	Score                  decimal.Decimal `json:"score"`
	ExpenseID              string          `json:"expense_id,omitempty"`
}

// GeneratedTip is the persisted daily selection for a user.
type GeneratedTip struct {
	ID                     string          `json:"id"`
	UserID                 string          `json:"user_id"`
	Date                   string          `json:"date"`
	TipID                  string          `json:"tip_id"`
	Title                  string          `json:"title"`
	Message                string          `json:"message"`
	EstimatedSavingMonthly decimal.Decimal `json:"estimated_saving_monthly"`
	ActionCTA              string          `json:"action_cta"`
	Status                 TipStatus       `json:"status"`
	ExpenseID              string          `json:"expense_id,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
}

// InsertOutcome reports whether a daily tip insert won or lost the (user, date) race.
type InsertOutcome int

const (
	Inserted InsertOutcome = iota
	Conflict
)

func (o InsertOutcome) String() string {
	if o == Conflict {
		return "conflict"
	}
	return "inserted"
}
