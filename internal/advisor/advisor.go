// Package advisor ties the store to the insights and tip engines.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"BudgetSentinel/internal/calculator"
	"BudgetSentinel/internal/catalog"
	"BudgetSentinel/internal/collector"
	"BudgetSentinel/internal/insights"
	"BudgetSentinel/internal/model"
	"BudgetSentinel/internal/store"
	"BudgetSentinel/internal/strategy"
)

// Settings are the tunables taken from config.
type Settings struct {
	Thresholds         insights.Thresholds
	ContractWindowDays int
	Location           *time.Location
}

// Advisor serves insights and the daily tip for users in the store.
type Advisor struct {
	store     store.Store
	collector *collector.Collector
	catalog   *catalog.Catalog
	settings  Settings
	logger    *logrus.Logger

	// Now is the clock; tests replace it.
	Now func() time.Time
}

// New creates an Advisor. A nil Location means UTC.
func New(st store.Store, cat *catalog.Catalog, settings Settings, logger *logrus.Logger) *Advisor {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.ContractWindowDays <= 0 {
		settings.ContractWindowDays = strategy.DefaultContractWindowDays
	}
	return &Advisor{
		store:     st,
		collector: collector.NewCollector(st, st),
		catalog:   cat,
		settings:  settings,
		logger:    logger,
		Now:       time.Now,
	}
}

// Location is the timezone in which days start.
func (a *Advisor) Location() *time.Location {
	return a.settings.Location
}

// Today returns the current date in the configured timezone.
func (a *Advisor) Today() string {
	return a.Now().In(a.settings.Location).Format(model.DateLayout)
}

// EnsureDailyTip returns today's tip for userID, generating and persisting it
// when none exists yet. It returns nil when no tip applies today.
func (a *Advisor) EnsureDailyTip(ctx context.Context, userID string) (*model.GeneratedTip, error) {
	today := a.Today()
	log := a.logger.WithFields(logrus.Fields{"user_id": userID, "date": today})

	existing, err := a.store.GetTipForDate(ctx, userID, today)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get tip for date: %w", err)
	}

	snap, err := a.collector.Collect(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := a.catalog.Active()
	if len(entries) == 0 {
		log.Debug("no active catalog entries")
		return nil, nil
	}

	candidate := strategy.GenerateDailyTip(strategy.TipContext{
		Incomes:            snap.Incomes,
		Expenses:           snap.Expenses,
		Catalog:            entries,
		State:              snap.State,
		Today:              today,
		CategoryThreshold:  a.settings.Thresholds.Category,
		ContractWindowDays: a.settings.ContractWindowDays,
	})
	if candidate == nil {
		log.Debug("no tip candidate today")
		return nil, nil
	}

	tip := &model.GeneratedTip{
		UserID:                 userID,
		Date:                   today,
		TipID:                  candidate.TipID,
		Title:                  candidate.Title,
		Message:                candidate.Message,
		EstimatedSavingMonthly: candidate.EstimatedSavingMonthly,
		ActionCTA:              candidate.ActionCTA,
		Status:                 model.TipStatusNew,
		ExpenseID:              candidate.ExpenseID,
	}
	outcome, err := a.store.InsertTip(ctx, tip)
	if err != nil {
		return nil, fmt.Errorf("insert tip: %w", err)
	}
	if outcome == model.Conflict {
		log.WithField("tip_id", tip.TipID).Debug("daily tip already stored by a concurrent request, discarding")
		return nil, nil
	}

	next := strategy.Accept(snap.State, userID, tip.TipID, today)
	if err := a.store.SaveState(ctx, next); err != nil {
		return nil, fmt.Errorf("save insights state: %w", err)
	}
	log.WithField("tip_id", tip.TipID).Info("daily tip generated")
	return tip, nil
}

// Insights builds the insights report of userID.
func (a *Advisor) Insights(ctx context.Context, userID string) (*model.InsightsReport, error) {
	snap, err := a.collector.Collect(ctx, userID)
	if err != nil {
		return nil, err
	}
	return insights.Generate(snap.Incomes, snap.Expenses, a.settings.Thresholds), nil
}

// Totals returns the monthly totals of userID.
func (a *Advisor) Totals(ctx context.Context, userID string) (model.Totals, error) {
	snap, err := a.collector.Collect(ctx, userID)
	if err != nil {
		return model.Totals{}, err
	}
	return calculator.ComputeTotals(snap.Incomes, snap.Expenses), nil
}

// Categories returns per-category totals of the active expenses of userID.
func (a *Advisor) Categories(ctx context.Context, userID string) ([]model.CategoryTotal, error) {
	snap, err := a.collector.Collect(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals := calculator.ComputeTotals(snap.Incomes, snap.Expenses)
	return calculator.ComputeCategoryTotals(snap.Expenses, totals.IncomeMonthly), nil
}

// UpdateTipStatus validates status and stores it on the tip.
func (a *Advisor) UpdateTipStatus(ctx context.Context, userID, tipID, status string) error {
	st, err := model.ParseTipStatus(status)
	if err != nil {
		return err
	}
	if err := a.store.UpdateTipStatus(ctx, userID, tipID, st); err != nil {
		return fmt.Errorf("update tip status: %w", err)
	}
	return nil
}

// MarkTipDone marks the tip done and deactivates the expense it points at.
func (a *Advisor) MarkTipDone(ctx context.Context, userID, tipID string) (*model.GeneratedTip, error) {
	tip, err := a.store.GetTip(ctx, userID, tipID)
	if err != nil {
		return nil, fmt.Errorf("get tip: %w", err)
	}
	if err := a.store.UpdateTipStatus(ctx, userID, tipID, model.TipStatusDone); err != nil {
		return nil, fmt.Errorf("update tip status: %w", err)
	}
	tip.Status = model.TipStatusDone

	if tip.ExpenseID == "" {
		return tip, nil
	}
	err = a.store.SetExpenseActive(ctx, userID, tip.ExpenseID, false)
	switch {
	case errors.Is(err, store.ErrNotFound):
		a.logger.WithFields(logrus.Fields{"user_id": userID, "tip_id": tip.TipID}).
			Warn("linked expense no longer exists")
	case err != nil:
		return nil, fmt.Errorf("deactivate expense: %w", err)
	}
	return tip, nil
}

// ExpiringContracts lists active expenses of all users whose contract ends
// between today and today plus the contract window, inclusive.
func (a *Advisor) ExpiringContracts(ctx context.Context) ([]model.ExpenseEntry, error) {
	now := a.Now().In(a.settings.Location)
	from := now.Format(model.DateLayout)
	to := now.AddDate(0, 0, a.settings.ContractWindowDays).Format(model.DateLayout)
	contracts, err := a.store.ExpiringContracts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("expiring contracts: %w", err)
	}
	return contracts, nil
}
