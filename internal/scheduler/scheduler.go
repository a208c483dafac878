package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"BudgetSentinel/internal/advisor"
	"BudgetSentinel/internal/model"
	"BudgetSentinel/internal/notifier"
	"BudgetSentinel/internal/store"
)

// Sender delivers chat messages; *notifier.TelegramNotifier implements it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

const sendRetries = 3

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Advisor  *advisor.Advisor
	Users    store.FinanceStore
	Notifier Sender // nil disables chat messages
	ChatUser string // user whose tips and alerts go to the chat
	Logger   *logrus.Logger
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, adv *advisor.Advisor, users store.FinanceStore, sender Sender, chatUser string, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLocation(adv.Location())),
		Advisor:  adv,
		Users:    users,
		Notifier: sender,
		ChatUser: chatUser,
		Logger:   logger,
		Ctx:      ctx,
	}
}

// RegisterAll registers the daily tip and contract alert tasks.
func (s *Scheduler) RegisterAll(dailyTipCron, contractCron string) error {
	if _, err := s.Cron.AddFunc(dailyTipCron, s.dailyTipTask); err != nil {
		return fmt.Errorf("register daily tip task: %w", err)
	}
	if _, err := s.Cron.AddFunc(contractCron, s.contractTask); err != nil {
		return fmt.Errorf("register contract task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunDailyNow executes the daily tip task immediately (RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTipTask()
}

// RunContractsNow executes the contract alert task immediately.
func (s *Scheduler) RunContractsNow() {
	s.contractTask()
}

func (s *Scheduler) dailyTipTask() {
	s.Logger.Info("running daily tip task")
	users, err := s.Users.ListUsers(s.Ctx)
	if err != nil {
		s.Logger.WithError(err).Error("list users")
		return
	}

	generated := 0
	for _, userID := range users {
		tip, err := s.Advisor.EnsureDailyTip(s.Ctx, userID)
		if err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("ensure daily tip")
			continue
		}
		if tip == nil {
			continue
		}
		generated++
		if userID == s.ChatUser {
			s.trySend(notifier.FormatTip(tip))
		}
	}
	s.Logger.WithFields(logrus.Fields{"users": len(users), "tips": generated}).Info("daily tip task done")
}

func (s *Scheduler) contractTask() {
	s.Logger.Info("running contract task")
	contracts, err := s.Advisor.ExpiringContracts(s.Ctx)
	if err != nil {
		s.Logger.WithError(err).Error("expiring contracts")
		return
	}

	var mine []model.ExpenseEntry
	for _, c := range contracts {
		if c.UserID == s.ChatUser {
			mine = append(mine, c)
		}
	}
	s.Logger.WithFields(logrus.Fields{"contracts": len(contracts), "notified": len(mine)}).Info("contract task done")
	if len(mine) > 0 {
		s.trySend(notifier.FormatContractAlert(s.Advisor.Today(), mine))
	}
}

// HandleCommand processes a chat command for the chat user and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/tip":
		tip, err := s.Advisor.EnsureDailyTip(ctx, s.ChatUser)
		if err != nil {
			return s.commandError(command, err)
		}
		if tip == nil {
			return notifier.FormatNoTip(s.Advisor.Today())
		}
		return notifier.FormatTip(tip)
	case "/insights":
		report, err := s.Advisor.Insights(ctx, s.ChatUser)
		if err != nil {
			return s.commandError(command, err)
		}
		return notifier.FormatInsights(report)
	case "/totals":
		totals, err := s.Advisor.Totals(ctx, s.ChatUser)
		if err != nil {
			return s.commandError(command, err)
		}
		return notifier.FormatTotals(totals)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) commandError(command string, err error) string {
	s.Logger.WithError(err).WithField("command", command).Error("handle command")
	return fmt.Sprintf("❌ %s failed, try again later", command)
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.Logger.WithError(err).Error("send notification")
	}
}
