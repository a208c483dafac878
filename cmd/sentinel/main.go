package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"BudgetSentinel/internal/advisor"
	"BudgetSentinel/internal/catalog"
	"BudgetSentinel/internal/config"
	"BudgetSentinel/internal/insights"
	"BudgetSentinel/internal/notifier"
	"BudgetSentinel/internal/scheduler"
	"BudgetSentinel/internal/store"
	"BudgetSentinel/internal/web"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("config validation: %v", err)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		logrus.Fatalf("init logger: %v", err)
	}
	logger.Info("BudgetSentinel starting...")

	if err := run(cfg, logger); err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Info("BudgetSentinel stopped")
}

// run wires every component and blocks until shutdown. Deferred cleanup runs
// before it returns, also when the HTTP server fails.
func run(cfg *config.Config, logger *logrus.Logger) error {
	// Init store
	if cfg.Database.Driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	// Init catalog and advisor
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load tip catalog: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"tips":        len(cat.All()),
		"active_tips": len(cat.Active()),
	}).Info("tip catalog loaded")

	adv := advisor.New(st, cat, advisor.Settings{
		Thresholds:         insights.Thresholds{Category: cfg.CategoryThreshold(), Overall: cfg.OverallThreshold()},
		ContractWindowDays: cfg.Insights.ContractWindowDays,
		Location:           cfg.Location(),
	}, logger)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		sender = tn
	} else {
		logger.Warn("telegram not configured, chat notifications disabled")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, adv, st, sender, cfg.Telegram.UserID, logger)
	if err := sched.RegisterAll(cfg.Schedule.DailyTipCron, cfg.Schedule.ContractCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn != nil && cfg.Telegram.UserID != "" {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	// Start HTTP API
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           web.NewRouter(web.NewHandler(adv, st, logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, executing daily tip task now")
		go sched.RunDailyNow()
	}

	logger.Info("BudgetSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	runErr := waitForShutdown(sigCh, serverErr)
	if runErr != nil {
		logger.WithError(runErr).Error("http server failed, stopping...")
	} else {
		logger.Info("shutdown signal received, stopping...")
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http server shutdown")
	}
	return runErr
}

// waitForShutdown blocks until a signal arrives or the server fails.
// It returns the server error, or nil for a signal.
func waitForShutdown(sigCh <-chan os.Signal, serverErr <-chan error) error {
	select {
	case <-sigCh:
		return nil
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}
}
