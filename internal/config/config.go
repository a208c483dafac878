package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		UserID   string `yaml:"user_id"` // user whose tips are pushed to the chat
	} `yaml:"telegram"`
	Database struct {
		Driver string `yaml:"driver"` // sqlite or postgres
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Schedule struct {
		DailyTipCron string `yaml:"daily_tip_cron"`
		ContractCron string `yaml:"contract_cron"`
	} `yaml:"schedule"`
	Insights struct {
		CategoryThreshold  float64 `yaml:"category_threshold"`
		OverallThreshold   float64 `yaml:"overall_threshold"`
		ContractWindowDays int     `yaml:"contract_window_days"`
	} `yaml:"insights"`
	CatalogPath string `yaml:"catalog_path"`
	HTTPAddr    string `yaml:"http_addr"`
	Timezone    string `yaml:"timezone"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text or json
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TELEGRAM_USER_ID"); v != "" {
		cfg.Telegram.UserID = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("CRON_DAILY_TIP"); v != "" {
		cfg.Schedule.DailyTipCron = v
	}
	if v := os.Getenv("CRON_CONTRACT"); v != "" {
		cfg.Schedule.ContractCron = v
	}
	if v := os.Getenv("CATEGORY_THRESHOLD"); v != "" {
		var th float64
		if _, err := fmt.Sscanf(v, "%f", &th); err == nil {
			cfg.Insights.CategoryThreshold = th
		}
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("APP_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "data/budget_sentinel.db"
	}
	if cfg.Schedule.DailyTipCron == "" {
		cfg.Schedule.DailyTipCron = "0 0 7 * * *"
	}
	if cfg.Schedule.ContractCron == "" {
		cfg.Schedule.ContractCron = "0 0 9 * * *"
	}
	if cfg.Insights.CategoryThreshold == 0 {
		cfg.Insights.CategoryThreshold = 35
	}
	if cfg.Insights.OverallThreshold == 0 {
		cfg.Insights.OverallThreshold = 70
	}
	if cfg.Insights.ContractWindowDays == 0 {
		cfg.Insights.ContractWindowDays = 30
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = "configs/catalog.yaml"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Amsterdam"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	if c.Insights.CategoryThreshold <= 0 || c.Insights.OverallThreshold <= 0 {
		return fmt.Errorf("insights thresholds must be positive")
	}
	if c.Insights.ContractWindowDays < 0 {
		return fmt.Errorf("insights.contract_window_days must not be negative")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// TelegramEnabled reports whether chat notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// CategoryThreshold returns the per-category warning threshold in percent.
func (c *Config) CategoryThreshold() decimal.Decimal {
	return decimal.NewFromFloat(c.Insights.CategoryThreshold)
}

// OverallThreshold returns the overall fixed-cost warning threshold in percent.
func (c *Config) OverallThreshold() decimal.Decimal {
	return decimal.NewFromFloat(c.Insights.OverallThreshold)
}

// Location returns the timezone in which "today" is resolved.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
