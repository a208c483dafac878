package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoad_FileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
database:
  driver: postgres
  dsn: postgres://localhost/budget
insights:
  category_threshold: 40
timezone: UTC
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.DSN != "postgres://localhost/budget" {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Insights.CategoryThreshold != 40 || cfg.Insights.OverallThreshold != 70 {
		t.Errorf("unexpected thresholds: %+v", cfg.Insights)
	}
	if cfg.Insights.ContractWindowDays != 30 {
		t.Errorf("expected default contract window 30, got %d", cfg.Insights.ContractWindowDays)
	}
	if cfg.Schedule.DailyTipCron == "" || cfg.HTTPAddr != ":8080" {
		t.Errorf("expected defaults to be applied: %+v", cfg)
	}
	if cfg.CategoryThreshold().String() != "40" {
		t.Errorf("unexpected decimal threshold %s", cfg.CategoryThreshold())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "/tmp/x.db")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("CATEGORY_THRESHOLD", "25.5")

	cfg, err := Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.DSN != "/tmp/x.db" {
		t.Errorf("expected env dsn, got %q", cfg.Database.DSN)
	}
	if !cfg.TelegramEnabled() {
		t.Error("expected telegram to be enabled")
	}
	if cfg.CategoryThreshold().String() != "25.5" {
		t.Errorf("expected threshold 25.5, got %s", cfg.CategoryThreshold())
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_TIMEZONE=UTC\nHTTP_ADDR=:9999\n"), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	t.Setenv("APP_TIMEZONE", "")
	t.Setenv("HTTP_ADDR", "")
	os.Unsetenv("APP_TIMEZONE")
	os.Unsetenv("HTTP_ADDR")

	cfg, err := Load("missing.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9999" || cfg.Timezone != "UTC" {
		t.Errorf("expected .env values, got addr=%q tz=%q", cfg.HTTPAddr, cfg.Timezone)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.Database.Driver = "sqlite"
		c.Database.DSN = "x.db"
		c.Insights.CategoryThreshold = 35
		c.Insights.OverallThreshold = 70
		c.Timezone = "UTC"
		c.Log.Format = "text"
		return c
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "t" }},
		{"zero threshold", func(c *Config) { c.Insights.CategoryThreshold = 0 }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		c := base()
		tt.mutate(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestNewLogger(t *testing.T) {
	c := &Config{}
	c.Log.Level = "debug"
	c.Log.Format = "json"
	logger, err := c.NewLogger()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("expected json formatter, got %T", logger.Formatter)
	}

	c.Log.Level = "loud"
	if _, err := c.NewLogger(); err == nil {
		t.Error("expected error for unknown level")
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
