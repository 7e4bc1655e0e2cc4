package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL    string
	DBDriver       string // pgx|postgres
	DBTimeout      time.Duration
	BotToken       string
	HTTPAddr       string // empty = no /healthz and /metrics
	LogLevel       string
	Env            string // dev|prod
	SentryDSN      string
	Release        string
	ExportDir      string
	ExportInterval time.Duration // 0 = periodic export off
	SeedTestData   bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DB_DRIVER", "pgx")
	v.SetDefault("DB_TIMEOUT", "5s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENV", "dev")
	v.SetDefault("RELEASE", "dev")
	v.SetDefault("EXPORT_DIR", ".")
	v.SetDefault("EXPORT_INTERVAL", "0s")
	v.SetDefault("SEED_TEST_DATA", false)

	cfg := &Config{
		DatabaseURL:    v.GetString("DATABASE_URL"),
		DBDriver:       v.GetString("DB_DRIVER"),
		DBTimeout:      v.GetDuration("DB_TIMEOUT"),
		BotToken:       v.GetString("BOT_TOKEN"),
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		Env:            v.GetString("ENV"),
		SentryDSN:      v.GetString("SENTRY_DSN"),
		Release:        v.GetString("RELEASE"),
		ExportDir:      v.GetString("EXPORT_DIR"),
		ExportInterval: v.GetDuration("EXPORT_INTERVAL"),
		SeedTestData:   v.GetBool("SEED_TEST_DATA"),
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("required env DATABASE_URL is empty")
	}
	switch cfg.DBDriver {
	case "pgx", "postgres":
	default:
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}
	if cfg.DBTimeout <= 0 {
		return nil, fmt.Errorf("DB_TIMEOUT: must be positive, got %s", cfg.DBTimeout)
	}
	return cfg, nil
}

// RequireBot checks BOT_TOKEN, which is only mandatory for the Telegram front end.
func (c *Config) RequireBot() error {
	if c.BotToken == "" {
		return errors.New("required env BOT_TOKEN is empty")
	}
	return nil
}
