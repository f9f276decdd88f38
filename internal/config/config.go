package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Бэкенды хранилища уроков
const (
	BackendPostgres = "postgres"
	BackendSheets   = "sheets"
	BackendMemory   = "memory"
)

type Config struct {
	Environment   string
	LogLevel      string
	TelegramToken string
	AdminID       int64
	Port          int

	Ledger   LedgerConfig
	Reminder ReminderConfig
	Redis    RedisConfig
	WebApp   WebAppConfig
}

type LedgerConfig struct {
	Backend           string
	DBDSN             string
	SpreadsheetID     string
	CredentialsBase64 string
	Timezone          string
}

type ReminderConfig struct {
	Lead                  time.Duration
	PollInterval          time.Duration
	FallbackPayoutPercent float64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type WebAppConfig struct {
	Dir               string
	BaseURL           string
	RenderExternalURL string
	RenderServiceName string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	leadMinutes := v.GetInt("REMINDER_LEAD_MINUTES")
	if leadMinutes < 0 {
		return nil, fmt.Errorf("REMINDER_LEAD_MINUTES must not be negative, got %d", leadMinutes)
	}

	poll, err := time.ParseDuration(v.GetString("REMINDER_POLL_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("parse REMINDER_POLL_INTERVAL: %w", err)
	}
	if poll <= 0 {
		return nil, errors.New("REMINDER_POLL_INTERVAL must be positive")
	}

	cfg := &Config{
		Environment:   v.GetString("ENV"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		TelegramToken: v.GetString("TELEGRAM_TOKEN"),
		AdminID:       v.GetInt64("ADMIN_TELEGRAM_ID"),
		Port:          v.GetInt("PORT"),
		Ledger: LedgerConfig{
			Backend:           strings.ToLower(strings.TrimSpace(v.GetString("LEDGER_BACKEND"))),
			DBDSN:             v.GetString("DB_DSN"),
			SpreadsheetID:     v.GetString("SPREADSHEET_ID"),
			CredentialsBase64: v.GetString("GOOGLE_CREDENTIALS_JSON_BASE64"),
			Timezone:          v.GetString("LEDGER_TIMEZONE"),
		},
		Reminder: ReminderConfig{
			Lead:                  time.Duration(leadMinutes) * time.Minute,
			PollInterval:          poll,
			FallbackPayoutPercent: v.GetFloat64("PAYOUT_FALLBACK_PERCENT"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		WebApp: WebAppConfig{
			Dir:               v.GetString("WEBAPP_DIR"),
			BaseURL:           v.GetString("WEBAPP_BASE_URL"),
			RenderExternalURL: v.GetString("RENDER_EXTERNAL_URL"),
			RenderServiceName: v.GetString("RENDER_SERVICE_NAME"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 8000)

	v.SetDefault("LEDGER_BACKEND", BackendPostgres)
	v.SetDefault("LEDGER_TIMEZONE", "UTC")

	v.SetDefault("REMINDER_LEAD_MINUTES", 60)
	v.SetDefault("REMINDER_POLL_INTERVAL", "60s")
	v.SetDefault("PAYOUT_FALLBACK_PERCENT", 70)

	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("WEBAPP_DIR", "webapp")
}

// ValidateLedger проверяет настройки выбранного хранилища
func (c *Config) ValidateLedger() error {
	switch c.Ledger.Backend {
	case BackendPostgres:
		if c.Ledger.DBDSN == "" {
			return errors.New("DB_DSN is required for the postgres backend")
		}
	case BackendSheets:
		if c.Ledger.SpreadsheetID == "" {
			return errors.New("SPREADSHEET_ID is required for the sheets backend")
		}
		if c.Ledger.CredentialsBase64 == "" {
			return errors.New("GOOGLE_CREDENTIALS_JSON_BASE64 is required for the sheets backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q", c.Ledger.Backend)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// ValidateServe проверяет всё, что нужно для запуска бота и HTTP сервера
func (c *Config) ValidateServe() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required but not set")
	}
	if c.AdminID == 0 {
		return errors.New("ADMIN_TELEGRAM_ID is required but not set")
	}
	return c.ValidateLedger()
}

// Location - часовой пояс, в котором записаны дата и время уроков
func (c *Config) Location() (*time.Location, error) {
	if c.Ledger.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Ledger.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load LEDGER_TIMEZONE %q: %w", c.Ledger.Timezone, err)
	}
	return loc, nil
}

// GoogleCredentials декодирует JSON сервисного аккаунта
func (c *Config) GoogleCredentials() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(c.Ledger.CredentialsBase64))
	if err != nil {
		return nil, fmt.Errorf("decode GOOGLE_CREDENTIALS_JSON_BASE64: %w", err)
	}
	return raw, nil
}

// WebAppURL - адрес панели для кнопки WebApp
func (c *Config) WebAppURL() string {
	base := c.WebApp.RenderExternalURL
	if base == "" {
		base = c.WebApp.BaseURL
	}
	if base == "" && c.WebApp.RenderServiceName != "" {
		base = fmt.Sprintf("https://%s.onrender.com", c.WebApp.RenderServiceName)
	}
	if !strings.HasPrefix(base, "http") {
		base = fmt.Sprintf("http://localhost:%d", c.Port)
	}
	return strings.TrimRight(base, "/") + "/"
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
