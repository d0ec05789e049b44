package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr           string          `yaml:"addr" env:"HERSAFETY_ADDR" env-default:":5000"`
	APITimeout     time.Duration   `yaml:"timeout" env:"HERSAFETY_TIMEOUT" env-default:"15s"`
	DBDriver       string          `yaml:"db_driver" env:"HERSAFETY_DB_DRIVER" env-default:"sqlite"`
	DatabaseURL    string          `yaml:"database_url" env:"HERSAFETY_DATABASE_URL" env-default:"hersafety.db"`
	MigrateOnStart bool            `yaml:"migrate_on_start" env:"HERSAFETY_MIGRATE_ON_START" env-default:"true"`
	JWTSecret      string          `yaml:"jwt_secret" env:"HERSAFETY_JWT_SECRET" env-default:"supersecretkey"`
	TokenDuration  time.Duration   `yaml:"token_duration" env:"HERSAFETY_TOKEN_DURATION" env-default:"1h"`
	LogLevel       string          `yaml:"log_level" env:"HERSAFETY_LOG_LEVEL" env-default:"info"`
	Admin          AdminConfig     `yaml:"admin"`
	Incidents      IncidentsConfig `yaml:"incidents"`
	SMS            SMSConfig       `yaml:"sms"`
}

// AdminConfig bootstraps an administrator account on start when Email is set.
type AdminConfig struct {
	Name     string `yaml:"name" env:"HERSAFETY_ADMIN_NAME" env-default:"Administrator"`
	Email    string `yaml:"email" env:"HERSAFETY_ADMIN_EMAIL"`
	Password string `yaml:"password" env:"HERSAFETY_ADMIN_PASSWORD"`
}

type IncidentsConfig struct {
	StrictTransitions bool `yaml:"strict_transitions" env:"HERSAFETY_INCIDENTS_STRICT_TRANSITIONS" env-default:"false"`
}

type SMSConfig struct {
	Provider string       `yaml:"provider" env:"HERSAFETY_SMS_PROVIDER" env-default:"log"`
	From     string       `yaml:"from" env:"HERSAFETY_SMS_FROM"`
	Twilio   TwilioConfig `yaml:"twilio"`
	SNS      SNSConfig    `yaml:"sns"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" env:"HERSAFETY_TWILIO_ACCOUNT_SID"`
	AuthToken  string `yaml:"auth_token" env:"HERSAFETY_TWILIO_AUTH_TOKEN"`
}

type SNSConfig struct {
	Region string `yaml:"region" env:"HERSAFETY_SNS_REGION"`
}

// LoadConfig reads the YAML file at path (when given) and then the
// HERSAFETY_* environment, which wins over the file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for settings that would make the server
// insecure or unable to start.
func (c *Config) Validate() error {
	env := os.Getenv("HERSAFETY_ENV")
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret must not be empty")
	}
	if c.JWTSecret == insecureJWTSecret && env != "development" {
		return fmt.Errorf("insecure default jwt_secret; set HERSAFETY_JWT_SECRET or HERSAFETY_ENV=development")
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive")
	}
	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}

	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url must not be empty")
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.Admin.Email != "" && len(c.Admin.Password) < 8 {
		return fmt.Errorf("admin.password must be at least 8 characters")
	}

	switch c.SMS.Provider {
	case "", "log":
	case "twilio":
		if c.SMS.Twilio.AccountSID == "" || c.SMS.Twilio.AuthToken == "" || c.SMS.From == "" {
			return fmt.Errorf("sms provider twilio requires account_sid, auth_token and from")
		}
	case "sns":
		if c.SMS.SNS.Region == "" {
			return fmt.Errorf("sms provider sns requires region")
		}
	default:
		return fmt.Errorf("unsupported sms provider %q", c.SMS.Provider)
	}

	return nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
}
