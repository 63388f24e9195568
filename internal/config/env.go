// Package config loads portfolio server settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env values for Config.Env.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the full server configuration. Every field can be set from the
// environment (a .env file is loaded first) and some are overridden by CLI flags.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"PORTFOLIO_ENV" envDefault:"development"`

	DBPath      string `env:"PORTFOLIO_DB_PATH" envDefault:"portfolio.db"`
	ContentFile string `env:"PORTFOLIO_CONTENT_FILE"`
	ImagesDir   string `env:"PORTFOLIO_IMAGES_DIR" envDefault:"./images"`

	DefaultTheme string `env:"PORTFOLIO_DEFAULT_THEME" envDefault:"dark"`

	FPS          int           `env:"PORTFOLIO_FPS" envDefault:"30"`
	SessionIdle  time.Duration `env:"PORTFOLIO_SESSION_IDLE" envDefault:"2m"`
	MaxSessions  int           `env:"PORTFOLIO_MAX_SESSIONS" envDefault:"256"`
	ReapInterval time.Duration `env:"PORTFOLIO_REAP_INTERVAL" envDefault:"15s"`

	SMTP  SMTPConfig
	Admin AdminConfig

	OTelEndpoint string `env:"PORTFOLIO_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"PORTFOLIO_OTEL_ENABLED" envDefault:"true"`
}

// SMTPConfig holds the outgoing mail settings for the contact form.
type SMTPConfig struct {
	Host    string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port    string `env:"SMTP_PORT" envDefault:"587"`
	User    string `env:"SMTP_USER"`
	Pass    string `env:"SMTP_PASS"`
	ToEmail string `env:"TO_EMAIL" envDefault:"tusharjain1911@gmail.com"`
}

// Configured reports whether credentials are present.
func (s SMTPConfig) Configured() bool {
	return s.User != "" && s.Pass != ""
}

// AdminConfig holds the admin dashboard credentials.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses a Config and checks its values.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalizes and checks the config.
func (c *Config) Validate() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("PORTFOLIO_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.FPS <= 0 || c.FPS > 120 {
		return fmt.Errorf("PORTFOLIO_FPS must be in 1..120, got %d", c.FPS)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("PORTFOLIO_MAX_SESSIONS must be positive, got %d", c.MaxSessions)
	}
	if c.SessionIdle <= 0 {
		return fmt.Errorf("PORTFOLIO_SESSION_IDLE must be positive, got %s", c.SessionIdle)
	}
	if c.ReapInterval <= 0 {
		c.ReapInterval = 15 * time.Second
	}
	return nil
}

// Production reports whether diagnostics should be stripped.
func (c Config) Production() bool {
	return c.Env == EnvProduction
}

// FrameInterval converts FPS into a tick interval.
func (c Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.FPS)
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
