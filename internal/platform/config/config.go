// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and passed to components through their
constructors. No package keeps a global copy.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Mail delivery backends.
const (
	MailBackendLog  = "log"
	MailBackendSMTP = "smtp"
)

// # Configuration Schema

// Config holds all runtime configuration for the Yamdb API server and CLI.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Key-Value store (Redis), backing the outbound mail queue
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Access tokens
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH,required"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`

	// Confirmation codes
	ConfirmationSecret  string        `env:"CONFIRMATION_SECRET,required,notEmpty"`
	ConfirmationCodeTTL time.Duration `env:"CONFIRMATION_CODE_TTL" envDefault:"72h"`

	// Outbound mail
	Mail MailConfig `envPrefix:"MAIL_"`
	SMTP SMTPConfig `envPrefix:"SMTP_"`

	// Tracing
	Telemetry TelemetryConfig `envPrefix:"OTEL_"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// MailConfig selects how confirmation mail leaves the system.
type MailConfig struct {
	Backend  string `env:"BACKEND"   envDefault:"log"`
	From     string `env:"FROM"      envDefault:"noreply@yamdb.local"`
	Workers  int    `env:"WORKERS"   envDefault:"2"`
	QueueKey string `env:"QUEUE_KEY" envDefault:"mail:outbox"`
}

// SMTPConfig is used when [MailConfig.Backend] is "smtp".
type SMTPConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:25"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

// TelemetryConfig configures the OTLP trace exporter.
type TelemetryConfig struct {
	Enabled  bool   `env:"ENABLED"  envDefault:"false"`
	Endpoint string `env:"ENDPOINT" envDefault:"localhost:4317"`
	Insecure bool   `env:"INSECURE" envDefault:"true"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Mail.Backend {
	case MailBackendLog, MailBackendSMTP:
	default:
		return fmt.Errorf("config: unknown MAIL_BACKEND %q", c.Mail.Backend)
	}
	if c.Mail.Workers < 1 {
		return fmt.Errorf("config: MAIL_WORKERS must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
