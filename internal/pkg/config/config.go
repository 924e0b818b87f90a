// Package config builds the typed application configuration once at startup.
package config

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ManuelReschke/PromptManager/internal/pkg/env"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Host         string
	Port         string
	IsDev        bool
	PublicDomain string

	Database Database
	Cache    Cache
	OAuth    OAuth
	Stripe   Stripe
	Log      Log
	Metrics  Metrics

	// CheckoutBaseURL is the Stripe payment link the upgrade button points to.
	// Empty disables the upgrade link.
	CheckoutBaseURL string
}

type Database struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Cache struct {
	Host     string
	Port     int
	Password string
}

type OAuth struct {
	GoogleKey    string
	GoogleSecret string
	GitHubKey    string
	GitHubSecret string
}

type Stripe struct {
	SecretKey     string
	WebhookSecret string
}

type Log struct {
	Level  string
	Format string
}

type Metrics struct {
	User     string
	Password string
}

// Load reads the configuration through env.GetEnv, so values from the .env
// file win over the process environment.
func Load() (*Config, error) {
	driver := strings.ToLower(env.GetEnv("DB_DRIVER", DriverMySQL))
	if driver != DriverMySQL && driver != DriverPostgres {
		return nil, errors.New("DB_DRIVER must be mysql or postgres")
	}

	defaultDBPort := "3306"
	if driver == DriverPostgres {
		defaultDBPort = "5432"
	}

	cachePort, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		return nil, errors.New("CACHE_PORT must be a number")
	}

	isDev := env.IsDev()
	logFormat := "json"
	if isDev {
		logFormat = "console"
	}

	return &Config{
		Host:         env.GetEnv("APP_HOST", "localhost"),
		Port:         env.GetEnv("APP_PORT", "4000"),
		IsDev:        isDev,
		PublicDomain: strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/"),
		Database: Database{
			Driver:   driver,
			Host:     env.GetEnv("DB_HOST", "127.0.0.1"),
			Port:     env.GetEnv("DB_PORT", defaultDBPort),
			User:     env.GetEnv("DB_USER", ""),
			Password: env.GetEnv("DB_PASSWORD", ""),
			Name:     env.GetEnv("DB_NAME", ""),
		},
		Cache: Cache{
			Host:     env.GetEnv("CACHE_HOST", "localhost"),
			Port:     cachePort,
			Password: env.GetEnv("CACHE_PASSWORD", ""),
		},
		OAuth: OAuth{
			GoogleKey:    env.GetEnv("GOOGLE_KEY", ""),
			GoogleSecret: env.GetEnv("GOOGLE_SECRET", ""),
			GitHubKey:    env.GetEnv("GITHUB_KEY", ""),
			GitHubSecret: env.GetEnv("GITHUB_SECRET", ""),
		},
		Stripe: Stripe{
			SecretKey:     env.GetEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Log: Log{
			Level:  strings.ToLower(env.GetEnv("LOG_LEVEL", "info")),
			Format: env.GetEnv("LOG_FORMAT", logFormat),
		},
		Metrics: Metrics{
			User:     env.GetEnv("METRICS_USER", "admin"),
			Password: env.GetEnv("METRICS_PASSWORD", ""),
		},
		CheckoutBaseURL: strings.TrimSpace(env.GetEnv("MONTHLY_SUBSCRIPTION_LINK", "")),
	}, nil
}

// BaseURL is the externally reachable origin used for OAuth callbacks.
func (c *Config) BaseURL() string {
	if c.PublicDomain != "" {
		return c.PublicDomain
	}
	return "http://localhost:" + c.Port
}
