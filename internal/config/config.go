package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Config holds all configuration for the application.
// Values come from environment variables, optionally seeded from a local .env file.
type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	CORS       CORSConfig
	MealDB     MealDBConfig
	Translator TranslatorConfig
	RateLimit  RateLimitConfig
	LogLevel   string `env:"LOG_LEVEL,default=info"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Port            string        `env:"PORT,default=8080"`
	Host            string        `env:"HOST,default=0.0.0.0"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT,default=60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=30s"`
}

// AuthConfig lists the API keys accepted on /api routes.
// An empty list leaves the API open, which is how the meal endpoints are meant to be served.
type AuthConfig struct {
	APIKeys []string `env:"API_KEYS"` // semicolon separated
}

// CORSConfig holds the single origin allowed to call the API
type CORSConfig struct {
	AllowedOrigin string `env:"FRONTEND_URL,default=*"`
}

// MealDBConfig points at the upstream recipe source.
type MealDBConfig struct {
	BaseURL string        `env:"MEALDB_BASE_URL,default=https://www.themealdb.com/api/json/v1/1/"`
	Timeout time.Duration `env:"MEALDB_TIMEOUT,default=10s"`
	// Language the upstream index is written in. Search queries are translated into it.
	// TheMealDB is assumed to be English-only.
	Language string `env:"MEALDB_LANGUAGE,default=en"`
}

// TranslatorConfig selects the translation backend and how it is called.
// MaxConcurrency bounds in-flight translations per request; 0 means unbounded.
type TranslatorConfig struct {
	Provider       string        `env:"TRANSLATOR_PROVIDER,default=google"`
	BaseURL        string        `env:"TRANSLATOR_BASE_URL"`
	APIKey         string        `env:"TRANSLATOR_API_KEY"`
	TargetLanguage string        `env:"TRANSLATOR_TARGET_LANGUAGE,default=es"`
	Timeout        time.Duration `env:"TRANSLATOR_TIMEOUT,default=5s"`
	MaxConcurrency int           `env:"TRANSLATE_MAX_CONCURRENCY,default=0"`
}

// RateLimitConfig configures per-client inbound throttling. RequestsPerSecond 0 disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RATE_LIMIT_RPS,default=0"`
	Burst             int     `env:"RATE_LIMIT_BURST,default=20"`
}

// Enabled reports whether inbound throttling is switched on
func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerSecond > 0
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv decodes configuration from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if _, err := url.ParseRequestURI(c.MealDB.BaseURL); err != nil {
		return fmt.Errorf("invalid MEALDB_BASE_URL: %w", err)
	}
	if c.MealDB.Timeout <= 0 {
		return fmt.Errorf("MEALDB_TIMEOUT must be positive")
	}

	for name, tag := range map[string]string{
		"MEALDB_LANGUAGE":            c.MealDB.Language,
		"TRANSLATOR_TARGET_LANGUAGE": c.Translator.TargetLanguage,
	} {
		if _, err := language.Parse(tag); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, tag, err)
		}
	}

	if c.Translator.Timeout <= 0 {
		return fmt.Errorf("TRANSLATOR_TIMEOUT must be positive")
	}
	if c.Translator.MaxConcurrency < 0 {
		return fmt.Errorf("TRANSLATE_MAX_CONCURRENCY cannot be negative")
	}

	if c.RateLimit.Enabled() && c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when RATE_LIMIT_RPS is set")
	}

	return nil
}
