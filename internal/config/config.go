// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends accepted by Config.Store.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreSupabase = "supabase"
)

type Config struct {
	Addr          string        `env:"DESIGNRAGE_ADDR" envDefault:":8080"`
	MaxRounds     int           `env:"DESIGNRAGE_MAX_ROUNDS" envDefault:"10"`
	FeedbackDelay time.Duration `env:"DESIGNRAGE_FEEDBACK_DELAY" envDefault:"2s"`
	ScenarioFile  string        `env:"DESIGNRAGE_SCENARIOS"`

	Store       string `env:"DESIGNRAGE_STORE" envDefault:"memory"`
	SQLitePath  string `env:"DESIGNRAGE_SQLITE_PATH" envDefault:"designrage.db"`
	DatabaseURL string `env:"DATABASE_URL"`
	SupabaseURL string `env:"SUPABASE_URL"`
	SupabaseKey string `env:"SUPABASE_KEY"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxRounds < 0 {
		return fmt.Errorf("DESIGNRAGE_MAX_ROUNDS must be >= 0, got %d", c.MaxRounds)
	}
	if c.FeedbackDelay < 0 {
		return fmt.Errorf("DESIGNRAGE_FEEDBACK_DELAY must not be negative")
	}
	switch c.Store {
	case StoreMemory:
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("DESIGNRAGE_SQLITE_PATH is required for the sqlite store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case StoreSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for the supabase store")
		}
	default:
		return fmt.Errorf("unknown DESIGNRAGE_STORE %q", c.Store)
	}
	return nil
}
