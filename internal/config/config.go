package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/hnrobert/edupulse/internal/auth"
)

type StoreKind string

const (
	StoreFile   StoreKind = "file"
	StoreSQLite StoreKind = "sqlite"
)

// StatsAccess decides who may read the admin dashboard stats.
type StatsAccess string

const (
	StatsPublic StatsAccess = "public"
	StatsAdmin  StatsAccess = "admin"
)

type Config struct {
	ListenAddr  string      `env:"EDUPULSE_LISTEN"       envDefault:":5000"`
	DataDir     string      `env:"EDUPULSE_DATA_DIR"     envDefault:"./data"`
	Store       StoreKind   `env:"EDUPULSE_STORE"        envDefault:"file"`
	JWTSecret   string      `env:"EDUPULSE_JWT_SECRET"`
	StatsAccess StatsAccess `env:"EDUPULSE_STATS_ACCESS" envDefault:"public"`
	LogDir      string      `env:"EDUPULSE_LOG_DIR"`
	SeedFile    string      `env:"EDUPULSE_SEED_FILE"`

	// Secret is JWTSecret decoded by Validate.
	Secret []byte
}

// Load reads an optional .env file, then the environment, then validates.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("EDUPULSE_JWT_SECRET is required")
	}
	secret, err := auth.DecodeSecret(c.JWTSecret)
	if err != nil {
		return fmt.Errorf("EDUPULSE_JWT_SECRET: %w", err)
	}
	c.Secret = secret

	switch c.Store {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("EDUPULSE_STORE: unknown store %q", c.Store)
	}
	switch c.StatsAccess {
	case StatsPublic, StatsAdmin:
	default:
		return fmt.Errorf("EDUPULSE_STATS_ACCESS: unknown policy %q", c.StatsAccess)
	}
	if c.DataDir == "" {
		return errors.New("EDUPULSE_DATA_DIR must not be empty")
	}
	return nil
}
