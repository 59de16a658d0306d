package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port      string `env:"PORT" envDefault:"5001"`
	SecretKey string `env:"SECRET_KEY,required,notEmpty"`
	Database  DatabaseConfig
}

// DatabaseConfig selects and tunes the user store.
type DatabaseConfig struct {
	Driver  string        `env:"DB_DRIVER" envDefault:"sqlite3"`
	URL     string        `env:"DATABASE_URL" envDefault:"database.db"`
	Timeout time.Duration `env:"DB_TIMEOUT" envDefault:"3s"`
}

// Load reads .env (if present) and the environment. A missing SECRET_KEY is
// an error: there is no fallback signing secret.
func Load() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Database.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDatabase reads only the store settings, for tools that never sign tokens.
func LoadDatabase() (*DatabaseConfig, error) {
	loadDotEnv()

	var cfg DatabaseConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (d DatabaseConfig) validate() error {
	switch d.Driver {
	case "sqlite3", "pgx":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q (want sqlite3 or pgx)", d.Driver)
	}
	if d.URL == "" {
		return fmt.Errorf("config: DATABASE_URL is empty")
	}
	if d.Timeout <= 0 {
		return fmt.Errorf("config: DB_TIMEOUT must be positive")
	}
	return nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
}

// String masks the secret so the config can be logged.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, DB: %s %s, Secret: ***}", c.Port, c.Database.Driver, c.Database.URL)
}
