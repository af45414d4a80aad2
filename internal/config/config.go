// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full service configuration.
type Config struct {
	Port         string        `env:"PORT"          envDefault:"5175"`
	DBPath       string        `env:"DB_PATH"       envDefault:"./data/app.db"`
	LogLevel     string        `env:"LOG_LEVEL"     envDefault:"info"`
	WordsFile    string        `env:"WORDS_FILE"`
	WordLength   int           `env:"WORD_LENGTH"   envDefault:"5"`
	DailySalt    string        `env:"DAILY_SALT"    envDefault:"local_dev_salt"`
	JWTSecret    string        `env:"JWT_SECRET"    envDefault:"dev_secret_change_me"`
	JWTExpires   time.Duration `env:"JWT_EXPIRES"   envDefault:"336h"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	Production   bool          `env:"PRODUCTION"`

	GuessRateRPS   float64 `env:"GUESS_RATE_RPS"   envDefault:"2"`
	GuessRateBurst int     `env:"GUESS_RATE_BURST" envDefault:"5"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.WordLength < 4 || cfg.WordLength > 10 {
		return Config{}, fmt.Errorf("WORD_LENGTH must be 4-10, got %d", cfg.WordLength)
	}
	return cfg, nil
}
