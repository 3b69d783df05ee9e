package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string        `env:"MEMORY_ADDR" envDefault:":8080"`
	DBPath          string        `env:"MEMORY_DB_PATH" envDefault:"memorymatch.db"`
	TickInterval    time.Duration `env:"MEMORY_TICK" envDefault:"1s"`
	MatchDelay      time.Duration `env:"MEMORY_MATCH_DELAY" envDefault:"200ms"`
	LeaderboardSize int           `env:"MEMORY_LEADERBOARD_SIZE" envDefault:"10"`
}

// InitConfig loads a .env file into the process environment when one exists.
func InitConfig(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	log.Println("Successfully loaded environment variables")
	return nil
}

// Load runs InitConfig and parses the environment into a validated Config.
func Load(files ...string) (Config, error) {
	if err := InitConfig(files...); err != nil {
		return Config{}, err
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

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("MEMORY_ADDR is empty")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("MEMORY_TICK must be positive, got %s", c.TickInterval)
	}
	if c.MatchDelay < 0 {
		return fmt.Errorf("MEMORY_MATCH_DELAY must not be negative, got %s", c.MatchDelay)
	}
	if c.LeaderboardSize < 1 {
		return fmt.Errorf("MEMORY_LEADERBOARD_SIZE must be at least 1, got %d", c.LeaderboardSize)
	}
	return nil
}
