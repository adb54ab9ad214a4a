// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageNone   = "none"
)

// Config holds every setting the CLI reads from the environment. Command
// line flags override individual fields after Load.
type Config struct {
	Storage     string        `env:"SHIBL_STORAGE"      envDefault:"sqlite"`
	DBPath      string        `env:"SHIBL_DB"`
	RedisAddr   string        `env:"SHIBL_REDIS_ADDR"   envDefault:"localhost:6379"`
	RedisPrefix string        `env:"SHIBL_REDIS_PREFIX" envDefault:"shibl:"`
	Cooldown    time.Duration `env:"SHIBL_COOLDOWN"     envDefault:"1400ms"`
	LogMode     string        `env:"SHIBL_LOG_MODE"     envDefault:"off"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageMemory, StorageNone:
	case StorageRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("SHIBL_REDIS_ADDR is required for redis storage")
		}
	default:
		return fmt.Errorf("unknown storage %q (want sqlite, memory, redis or none)", c.Storage)
	}
	if c.Cooldown <= 0 {
		return fmt.Errorf("SHIBL_COOLDOWN must be positive, got %s", c.Cooldown)
	}
	return nil
}
