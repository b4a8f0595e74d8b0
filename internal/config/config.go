// Package config holds the server configuration read from the environment
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config is the server configuration. Every field can be set from an
// ADVENTURE_* environment variable; cobra flags override it.
type Config struct {
	GRPCPort int `env:"ADVENTURE_GRPC_PORT" envDefault:"50051"`

	Storage    string        `env:"ADVENTURE_STORAGE" envDefault:"memory"`
	SessionTTL time.Duration `env:"ADVENTURE_SESSION_TTL" envDefault:"24h"`

	RedisAddr     string `env:"ADVENTURE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"ADVENTURE_REDIS_PASSWORD"`
	RedisDB       int    `env:"ADVENTURE_REDIS_DB" envDefault:"0"`

	SQLitePath string `env:"ADVENTURE_SQLITE_PATH" envDefault:"adventure.db"`
	// PurgeInterval is how often expired SQLite rows are removed; zero disables it
	PurgeInterval time.Duration `env:"ADVENTURE_PURGE_INTERVAL" envDefault:"10m"`

	LogLevel     string `env:"ADVENTURE_LOG_LEVEL" envDefault:"info"`
	OTELEndpoint string `env:"ADVENTURE_OTEL_ENDPOINT"`
}

// Load parses the environment into a validated Config
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and backend-specific requirements
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("GRPCPort", c.GRPCPort, 1, 65535, vb)
	errors.ValidateEnum("Storage", c.Storage, []string{StorageMemory, StorageRedis, StorageSQLite}, vb)

	if c.SessionTTL <= 0 {
		vb.Field("SessionTTL", "must be positive")
	}
	if c.PurgeInterval < 0 {
		vb.Field("PurgeInterval", "must not be negative")
	}

	switch c.Storage {
	case StorageRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			vb.RequiredField("RedisAddr")
		}
		if c.RedisDB < 0 {
			vb.Field("RedisDB", "must not be negative")
		}
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			vb.RequiredField("SQLitePath")
		}
	}

	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.Fieldf("LogLevel", "unknown level %q", c.LogLevel)
	}

	return vb.Build()
}

// SlogLevel returns the configured log level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
