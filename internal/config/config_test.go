package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/config"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, config.StorageMemory, cfg.Storage)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.PurgeInterval)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Empty(t, cfg.OTELEndpoint)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ADVENTURE_GRPC_PORT", "6000")
	t.Setenv("ADVENTURE_STORAGE", "redis")
	t.Setenv("ADVENTURE_REDIS_ADDR", "cache:6380")
	t.Setenv("ADVENTURE_SESSION_TTL", "90m")
	t.Setenv("ADVENTURE_LOG_LEVEL", "DEBUG")
	t.Setenv("ADVENTURE_OTEL_ENDPOINT", "http://collector:4318")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.Equal(t, config.StorageRedis, cfg.Storage)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "http://collector:4318", cfg.OTELEndpoint)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("ADVENTURE_SESSION_TTL", "forever")

	_, err := config.Load()
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			GRPCPort:   50051,
			Storage:    config.StorageMemory,
			SessionTTL: time.Hour,
			LogLevel:   "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "port", mutate: func(c *config.Config) { c.GRPCPort = 0 }, wantErr: "GRPCPort"},
		{name: "storage", mutate: func(c *config.Config) { c.Storage = "postgres" }, wantErr: "Storage"},
		{name: "ttl", mutate: func(c *config.Config) { c.SessionTTL = 0 }, wantErr: "SessionTTL"},
		{name: "purge", mutate: func(c *config.Config) { c.PurgeInterval = -time.Second }, wantErr: "PurgeInterval"},
		{name: "level", mutate: func(c *config.Config) { c.LogLevel = "loud" }, wantErr: "LogLevel"},
		{
			name: "redis addr",
			mutate: func(c *config.Config) {
				c.Storage = config.StorageRedis
				c.RedisAddr = ""
			},
			wantErr: "RedisAddr",
		},
		{
			name: "sqlite path",
			mutate: func(c *config.Config) {
				c.Storage = config.StorageSQLite
				c.SQLitePath = " "
			},
			wantErr: "SQLitePath",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ADVENTURE_TEST_DOTENV=from-file\nADVENTURE_TEST_PRESET=from-file\n"), 0o600))

	t.Setenv("ADVENTURE_TEST_PRESET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("ADVENTURE_TEST_DOTENV") })

	loaded, err := config.LoadDotEnv(filepath.Join(dir, "missing.env"), path)
	require.NoError(t, err)

	assert.Equal(t, []string{path}, loaded)
	assert.Equal(t, "from-file", os.Getenv("ADVENTURE_TEST_DOTENV"))
	assert.Equal(t, "from-env", os.Getenv("ADVENTURE_TEST_PRESET"))
}
