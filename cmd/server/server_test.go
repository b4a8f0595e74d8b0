package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/config"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/repositories/sessions"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/testutils/builders"
)

func newTestServerCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "server"}
	cmd.Flags().IntVar(&grpcPort, "port", 50051, "")
	cmd.Flags().StringVar(&storage, "storage", config.StorageMemory, "")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "")
	cmd.Flags().StringVar(&sqlitePath, "sqlite-path", "adventure.db", "")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "")
	return cmd
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("ADVENTURE_GRPC_PORT", "7000")
	t.Setenv("ADVENTURE_STORAGE", "redis")

	cmd := newTestServerCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--storage", "sqlite", "--sqlite-path", "/tmp/x.db"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.GRPCPort)
	assert.Equal(t, config.StorageSQLite, cfg.Storage)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cmd := newTestServerCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--storage", "etcd"}))

	_, err := loadConfig(cmd)
	assert.Error(t, err)
}

func TestBuildSessionRepository(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{name: "memory", cfg: &config.Config{Storage: config.StorageMemory}},
		{name: "redis", cfg: &config.Config{Storage: config.StorageRedis, RedisAddr: mr.Addr()}},
		{
			name: "sqlite",
			cfg: &config.Config{
				Storage:       config.StorageSQLite,
				SQLitePath:    filepath.Join(t.TempDir(), "adventure.db"),
				PurgeInterval: time.Minute,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, closer, err := buildSessionRepository(ctx, tt.cfg)
			require.NoError(t, err)
			defer func() { assert.NoError(t, closer.Close()) }()

			_, err = repo.Create(ctx, sessions.CreateInput{
				Session: builders.NewSessionBuilder().WithID("s1").Build(),
				TTL:     time.Hour,
			})
			require.NoError(t, err)

			got, err := repo.Get(ctx, sessions.GetInput{SessionID: "s1"})
			require.NoError(t, err)
			assert.Equal(t, "s1", got.Session.ID)
		})
	}
}

func TestBuildSessionRepository_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, _, err := buildSessionRepository(context.Background(), &config.Config{
		Storage:   config.StorageRedis,
		RedisAddr: addr,
	})
	assert.Error(t, err)
}
