package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/config"
	v1alpha1 "github.com/RevenantSoul/Text-base-RPG-Game/internal/handlers/adventure/v1alpha1"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/orchestrators/adventure"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/pkg/clock"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/pkg/idgen"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/redis"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/repositories/sessions"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/telemetry"
)

const (
	serviceName     = "adventure-server"
	shutdownTimeout = 30 * time.Second
)

var (
	grpcPort   int
	storage    string
	redisAddr  string
	sqlitePath string
	logLevel   string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long: `Start the adventure gRPC server.

Configuration comes from ADVENTURE_* environment variables (and an optional
.env file); flags override them when set.`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 50051, "gRPC server port")
	serverCmd.Flags().StringVar(&storage, "storage", config.StorageMemory, "session storage: memory, redis or sqlite")
	serverCmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address for redis storage")
	serverCmd.Flags().StringVar(&sqlitePath, "sqlite-path", "adventure.db", "database file for sqlite storage")
	serverCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
}

// loadConfig reads the environment and applies explicitly set flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if err := config.ParseEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.GRPCPort = grpcPort
	}
	if flags.Changed("storage") {
		cfg.Storage = storage
	}
	if flags.Changed("redis-addr") {
		cfg.RedisAddr = redisAddr
	}
	if flags.Changed("sqlite-path") {
		cfg.SQLitePath = sqlitePath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, gracefully stopping...")
		cancel()
	}()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTELEndpoint)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}()

	sessionRepo, closeRepo, err := buildSessionRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo.Close(); err != nil {
			slog.Warn("Failed to close session storage", "error", err)
		}
	}()

	eventBus := events.NewBus()
	journal, err := adventure.NewJournal(eventBus, slog.Default().With("component", "journal"))
	if err != nil {
		return fmt.Errorf("failed to create event journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	adventureService, err := adventure.NewOrchestrator(&adventure.Config{
		SessionRepo: sessionRepo,
		IDGenerator: idgen.NewUUID("adv"),
		EventBus:    eventBus,
		SessionTTL:  cfg.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create adventure orchestrator: %w", err)
	}

	adventureHandler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		AdventureService: adventureService,
	})
	if err != nil {
		return fmt.Errorf("failed to create adventure handler: %w", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := newGRPCServer()

	// Register services
	v1alpha1.RegisterAdventureServiceServer(srv, adventureHandler)

	// Register health service
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("gRPC server starting",
			"port", cfg.GRPCPort,
			"storage", cfg.Storage,
			"session_ttl", cfg.SessionTTL.String(),
			"tracing", cfg.OTELEndpoint != "")
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down gRPC server...")
		healthServer.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			slog.Info("Server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// newGRPCServer builds a server with logging, recovery and tracing
func newGRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	logger := grpc_logging.LoggerFunc(logFunc)

	base := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(logger),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(logger),
			grpc_recovery.StreamServerInterceptor(),
		),
	}

	return grpc.NewServer(append(base, opts...)...)
}

// buildSessionRepository opens the configured store. The returned closer
// releases connections and stops background purging.
func buildSessionRepository(ctx context.Context, cfg *config.Config) (sessions.Repository, io.Closer, error) {
	switch cfg.Storage {
	case config.StorageRedis:
		client, err := redis.NewClient(cfg.RedisAddr, &redis.Options{
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}

		repo, err := sessions.NewRedis(&sessions.RedisConfig{
			Client: client,
			Clock:  clock.New(),
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to create redis session repository: %w", err)
		}
		return repo, client, nil

	case config.StorageSQLite:
		store, err := sessions.OpenSQLite(cfg.SQLitePath, clock.New())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite session store: %w", err)
		}
		purger := startPurger(ctx, store, cfg.PurgeInterval)
		return store, closerFunc(func() error {
			purger()
			return store.Close()
		}), nil

	default:
		return sessions.NewInMemory(clock.New()), closerFunc(func() error { return nil }), nil
	}
}

// startPurger removes expired SQLite sessions every interval until stopped
func startPurger(ctx context.Context, store *sessions.SQLiteStore, interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, err := store.PurgeExpired(ctx)
				if err != nil {
					slog.Warn("Failed to purge expired sessions", "error", err)
					continue
				}
				if purged > 0 {
					slog.Info("Purged expired sessions", "count", purged)
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
