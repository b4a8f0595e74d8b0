// Package client provides commands for playing the adventure over gRPC
package client

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	v1alpha1 "github.com/RevenantSoul/Text-base-RPG-Game/internal/handlers/adventure/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Play the adventure against a running server",
	Long:  `Client commands drive an adventure session by making real gRPC requests.`,
}

func init() {
	// Add persistent flags for all client commands
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ClientCmd.AddCommand(startCmd)
	ClientCmd.AddCommand(showCmd)
	ClientCmd.AddCommand(exploreCmd)
	ClientCmd.AddCommand(attackCmd)
	ClientCmd.AddCommand(quitCmd)
	ClientCmd.AddCommand(deleteCmd)
}

// Dial creates a gRPC connection to addr with client tracing enabled
func Dial(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// createAdventureClient creates an adventure service client
func createAdventureClient() (*v1alpha1.Client, func(), error) {
	conn, err := Dial(serverAddr)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return v1alpha1.NewClient(conn), cleanup, nil
}
