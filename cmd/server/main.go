// Package main is the entry point for the adventure gRPC server and client
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/RevenantSoul/Text-base-RPG-Game/cmd/server/client"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/config"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   "adventure",
	Short: "Text adventure gRPC server",
	Long:  `Adventure serves a small text RPG over gRPC: explore, fight, collect gear and try not to fall in battle.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := config.LoadDotEnv(envFiles...)
		if err != nil {
			return err
		}
		for _, file := range loaded {
			slog.Debug("Loaded env file", "file", file)
		}
		return nil
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load (default .env when present)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
