// Package main provides an interactive terminal client for the adventure server
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	serverclient "github.com/RevenantSoul/Text-base-RPG-Game/cmd/server/client"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
	v1alpha1 "github.com/RevenantSoul/Text-base-RPG-Game/internal/handlers/adventure/v1alpha1"
)

var (
	serverAddr string
	timeout    time.Duration
	playerName string
)

var rootCmd = &cobra.Command{
	Use:   "adventure-play",
	Short: "Play the text adventure interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		conn, err := serverclient.Dial(serverAddr)
		if err != nil {
			return err
		}
		defer func() {
			if err := conn.Close(); err != nil {
				log.Printf("Failed to close connection: %v", err)
			}
		}()

		return play(cmd.Context(), v1alpha1.NewClient(conn), os.Stdin, cmd.OutOrStdout(), playerName)
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump [session-id]",
	Short: "Print a session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		conn, err := serverclient.Dial(serverAddr)
		if err != nil {
			return err
		}
		defer func() {
			if err := conn.Close(); err != nil {
				log.Printf("Failed to close connection: %v", err)
			}
		}()

		view, err := v1alpha1.NewClient(conn).GetSession(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		// Pretty print the response
		output, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(output))
		return nil
	},
}

const menu = `
Choose an action:
  1) 🌲 Explore
  2) ⚡ Quick Attack
  3) 💥 Heavy Attack
  4) 🔮 Magic Attack
  5) 🚪 Quit
> `

// play runs the menu loop until the session ends or input runs out
func play(ctx context.Context, c *v1alpha1.Client, in io.Reader, out io.Writer, name string) error {
	view, err := call(ctx, func(ctx context.Context) (*v1alpha1.SessionView, error) {
		return c.StartSession(ctx, name)
	})
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	render(out, view)

	scanner := bufio.NewScanner(in)
	for view.Character.Status == game.SessionStatusActive {
		fmt.Fprint(out, menu)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		action, ok := parseChoice(scanner.Text())
		if !ok {
			fmt.Fprintln(out, "❓ Pick a number from 1 to 5.")
			continue
		}

		next, err := call(ctx, func(ctx context.Context) (*v1alpha1.SessionView, error) {
			return action(ctx, c, view.SessionID)
		})
		if err != nil {
			if errors.IsInvalidSessionState(err) {
				fmt.Fprintln(out, "The adventure is already over.")
				return nil
			}
			return err
		}

		view = next
		fmt.Fprintln(out)
		render(out, view)
	}

	return nil
}

type actionFunc func(ctx context.Context, c *v1alpha1.Client, sessionID string) (*v1alpha1.SessionView, error)

func attackWith(style game.AttackStyle) actionFunc {
	return func(ctx context.Context, c *v1alpha1.Client, sessionID string) (*v1alpha1.SessionView, error) {
		return c.Attack(ctx, sessionID, style)
	}
}

func parseChoice(input string) (actionFunc, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "1", "explore", "e":
		return func(ctx context.Context, c *v1alpha1.Client, sessionID string) (*v1alpha1.SessionView, error) {
			return c.Explore(ctx, sessionID)
		}, true
	case "2", "quick":
		return attackWith(game.AttackStyleQuick), true
	case "3", "heavy":
		return attackWith(game.AttackStyleHeavy), true
	case "4", "magic":
		return attackWith(game.AttackStyleMagic), true
	case "5", "quit", "q":
		return func(ctx context.Context, c *v1alpha1.Client, sessionID string) (*v1alpha1.SessionView, error) {
			return c.Quit(ctx, sessionID)
		}, true
	default:
		return nil, false
	}
}

func call(ctx context.Context, fn func(context.Context) (*v1alpha1.SessionView, error)) (*v1alpha1.SessionView, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}

func render(out io.Writer, view *v1alpha1.SessionView) {
	serverclient.PrintEvents(out, view.Events)
	serverclient.PrintStatus(out, view.Character)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	rootCmd.Flags().StringVar(&playerName, "name", "", "player name (default Hero)")

	rootCmd.AddCommand(dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
