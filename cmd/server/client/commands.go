package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
	v1alpha1 "github.com/RevenantSoul/Text-base-RPG-Game/internal/handlers/adventure/v1alpha1"
)

var startCmd = &cobra.Command{
	Use:   "start [player-name]",
	Short: "Start a new adventure",
	Long: `Start a new adventure and print the session ID to use with the other commands.
The player name defaults to Hero.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return withClient(cmd, func(ctx context.Context, c *v1alpha1.Client) error {
			view, err := c.StartSession(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session: %s\n\n", view.SessionID)
			printView(cmd, view)
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show the full story so far and the current status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *v1alpha1.Client) error {
			view, err := c.GetSession(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get session: %w", err)
			}
			printView(cmd, view)
			if view.ExpiresAt != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Expires at: %s\n", view.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		})
	},
}

var exploreCmd = &cobra.Command{
	Use:   "explore [session-id]",
	Short: "🌲 Explore and see what turns up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *v1alpha1.Client) error {
			view, err := c.Explore(ctx, args[0])
			if err != nil {
				return actionError("explore", err)
			}
			printView(cmd, view)
			return nil
		})
	},
}

var attackCmd = &cobra.Command{
	Use:   "attack [session-id] [quick|heavy|magic]",
	Short: "⚔️ Attack in the given style",
	Long: `Attack in one of three styles. Every attack costs 5 HP.

  quick  weapon damage plus armor bonus
  heavy  3 more damage
  magic  5 more damage`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *v1alpha1.Client) error {
			view, err := c.Attack(ctx, args[0], game.AttackStyle(args[1]))
			if err != nil {
				return actionError("attack", err)
			}
			printView(cmd, view)
			return nil
		})
	},
}

var quitCmd = &cobra.Command{
	Use:   "quit [session-id]",
	Short: "🚪 End the adventure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *v1alpha1.Client) error {
			view, err := c.Quit(ctx, args[0])
			if err != nil {
				return actionError("quit", err)
			}
			printView(cmd, view)
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Discard a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *v1alpha1.Client) error {
			deleted, err := c.DeleteSession(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete session: %w", err)
			}
			if deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s deleted\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s did not exist\n", args[0])
			}
			return nil
		})
	},
}

func withClient(cmd *cobra.Command, fn func(context.Context, *v1alpha1.Client) error) error {
	c, cleanup, err := createAdventureClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	return fn(ctx, c)
}

func printView(cmd *cobra.Command, view *v1alpha1.SessionView) {
	PrintEvents(cmd.OutOrStdout(), view.Events)
	PrintStatus(cmd.OutOrStdout(), view.Character)
}

// actionError explains a rejected action in game terms
func actionError(action string, err error) error {
	switch {
	case errors.IsInvalidSessionState(err):
		return fmt.Errorf("cannot %s: the adventure is over (%s)", action, errors.GetMessage(err))
	case errors.IsNotFound(err):
		return fmt.Errorf("cannot %s: session not found or expired", action)
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}
