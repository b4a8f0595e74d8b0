package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
)

// PrintEvents writes each event's narration on its own lines
func PrintEvents(w io.Writer, events []game.Event) {
	for _, event := range events {
		fmt.Fprintln(w, event.Message)
	}
}

// PrintStatus writes the status panel for a snapshot
func PrintStatus(w io.Writer, snapshot game.Snapshot) {
	armor := snapshot.Armor
	if armor == "" {
		armor = "None"
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "🎯 STATUS (%s)\n", snapshot.Name)
	fmt.Fprintln(w, strings.Repeat("=", 20))
	fmt.Fprintf(w, "❤️ HP: %d\n", snapshot.Health)
	fmt.Fprintf(w, "💰 Gold: %d\n", snapshot.Gold)
	fmt.Fprintf(w, "🗡️ Weapon: %s\n", snapshot.Weapon)
	fmt.Fprintf(w, "🛡️ Armor: %s\n", armor)
	fmt.Fprintln(w, "🎒 Inventory:")
	for _, item := range snapshot.Inventory {
		fmt.Fprintf(w, "  • %s\n", item)
	}
	if snapshot.Status != game.SessionStatusActive {
		fmt.Fprintf(w, "Session %s\n", snapshot.Status)
	}
}
