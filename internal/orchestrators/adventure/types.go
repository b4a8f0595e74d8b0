package adventure

import (
	"time"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
)

// StartSessionInput defines the request for starting a new adventure
type StartSessionInput struct {
	// PlayerName defaults to game.DefaultPlayerName when blank
	PlayerName string
}

// StartSessionOutput defines the response for starting a new adventure
type StartSessionOutput struct {
	SessionID string
	Events    []game.Event
	Snapshot  game.Snapshot
	ExpiresAt time.Time
}

// GetSessionInput defines the request for loading a session
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput carries the current state and the full event log
type GetSessionOutput struct {
	SessionID string
	Snapshot  game.Snapshot
	Events    []game.Event
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ExploreInput defines the request for exploring
type ExploreInput struct {
	SessionID string
}

// ExploreOutput carries the events produced by one exploration
type ExploreOutput struct {
	SessionID string
	Events    []game.Event
	Snapshot  game.Snapshot
}

// AttackInput defines the request for attacking with a style
type AttackInput struct {
	SessionID string
	Style     game.AttackStyle
}

// AttackOutput carries the events produced by one attack
type AttackOutput struct {
	SessionID string
	Events    []game.Event
	Snapshot  game.Snapshot
}

// QuitInput defines the request for ending a session
type QuitInput struct {
	SessionID string
}

// QuitOutput carries the farewell
type QuitOutput struct {
	SessionID string
	Events    []game.Event
	Snapshot  game.Snapshot
}

// DeleteSessionInput defines the request for discarding a session
type DeleteSessionInput struct {
	SessionID string
}

// DeleteSessionOutput reports whether anything was removed
type DeleteSessionOutput struct {
	Deleted bool
}
