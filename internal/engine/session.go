// Package engine implements the adventure rules: combat resolution, the
// exploration lottery and the session lifecycle.
package engine

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
)

// SessionConfig configures a new or restored session
type SessionConfig struct {
	// Character to play. Nil starts a fresh character named PlayerName.
	Character *game.Character
	// PlayerName is used only when Character is nil
	PlayerName string
	// Status defaults to active
	Status game.SessionStatus
	// Roller supplies every random draw. Nil uses a crypto roller.
	Roller dice.Roller
}

// Validate checks that a restored character is consistent with its status
func (c *SessionConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Status != "" && !c.Status.IsValid() {
		vb.Fieldf("Status", "unknown session status %q", c.Status)
	}
	if c.Character != nil {
		errors.ValidateRange("Character.Health", c.Character.Health, 0, c.Character.MaxHealth, vb)
		if c.Character.Gold < 0 {
			vb.Field("Character.Gold", "must not be negative")
		}
		if c.Character.IsDefeated() && c.Status == game.SessionStatusActive {
			vb.Field("Status", "a defeated character cannot be active")
		}
	}

	return vb.Build()
}

// Session owns one character for one play-through. It is not safe for
// concurrent use; callers serialise actions.
type Session struct {
	character *game.Character
	status    game.SessionStatus
	roller    dice.Roller
}

// NewSession starts or restores a session
func NewSession(cfg *SessionConfig) (*Session, error) {
	if cfg == nil {
		cfg = &SessionConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid session config")
	}

	character := cfg.Character
	if character == nil {
		character = game.NewCharacter(cfg.PlayerName)
	}

	status := cfg.Status
	if status == "" {
		status = game.SessionStatusActive
	}

	roller := cfg.Roller
	if roller == nil {
		roller = &dice.CryptoRoller{}
	}

	return &Session{
		character: character,
		status:    status,
		roller:    roller,
	}, nil
}

// Status returns the lifecycle state
func (s *Session) Status() game.SessionStatus {
	return s.status
}

// Character returns the live character. Callers must not mutate it.
func (s *Session) Character() *game.Character {
	return s.character
}

// Snapshot returns a detached copy of the current state
func (s *Session) Snapshot() game.Snapshot {
	return game.NewSnapshot(s.character, s.status)
}

// Quit ends the session with a farewell
func (s *Session) Quit() (*game.Event, error) {
	if err := s.requireActive("quit"); err != nil {
		return nil, err
	}

	s.status = game.SessionStatusQuit

	return &game.Event{
		Kind:    game.EventKindFarewell,
		Message: "👋 Thanks for playing, adventurer!",
	}, nil
}

func (s *Session) requireActive(action string) error {
	if s.status.IsTerminal() {
		return errors.InvalidSessionStatef("cannot %s: session is %s", action, s.status).
			WithMeta("status", s.status.String()).
			WithMeta("action", action)
	}
	return nil
}
