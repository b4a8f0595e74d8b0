// Package builders provides test data builders for creating test fixtures
package builders

import (
	"time"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/repositories/sessions"
)

// SessionBuilder provides a fluent interface for building test SessionData instances
type SessionBuilder struct {
	session *sessions.SessionData
}

// NewSessionBuilder creates a new builder holding a fresh active session
func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		session: &sessions.SessionData{
			ID:        "session-test-123",
			Character: game.NewCharacter(game.DefaultPlayerName),
			Status:    game.SessionStatusActive,
		},
	}
}

// WithID sets the session ID
func (b *SessionBuilder) WithID(id string) *SessionBuilder {
	b.session.ID = id
	return b
}

// WithName sets the character name
func (b *SessionBuilder) WithName(name string) *SessionBuilder {
	b.session.Character.Name = name
	return b
}

// WithHealth sets current health
func (b *SessionBuilder) WithHealth(health int) *SessionBuilder {
	b.session.Character.Health = health
	return b
}

// WithGold sets the gold total
func (b *SessionBuilder) WithGold(gold int) *SessionBuilder {
	b.session.Character.Gold = gold
	return b
}

// WithWeapon equips a weapon without touching the inventory
func (b *SessionBuilder) WithWeapon(weapon string) *SessionBuilder {
	b.session.Character.Weapon = weapon
	return b
}

// WithArmor equips armor without touching the inventory
func (b *SessionBuilder) WithArmor(armor string) *SessionBuilder {
	b.session.Character.Armor = armor
	return b
}

// WithInventory replaces the inventory
func (b *SessionBuilder) WithInventory(items ...string) *SessionBuilder {
	b.session.Character.Inventory = append([]string(nil), items...)
	return b
}

// WithStatus sets the session status
func (b *SessionBuilder) WithStatus(status game.SessionStatus) *SessionBuilder {
	b.session.Status = status
	return b
}

// WithEvents replaces the event log
func (b *SessionBuilder) WithEvents(events ...game.Event) *SessionBuilder {
	b.session.Events = append([]game.Event(nil), events...)
	return b
}

// WithTimestamps sets created/updated to at and expiry to at+ttl
func (b *SessionBuilder) WithTimestamps(at time.Time, ttl time.Duration) *SessionBuilder {
	b.session.CreatedAt = at
	b.session.UpdatedAt = at
	b.session.ExpiresAt = at.Add(ttl)
	return b
}

// Defeated marks the character dead and the session terminal
func (b *SessionBuilder) Defeated() *SessionBuilder {
	b.session.Character.Health = 0
	b.session.Status = game.SessionStatusDefeated
	return b
}

// Build returns the constructed session
func (b *SessionBuilder) Build() *sessions.SessionData {
	return b.session.Clone()
}
