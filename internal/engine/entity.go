package engine

import "github.com/KirkDiggler/rpg-toolkit/core"

// CharacterEntity identifies a session's character to rpg-toolkit, for
// example as the source of published events
type CharacterEntity struct {
	SessionID string
}

var _ core.Entity = (*CharacterEntity)(nil)

// GetID returns the owning session's ID
func (c *CharacterEntity) GetID() string {
	return c.SessionID
}

// GetType returns the entity type for rpg-toolkit
func (c *CharacterEntity) GetType() string {
	return "adventure_character"
}
