// Package sessions provides the repository interface and stores for live
// adventure sessions
package sessions

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionsmock github.com/RevenantSoul/Text-base-RPG-Game/internal/repositories/sessions Repository

import (
	"context"
	"time"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
)

const (
	// DefaultTTL applies when a create input carries no TTL
	DefaultTTL = 24 * time.Hour

	errSessionNil    = "session cannot be nil"
	errSessionIDNil  = "session ID cannot be empty"
	errCharacterNil  = "session character cannot be nil"
	errSessionExists = "session already exists"
	errNotFound      = "session not found"
	errExpired       = "session has expired"
)

// SessionData is the persisted form of one play-through
type SessionData struct {
	ID        string             `json:"id"`
	Character *game.Character    `json:"character"`
	Status    game.SessionStatus `json:"status"`
	// Events is the full narration log, oldest first
	Events    []game.Event `json:"events"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Clone returns a deep copy so stores never share state with callers
func (s *SessionData) Clone() *SessionData {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Character = s.Character.Clone()
	clone.Events = append([]game.Event(nil), s.Events...)
	return &clone
}

// CreateInput contains parameters for creating a session
type CreateInput struct {
	Session *SessionData
	TTL     time.Duration
}

// CreateOutput contains the stored session with its timestamps set
type CreateOutput struct {
	Session *SessionData
}

// GetInput contains parameters for retrieving a session
type GetInput struct {
	SessionID string
}

// GetOutput contains the result of retrieving a session
type GetOutput struct {
	Session *SessionData
}

// UpdateInput replaces an existing session. A positive TTL slides the
// expiry to now+TTL; zero keeps the current expiry.
type UpdateInput struct {
	Session *SessionData
	TTL     time.Duration
}

// UpdateOutput contains the stored session
type UpdateOutput struct {
	Session *SessionData
}

// DeleteInput contains parameters for deleting a session
type DeleteInput struct {
	SessionID string
}

// DeleteOutput reports whether a session was removed
type DeleteOutput struct {
	Deleted bool
}

// Repository defines the interface for session storage operations.
// Missing and expired sessions are both NotFound.
type Repository interface {
	// Create stores a new session; AlreadyExists if the ID is live
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a session by ID
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces a live session; NotFound if it is missing or expired
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a session
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
