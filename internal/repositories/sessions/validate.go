package sessions

import (
	"time"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
)

func validateSession(session *SessionData) error {
	if session == nil {
		return errors.InvalidArgument(errSessionNil)
	}
	if session.ID == "" {
		return errors.InvalidArgument(errSessionIDNil)
	}
	if session.Character == nil {
		return errors.InvalidArgument(errCharacterNil)
	}
	return nil
}

// stampCreate sets the timestamps of a new session on a copy
func stampCreate(session *SessionData, now time.Time, ttl time.Duration) *SessionData {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	stored := session.Clone()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.ExpiresAt = now.Add(ttl)
	return stored
}

// stampUpdate sets UpdatedAt and, with a positive TTL, slides the expiry
func stampUpdate(session *SessionData, now time.Time, ttl time.Duration) *SessionData {
	stored := session.Clone()
	stored.UpdatedAt = now
	if ttl > 0 {
		stored.ExpiresAt = now.Add(ttl)
	}
	return stored
}
