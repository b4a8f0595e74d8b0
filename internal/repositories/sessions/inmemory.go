package sessions

import (
	"context"
	"sync"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	clock clock.Clock
	store map[string]*SessionData
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// NewInMemory creates a new in-memory repository. A nil clock uses real time.
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		clock: c,
		store: make(map[string]*SessionData),
	}
}

// Create stores a new session
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateSession(input.Session); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if existing, ok := r.store[input.Session.ID]; ok && now.Before(existing.ExpiresAt) {
		return nil, errors.AlreadyExists(errSessionExists).WithMeta("session_id", input.Session.ID)
	}

	stored := stampCreate(input.Session, now, input.TTL)
	r.store[stored.ID] = stored

	return &CreateOutput{Session: stored.Clone()}, nil
}

// Get retrieves a session by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDNil)
	}

	r.mu.RLock()
	data, ok := r.store[input.SessionID]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.NotFound(errNotFound).WithMeta("session_id", input.SessionID)
	}
	if !r.clock.Now().Before(data.ExpiresAt) {
		r.deleteIfExpired(input.SessionID)
		return nil, errors.NotFound(errExpired).WithMeta("session_id", input.SessionID)
	}

	// Return a copy to prevent external modification
	return &GetOutput{Session: data.Clone()}, nil
}

// Update replaces a live session
func (r *InMemoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateSession(input.Session); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	existing, ok := r.store[input.Session.ID]
	if !ok || !now.Before(existing.ExpiresAt) {
		return nil, errors.NotFound(errNotFound).WithMeta("session_id", input.Session.ID)
	}

	stored := stampUpdate(input.Session, now, input.TTL)
	stored.CreatedAt = existing.CreatedAt
	if input.TTL <= 0 {
		stored.ExpiresAt = existing.ExpiresAt
	}
	r.store[stored.ID] = stored

	return &UpdateOutput{Session: stored.Clone()}, nil
}

// Delete removes a session
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDNil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.store[input.SessionID]
	delete(r.store, input.SessionID)

	return &DeleteOutput{Deleted: ok}, nil
}

// deleteIfExpired re-checks expiry under the write lock before removing
func (r *InMemoryRepository) deleteIfExpired(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if data, ok := r.store[sessionID]; ok && !r.clock.Now().Before(data.ExpiresAt) {
		delete(r.store, sessionID)
	}
}
