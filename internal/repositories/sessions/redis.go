package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/pkg/clock"
	redisclient "github.com/RevenantSoul/Text-base-RPG-Game/internal/redis"
)

// KeyPrefix namespaces session keys: adventure_session:{session_id}
const KeyPrefix = "adventure_session:"

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// NewRedis creates a Redis-backed session repository. Sessions are stored as
// JSON with a Redis TTL matching ExpiresAt.
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Create stores a new session with the specified TTL
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateSession(input.Session); err != nil {
		return nil, err
	}

	now := r.clock.Now()
	stored := stampCreate(input.Session, now, input.TTL)

	sessionJSON, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	ok, err := r.client.SetNX(ctx, r.buildKey(stored.ID), sessionJSON, stored.ExpiresAt.Sub(now)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store session in Redis")
	}
	if !ok {
		return nil, errors.AlreadyExists(errSessionExists).WithMeta("session_id", stored.ID)
	}

	return &CreateOutput{Session: stored}, nil
}

// Get retrieves a session by ID
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDNil)
	}

	key := r.buildKey(input.SessionID)

	sessionJSON, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFound(errNotFound).WithMeta("session_id", input.SessionID)
		}
		return nil, errors.Wrapf(err, "failed to get session from Redis")
	}

	var session SessionData
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session")
	}

	// Redis expiry is authoritative, but the clock may run ahead of it in tests
	if !r.clock.Now().Before(session.ExpiresAt) {
		_ = r.client.Del(ctx, key)
		return nil, errors.NotFound(errExpired).WithMeta("session_id", input.SessionID)
	}

	return &GetOutput{Session: &session}, nil
}

// Update replaces a live session
func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateSession(input.Session); err != nil {
		return nil, err
	}

	now := r.clock.Now()
	stored := stampUpdate(input.Session, now, input.TTL)

	remainingTTL := stored.ExpiresAt.Sub(now)
	if remainingTTL <= 0 {
		return nil, errors.NotFound(errExpired).WithMeta("session_id", stored.ID)
	}

	sessionJSON, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	ok, err := r.client.SetXX(ctx, r.buildKey(stored.ID), sessionJSON, remainingTTL).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update session in Redis")
	}
	if !ok {
		return nil, errors.NotFound(errNotFound).WithMeta("session_id", stored.ID)
	}

	return &UpdateOutput{Session: stored}, nil
}

// Delete removes a session
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDNil)
	}

	removed, err := r.client.Del(ctx, r.buildKey(input.SessionID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete session from Redis")
	}

	return &DeleteOutput{Deleted: removed > 0}, nil
}

func (r *redisRepository) buildKey(sessionID string) string {
	return fmt.Sprintf("%s%s", KeyPrefix, sessionID)
}
