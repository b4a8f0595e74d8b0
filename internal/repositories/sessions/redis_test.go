package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/pkg/clock"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/repositories/sessions"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/testutils"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/testutils/builders"
)

func TestNewRedis_Validation(t *testing.T) {
	_, err := sessions.NewRedis(nil)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = sessions.NewRedis(&sessions.RedisConfig{})
	assert.Error(t, err)
}

func TestRedisRepository_KeyAndTTL(t *testing.T) {
	client, mr := testutils.CreateTestRedisClient(t)
	repo, err := sessions.NewRedis(&sessions.RedisConfig{
		Client: client,
		Clock:  clock.NewFake(testStart),
	})
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), sessions.CreateInput{
		Session: builders.NewSessionBuilder().WithID("abc").Build(),
		TTL:     30 * time.Minute,
	})
	require.NoError(t, err)

	assert.True(t, mr.Exists(sessions.KeyPrefix+"abc"))
	assert.Equal(t, 30*time.Minute, mr.TTL(sessions.KeyPrefix+"abc"))
}

func TestRedisRepository_CorruptPayload(t *testing.T) {
	client, mr := testutils.CreateTestRedisClient(t)
	require.NoError(t, mr.Set(sessions.KeyPrefix+"bad", "{not json"))

	repo, err := sessions.NewRedis(&sessions.RedisConfig{
		Client: client,
		Clock:  clock.NewFake(testStart),
	})
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), sessions.GetInput{SessionID: "bad"})
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))
}
