package oauth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}

func TestStateStore_GenerateState(t *testing.T) {
	rdb, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)

	state, err := store.GenerateState(context.Background(), "google", "http://localhost:3000")
	require.NoError(t, err)
	assert.Len(t, state, 64)
	assert.Equal(t, stateTTL, mr.TTL(stateKeyPrefix+state))
}

func TestStateStore_ValidateState_ConsumedOnce(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "google", "http://localhost:3000/login")
	require.NoError(t, err)

	data, err := store.ValidateState(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "google", data.Provider)
	assert.Equal(t, "http://localhost:3000/login", data.RedirectURI)

	_, err = store.ValidateState(ctx, state)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateStore_ValidateState_Expired(t *testing.T) {
	rdb, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStateStore(rdb)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "google", "")
	require.NoError(t, err)

	mr.FastForward(stateTTL + time.Second)

	_, err = store.ValidateState(ctx, state)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateStore_ValidateState_Empty(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := NewStateStore(rdb).ValidateState(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyState)
}
