package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ardenfx/stagehand/pkg/adapters/redis"
	"github.com/ardenfx/stagehand/pkg/domain"
	porttests "github.com/ardenfx/stagehand/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStore_Contract(t *testing.T) {
	_, client := testClient(t)
	porttests.ContextStoreContract(t, redis.NewFromClient(client))
}

func TestStore_RoundTrip(t *testing.T) {
	_, client := testClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	original := &domain.Context{
		Project:             "alpha",
		Entity:              "sh010",
		Task:                "comp",
		FilesystemLocations: []string{"/proj/alpha/sh010"},
	}
	require.NoError(t, store.Save(ctx, "session-1", original))

	loaded, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, original.Equal(loaded))

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"session-1"}, keys)
}

func TestStore_LoadMissing(t *testing.T) {
	_, client := testClient(t)
	store := redis.NewFromClient(client)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrContextNotFound)
}

func TestStore_TTLExpiration(t *testing.T) {
	mr, client := testClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "session-ttl", &domain.Context{Project: "alpha"}))

	mr.FastForward(2 * time.Second)

	_, err := store.Load(ctx, "session-ttl")
	assert.ErrorIs(t, err, domain.ErrContextNotFound)
}

func TestStore_Prefix(t *testing.T) {
	mr, client := testClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("farm:ctx:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "job-42", &domain.Context{Project: "alpha"}))
	assert.True(t, mr.Exists("farm:ctx:job-42"))
	assert.True(t, mr.Exists("farm:ctx:index"))

	require.NoError(t, store.Delete(ctx, "job-42"))
	assert.False(t, mr.Exists("farm:ctx:job-42"))
}

func TestLocker_MutualExclusion(t *testing.T) {
	_, client := testClient(t)
	locker := redis.NewLocker(client, "stagehand:", redis.WithRetryInterval(10*time.Millisecond))
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "versionup:tmpl", time.Minute)
	require.NoError(t, err)

	// A second claim on the same key cannot succeed while held.
	blocked, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blocked, "versionup:tmpl", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	// Released: the next claim goes through immediately.
	unlock2, err := locker.Lock(ctx, "versionup:tmpl", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_IndependentKeys(t *testing.T) {
	_, client := testClient(t)
	locker := redis.NewLocker(client, "stagehand:")
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "a", time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlockA(ctx) }()

	unlockB, err := locker.Lock(ctx, "b", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlockB(ctx))
}
