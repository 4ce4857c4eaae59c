// Package tests holds reusable contract suites for the port interfaces.
// Adapter packages run them against their implementations so every store
// agrees on edge-case behavior.
package tests

import (
	"context"
	"testing"

	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContextStoreContract verifies that a store complies with
// ports.ContextStore. The store must be empty when passed in.
func ContextStoreContract(t *testing.T, store ports.ContextStore) {
	t.Helper()
	ctx := context.Background()

	sample := func(project string) *domain.Context {
		return &domain.Context{
			Project:             project,
			Entity:              "sh010",
			Task:                "comp",
			FilesystemLocations: []string{"/proj/" + project + "/sh010"},
		}
	}

	t.Run("SaveAndLoad", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "k1", sample("alpha")))
		loaded, err := store.Load(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, sample("alpha"), loaded)
	})

	t.Run("MissingKeyIsNotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrContextNotFound)
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "k1", sample("beta")))
		loaded, err := store.Load(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, "beta", loaded.Project)
	})

	t.Run("ListReturnsKnownKeys", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "k2", sample("gamma")))
		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, "k1")
		assert.Contains(t, keys, "k2")
	})

	t.Run("DeleteRemoves", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "k1"))
		_, err := store.Load(ctx, "k1")
		assert.ErrorIs(t, err, domain.ErrContextNotFound)

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, keys, "k1")
	})

	t.Run("DeleteMissingIsNoop", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "nope"))
	})
}
