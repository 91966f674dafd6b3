package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCoordinateStoreContract runs a suite of tests to verify that a CoordinateStore
// implementation adheres to the defined interface contract.
func RunCoordinateStoreContract(t *testing.T, store CoordinateStore) {
	ctx := context.Background()
	wordID := domain.WordID("contract-word-" + time.Now().Format("20060102150405"))

	t.Run("Save and Load", func(t *testing.T) {
		coords := domain.Coordinates{{0, 0}, {10, 0}, {10, 10}}

		err := store.Save(ctx, wordID, coords)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, wordID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, coords, loaded, "order and values must survive a round trip")
	})

	t.Run("Save Replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, wordID, domain.Coordinates{{1, 1}}))
		require.NoError(t, store.Save(ctx, wordID, domain.Coordinates{{2.5, 3.25}, {4, 5}}))

		loaded, err := store.Load(ctx, wordID)
		require.NoError(t, err)
		assert.Equal(t, domain.Coordinates{{2.5, 3.25}, {4, 5}}, loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+wordID)
		assert.ErrorIs(t, err, domain.ErrWordNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, wordID, domain.Coordinates{{1, 2}})
		require.NoError(t, err)

		err = store.Delete(ctx, wordID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, wordID)
		assert.ErrorIs(t, err, domain.ErrWordNotFound, "Load after Delete should return ErrWordNotFound")

		assert.NoError(t, store.Delete(ctx, wordID), "deleting twice is not an error")
	})

	t.Run("Invalid Word ID", func(t *testing.T) {
		for _, bad := range []domain.WordID{"", "  ", "../escape", `a\b`} {
			assert.ErrorIs(t, store.Save(ctx, bad, domain.Coordinates{{1, 1}}), domain.ErrInvalidWordID, "Save %q", bad)

			_, err := store.Load(ctx, bad)
			assert.ErrorIs(t, err, domain.ErrInvalidWordID, "Load %q", bad)

			assert.ErrorIs(t, store.Delete(ctx, bad), domain.ErrInvalidWordID, "Delete %q", bad)
		}
	})

	t.Run("List", func(t *testing.T) {
		id1 := wordID + "-1"
		id2 := wordID + "-2"
		_ = store.Save(ctx, id1, domain.Coordinates{{0, 0}})
		_ = store.Save(ctx, id2, domain.Coordinates{{0, 0}})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		words, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, words, id1)
		assert.Contains(t, words, id2)
	})
}
