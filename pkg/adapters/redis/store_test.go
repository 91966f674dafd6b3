package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/inkmap/pkg/adapters/redis"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunCoordinateStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	wordID := domain.WordID("word-ttl")

	err := store.Save(ctx, wordID, domain.Coordinates{{1, 2}})
	assert.NoError(t, err)

	words, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, words, wordID)

	// Key expiration is driven by miniredis time.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, wordID)
	assert.ErrorIs(t, err, domain.ErrWordNotFound)

	// Index pruning compares against the wall clock.
	time.Sleep(1200 * time.Millisecond)

	words, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, words)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, "index", domain.Coordinates{{0, 0}})
	assert.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:coords:index"), "word key should carry the prefix")
	assert.True(t, mr.Exists("custom:app:index"), "index should carry the prefix")

	words, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []domain.WordID{"index"}, words, "a word named index must not clash with the index key")
}
