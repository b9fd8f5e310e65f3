package session

import (
	"context"
	"errors"
	"soulsprint/internal/apperr"
	"soulsprint/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreIsolatesCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	s := model.NewSessionState("s1", t0)
	require.NoError(t, store.Save(ctx, s))

	s.Answers = append(s.Answers, 3)
	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Answers)

	got.Transcript = append(got.Transcript, model.ChatTurn{Text: "x"})
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, again.Transcript)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.True(t, errors.Is(err, apperr.ErrSessionNotFound))
}

type countingStore struct {
	*MemoryStore
	loads int
	saves int
}

func (c *countingStore) Load(ctx context.Context, id string) (*model.SessionState, error) {
	c.loads++
	return c.MemoryStore.Load(ctx, id)
}

func (c *countingStore) Save(ctx context.Context, s *model.SessionState) error {
	c.saves++
	return c.MemoryStore.Save(ctx, s)
}

func TestTieredStoreReadThrough(t *testing.T) {
	cache := &countingStore{MemoryStore: NewMemoryStore()}
	durable := &countingStore{MemoryStore: NewMemoryStore()}
	store := NewTieredStore(cache, durable)
	ctx := context.Background()

	require.NoError(t, durable.MemoryStore.Save(ctx, model.NewSessionState("s1", t0)))

	_, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, durable.loads)
	assert.Equal(t, 1, cache.saves, "miss backfills the cache")

	_, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, durable.loads, "second read served by cache")

	_, err = store.Load(ctx, "nope")
	assert.True(t, errors.Is(err, apperr.ErrSessionNotFound))
}

func TestTieredStoreWritesBoth(t *testing.T) {
	cache := NewMemoryStore()
	durable := NewMemoryStore()
	store := NewTieredStore(cache, durable)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, model.NewSessionState("s1", t0)))
	_, err := cache.Load(ctx, "s1")
	assert.NoError(t, err)
	_, err = durable.Load(ctx, "s1")
	assert.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = durable.Load(ctx, "s1")
	assert.Error(t, err)
}

func TestMemoryStoreRejectsStaleVersion(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	s := model.NewSessionState("s1", t0)
	require.NoError(t, store.Save(ctx, s))

	s.Version = 1
	require.NoError(t, store.Save(ctx, s))

	err := store.Save(ctx, s)
	assert.True(t, errors.Is(err, apperr.ErrVersionConflict))
}
