package cache

import (
	"context"
	"errors"
	"soulsprint/internal/apperr"
	"soulsprint/internal/model"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session:abc", sessionKey("abc"))
}

func TestNewSessionCacheDefaultsTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	c := NewSessionCache(client, 0).(*sessionCache)
	assert.Equal(t, 24*time.Hour, c.ttl)

	c = NewSessionCache(client, time.Minute).(*sessionCache)
	assert.Equal(t, time.Minute, c.ttl)
}

func newMiniredisCache(t *testing.T) (*miniredis.Miniredis, SessionCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewSessionCache(client, time.Hour)
}

func TestSessionCacheRoundTrip(t *testing.T) {
	mr, c := newMiniredisCache(t)
	ctx := context.Background()

	s := model.NewSessionState("s1", time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	s.Answers = []int{1, 2}
	s.Transcript = model.Transcript{{Speaker: model.SpeakerUser, Text: "hello"}}
	require.NoError(t, c.Save(ctx, s))
	assert.Equal(t, time.Hour, mr.TTL("session:s1"))

	got, err := c.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got.Answers)
	assert.Equal(t, "hello", got.Transcript[0].Text)
	assert.Equal(t, model.SessionNotStarted, got.Status)

	require.NoError(t, c.Delete(ctx, "s1"))
	_, err = c.Load(ctx, "s1")
	assert.True(t, errors.Is(err, apperr.ErrSessionNotFound))
}

func TestSessionCacheRejectsStaleVersion(t *testing.T) {
	_, c := newMiniredisCache(t)
	ctx := context.Background()

	s := model.NewSessionState("s1", time.Now())
	require.NoError(t, c.Save(ctx, s))
	s.Version = 1
	require.NoError(t, c.Save(ctx, s))

	stale := s.Clone()
	stale.Version = 1
	stale.Answers = []int{3}
	err := c.Save(ctx, stale)
	assert.True(t, errors.Is(err, apperr.ErrVersionConflict))

	got, err := c.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Answers)
}
