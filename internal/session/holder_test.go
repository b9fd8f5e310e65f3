package session

import (
	"context"
	"errors"
	"soulsprint/internal/apperr"
	"soulsprint/internal/model"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderCreateAndGet(t *testing.T) {
	h := NewHolder(NewMemoryStore())
	ctx := context.Background()

	created, err := h.Create(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.SessionNotStarted, created.Status)

	got, err := h.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = h.Get(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrSessionNotFound))
}

func TestHolderUpdateCommits(t *testing.T) {
	h := NewHolder(NewMemoryStore())
	ctx := context.Background()
	_, err := h.Create(ctx, "s1")
	require.NoError(t, err)

	out, err := h.Update(ctx, "s1", func(ctx context.Context, s *model.SessionState) error {
		s.Answers = append(s.Answers, 2)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Version)

	got, err := h.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got.Answers)
}

func TestHolderUpdateErrorDiscards(t *testing.T) {
	h := NewHolder(NewMemoryStore())
	ctx := context.Background()
	_, err := h.Create(ctx, "s1")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = h.Update(ctx, "s1", func(ctx context.Context, s *model.SessionState) error {
		s.Answers = append(s.Answers, 3)
		s.Transcript = append(s.Transcript, model.ChatTurn{Speaker: model.SpeakerUser, Text: "half"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := h.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Answers)
	assert.Empty(t, got.Transcript)
	assert.Equal(t, int64(0), got.Version)
}

func TestHolderUpdateCancelledDiscards(t *testing.T) {
	h := NewHolder(NewMemoryStore())
	_, err := h.Create(context.Background(), "s1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	_, err = h.Update(ctx, "s1", func(ctx context.Context, s *model.SessionState) error {
		s.Answers = append(s.Answers, 1)
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	got, err := h.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Answers)
}

func TestHolderSerialisesWriters(t *testing.T) {
	h := NewHolder(NewMemoryStore())
	ctx := context.Background()
	_, err := h.Create(ctx, "s1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Update(ctx, "s1", func(ctx context.Context, s *model.SessionState) error {
				s.Transcript = append(s.Transcript, model.ChatTurn{Speaker: model.SpeakerUser, Text: "m"})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := h.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got.Transcript, 50)
	assert.Equal(t, int64(50), got.Version)
	assert.Empty(t, h.locks)
}

func TestHolderLockWaitHonoursContext(t *testing.T) {
	h := NewHolder(NewMemoryStore())
	_, err := h.Create(context.Background(), "s1")
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		h.Update(context.Background(), "s1", func(ctx context.Context, s *model.SessionState) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = h.Update(ctx, "s1", func(ctx context.Context, s *model.SessionState) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}

func TestHoldersSharingAStoreDetectLostUpdates(t *testing.T) {
	store := NewMemoryStore()
	a, b := NewHolder(store), NewHolder(store)
	ctx := context.Background()
	_, err := a.Create(ctx, "s1")
	require.NoError(t, err)

	loaded := make(chan struct{})
	proceed := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := a.Update(ctx, "s1", func(_ context.Context, s *model.SessionState) error {
			close(loaded)
			<-proceed
			s.Answers = append(s.Answers, 1)
			return nil
		})
		done <- err
	}()

	<-loaded
	_, err = b.Update(ctx, "s1", func(_ context.Context, s *model.SessionState) error {
		s.Answers = append(s.Answers, 3)
		return nil
	})
	require.NoError(t, err)
	close(proceed)

	err = <-done
	assert.True(t, errors.Is(err, apperr.ErrVersionConflict))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, got.Answers)
	assert.Equal(t, int64(1), got.Version)
}
