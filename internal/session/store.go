package session

import (
	"context"
	"soulsprint/internal/apperr"
	"soulsprint/internal/model"
	"sync"
)

// Store is the persistence port for session snapshots.
// Load returns apperr.ErrSessionNotFound for unknown ids. Save returns
// apperr.ErrVersionConflict when another writer already stored that version.
type Store interface {
	Load(ctx context.Context, id string) (*model.SessionState, error)
	Save(ctx context.Context, state *model.SessionState) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.SessionState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*model.SessionState)}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*model.SessionState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrSessionNotFound, "session %s", id)
	}
	return s.Clone(), nil
}

// Save rejects a state whose version is not newer than the stored one
func (m *MemoryStore) Save(ctx context.Context, state *model.SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.sessions[state.ID]; ok && cur.Version >= state.Version {
		return apperr.Wrap(apperr.ErrVersionConflict, "session %s at version %d", state.ID, state.Version)
	}
	m.sessions[state.ID] = state.Clone()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// TieredStore reads through a fast cache to a durable store and writes both
type TieredStore struct {
	cache   Store
	durable Store
}

func NewTieredStore(cache, durable Store) *TieredStore {
	return &TieredStore{cache: cache, durable: durable}
}

func (t *TieredStore) Load(ctx context.Context, id string) (*model.SessionState, error) {
	s, err := t.cache.Load(ctx, id)
	if err == nil {
		return s, nil
	}
	if apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}
	s, err = t.durable.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	// backfill; a cache miss next time just costs another durable read
	_ = t.cache.Save(ctx, s)
	return s, nil
}

func (t *TieredStore) Save(ctx context.Context, state *model.SessionState) error {
	if err := t.durable.Save(ctx, state); err != nil {
		return err
	}
	return t.cache.Save(ctx, state)
}

func (t *TieredStore) Delete(ctx context.Context, id string) error {
	if err := t.cache.Delete(ctx, id); err != nil {
		return err
	}
	return t.durable.Delete(ctx, id)
}
