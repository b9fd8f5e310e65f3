package session

import (
	"context"
	"soulsprint/internal/model"
	"sync"
	"time"
)

// Holder serialises writers per session id and persists through a Store.
// Different sessions never contend.
type Holder struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sem  chan struct{}
	refs int
}

// NewHolder creates a holder over a store
func NewHolder(store Store) *Holder {
	return &Holder{
		store: store,
		now:   time.Now,
		locks: make(map[string]*sessionLock),
	}
}

// Now is the holder's clock, shared with callers that stamp state
func (h *Holder) Now() time.Time {
	return h.now().UTC()
}

// Create persists a fresh session
func (h *Holder) Create(ctx context.Context, id string) (*model.SessionState, error) {
	s := model.NewSessionState(id, h.Now())
	if err := h.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

// Get loads the last committed state
func (h *Holder) Get(ctx context.Context, id string) (*model.SessionState, error) {
	return h.store.Load(ctx, id)
}

// Delete discards a session
func (h *Holder) Delete(ctx context.Context, id string) error {
	unlock, err := h.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()
	return h.store.Delete(ctx, id)
}

// Update runs fn on a private copy of the session while holding the session's
// write lock. The copy is committed only if fn succeeds and ctx is still live;
// otherwise the stored state is untouched.
func (h *Holder) Update(ctx context.Context, id string, fn func(ctx context.Context, s *model.SessionState) error) (*model.SessionState, error) {
	unlock, err := h.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := h.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := current.Clone()
	if err := fn(ctx, draft); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	draft.Version = current.Version + 1
	if err := h.store.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft.Clone(), nil
}

func (h *Holder) lock(ctx context.Context, id string) (func(), error) {
	h.mu.Lock()
	l, ok := h.locks[id]
	if !ok {
		l = &sessionLock{sem: make(chan struct{}, 1)}
		h.locks[id] = l
	}
	l.refs++
	h.mu.Unlock()

	release := func() {
		h.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(h.locks, id)
		}
		h.mu.Unlock()
	}

	select {
	case l.sem <- struct{}{}:
		return func() {
			<-l.sem
			release()
		}, nil
	case <-ctx.Done():
		release()
		return nil, ctx.Err()
	}
}
