package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryEscalationCache is the in-process EscalationCache
type MemoryEscalationCache struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryEscalationCache() *MemoryEscalationCache {
	return &MemoryEscalationCache{entries: make(map[string]time.Time)}
}

func (c *MemoryEscalationCache) Add(ctx context.Context, sessionID string, at time.Time) error {
	c.mu.Lock()
	c.entries[sessionID] = at.UTC()
	c.mu.Unlock()
	return nil
}

func (c *MemoryEscalationCache) Remove(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	delete(c.entries, sessionID)
	c.mu.Unlock()
	return nil
}

func (c *MemoryEscalationCache) Recent(ctx context.Context, limit int) ([]EscalationEntry, error) {
	c.mu.Lock()
	out := make([]EscalationEntry, 0, len(c.entries))
	for id, at := range c.entries {
		out = append(out, EscalationEntry{SessionID: id, EscalatedAt: at})
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].EscalatedAt.Equal(out[j].EscalatedAt) {
			return out[i].SessionID < out[j].SessionID
		}
		return out[i].EscalatedAt.After(out[j].EscalatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
