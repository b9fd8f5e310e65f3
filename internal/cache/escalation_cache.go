package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const escalationKey = "escalations"

// EscalationCache is a Redis ZSET of escalated sessions scored by escalation time
type EscalationCache interface {
	Add(ctx context.Context, sessionID string, at time.Time) error
	Remove(ctx context.Context, sessionID string) error
	Recent(ctx context.Context, limit int) ([]EscalationEntry, error)
}

// EscalationEntry is one escalated session
type EscalationEntry struct {
	SessionID   string    `json:"sessionId"`
	EscalatedAt time.Time `json:"escalatedAt"`
}

type escalationCache struct {
	client *redis.Client
}

// NewEscalationCache creates a new escalation index
func NewEscalationCache(client *redis.Client) EscalationCache {
	return &escalationCache{client: client}
}

func (c *escalationCache) Add(ctx context.Context, sessionID string, at time.Time) error {
	return c.client.ZAdd(ctx, escalationKey, redis.Z{
		Score:  float64(at.Unix()),
		Member: sessionID,
	}).Err()
}

func (c *escalationCache) Remove(ctx context.Context, sessionID string) error {
	return c.client.ZRem(ctx, escalationKey, sessionID).Err()
}

func (c *escalationCache) Recent(ctx context.Context, limit int) ([]EscalationEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	results, err := c.client.ZRevRangeWithScores(ctx, escalationKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]EscalationEntry, 0, len(results))
	for _, z := range results {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, EscalationEntry{
			SessionID:   id,
			EscalatedAt: time.Unix(int64(z.Score), 0).UTC(),
		})
	}
	return entries, nil
}
