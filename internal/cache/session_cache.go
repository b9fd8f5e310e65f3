package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"soulsprint/internal/apperr"
	"soulsprint/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache keeps session snapshots in Redis as JSON with a sliding TTL
type SessionCache interface {
	Load(ctx context.Context, id string) (*model.SessionState, error)
	Save(ctx context.Context, state *model.SessionState) error
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (c *sessionCache) Load(ctx context.Context, id string) (*model.SessionState, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, apperr.Wrap(apperr.ErrSessionNotFound, "session %s", id)
	}
	if err != nil {
		return nil, err
	}
	var state model.SessionState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &state, nil
}

// Save writes state unless Redis already holds the same or a newer version.
// The check and the write run in one WATCH transaction.
func (c *sessionCache) Save(ctx context.Context, state *model.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	key := sessionKey(state.ID)
	conflict := apperr.Wrap(apperr.ErrVersionConflict, "session %s at version %d", state.ID, state.Version)

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == redis.Nil:
		case err != nil:
			return err
		default:
			var current struct {
				Version int64 `json:"version"`
			}
			if err := json.Unmarshal(stored, &current); err == nil && current.Version >= state.Version {
				return conflict
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return conflict
	}
	return err
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id)).Err()
}
