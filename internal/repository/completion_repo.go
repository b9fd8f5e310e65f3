package repository

import (
	"context"
	"soulsprint/internal/model"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CompletionRepo records finished wellness tasks
type CompletionRepo interface {
	Create(ctx context.Context, completion *model.TaskCompletion) error
	ListBySession(ctx context.Context, sessionID string) ([]*model.TaskCompletion, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}

type completionRepo struct {
	collection *mongo.Collection
}

func NewCompletionRepo(db *mongo.Database) CompletionRepo {
	return &completionRepo{
		collection: db.Collection("task_completions"),
	}
}

func prepare(c *model.TaskCompletion) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now().UTC()
	}
}

func (r *completionRepo) Create(ctx context.Context, completion *model.TaskCompletion) error {
	prepare(completion)
	_, err := r.collection.InsertOne(ctx, completion)
	return err
}

func (r *completionRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.TaskCompletion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var completions []*model.TaskCompletion
	if err = cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *completionRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"sessionId": sessionID})
	return err
}

// MemoryCompletionRepo is the in-process CompletionRepo
type MemoryCompletionRepo struct {
	mu   sync.RWMutex
	rows map[string][]*model.TaskCompletion
}

func NewMemoryCompletionRepo() *MemoryCompletionRepo {
	return &MemoryCompletionRepo{rows: make(map[string][]*model.TaskCompletion)}
}

func (m *MemoryCompletionRepo) Create(ctx context.Context, completion *model.TaskCompletion) error {
	prepare(completion)
	c := *completion
	m.mu.Lock()
	m.rows[c.SessionID] = append(m.rows[c.SessionID], &c)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCompletionRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.TaskCompletion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.TaskCompletion, 0, len(m.rows[sessionID]))
	for _, c := range m.rows[sessionID] {
		cp := *c
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

func (m *MemoryCompletionRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.rows, sessionID)
	m.mu.Unlock()
	return nil
}
