package repository

import (
	"context"
	"soulsprint/internal/apperr"
	"soulsprint/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepo stores one snapshot document per session
type SessionRepo interface {
	Load(ctx context.Context, id string) (*model.SessionState, error)
	Save(ctx context.Context, state *model.SessionState) error
	Delete(ctx context.Context, id string) error
}

type sessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("sessions"),
	}
}

func (r *sessionRepo) Load(ctx context.Context, id string) (*model.SessionState, error) {
	var state model.SessionState
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&state)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.Wrap(apperr.ErrSessionNotFound, "session %s", id)
	}
	if err != nil {
		return nil, err
	}
	if state.Answers == nil {
		state.Answers = []int{}
	}
	if state.Transcript == nil {
		state.Transcript = model.Transcript{}
	}
	return &state, nil
}

// Save replaces the snapshot only if the stored version is the one state was
// built from. A newer snapshot makes the upsert collide on _id.
func (r *sessionRepo) Save(ctx context.Context, state *model.SessionState) error {
	filter := bson.M{"_id": state.ID, "version": state.Version - 1}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, filter, state, opts)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Wrap(apperr.ErrVersionConflict, "session %s at version %d", state.ID, state.Version)
	}
	return err
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
