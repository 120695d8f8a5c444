package repository

import (
	"context"
	"fmt"

	"anoa.com/collabhub/internal/entity"
	"anoa.com/collabhub/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ChatRepository interface {
	// FindLatest returns up to limit messages of a project, newest first.
	FindLatest(ctx context.Context, projectID string, limit int) ([]*entity.ChatMessage, error)
	Create(ctx context.Context, msg *entity.ChatMessage) error
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}

type chatRepository struct {
	coll *mongo.Collection
}

func NewChatRepository(db *mongo.Database) ChatRepository {
	return &chatRepository{coll: db.Collection(database.ChatMessageCollection)}
}

func (r *chatRepository) FindLatest(ctx context.Context, projectID string, limit int) ([]*entity.ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"projectId": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	messages := []*entity.ChatMessage{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode chat messages: %w", err)
	}
	return messages, nil
}

func (r *chatRepository) Create(ctx context.Context, msg *entity.ChatMessage) error {
	if msg.ID.IsZero() {
		msg.ID = bson.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *chatRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete chat messages: %w", err)
	}
	return result.DeletedCount, nil
}
