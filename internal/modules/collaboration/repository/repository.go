package repository

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/collabhub/internal/entity"
	"anoa.com/collabhub/pkg/apperror"
	"anoa.com/collabhub/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CollaborationRepository interface {
	// FindPending returns the pending request of a sender on a project.
	FindPending(ctx context.Context, projectID, senderUserID string) (*entity.CollaborationRequest, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*entity.CollaborationRequest, error)
	// FindByProject returns every request of a project, newest first.
	FindByProject(ctx context.Context, projectID string) ([]*entity.CollaborationRequest, error)
	Create(ctx context.Context, req *entity.CollaborationRequest) error
	UpdateStatus(ctx context.Context, id bson.ObjectID, status string) error
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}

type collaborationRepository struct {
	coll *mongo.Collection
}

func NewCollaborationRepository(db *mongo.Database) CollaborationRepository {
	return &collaborationRepository{coll: db.Collection(database.CollaborationRequestCollection)}
}

func (r *collaborationRepository) findOne(ctx context.Context, filter bson.M) (*entity.CollaborationRequest, error) {
	var req entity.CollaborationRequest
	if err := r.coll.FindOne(ctx, filter).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *collaborationRepository) FindPending(ctx context.Context, projectID, senderUserID string) (*entity.CollaborationRequest, error) {
	return r.findOne(ctx, bson.M{
		"projectId":    projectID,
		"senderUserId": senderUserID,
		"status":       entity.RequestStatusPending,
	})
}

func (r *collaborationRepository) FindByID(ctx context.Context, id bson.ObjectID) (*entity.CollaborationRequest, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *collaborationRepository) FindByProject(ctx context.Context, projectID string) ([]*entity.CollaborationRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"projectId": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	requests := []*entity.CollaborationRequest{}
	if err := cur.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}
	return requests, nil
}

func (r *collaborationRepository) Create(ctx context.Context, req *entity.CollaborationRequest) error {
	if req.ID.IsZero() {
		req.ID = bson.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, req)
	return err
}

func (r *collaborationRepository) UpdateStatus(ctx context.Context, id bson.ObjectID, status string) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *collaborationRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete requests: %w", err)
	}
	return result.DeletedCount, nil
}
