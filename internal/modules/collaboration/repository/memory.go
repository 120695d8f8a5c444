package repository

import (
	"context"
	"slices"
	"sync"

	"anoa.com/collabhub/internal/entity"
	"anoa.com/collabhub/pkg/apperror"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type memoryCollaborationRepository struct {
	mu       sync.RWMutex
	requests []*entity.CollaborationRequest
}

// NewMemoryCollaborationRepository keeps requests in process in insertion
// order.
func NewMemoryCollaborationRepository() CollaborationRepository {
	return &memoryCollaborationRepository{}
}

func (r *memoryCollaborationRepository) find(match func(*entity.CollaborationRequest) bool) (*entity.CollaborationRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.requests {
		if match(req) {
			c := *req
			return &c, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *memoryCollaborationRepository) FindPending(_ context.Context, projectID, senderUserID string) (*entity.CollaborationRequest, error) {
	return r.find(func(req *entity.CollaborationRequest) bool {
		return req.ProjectID == projectID && req.SenderUserID == senderUserID && req.Status == entity.RequestStatusPending
	})
}

func (r *memoryCollaborationRepository) FindByID(_ context.Context, id bson.ObjectID) (*entity.CollaborationRequest, error) {
	return r.find(func(req *entity.CollaborationRequest) bool { return req.ID == id })
}

func (r *memoryCollaborationRepository) FindByProject(_ context.Context, projectID string) ([]*entity.CollaborationRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*entity.CollaborationRequest{}
	for _, req := range slices.Backward(r.requests) {
		if req.ProjectID == projectID {
			c := *req
			out = append(out, &c)
		}
	}
	slices.SortStableFunc(out, func(a, b *entity.CollaborationRequest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *memoryCollaborationRepository) Create(_ context.Context, req *entity.CollaborationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID.IsZero() {
		req.ID = bson.NewObjectID()
	}
	c := *req
	r.requests = append(r.requests, &c)
	return nil
}

func (r *memoryCollaborationRepository) UpdateStatus(_ context.Context, id bson.ObjectID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, req := range r.requests {
		if req.ID == id {
			req.Status = status
			return nil
		}
	}
	return apperror.ErrNotFound
}

func (r *memoryCollaborationRepository) DeleteByProject(_ context.Context, projectID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.requests)
	r.requests = slices.DeleteFunc(r.requests, func(req *entity.CollaborationRequest) bool {
		return req.ProjectID == projectID
	})
	return int64(before - len(r.requests)), nil
}
