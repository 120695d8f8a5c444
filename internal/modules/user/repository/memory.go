package repository

import (
	"context"
	"slices"
	"sync"

	"anoa.com/collabhub/internal/entity"
	"anoa.com/collabhub/pkg/apperror"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	order []bson.ObjectID
	users map[bson.ObjectID]*entity.User
}

// NewMemoryUserRepository keeps users in process, in insertion order.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[bson.ObjectID]*entity.User)}
}

func clone(u *entity.User) *entity.User {
	c := *u
	c.Interests = slices.Clone(u.Interests)
	return &c
}

func (r *memoryUserRepository) FindAll(_ context.Context, limit int) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.User, 0, len(r.order))
	for _, id := range r.order {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, clone(r.users[id]))
	}
	return out, nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id bson.ObjectID) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return clone(u), nil
}

func (r *memoryUserRepository) FindByIDs(_ context.Context, ids []bson.ObjectID) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*entity.User{}
	for _, id := range r.order {
		if slices.Contains(ids, id) {
			out = append(out, clone(r.users[id]))
		}
	}
	return out, nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if u := r.users[id]; u.Email == email {
			return clone(u), nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	r.users[user.ID] = clone(user)
	r.order = append(r.order, user.ID)
	return nil
}

func (r *memoryUserRepository) UpdateProfile(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return apperror.ErrNotFound
	}
	stored.Username = user.Username
	stored.ProfilePic = user.ProfilePic
	stored.CompanyName = user.CompanyName
	stored.Role = user.Role
	stored.LinkedIn = user.LinkedIn
	stored.Interests = slices.Clone(user.Interests)
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

func (r *memoryUserRepository) Replace(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return apperror.ErrNotFound
	}
	createdAt := stored.CreatedAt
	*stored = *clone(user)
	stored.CreatedAt = createdAt
	return nil
}

func (r *memoryUserRepository) MarkEmailVerified(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		u.EmailVerified = true
	}
	return nil
}

func (r *memoryUserRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.order)), nil
}
