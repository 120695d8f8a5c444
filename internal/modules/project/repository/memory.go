package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"anoa.com/collabhub/internal/entity"
	"anoa.com/collabhub/pkg/apperror"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type memoryProject struct {
	seq     int
	project *entity.Project
}

type memoryProjectRepository struct {
	mu       sync.RWMutex
	seq      int
	projects map[bson.ObjectID]*memoryProject
}

// NewMemoryProjectRepository keeps projects in process. Projects updated at
// the same instant are ordered by most recent insertion.
func NewMemoryProjectRepository() ProjectRepository {
	return &memoryProjectRepository{projects: make(map[bson.ObjectID]*memoryProject)}
}

func clone(p *entity.Project) *entity.Project {
	c := *p
	c.Tags = slices.Clone(p.Tags)
	c.Attachments = slices.Clone(p.Attachments)
	c.Members = slices.Clone(p.Members)
	return &c
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContainsFold(values []string, sub string) bool {
	return slices.ContainsFunc(values, func(v string) bool { return containsFold(v, sub) })
}

func matches(p *entity.Project, q Query) bool {
	if q.Text != "" && !containsFold(p.Title, q.Text) && !containsFold(p.Description, q.Text) && !anyContainsFold(p.Tags, q.Text) {
		return false
	}
	if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
		return false
	}
	if q.Interest != "" && !anyContainsFold(p.Tags, q.Interest) {
		return false
	}
	if q.Creator != "" && p.CreatedBy != q.Creator {
		return false
	}
	if len(q.AnyOf) > 0 {
		hit := slices.Contains(q.AnyOf, p.Category) ||
			slices.ContainsFunc(p.Tags, func(tag string) bool { return slices.Contains(q.AnyOf, tag) })
		if !hit {
			return false
		}
	}
	return true
}

func (r *memoryProjectRepository) FindAll(_ context.Context, q Query) ([]*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hits := make([]*memoryProject, 0, len(r.projects))
	for _, mp := range r.projects {
		if matches(mp.project, q) {
			hits = append(hits, mp)
		}
	}
	slices.SortFunc(hits, func(a, b *memoryProject) int {
		if c := b.project.UpdatedAt.Compare(a.project.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	out := make([]*entity.Project, 0, len(hits))
	for _, mp := range hits {
		out = append(out, clone(mp.project))
	}
	return out, nil
}

func (r *memoryProjectRepository) FindByID(_ context.Context, id bson.ObjectID) (*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mp, ok := r.projects[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return clone(mp.project), nil
}

func (r *memoryProjectRepository) FindByIDs(_ context.Context, ids []bson.ObjectID) ([]*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*entity.Project{}
	for _, id := range ids {
		if mp, ok := r.projects[id]; ok {
			out = append(out, clone(mp.project))
		}
	}
	return out, nil
}

func (r *memoryProjectRepository) Create(_ context.Context, project *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if project.ID.IsZero() {
		project.ID = bson.NewObjectID()
	}
	r.seq++
	r.projects[project.ID] = &memoryProject{seq: r.seq, project: clone(project)}
	return nil
}

func (r *memoryProjectRepository) Replace(_ context.Context, project *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mp, ok := r.projects[project.ID]
	if !ok {
		return apperror.ErrNotFound
	}
	createdAt := mp.project.CreatedAt
	mp.project = clone(project)
	mp.project.CreatedAt = createdAt
	return nil
}

func (r *memoryProjectRepository) AddMember(_ context.Context, id bson.ObjectID, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mp, ok := r.projects[id]
	if !ok {
		return apperror.ErrNotFound
	}
	if !slices.Contains(mp.project.Members, userID) {
		mp.project.Members = append(mp.project.Members, userID)
	}
	mp.project.UpdatedAt = at
	return nil
}

func (r *memoryProjectRepository) RemoveMember(_ context.Context, id bson.ObjectID, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mp, ok := r.projects[id]
	if !ok {
		return apperror.ErrNotFound
	}
	mp.project.Members = slices.DeleteFunc(mp.project.Members, func(m string) bool { return m == userID })
	mp.project.UpdatedAt = at
	return nil
}

func (r *memoryProjectRepository) Delete(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return apperror.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *memoryProjectRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.projects)), nil
}
