package repository

import (
	"context"
	"slices"
	"sync"

	"anoa.com/collabhub/internal/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type memoryChatRepository struct {
	mu       sync.RWMutex
	messages []*entity.ChatMessage
}

// NewMemoryChatRepository keeps messages in process in insertion order.
func NewMemoryChatRepository() ChatRepository {
	return &memoryChatRepository{}
}

func (r *memoryChatRepository) FindLatest(_ context.Context, projectID string, limit int) ([]*entity.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var hits []*entity.ChatMessage
	for _, m := range r.messages {
		if m.ProjectID == projectID {
			hits = append(hits, m)
		}
	}
	// Later inserts win timestamp ties.
	slices.Reverse(hits)
	slices.SortStableFunc(hits, func(a, b *entity.ChatMessage) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]*entity.ChatMessage, 0, len(hits))
	for _, m := range hits {
		c := *m
		out = append(out, &c)
	}
	return out, nil
}

func (r *memoryChatRepository) Create(_ context.Context, msg *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID.IsZero() {
		msg.ID = bson.NewObjectID()
	}
	c := *msg
	r.messages = append(r.messages, &c)
	return nil
}

func (r *memoryChatRepository) DeleteByProject(_ context.Context, projectID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.messages)
	r.messages = slices.DeleteFunc(r.messages, func(m *entity.ChatMessage) bool {
		return m.ProjectID == projectID
	})
	return int64(before - len(r.messages)), nil
}
