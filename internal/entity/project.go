package entity

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	ProjectTypeSolo     = "solo"
	ProjectTypeCombined = "combined"
)

type Project struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	Category    string        `bson:"category"`
	Tags        []string      `bson:"tags"`
	Attachments []string      `bson:"attachments"`
	CreatedBy   string        `bson:"createdBy"`
	Members     []string      `bson:"members"`
	Type        string        `bson:"type"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}

func (p *Project) HasMember(userID string) bool {
	return slices.Contains(p.Members, userID)
}
