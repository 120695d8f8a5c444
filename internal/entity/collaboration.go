package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

type CollaborationRequest struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	ProjectID    string        `bson:"projectId"`
	SenderUserID string        `bson:"senderUserId"`
	Status       string        `bson:"status"`
	CreatedAt    time.Time     `bson:"createdAt"`
}

// IsDecision reports whether status is a valid response to a request.
func IsDecision(status string) bool {
	return status == RequestStatusAccepted || status == RequestStatusRejected
}
