package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// BotSenderID is the synthetic co-creator that answers questions in chat.
const BotSenderID = "sim-bot"

type ChatMessage struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	ProjectID string        `bson:"projectId"`
	SenderID  string        `bson:"senderId"`
	Content   string        `bson:"content"`
	Timestamp time.Time     `bson:"timestamp"`
}
