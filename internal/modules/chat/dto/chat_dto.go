package dto

import (
	"time"

	"anoa.com/collabhub/internal/entity"
)

type ChatRequest struct {
	SenderID string `json:"senderId" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

type ChatMessageResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func ToChatMessageResponse(m *entity.ChatMessage) *ChatMessageResponse {
	if m == nil {
		return nil
	}
	return &ChatMessageResponse{
		ID:        m.ID.Hex(),
		ProjectID: m.ProjectID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}
