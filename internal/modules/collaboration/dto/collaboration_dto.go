package dto

import (
	"time"

	"anoa.com/collabhub/internal/entity"
)

// CollaborationRequestBody is the body of a join request. The project is
// taken from the path; a projectId in the body is accepted and ignored.
type CollaborationRequestBody struct {
	ProjectID    string `json:"projectId"`
	SenderUserID string `json:"senderUserId" binding:"required"`
}

// RespondRequest carries the owner's decision. The value is checked by the
// service after the request is found.
type RespondRequest struct {
	Decision string `json:"decision"`
}

type CollaborationRequestResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId"`
	SenderUserID string    `json:"senderUserId"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func ToCollaborationRequestResponse(r *entity.CollaborationRequest) *CollaborationRequestResponse {
	if r == nil {
		return nil
	}
	return &CollaborationRequestResponse{
		ID:           r.ID.Hex(),
		ProjectID:    r.ProjectID,
		SenderUserID: r.SenderUserID,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
	}
}

func ToCollaborationRequestResponses(requests []*entity.CollaborationRequest) []CollaborationRequestResponse {
	out := make([]CollaborationRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, *ToCollaborationRequestResponse(r))
	}
	return out
}
