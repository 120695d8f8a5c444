package dto

import (
	"time"

	"anoa.com/collabhub/internal/entity"
)

// ProjectRequest is the body of both create and update.
type ProjectRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Tags        []string `json:"tags"`
	Attachments []string `json:"attachments"`
	CreatedBy   string   `json:"createdBy" binding:"required"`
	Members     []string `json:"members"`
	Type        string   `json:"type" binding:"omitempty,oneof=solo combined"`
}

// ProjectFilter is the query string of the project listing. Empty fields
// impose no constraint.
type ProjectFilter struct {
	Q        string `form:"q"`
	Category string `form:"category"`
	Interest string `form:"interest"`
	Creator  string `form:"creator"`
}

type MemberQuery struct {
	UserID string `form:"userId" binding:"required"`
}

type DeleteQuery struct {
	UserID string `form:"userId"`
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Attachments []string  `json:"attachments"`
	CreatedBy   string    `json:"createdBy"`
	Members     []string  `json:"members"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToProjectResponse(p *entity.Project) *ProjectResponse {
	if p == nil {
		return nil
	}
	return &ProjectResponse{
		ID:          p.ID.Hex(),
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Tags:        orEmpty(p.Tags),
		Attachments: orEmpty(p.Attachments),
		CreatedBy:   p.CreatedBy,
		Members:     orEmpty(p.Members),
		Type:        p.Type,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProjectResponses(projects []*entity.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, *ToProjectResponse(p))
	}
	return out
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
