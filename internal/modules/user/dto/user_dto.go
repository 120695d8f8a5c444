package dto

import (
	"time"

	"anoa.com/collabhub/internal/entity"
)

// UserRequest is the body of both login-or-create and profile update.
type UserRequest struct {
	Username      string   `json:"username" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	EmailVerified *bool    `json:"emailVerified"`
	ProfilePic    *string  `json:"profilePic"`
	CompanyName   *string  `json:"companyName"`
	Role          *string  `json:"role" binding:"omitempty,oneof=student working"`
	LinkedIn      *string  `json:"linkedIn" binding:"omitempty,url"`
	Interests     []string `json:"interests"`
}

type UserResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	ProfilePic    *string   `json:"profilePic"`
	CompanyName   *string   `json:"companyName"`
	Role          *string   `json:"role"`
	LinkedIn      *string   `json:"linkedIn"`
	Interests     []string  `json:"interests"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToUserResponse renames the stored _id to id. A nil user stays nil.
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	return &UserResponse{
		ID:            u.ID.Hex(),
		Username:      u.Username,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		ProfilePic:    u.ProfilePic,
		CompanyName:   u.CompanyName,
		Role:          u.Role,
		LinkedIn:      u.LinkedIn,
		Interests:     interests,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func ToUserResponses(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *ToUserResponse(u))
	}
	return out
}
