package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/collabhub/internal/entity"
	"anoa.com/collabhub/internal/modules/user/dto"
	"anoa.com/collabhub/internal/modules/user/repository"
	"anoa.com/collabhub/pkg/apperror"
	"anoa.com/collabhub/pkg/objectid"
	"github.com/rs/zerolog/log"
)

const listUsersLimit = 100

type UserService interface {
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	LoginOrCreate(ctx context.Context, req dto.UserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id string) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id string, req dto.UserRequest) (*dto.UserResponse, error)
	VerifyEmail(ctx context.Context, id string) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.FindAll(ctx, listUsersLimit)
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponses(users), nil
}

// LoginOrCreate is the only identity check the app has: the email alone
// selects the account. Two concurrent first logins with the same email can
// both miss the lookup and insert twice.
func (s *userService) LoginOrCreate(ctx context.Context, req dto.UserRequest) (*dto.UserResponse, error) {
	now := time.Now().UTC()

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Username = req.Username
		existing.ProfilePic = req.ProfilePic
		existing.CompanyName = req.CompanyName
		existing.Role = req.Role
		existing.LinkedIn = req.LinkedIn
		existing.Interests = interestsOrEmpty(req.Interests)
		existing.UpdatedAt = now
		if err := s.repo.UpdateProfile(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to refresh user on login: %w", err)
		}
		log.Debug().Str("user_id", existing.ID.Hex()).Msg("user logged in")
		return s.reload(ctx, existing)
	}

	user := newUserFromRequest(req)
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Info().Str("user_id", user.ID.Hex()).Str("email", user.Email).Msg("user created")
	return s.reload(ctx, user)
}

func (s *userService) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	oid, err := objectid.Decode(id)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, userNotFound(err)
	}
	return dto.ToUserResponse(user), nil
}

// UpdateUser overwrites the whole profile: optional fields left out of the
// request are cleared and emailVerified falls back to false.
func (s *userService) UpdateUser(ctx context.Context, id string, req dto.UserRequest) (*dto.UserResponse, error) {
	oid, err := objectid.Decode(id)
	if err != nil {
		return nil, err
	}

	user := newUserFromRequest(req)
	user.ID = oid
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Replace(ctx, user); err != nil {
		return nil, userNotFound(err)
	}
	return s.reload(ctx, user)
}

// VerifyEmail succeeds even when no user has this id.
func (s *userService) VerifyEmail(ctx context.Context, id string) error {
	oid, err := objectid.Decode(id)
	if err != nil {
		return err
	}
	return s.repo.MarkEmailVerified(ctx, oid)
}

func (s *userService) reload(ctx context.Context, user *entity.User) (*dto.UserResponse, error) {
	stored, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, userNotFound(err)
	}
	return dto.ToUserResponse(stored), nil
}

func newUserFromRequest(req dto.UserRequest) *entity.User {
	verified := false
	if req.EmailVerified != nil {
		verified = *req.EmailVerified
	}
	return &entity.User{
		Username:      req.Username,
		Email:         req.Email,
		EmailVerified: verified,
		ProfilePic:    req.ProfilePic,
		CompanyName:   req.CompanyName,
		Role:          req.Role,
		LinkedIn:      req.LinkedIn,
		Interests:     interestsOrEmpty(req.Interests),
	}
}

func interestsOrEmpty(interests []string) []string {
	if interests == nil {
		return []string{}
	}
	return interests
}

func userNotFound(err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
	}
	return err
}
