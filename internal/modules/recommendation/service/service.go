package service

import (
	"context"
	"errors"
	"fmt"

	projectDto "anoa.com/collabhub/internal/modules/project/dto"
	projectRepo "anoa.com/collabhub/internal/modules/project/repository"
	userRepo "anoa.com/collabhub/internal/modules/user/repository"
	"anoa.com/collabhub/pkg/apperror"
	"anoa.com/collabhub/pkg/objectid"
)

const DefaultRecommendationLimit = 6

type RecommendationService interface {
	// Recommend lists projects whose category or tags match one of the
	// user's interests, most recently updated first. A user without
	// interests gets the most recently updated projects.
	Recommend(ctx context.Context, userID string, limit int) ([]projectDto.ProjectResponse, error)
}

type recommendationService struct {
	userRepo    userRepo.UserRepository
	projectRepo projectRepo.ProjectRepository
}

func NewRecommendationService(userRepo userRepo.UserRepository, projectRepo projectRepo.ProjectRepository) RecommendationService {
	return &recommendationService{userRepo: userRepo, projectRepo: projectRepo}
}

func (s *recommendationService) Recommend(ctx context.Context, userID string, limit int) ([]projectDto.ProjectResponse, error) {
	oid, err := objectid.Decode(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	projects, err := s.projectRepo.FindAll(ctx, projectRepo.Query{AnyOf: user.Interests, Limit: limit})
	if err != nil {
		return nil, err
	}
	return projectDto.ToProjectResponses(projects), nil
}
