package service

import (
	"context"

	"anoa.com/collabhub/internal/entity"
	projectDto "anoa.com/collabhub/internal/modules/project/dto"
	projectRepo "anoa.com/collabhub/internal/modules/project/repository"
	"anoa.com/collabhub/pkg/objectid"
	"github.com/rs/zerolog/log"
)

const defaultSearchLimit = 20

type SearchService interface {
	SearchProjects(ctx context.Context, query string, limit int) ([]projectDto.ProjectResponse, error)
}

type searchService struct {
	projectRepo projectRepo.ProjectRepository
	meili       MeiliSearchService
}

// NewSearchService answers from Meilisearch when meili is non-nil and from
// the project store otherwise.
func NewSearchService(projectRepo projectRepo.ProjectRepository, meili MeiliSearchService) SearchService {
	return &searchService{projectRepo: projectRepo, meili: meili}
}

func (s *searchService) SearchProjects(ctx context.Context, query string, limit int) ([]projectDto.ProjectResponse, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	if s.meili != nil && query != "" {
		projects, err := s.searchIndex(ctx, query, limit)
		if err == nil {
			return projectDto.ToProjectResponses(projects), nil
		}
		log.Warn().Err(err).Str("query", query).Msg("search index unavailable, falling back to store")
	}

	projects, err := s.projectRepo.FindAll(ctx, projectRepo.Query{Text: query, Limit: limit})
	if err != nil {
		return nil, err
	}
	return projectDto.ToProjectResponses(projects), nil
}

// searchIndex resolves index hits against the store, so stale hits for
// deleted projects drop out.
func (s *searchService) searchIndex(ctx context.Context, query string, limit int) ([]*entity.Project, error) {
	ids, err := s.meili.SearchProjectIDs(query, limit)
	if err != nil {
		return nil, err
	}
	return s.projectRepo.FindByIDs(ctx, objectid.DecodeValid(ids))
}
