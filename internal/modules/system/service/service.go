package service

import (
	"context"

	"anoa.com/collabhub/internal/bootstrap"
	projectRepo "anoa.com/collabhub/internal/modules/project/repository"
	"anoa.com/collabhub/internal/modules/system/dto"
	userRepo "anoa.com/collabhub/internal/modules/user/repository"
	"anoa.com/collabhub/pkg/database"
	"github.com/rs/zerolog/log"
)

const maxErrorDetail = 80

type SystemService interface {
	// Status never fails; store problems are reported in the response.
	Status(ctx context.Context) *dto.StatusResponse
	Schema() *dto.SchemaResponse
	Seed(ctx context.Context) (*dto.SeedResponse, error)
}

type systemService struct {
	inspector   database.Inspector
	userRepo    userRepo.UserRepository
	projectRepo projectRepo.ProjectRepository
}

func NewSystemService(inspector database.Inspector, userRepo userRepo.UserRepository, projectRepo projectRepo.ProjectRepository) SystemService {
	return &systemService{
		inspector:   inspector,
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

func (s *systemService) Status(ctx context.Context) *dto.StatusResponse {
	resp := &dto.StatusResponse{
		Backend:          "running",
		Database:         "not available",
		ConnectionStatus: "not connected",
		Collections:      []string{},
	}
	if s.inspector == nil {
		return resp
	}

	status, err := s.inspector.Inspect(ctx)
	if status != nil {
		resp.DatabaseDriver = status.Driver
		resp.DatabaseName = status.Name
		resp.ConnectionStatus = "connected"
	}
	if err != nil {
		resp.Database = "connected but error: " + truncate(err.Error(), maxErrorDetail)
		log.Warn().Err(err).Msg("store inspection failed")
		return resp
	}

	resp.Database = "connected and working"
	if status != nil && status.Collections != nil {
		resp.Collections = status.Collections
	}
	return resp
}

func (s *systemService) Schema() *dto.SchemaResponse {
	return &dto.SchemaResponse{Collections: append([]string(nil), database.Collections...)}
}

func (s *systemService) Seed(ctx context.Context) (*dto.SeedResponse, error) {
	result, err := bootstrap.Seed(ctx, s.userRepo, s.projectRepo)
	if err != nil {
		return nil, err
	}
	return &dto.SeedResponse{Seeded: true, Users: result.Users, Projects: result.Projects}, nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
