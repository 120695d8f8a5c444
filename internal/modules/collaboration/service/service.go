package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/collabhub/internal/entity"
	"anoa.com/collabhub/internal/metrics"
	"anoa.com/collabhub/internal/modules/collaboration/dto"
	"anoa.com/collabhub/internal/modules/collaboration/repository"
	projectRepo "anoa.com/collabhub/internal/modules/project/repository"
	search "anoa.com/collabhub/internal/modules/search/service"
	"anoa.com/collabhub/pkg/apperror"
	"anoa.com/collabhub/pkg/objectid"
	"anoa.com/collabhub/pkg/ratelimiter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type CollaborationService interface {
	// Request returns the sender's pending request on the project, creating
	// one when there is none.
	Request(ctx context.Context, projectID string, body dto.CollaborationRequestBody) (*dto.CollaborationRequestResponse, error)
	ListRequests(ctx context.Context, projectID string) ([]dto.CollaborationRequestResponse, error)
	// Respond records the decision and, on acceptance, adds the sender to
	// the project. The status is written before the project is touched.
	Respond(ctx context.Context, requestID, decision string) (string, error)
}

type collaborationService struct {
	repo        repository.CollaborationRepository
	projectRepo projectRepo.ProjectRepository
	indexer     search.ProjectIndexer
	redisClient *redis.Client
	cooldown    time.Duration
}

func NewCollaborationService(
	repo repository.CollaborationRepository,
	projectRepo projectRepo.ProjectRepository,
	indexer search.ProjectIndexer,
	redisClient *redis.Client,
	cooldown time.Duration,
) CollaborationService {
	return &collaborationService{
		repo:        repo,
		projectRepo: projectRepo,
		indexer:     indexer,
		redisClient: redisClient,
		cooldown:    cooldown,
	}
}

// Request is check-then-insert: two concurrent first requests from the same
// sender can both create a pending entry.
func (s *collaborationService) Request(ctx context.Context, projectID string, body dto.CollaborationRequestBody) (*dto.CollaborationRequestResponse, error) {
	existing, err := s.repo.FindPending(ctx, projectID, body.SenderUserID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		metrics.CollabRequestsTotal.WithLabelValues("existing").Inc()
		return dto.ToCollaborationRequestResponse(existing), nil
	}

	subject := body.SenderUserID + ":" + projectID
	if err := ratelimiter.Enforce(ctx, s.redisClient, subject, ratelimiter.ScopeRequest, s.cooldown); err != nil {
		return nil, err
	}

	req := &entity.CollaborationRequest{
		ProjectID:    projectID,
		SenderUserID: body.SenderUserID,
		Status:       entity.RequestStatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, req); err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, subject, ratelimiter.ScopeRequest)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	metrics.CollabRequestsTotal.WithLabelValues("created").Inc()
	log.Info().
		Str("request_id", req.ID.Hex()).
		Str("project_id", projectID).
		Str("sender", body.SenderUserID).
		Msg("collaboration requested")

	return dto.ToCollaborationRequestResponse(req), nil
}

func (s *collaborationService) ListRequests(ctx context.Context, projectID string) ([]dto.CollaborationRequestResponse, error) {
	requests, err := s.repo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return dto.ToCollaborationRequestResponses(requests), nil
}

// Respond does not require the request to still be pending, so a resolved
// request can be flipped by a second call.
func (s *collaborationService) Respond(ctx context.Context, requestID, decision string) (string, error) {
	oid, err := objectid.Decode(requestID)
	if err != nil {
		return "", err
	}
	req, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return "", requestNotFound(err)
	}
	if !entity.IsDecision(decision) {
		return "", fmt.Errorf("invalid decision %q: %w", decision, apperror.ErrInvalidInput)
	}

	if err := s.repo.UpdateStatus(ctx, oid, decision); err != nil {
		return "", requestNotFound(err)
	}
	metrics.CollabResponsesTotal.WithLabelValues(decision).Inc()

	// A resolved pair may request again right away.
	subject := req.SenderUserID + ":" + req.ProjectID
	if err := ratelimiter.ClearRateLimit(ctx, s.redisClient, subject, ratelimiter.ScopeRequest); err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msg("failed to clear request cooldown")
	}

	if decision == entity.RequestStatusAccepted {
		if err := s.addMember(ctx, req); err != nil {
			return "", err
		}
	}
	return decision, nil
}

func (s *collaborationService) addMember(ctx context.Context, req *entity.CollaborationRequest) error {
	projectOID, err := objectid.Decode(req.ProjectID)
	if err != nil {
		return err
	}
	if err := s.projectRepo.AddMember(ctx, projectOID, req.SenderUserID, time.Now().UTC()); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return fmt.Errorf("project not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	if s.indexer != nil {
		project, err := s.projectRepo.FindByID(ctx, projectOID)
		if err == nil {
			err = s.indexer.IndexProject(project)
		}
		if err != nil {
			log.Warn().Err(err).Str("project_id", req.ProjectID).Msg("failed to reindex project")
		}
	}
	return nil
}

func requestNotFound(err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("request not found: %w", apperror.ErrNotFound)
	}
	return err
}
