package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"anoa.com/collabhub/internal/entity"
	"anoa.com/collabhub/internal/metrics"
	chatRepo "anoa.com/collabhub/internal/modules/chat/repository"
	collabRepo "anoa.com/collabhub/internal/modules/collaboration/repository"
	"anoa.com/collabhub/internal/modules/project/dto"
	"anoa.com/collabhub/internal/modules/project/repository"
	search "anoa.com/collabhub/internal/modules/search/service"
	userDto "anoa.com/collabhub/internal/modules/user/dto"
	userRepo "anoa.com/collabhub/internal/modules/user/repository"
	"anoa.com/collabhub/pkg/apperror"
	"anoa.com/collabhub/pkg/objectid"
	"anoa.com/collabhub/pkg/storage"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ProjectService interface {
	ListProjects(ctx context.Context, filter dto.ProjectFilter) ([]dto.ProjectResponse, error)
	CreateProject(ctx context.Context, req dto.ProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, id string) (*dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, id string, req dto.ProjectRequest) (*dto.ProjectResponse, error)
	// DeleteProject removes the project and then its chat and requests.
	// A non-empty requesterID must be the creator.
	DeleteProject(ctx context.Context, id, requesterID string) error
	JoinProject(ctx context.Context, id, userID string) error
	LeaveProject(ctx context.Context, id, userID string) error
	ListMembers(ctx context.Context, id string) ([]userDto.UserResponse, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	userRepo    userRepo.UserRepository
	chatRepo    chatRepo.ChatRepository
	collabRepo  collabRepo.CollaborationRepository
	fileStorage storage.ImageStorage
	indexer     search.ProjectIndexer
}

// NewProjectService wires the project workflows. fileStorage and indexer
// are optional.
func NewProjectService(
	projectRepo repository.ProjectRepository,
	userRepo userRepo.UserRepository,
	chatRepo chatRepo.ChatRepository,
	collabRepo collabRepo.CollaborationRepository,
	fileStorage storage.ImageStorage,
	indexer search.ProjectIndexer,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		chatRepo:    chatRepo,
		collabRepo:  collabRepo,
		fileStorage: fileStorage,
		indexer:     indexer,
	}
}

func (s *projectService) ListProjects(ctx context.Context, filter dto.ProjectFilter) ([]dto.ProjectResponse, error) {
	projects, err := s.projectRepo.FindAll(ctx, repository.Query{
		Text:     filter.Q,
		Category: filter.Category,
		Interest: filter.Interest,
		Creator:  filter.Creator,
	})
	if err != nil {
		return nil, err
	}
	return dto.ToProjectResponses(projects), nil
}

func (s *projectService) CreateProject(ctx context.Context, req dto.ProjectRequest) (*dto.ProjectResponse, error) {
	now := time.Now().UTC()
	project := newProjectFromRequest(req)
	if !slices.Contains(project.Members, project.CreatedBy) {
		project.Members = append(project.Members, project.CreatedBy)
	}
	project.CreatedAt = now
	project.UpdatedAt = now

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	log.Info().Str("project_id", project.ID.Hex()).Str("created_by", project.CreatedBy).Msg("project created")

	return s.reload(ctx, project.ID)
}

func (s *projectService) GetProject(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	oid, err := objectid.Decode(id)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, projectNotFound(err)
	}
	return dto.ToProjectResponse(project), nil
}

// UpdateProject overwrites every editable field. Members are stored exactly
// as given.
func (s *projectService) UpdateProject(ctx context.Context, id string, req dto.ProjectRequest) (*dto.ProjectResponse, error) {
	oid, err := objectid.Decode(id)
	if err != nil {
		return nil, err
	}

	project := newProjectFromRequest(req)
	project.ID = oid
	project.UpdatedAt = time.Now().UTC()
	if err := s.projectRepo.Replace(ctx, project); err != nil {
		return nil, projectNotFound(err)
	}
	return s.reload(ctx, oid)
}

func (s *projectService) DeleteProject(ctx context.Context, id, requesterID string) error {
	oid, err := objectid.Decode(id)
	if err != nil {
		return err
	}
	project, err := s.projectRepo.FindByID(ctx, oid)
	if err != nil {
		return projectNotFound(err)
	}
	if requesterID != "" && project.CreatedBy != requesterID {
		return fmt.Errorf("only owner can delete: %w", apperror.ErrForbidden)
	}

	if err := s.projectRepo.Delete(ctx, oid); err != nil {
		return projectNotFound(err)
	}
	metrics.ProjectsDeletedTotal.Inc()

	// Chat and requests reference the project by the id as it was given.
	messages, err := s.chatRepo.DeleteByProject(ctx, id)
	if err != nil {
		return err
	}
	requests, err := s.collabRepo.DeleteByProject(ctx, id)
	if err != nil {
		return err
	}
	log.Info().
		Str("project_id", id).
		Int64("messages", messages).
		Int64("requests", requests).
		Msg("project deleted")

	s.removeAttachments(ctx, project)
	if s.indexer != nil {
		if err := s.indexer.DeleteProject(oid.Hex()); err != nil {
			log.Warn().Err(err).Str("project_id", id).Msg("failed to remove project from search index")
		}
	}
	return nil
}

func (s *projectService) JoinProject(ctx context.Context, id, userID string) error {
	oid, err := objectid.Decode(id)
	if err != nil {
		return err
	}
	project, err := s.projectRepo.FindByID(ctx, oid)
	if err != nil {
		return projectNotFound(err)
	}
	if project.HasMember(userID) {
		return nil
	}

	if err := s.projectRepo.AddMember(ctx, oid, userID, time.Now().UTC()); err != nil {
		return projectNotFound(err)
	}
	s.reindex(ctx, oid)
	return nil
}

// LeaveProject lets any member leave, the creator included.
func (s *projectService) LeaveProject(ctx context.Context, id, userID string) error {
	oid, err := objectid.Decode(id)
	if err != nil {
		return err
	}
	if _, err := s.projectRepo.FindByID(ctx, oid); err != nil {
		return projectNotFound(err)
	}

	if err := s.projectRepo.RemoveMember(ctx, oid, userID, time.Now().UTC()); err != nil {
		return projectNotFound(err)
	}
	s.reindex(ctx, oid)
	return nil
}

// ListMembers resolves member ids to users. Ids that are not well formed,
// such as the chat bot's, are skipped.
func (s *projectService) ListMembers(ctx context.Context, id string) ([]userDto.UserResponse, error) {
	oid, err := objectid.Decode(id)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, projectNotFound(err)
	}

	users, err := s.userRepo.FindByIDs(ctx, objectid.DecodeValid(project.Members))
	if err != nil {
		return nil, err
	}
	return userDto.ToUserResponses(users), nil
}

func (s *projectService) reload(ctx context.Context, id bson.ObjectID) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, projectNotFound(err)
	}
	if s.indexer != nil {
		if err := s.indexer.IndexProject(project); err != nil {
			log.Warn().Err(err).Str("project_id", id.Hex()).Msg("failed to index project")
		}
	}
	return dto.ToProjectResponse(project), nil
}

// reindex pushes the current state of a project to the search index. It
// never fails the caller.
func (s *projectService) reindex(ctx context.Context, id bson.ObjectID) {
	if s.indexer == nil {
		return
	}
	if _, err := s.reload(ctx, id); err != nil {
		log.Warn().Err(err).Str("project_id", id.Hex()).Msg("failed to reload project for indexing")
	}
}

func (s *projectService) removeAttachments(ctx context.Context, project *entity.Project) {
	if s.fileStorage == nil {
		return
	}
	for _, attachment := range project.Attachments {
		if storage.ExtractPublicID(attachment) == "" {
			continue
		}
		if err := s.fileStorage.DeleteImage(ctx, attachment); err != nil {
			log.Warn().Err(err).Str("url", attachment).Msg("failed to delete project attachment")
		}
	}
}

func newProjectFromRequest(req dto.ProjectRequest) *entity.Project {
	projectType := req.Type
	if projectType == "" {
		projectType = entity.ProjectTypeSolo
	}
	return &entity.Project{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        orEmpty(req.Tags),
		Attachments: orEmpty(req.Attachments),
		CreatedBy:   req.CreatedBy,
		Members:     orEmpty(req.Members),
		Type:        projectType,
	}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}

func projectNotFound(err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("project not found: %w", apperror.ErrNotFound)
	}
	return err
}
