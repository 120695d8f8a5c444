package jobs

import (
	"context"
	"fmt"

	projectRepo "anoa.com/collabhub/internal/modules/project/repository"
	search "anoa.com/collabhub/internal/modules/search/service"
	"github.com/rs/zerolog/log"
)

// ReindexJob pushes every stored project to the search index, repairing
// writes whose index update was lost.
type ReindexJob struct {
	projects projectRepo.ProjectRepository
	meili    search.MeiliSearchService
	schedule string
}

func NewReindexJob(projects projectRepo.ProjectRepository, meili search.MeiliSearchService, schedule string) *ReindexJob {
	return &ReindexJob{projects: projects, meili: meili, schedule: schedule}
}

func (j *ReindexJob) Name() string     { return "search-reindex" }
func (j *ReindexJob) Schedule() string { return j.schedule }

func (j *ReindexJob) Execute(ctx context.Context) error {
	projects, err := j.projects.FindAll(ctx, projectRepo.Query{})
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	if err := j.meili.IndexProjects(projects); err != nil {
		return fmt.Errorf("failed to index projects: %w", err)
	}
	log.Info().Int("projects", len(projects)).Msg("search index rebuilt")
	return nil
}
