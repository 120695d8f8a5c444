package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/collabhub/internal/entity"
	projectRepo "anoa.com/collabhub/internal/modules/project/repository"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMeili struct {
	ids []string
	err error
}

func (f *fakeMeili) IndexProject(*entity.Project) error { return nil }
func (f *fakeMeili) IndexProjects([]*entity.Project) error { return nil }
func (f *fakeMeili) DeleteProject(string) error { return nil }
func (f *fakeMeili) SearchProjectIDs(string, int) ([]string, error) { return f.ids, f.err }

func seed(t *testing.T) (projectRepo.ProjectRepository, []*entity.Project) {
	t.Helper()
	repo := projectRepo.NewMemoryProjectRepository()
	now := time.Now().UTC()
	projects := []*entity.Project{
		{Title: "Robot Arm", Description: "Servo control", Category: "Robotics", UpdatedAt: now},
		{Title: "Market Study", Description: "Competitor research", Category: "Business", UpdatedAt: now.Add(time.Minute)},
	}
	for _, p := range projects {
		require.NoError(t, repo.Create(context.Background(), p))
	}
	return repo, projects
}

func TestSearchProjects_StoreFallback(t *testing.T) {
	repo, _ := seed(t)
	svc := NewSearchService(repo, nil)

	got, err := svc.SearchProjects(context.Background(), "servo", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Robot Arm", got[0].Title)
}

func TestSearchProjects_UsesIndexOrder(t *testing.T) {
	repo, projects := seed(t)
	meili := &fakeMeili{ids: []string{projects[1].ID.Hex(), "stale", projects[0].ID.Hex()}}
	svc := NewSearchService(repo, meili)

	got, err := svc.SearchProjects(context.Background(), "anything", 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Market Study", got[0].Title)
	assert.Equal(t, "Robot Arm", got[1].Title)
}

func TestSearchProjects_IndexErrorFallsBack(t *testing.T) {
	repo, _ := seed(t)
	svc := NewSearchService(repo, &fakeMeili{err: errors.New("connection refused")})

	got, err := svc.SearchProjects(context.Background(), "competitor", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Market Study", got[0].Title)
}

func TestCleanTextForIndex(t *testing.T) {
	s := &meiliSearchService{sanitizer: bluemonday.StrictPolicy()}

	got := s.cleanTextForIndex("<p>Build a <b>robot</b></p><p>arm &amp; gripper</p>")

	assert.Equal(t, "Build a robot arm & gripper", got)
}
