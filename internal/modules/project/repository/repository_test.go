package repository

import (
	"context"
	"testing"
	"time"

	"anoa.com/collabhub/internal/entity"
	"anoa.com/collabhub/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBuildFilter_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, BuildFilter(Query{}))
}

func TestBuildFilter_QuotesUserText(t *testing.T) {
	filter := BuildFilter(Query{Category: "C++"})

	assert.Equal(t, bson.M{"category": bson.Regex{Pattern: `^C\+\+$`, Options: "i"}}, filter)
}

func TestBuildFilter_CombinesWithAnd(t *testing.T) {
	filter := BuildFilter(Query{Text: "kit", Creator: "u1"})

	conds, ok := filter["$and"].(bson.A)
	require.True(t, ok)
	assert.Len(t, conds, 2)
	assert.Equal(t, bson.M{"createdBy": "u1"}, conds[1])
}

func seedProjects(t *testing.T, repo ProjectRepository) []*entity.Project {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	projects := []*entity.Project{
		{Title: "Open Source Task Tracker", Description: "Collaborative task tracker web app.", Category: "Computer Science", Tags: []string{"React", "MongoDB"}, CreatedBy: "u1", UpdatedAt: base},
		{Title: "Design System Kit", Description: "Neutral design kit.", Category: "Design", Tags: []string{"UI", "Figma"}, CreatedBy: "u2", UpdatedAt: base.Add(time.Hour)},
		{Title: "Physics Lab (v2)", Description: "Interactive physics experiments.", Category: "Physics", Tags: []string{"Education", "Design"}, CreatedBy: "u1", UpdatedAt: base.Add(2 * time.Hour)},
	}
	for _, p := range projects {
		require.NoError(t, repo.Create(context.Background(), p))
	}
	return projects
}

func titles(projects []*entity.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Title)
	}
	return out
}

func TestMemoryFindAll(t *testing.T) {
	repo := NewMemoryProjectRepository()
	seedProjects(t, repo)
	ctx := context.Background()

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"all newest first", Query{}, []string{"Physics Lab (v2)", "Design System Kit", "Open Source Task Tracker"}},
		{"text in description", Query{Text: "TRACKER"}, []string{"Open Source Task Tracker"}},
		{"text in tag", Query{Text: "figma"}, []string{"Design System Kit"}},
		{"text is literal", Query{Text: "(v2)"}, []string{"Physics Lab (v2)"}},
		{"category is anchored", Query{Category: "design"}, []string{"Design System Kit"}},
		{"category partial misses", Query{Category: "Des"}, []string{}},
		{"interest substring of tag", Query{Interest: "educ"}, []string{"Physics Lab (v2)"}},
		{"creator", Query{Creator: "u1"}, []string{"Physics Lab (v2)", "Open Source Task Tracker"}},
		{"any of category or tag", Query{AnyOf: []string{"Design"}}, []string{"Physics Lab (v2)", "Design System Kit"}},
		{"limit", Query{Limit: 1}, []string{"Physics Lab (v2)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindAll(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestMemoryMembership(t *testing.T) {
	repo := NewMemoryProjectRepository()
	projects := seedProjects(t, repo)
	ctx := context.Background()
	id := projects[0].ID
	at := time.Now().UTC()

	require.NoError(t, repo.AddMember(ctx, id, "u9", at))
	require.NoError(t, repo.AddMember(ctx, id, "u9", at))
	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"u9"}, got.Members)
	assert.Equal(t, at, got.UpdatedAt)

	require.NoError(t, repo.RemoveMember(ctx, id, "u9", at))
	require.NoError(t, repo.RemoveMember(ctx, id, "nobody", at))
	got, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Members)

	missing := bson.NewObjectID()
	assert.ErrorIs(t, repo.AddMember(ctx, missing, "u9", at), apperror.ErrNotFound)
	assert.ErrorIs(t, repo.RemoveMember(ctx, missing, "u9", at), apperror.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, missing), apperror.ErrNotFound)
}

func TestMemoryFindByIDs_KeepsOrder(t *testing.T) {
	repo := NewMemoryProjectRepository()
	projects := seedProjects(t, repo)

	got, err := repo.FindByIDs(context.Background(), []bson.ObjectID{projects[2].ID, bson.NewObjectID(), projects[0].ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Physics Lab (v2)", "Open Source Task Tracker"}, titles(got))
}
