package service

import (
	"context"
	"slices"
	"testing"
	"time"

	"anoa.com/collabhub/internal/entity"
	projectRepo "anoa.com/collabhub/internal/modules/project/repository"
	userRepo "anoa.com/collabhub/internal/modules/user/repository"
	"anoa.com/collabhub/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func setup(t *testing.T) (RecommendationService, userRepo.UserRepository) {
	t.Helper()
	ctx := context.Background()
	users := userRepo.NewMemoryUserRepository()
	projects := projectRepo.NewMemoryProjectRepository()

	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	seed := []*entity.Project{
		{Title: "Task Tracker", Category: "Computer Science", Tags: []string{"React"}},
		{Title: "Design Kit", Category: "Design", Tags: []string{"UI"}},
		{Title: "Physics Lab", Category: "Physics", Tags: []string{"Education"}},
		{Title: "Market Research", Category: "Business", Tags: []string{"Research"}},
		{Title: "Art Showcase", Category: "Arts", Tags: []string{"Design"}},
		{Title: "Robot Arm", Category: "Robotics", Tags: []string{"Hardware"}},
		{Title: "Lecture Notes", Category: "Education", Tags: []string{"design"}},
	}
	for i, p := range seed {
		p.UpdatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, projects.Create(ctx, p))
	}

	return NewRecommendationService(users, projects), users
}

func createUser(t *testing.T, users userRepo.UserRepository, interests ...string) string {
	t.Helper()
	u := &entity.User{Username: "u", Email: "u@example.com", Interests: interests}
	require.NoError(t, users.Create(context.Background(), u))
	return u.ID.Hex()
}

func TestRecommend_NoInterestsReturnsRecent(t *testing.T) {
	svc, users := setup(t)
	id := createUser(t, users)

	got, err := svc.Recommend(context.Background(), id, 0)
	require.NoError(t, err)
	require.Len(t, got, DefaultRecommendationLimit)
	assert.Equal(t, "Lecture Notes", got[0].Title)
	assert.Equal(t, "Design Kit", got[5].Title)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].UpdatedAt.After(got[i-1].UpdatedAt))
	}
}

func TestRecommend_MatchesCategoryOrTagExactly(t *testing.T) {
	svc, users := setup(t)
	id := createUser(t, users, "Design")

	got, err := svc.Recommend(context.Background(), id, 10)
	require.NoError(t, err)

	titles := make([]string, 0, len(got))
	for _, p := range got {
		titles = append(titles, p.Title)
		assert.True(t, p.Category == "Design" || slices.Contains(p.Tags, "Design"))
	}
	assert.Equal(t, []string{"Art Showcase", "Design Kit"}, titles)
}

func TestRecommend_Limit(t *testing.T) {
	svc, users := setup(t)
	id := createUser(t, users, "Design", "Physics", "Business")

	got, err := svc.Recommend(context.Background(), id, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Art Showcase", got[0].Title)
	assert.Equal(t, "Market Research", got[1].Title)
}

func TestRecommend_Errors(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Recommend(context.Background(), bson.NewObjectID().Hex(), 0)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.Recommend(context.Background(), "x", 0)
	assert.ErrorIs(t, err, apperror.ErrInvalidID)
}
