package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/collabhub/internal/entity"
	projectRepo "anoa.com/collabhub/internal/modules/project/repository"
	userRepo "anoa.com/collabhub/internal/modules/user/repository"
	"anoa.com/collabhub/pkg/apperror"
	"github.com/rs/zerolog/log"
)

// SeedMinimum is the collection size below which sample data is inserted.
const SeedMinimum = 5

type sampleUser struct {
	username  string
	email     string
	verified  bool
	role      string
	interests []string
}

var sampleUsers = []sampleUser{
	{"Ava", "ava@example.com", true, entity.RoleStudent, []string{"Computer Science", "AI", "Design"}},
	{"Ben", "ben@example.com", true, entity.RoleWorking, []string{"Business", "Design"}},
	{"Cara", "cara@example.com", true, entity.RoleStudent, []string{"Physics", "Robotics"}},
	{"Dee", "dee@example.com", false, entity.RoleWorking, []string{"Research", "Arts"}},
	{"Eli", "eli@example.com", true, entity.RoleWorking, []string{"Computer Science", "Business"}},
}

type sampleProject struct {
	title       string
	description string
	category    string
	tags        []string
	kind        string
}

var sampleProjects = []sampleProject{
	{"Open Source Task Tracker", "Collaborative task tracker web app.", "Computer Science", []string{"React", "MongoDB"}, entity.ProjectTypeCombined},
	{"Design System Kit", "Create a Notion-like neutral design kit.", "Design", []string{"UI", "Figma"}, entity.ProjectTypeCombined},
	{"Physics Lab Simulations", "Interactive physics experiments.", "Physics", []string{"Education"}, entity.ProjectTypeSolo},
	{"Startup Market Research", "Analyze trends and competitors.", "Business", []string{"Research"}, entity.ProjectTypeCombined},
	{"Art & Tech Showcase", "Blend art with interactive tech.", "Arts", []string{"Installation"}, entity.ProjectTypeCombined},
}

type SeedResult struct {
	Users    int64
	Projects int64
}

// Seed tops up an almost empty store with demo users and projects. Users
// whose email already exists are skipped. Sample projects are owned by the
// first users in store order.
func Seed(ctx context.Context, users userRepo.UserRepository, projects projectRepo.ProjectRepository) (*SeedResult, error) {
	if err := seedUsers(ctx, users); err != nil {
		return nil, err
	}
	if err := seedProjects(ctx, users, projects); err != nil {
		return nil, err
	}

	userCount, err := users.Count(ctx)
	if err != nil {
		return nil, err
	}
	projectCount, err := projects.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &SeedResult{Users: userCount, Projects: projectCount}, nil
}

func seedUsers(ctx context.Context, users userRepo.UserRepository) error {
	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count >= SeedMinimum {
		return nil
	}

	for _, su := range sampleUsers {
		_, err := users.FindByEmail(ctx, su.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return err
		}

		now := time.Now().UTC()
		role := su.role
		user := &entity.User{
			Username:      su.username,
			Email:         su.email,
			EmailVerified: su.verified,
			Role:          &role,
			Interests:     su.interests,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", su.email, err)
		}
		log.Info().Str("email", su.email).Msg("seeded user")
	}
	return nil
}

func seedProjects(ctx context.Context, users userRepo.UserRepository, projects projectRepo.ProjectRepository) error {
	count, err := projects.Count(ctx)
	if err != nil {
		return err
	}
	if count >= SeedMinimum {
		return nil
	}

	owners, err := users.FindAll(ctx, len(sampleProjects))
	if err != nil {
		return err
	}
	if len(owners) == 0 {
		return nil
	}

	for i, sp := range sampleProjects {
		owner := owners[i%len(owners)].ID.Hex()
		now := time.Now().UTC()
		project := &entity.Project{
			Title:       sp.title,
			Description: sp.description,
			Category:    sp.category,
			Tags:        sp.tags,
			Attachments: []string{},
			CreatedBy:   owner,
			Members:     []string{owner},
			Type:        sp.kind,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := projects.Create(ctx, project); err != nil {
			return fmt.Errorf("failed to seed project %q: %w", sp.title, err)
		}
	}
	log.Info().Int("count", len(sampleProjects)).Msg("seeded projects")
	return nil
}
