package server

import (
	chatRepo "anoa.com/collabhub/internal/modules/chat/repository"
	collabRepo "anoa.com/collabhub/internal/modules/collaboration/repository"
	projectRepo "anoa.com/collabhub/internal/modules/project/repository"
	userRepo "anoa.com/collabhub/internal/modules/user/repository"
	"anoa.com/collabhub/pkg/database"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Repositories bundles the stores the handlers run against.
type Repositories struct {
	Users     userRepo.UserRepository
	Projects  projectRepo.ProjectRepository
	Chats     chatRepo.ChatRepository
	Requests  collabRepo.CollaborationRepository
	Inspector database.Inspector
}

func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:     userRepo.NewUserRepository(db),
		Projects:  projectRepo.NewProjectRepository(db),
		Chats:     chatRepo.NewChatRepository(db),
		Requests:  collabRepo.NewCollaborationRepository(db),
		Inspector: database.NewMongoInspector(db),
	}
}

// NewMemoryRepositories keeps everything in process. Data is lost on exit.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Users:     userRepo.NewMemoryUserRepository(),
		Projects:  projectRepo.NewMemoryProjectRepository(),
		Chats:     chatRepo.NewMemoryChatRepository(),
		Requests:  collabRepo.NewMemoryCollaborationRepository(),
		Inspector: database.NewMemoryInspector(),
	}
}
