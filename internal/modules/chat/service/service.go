package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"anoa.com/collabhub/internal/entity"
	"anoa.com/collabhub/internal/metrics"
	"anoa.com/collabhub/internal/modules/chat/dto"
	"anoa.com/collabhub/internal/modules/chat/repository"
	"anoa.com/collabhub/pkg/ratelimiter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultChatLimit = 50

	BotReply = "Great question! Let's capture tasks for this and assign owners."
)

type ChatService interface {
	// GetChat returns the latest limit messages of a project, oldest first.
	GetChat(ctx context.Context, projectID string, limit int) ([]dto.ChatMessageResponse, error)
	// PostChat stores a message. A message ending in a question mark also
	// gets an automatic reply, which is not part of the result.
	PostChat(ctx context.Context, projectID string, req dto.ChatRequest) (*dto.ChatMessageResponse, error)
}

type chatService struct {
	repo        repository.ChatRepository
	redisClient *redis.Client
	cooldown    time.Duration
}

// NewChatService builds the chat service. A nil redisClient disables the
// per-sender cooldown.
func NewChatService(repo repository.ChatRepository, redisClient *redis.Client, cooldown time.Duration) ChatService {
	return &chatService{repo: repo, redisClient: redisClient, cooldown: cooldown}
}

func (s *chatService) GetChat(ctx context.Context, projectID string, limit int) ([]dto.ChatMessageResponse, error) {
	if limit <= 0 {
		limit = DefaultChatLimit
	}

	messages, err := s.repo.FindLatest(ctx, projectID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChatMessageResponse, len(messages))
	for i, m := range messages {
		out[len(messages)-1-i] = *dto.ToChatMessageResponse(m)
	}
	return out, nil
}

func (s *chatService) PostChat(ctx context.Context, projectID string, req dto.ChatRequest) (*dto.ChatMessageResponse, error) {
	subject := req.SenderID + ":" + projectID
	if err := ratelimiter.Enforce(ctx, s.redisClient, subject, ratelimiter.ScopeChat, s.cooldown); err != nil {
		return nil, err
	}

	msg := &entity.ChatMessage{
		ProjectID: projectID,
		SenderID:  req.SenderID,
		Content:   req.Content,
		Timestamp: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, subject, ratelimiter.ScopeChat)
		return nil, fmt.Errorf("failed to post message: %w", err)
	}
	metrics.ChatMessagesTotal.Inc()

	if strings.HasSuffix(strings.TrimSpace(req.Content), "?") {
		s.reply(ctx, projectID)
	}

	return dto.ToChatMessageResponse(msg), nil
}

// reply posts the bot answer. The user's message stays even if this fails.
func (s *chatService) reply(ctx context.Context, projectID string) {
	bot := &entity.ChatMessage{
		ProjectID: projectID,
		SenderID:  entity.BotSenderID,
		Content:   BotReply,
		Timestamp: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, bot); err != nil {
		log.Error().Err(err).Str("project_id", projectID).Msg("failed to post bot reply")
		return
	}
	metrics.BotRepliesTotal.Inc()
}
