package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"anoa.com/collabhub/internal/config"
	"anoa.com/collabhub/internal/metrics"
	"anoa.com/collabhub/internal/middleware"
	attachmentHttp "anoa.com/collabhub/internal/modules/attachment/delivery/http"
	attachmentService "anoa.com/collabhub/internal/modules/attachment/service"
	chatHttp "anoa.com/collabhub/internal/modules/chat/delivery/http"
	chatService "anoa.com/collabhub/internal/modules/chat/service"
	collabHttp "anoa.com/collabhub/internal/modules/collaboration/delivery/http"
	collabService "anoa.com/collabhub/internal/modules/collaboration/service"
	projectHttp "anoa.com/collabhub/internal/modules/project/delivery/http"
	projectService "anoa.com/collabhub/internal/modules/project/service"
	recommendationHttp "anoa.com/collabhub/internal/modules/recommendation/delivery/http"
	recommendationService "anoa.com/collabhub/internal/modules/recommendation/service"
	searchHttp "anoa.com/collabhub/internal/modules/search/delivery/http"
	searchService "anoa.com/collabhub/internal/modules/search/service"
	systemHttp "anoa.com/collabhub/internal/modules/system/delivery/http"
	systemService "anoa.com/collabhub/internal/modules/system/service"
	userHttp "anoa.com/collabhub/internal/modules/user/delivery/http"
	userService "anoa.com/collabhub/internal/modules/user/service"
	"anoa.com/collabhub/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type Server struct {
	engine     *gin.Engine
	limiter    *middleware.IPRateLimiter
	httpServer *http.Server
}

// NewServer wires every module onto a gin engine. redisClient, meili and
// imageStorage may each be nil, which turns off cooldowns, the search index
// and uploads respectively.
func NewServer(
	cfg *config.Config,
	repos *Repositories,
	redisClient *redis.Client,
	meili searchService.MeiliSearchService,
	imageStorage storage.ImageStorage,
) *Server {
	userSvc := userService.NewUserService(repos.Users)
	userHandler := userHttp.NewUserHandler(userSvc)

	projectSvc := projectService.NewProjectService(repos.Projects, repos.Users, repos.Chats, repos.Requests, imageStorage, meili)
	projectHandler := projectHttp.NewProjectHandler(projectSvc)

	chatSvc := chatService.NewChatService(repos.Chats, redisClient, cfg.RateLimitChat)
	chatHandler := chatHttp.NewChatHandler(chatSvc)

	collabSvc := collabService.NewCollaborationService(repos.Requests, repos.Projects, meili, redisClient, cfg.RateLimitRequest)
	collabHandler := collabHttp.NewCollaborationHandler(collabSvc)

	recommendationSvc := recommendationService.NewRecommendationService(repos.Users, repos.Projects)
	recommendationHandler := recommendationHttp.NewRecommendationHandler(recommendationSvc)

	searchSvc := searchService.NewSearchService(repos.Projects, meili)
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	attachmentSvc := attachmentService.NewAttachmentService(imageStorage, cfg.CloudinaryUploadFolder)
	attachmentHandler := attachmentHttp.NewAttachmentHandler(attachmentSvc)

	systemSvc := systemService.NewSystemService(repos.Inspector, repos.Users, repos.Projects)
	systemHandler := systemHttp.NewSystemHandler(systemSvc)

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitIPRPS), cfg.RateLimitIPBurst, limiterIdleTTL)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger("/healthz", "/metrics"))
	router.Use(metrics.GinMiddleware())

	router.GET("/", systemHandler.Root)
	router.GET("/test", systemHandler.Status)
	router.GET("/schema", systemHandler.Schema)
	router.GET("/healthz", systemHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(limiter.Middleware())
	{
		api.POST("/seed", systemHandler.Seed)

		users := api.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.LoginOrCreate)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.POST("/:id/verify_email", userHandler.VerifyEmail)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.POST("/:id/join", projectHandler.JoinProject)
			projects.POST("/:id/leave", projectHandler.LeaveProject)
			projects.GET("/:id/members", projectHandler.ListMembers)

			projects.GET("/:id/chat", chatHandler.GetChat)
			projects.POST("/:id/chat", chatHandler.PostChat)

			projects.POST("/:id/requests", collabHandler.RequestCollaboration)
			projects.GET("/:id/requests", collabHandler.ListRequests)
		}

		api.POST("/requests/:id/respond", collabHandler.Respond)
		api.GET("/recommendations/:id", recommendationHandler.Recommend)
		api.GET("/search/projects", searchHandler.SearchProjects)
		api.POST("/uploads", attachmentHandler.UploadAttachment)
	}

	return &Server{
		engine:  router,
		limiter: limiter,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Limiter is swept by the background job.
func (s *Server) Limiter() *middleware.IPRateLimiter {
	return s.limiter
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
