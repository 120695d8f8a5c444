package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/collabhub/internal/config"
	"anoa.com/collabhub/internal/jobs"
	searchService "anoa.com/collabhub/internal/modules/search/service"
	"anoa.com/collabhub/internal/server"
	"anoa.com/collabhub/pkg/database"
	"anoa.com/collabhub/pkg/logger"
	"anoa.com/collabhub/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	logger.Init(cfg.AppEnv)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repos *server.Repositories
		db    *mongo.Database
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn().Msg("using in-memory store, data is lost on exit")
		repos = server.NewMemoryRepositories()
	default:
		db, err = database.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := database.EnsureIndexes(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to create indexes")
		}
		log.Info().Str("database", cfg.DatabaseName).Msg("connected to MongoDB")
		repos = server.NewMongoRepositories(db)
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, cooldowns disabled")
		redisClient = nil
	}

	var meili searchService.MeiliSearchService
	if cfg.MeiliSearchHost != "" {
		client := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		meili = searchService.NewMeiliSearchService(client)
		log.Info().Str("host", cfg.MeiliSearchHost).Msg("project search index enabled")
	}

	imageStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cloudinary storage")
	}
	if imageStorage == nil {
		log.Warn().Msg("cloudinary credentials missing, uploads disabled")
	}

	srv := server.NewServer(cfg, repos, redisClient, meili, imageStorage)

	scheduler := jobs.NewScheduler()
	if err := scheduler.Register(jobs.NewSweepJob("limiter-sweep", srv.Limiter(), cfg.LimiterSweepSchedule)); err != nil {
		log.Fatal().Err(err).Msg("failed to register job")
	}
	if meili != nil {
		reindex := jobs.NewReindexJob(repos.Projects, meili, cfg.ReindexSchedule)
		if err := scheduler.Register(reindex); err != nil {
			log.Fatal().Err(err).Msg("failed to register job")
		}
		go func() {
			if err := scheduler.RunByName(ctx, reindex.Name()); err != nil {
				log.Error().Err(err).Msg("initial reindex failed")
			}
		}()
	}
	scheduler.Start()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server exited with error")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	scheduler.Stop()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		if err := database.Disconnect(shutdownCtx, db); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}
}
