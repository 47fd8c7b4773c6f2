// @title                       Course Marketplace API
// @version                     1.0
// @description                 Course catalogue, balance purchases and learner progress.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/learnhub/course-marketplace/internal/api"
	"github.com/learnhub/course-marketplace/internal/core/ports"
	"github.com/learnhub/course-marketplace/internal/core/service"
	mongostore "github.com/learnhub/course-marketplace/internal/infrastructure/db/mongo"
	"github.com/learnhub/course-marketplace/internal/infrastructure/db/postgres"
	redisstore "github.com/learnhub/course-marketplace/internal/infrastructure/db/redis"
	"github.com/learnhub/course-marketplace/internal/infrastructure/http/handlers"
	"github.com/learnhub/course-marketplace/internal/infrastructure/queue"
	"github.com/learnhub/course-marketplace/internal/pkg/config"
	"github.com/learnhub/course-marketplace/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	loadLocalEnv()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "course-marketplace",
	})

	ctx := context.Background()

	// --- Relational store ---
	db, err := postgres.Open(ctx, postgres.Config{
		Driver:  cfg.Database.Driver,
		DSN:     cfg.Database.URL,
		MaxOpen: cfg.Database.MaxOpen,
		MaxIdle: cfg.Database.MaxIdle,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init database")
	}
	defer func() { _ = postgres.Close(db) }()

	if err := postgres.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	checks := []handlers.DependencyCheck{
		{Name: "postgres", Check: func(ctx context.Context) error { return postgres.Ping(ctx, db) }},
	}

	// --- Activity log (optional) ---
	// Left as a nil interface when disabled so services skip recording.
	var activity ports.ActivityRecorder
	workerCtx, stopWorkers := context.WithCancel(ctx)
	var dispatcher *queue.Dispatcher

	if cfg.Mongo.Enabled {
		client, mdb, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("init mongodb")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		activityRepo := mongostore.NewActivityRepository(mdb)
		if err := activityRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("activity indexes not created")
		}

		dispatcher = queue.NewDispatcher(cfg.Activity.Workers, activityRepo, logger.Component("activity"))
		dispatcher.Start(workerCtx)
		activity = dispatcher

		checks = append(checks, handlers.DependencyCheck{
			Name:  "mongodb",
			Check: func(ctx context.Context) error { return mongostore.Ping(ctx, client) },
		})
	}

	// --- Purchase guard (optional) ---
	var lock service.PurchaseLock
	if cfg.Redis.Enabled {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("init redis")
		}
		defer func() { _ = rdb.Close() }()

		lock = redisstore.NewPurchaseLock(rdb, cfg.Redis.PurchaseLockTTL)
		checks = append(checks, handlers.DependencyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
	}

	// --- Repositories & services ---
	userRepo := postgres.NewUserRepository(db)
	courseRepo := postgres.NewCourseRepository(db)
	moduleRepo := postgres.NewModuleRepository(db)
	purchaseRepo := postgres.NewPurchaseRepository(db)
	progressRepo := postgres.NewProgressRepository(db)

	progressSvc := service.NewProgressService(progressRepo, moduleRepo, activity, logger.Component("progress"))

	e := api.NewRouter(api.Dependencies{
		Log:          logger.Component("http"),
		JWTSecret:    cfg.JWTSecret,
		Users:        userRepo,
		Auth:         service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL),
		UserSvc:      service.NewUserService(userRepo, activity, logger.Component("users")),
		Courses:      service.NewCourseService(courseRepo, moduleRepo, logger.Component("courses")),
		Modules:      service.NewModuleService(courseRepo, moduleRepo, logger.Component("modules")),
		Purchases:    service.NewPurchaseService(purchaseRepo, progressSvc, lock, activity, logger.Component("purchases")),
		Progress:     progressSvc,
		HealthChecks: checks,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("course marketplace listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}

	stopWorkers()
	if dispatcher != nil {
		dispatcher.Wait()
	}
	log.Info().Msg("server stopped")
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		l := zerolog.New(os.Stderr)
		l.Info().Msg("no .env file found; relying on existing environment")
	}
}
