// Package app builds the dependency graph shared by the api and scheduler
// binaries.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"io.winapps.smokefree/internal/auth0"
	"io.winapps.smokefree/internal/cache"
	"io.winapps.smokefree/internal/config"
	"io.winapps.smokefree/internal/db"
	"io.winapps.smokefree/internal/jobs"
	"io.winapps.smokefree/internal/motivation"
	"io.winapps.smokefree/internal/notifications"
	"io.winapps.smokefree/internal/services"
	"io.winapps.smokefree/internal/store"
)

type App struct {
	Config *config.Config
	Logger *zap.SugaredLogger

	Postgres *pgxpool.Pool
	Redis    *redis.Client
	Cache    *cache.Cache
	Store    *store.Store

	Users       *services.UserService
	Preferences *services.PreferenceService
	Motivation  *services.MotivationService
	Notifier    notifications.Notifier
}

// New connects to Postgres and Redis and wires the services. Close must be
// called once the App is no longer needed.
func New(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	pool, err := db.InitPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	redisClient, err := db.InitRedis(ctx, cfg.RedisURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Postgres: pool,
		Redis:    redisClient,
		Cache:    cache.New(redisClient),
		Store:    store.New(pool),
	}

	var emails services.EmailManager
	if cfg.Auth0MgmtClientID != "" && cfg.Auth0MgmtClientSecret != "" {
		emails = auth0.NewManagement(ctx, cfg.Auth0URL(), cfg.Auth0MgmtClientID, cfg.Auth0MgmtClientSecret)
	} else {
		logger.Warn("Auth0 management credentials not set, email changes are disabled")
	}

	a.Users = services.NewUserService(a.Store, a.Cache, auth0.NewUserInfoClient(cfg.Auth0URL()), emails, logger)
	a.Preferences = services.NewPreferenceService(a.Store, a.Cache, logger)
	a.Motivation = services.NewMotivationService(a.Preferences, a.Store, a.Cache, newGenerator(cfg, logger), cfg.Location(), logger)
	a.Notifier = newNotifier(ctx, cfg, logger)

	return a, nil
}

func newGenerator(cfg *config.Config, logger *zap.SugaredLogger) motivation.Generator {
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, using template motivations")
		return motivation.TemplateGenerator{}
	}
	return motivation.NewOpenAIGenerator(motivation.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})
}

func newNotifier(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) notifications.Notifier {
	if cfg.FirebaseProjectID == "" {
		logger.Info("FIREBASE_PROJECT_ID not set, push notifications are disabled")
		return notifications.NopNotifier{}
	}
	n, err := notifications.NewFCMNotifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseServiceAccountPath, logger)
	if err != nil {
		logger.Errorw("Failed to initialize Firebase messaging, push notifications are disabled", "error", err)
		return notifications.NopNotifier{}
	}
	return n
}

// Scheduler registers the motivation and badge jobs at their configured
// intervals.
func (a *App) Scheduler() (*jobs.Scheduler, error) {
	s := jobs.NewScheduler(a.Config.Location(), a.Cache, a.Logger)
	if err := s.Add(jobs.NewMotivationJob(a.Store, a.Motivation, a.Logger), a.Config.MotivationInterval); err != nil {
		return nil, err
	}
	if err := s.Add(jobs.NewBadgeJob(a.Store, a.Preferences, a.Notifier, a.Logger), a.Config.BadgeInterval); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *App) Close() {
	if err := a.Redis.Close(); err != nil {
		a.Logger.Warnw("Failed to close Redis client", "error", err)
	}
	a.Postgres.Close()
}
