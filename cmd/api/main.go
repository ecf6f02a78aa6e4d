package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"io.winapps.smokefree/internal/app"
	"io.winapps.smokefree/internal/auth0"
	"io.winapps.smokefree/internal/config"
	"io.winapps.smokefree/internal/handlers"
	"io.winapps.smokefree/internal/jobs"
	"io.winapps.smokefree/internal/logging"
	"io.winapps.smokefree/internal/middleware"
	"io.winapps.smokefree/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to initialize dependencies", "error", err)
	}
	defer a.Close()

	verifier, err := auth0.NewVerifier(context.Background(), cfg.JWKSURL(), cfg.Auth0Issuer(), cfg.Auth0Audience)
	if err != nil {
		logger.Fatalw("Failed to load Auth0 signing keys", "error", err)
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	cleanupStop := make(chan struct{})
	rateLimiter.StartCleanup(time.Minute, cleanupStop)
	defer close(cleanupStop)

	router := server.NewRouter(server.Deps{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins(),
		Auth:           middleware.AuthMiddleware(verifier, a.Users, logger),
		RateLimiter:    rateLimiter,

		System:        handlers.NewSystemHandler(a.Store, a.Cache, auth0.NewClientConfig(cfg.Auth0URL(), cfg.Auth0ClientID, cfg.Auth0Audience), logger),
		Users:         handlers.NewUsersHandler(a.Users, logger),
		Preferences:   handlers.NewPreferencesHandler(a.Preferences, a.Motivation, logger),
		Diary:         handlers.NewDiaryHandler(a.Store, logger),
		Cravings:      handlers.NewCravingsHandler(a.Store, logger),
		Badges:        handlers.NewBadgesHandler(a.Store, a.Preferences, logger),
		Motivation:    handlers.NewMotivationHandler(a.Motivation, a.Store, logger),
		Health:        handlers.NewHealthHandler(a.Preferences, cfg.Location(), logger),
		Notifications: handlers.NewNotificationsHandler(a.Store, logger),
	})

	var scheduler *jobs.Scheduler
	if cfg.SchedulerEnabled {
		scheduler, err = a.Scheduler()
		if err != nil {
			logger.Fatalw("Failed to configure scheduler", "error", err)
		}
		scheduler.Start(cfg.SchedulerRunOnStart)
		logger.Info("Scheduler started inside the api process")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infow("Server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			logger.Warnw("Scheduler did not stop cleanly", "error", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exited")
}
