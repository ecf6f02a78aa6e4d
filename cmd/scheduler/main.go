package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"io.winapps.smokefree/internal/app"
	"io.winapps.smokefree/internal/config"
	"io.winapps.smokefree/internal/logging"
)

// The scheduler process runs the periodic jobs regardless of
// SCHEDULER_ENABLED, which only concerns the api process.
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to initialize dependencies", "error", err)
	}
	defer a.Close()

	scheduler, err := a.Scheduler()
	if err != nil {
		logger.Fatalw("Failed to configure scheduler", "error", err)
	}
	scheduler.Start(cfg.SchedulerRunOnStart)
	logger.Infow("Scheduler running",
		"motivation_interval", cfg.MotivationInterval.String(),
		"badge_interval", cfg.BadgeInterval.String(),
		"timezone", cfg.Timezone,
	)

	<-ctx.Done()
	logger.Info("Stopping scheduler...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Warnw("Jobs still running at shutdown were cancelled", "error", err)
	}
	logger.Info("Scheduler exited")
}
