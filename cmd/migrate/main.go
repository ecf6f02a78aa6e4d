package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"io.winapps.smokefree/internal/badges"
	"io.winapps.smokefree/internal/config"
	"io.winapps.smokefree/internal/db"
	"io.winapps.smokefree/internal/logging"
	"io.winapps.smokefree/internal/migrations"
	"io.winapps.smokefree/internal/store"
)

const usage = `usage: migrate [flags] <command>

commands:
  up           apply every pending migration
  down         roll back the most recent migration
  reset        roll back every migration
  version      print the current schema version
  seed-badges  create the badges from the catalog file that do not exist yet

flags:
`

func main() {
	catalog := flag.String("catalog", "", "badge catalog file (defaults to BADGE_CATALOG_PATH)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadUnvalidated()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cmd := flag.Arg(0)
	if cmd == "seed-badges" {
		path := *catalog
		if path == "" {
			path = cfg.BadgeCatalogPath
		}
		if err := seedBadges(cfg, path, logger); err != nil {
			logger.Fatalw("Seeding badges failed", "error", err)
		}
		return
	}

	runner, err := migrations.NewRunner(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalw("Failed to open migrations", "error", err)
	}
	defer func() {
		if err := runner.Close(); err != nil {
			logger.Warnw("Failed to close migration runner", "error", err)
		}
	}()

	switch cmd {
	case "up":
		err = runner.Up()
	case "down":
		err = runner.Down()
	case "reset":
		err = runner.Reset()
	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = runner.Version()
		if err == nil {
			fmt.Printf("version %d (dirty: %t)\n", v, dirty)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatalw("Migration command failed", "command", cmd, "error", err)
	}
}

func seedBadges(cfg *config.Config, path string, logger *zap.SugaredLogger) error {
	ctx := context.Background()

	list, err := badges.LoadCatalog(path)
	if err != nil {
		return err
	}

	pool, err := db.InitPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	n, err := badges.SeedCatalog(ctx, store.New(pool), list, logger)
	if err != nil {
		return err
	}
	logger.Infow("Badge catalog seeded", "path", path, "created", n, "total", len(list))
	return nil
}
