// Package migrations embeds the schema migrations and applies them with
// golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

// FS exposes the embedded migration files.
func FS() embed.FS {
	return files
}

// Runner wraps a golang-migrate instance bound to the embedded files.
type Runner struct {
	m      *migrate.Migrate
	logger *zap.SugaredLogger
}

// NewRunner opens a migrator against databaseURL. Both postgres:// and
// postgresql:// URLs are accepted and rewritten for the pgx/v5 driver.
func NewRunner(databaseURL string, logger *zap.SugaredLogger) (*Runner, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, driverURL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	m.Log = &migrateLogger{logger: logger}

	return &Runner{m: m, logger: logger}, nil
}

func driverURL(databaseURL string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}

// Up applies every pending migration.
func (r *Runner) Up() error {
	return r.run("up", r.m.Up)
}

// Down rolls back the most recent migration only.
func (r *Runner) Down() error {
	return r.run("down", func() error { return r.m.Steps(-1) })
}

// Reset rolls back every migration, leaving an empty schema.
func (r *Runner) Reset() error {
	return r.run("reset", r.m.Down)
}

// Version reports the current schema version. A database that has never been
// migrated reports version 0.
func (r *Runner) Version() (uint, bool, error) {
	v, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return v, dirty, nil
}

// Close releases the source and database handles.
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (r *Runner) run(name string, fn func() error) error {
	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		r.logger.Infow("Migrations already up to date", "direction", name)
		return nil
	}
	var short migrate.ErrShortLimit
	if errors.Is(err, migrate.ErrNilVersion) || errors.As(err, &short) {
		r.logger.Infow("Nothing to roll back", "direction", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", name, err)
	}

	v, _, _ := r.Version()
	r.logger.Infow("Migrations applied", "direction", name, "version", v)
	return nil
}

type migrateLogger struct {
	logger *zap.SugaredLogger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debugf(strings.TrimSuffix(format, "\n"), v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}
