// Package store holds the Postgres queries behind every resource. Queries are
// written by hand against pgx; related rows are loaded eagerly.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	ErrConflict  = errors.New("still referenced")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// DB is the subset of pgxpool.Pool used by the store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Store struct {
	db  DB
	now func() time.Time
}

func New(db DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Ping checks the connection when the underlying DB supports it.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.db.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	_, err := s.db.Exec(ctx, "SELECT 1")
	return err
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		}
	}
	return err
}

// setBuilder accumulates "column = $n" fragments for partial updates.
type setBuilder struct {
	parts []string
	args  []any
}

func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.parts = append(b.parts, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *setBuilder) empty() bool {
	return len(b.parts) == 0
}

// build finishes the statement. The trailing where args are numbered after
// the SET args.
func (b *setBuilder) build(table string, now time.Time, where string, whereArgs ...any) (string, []any) {
	b.add("updated_at", now)
	args := append([]any{}, b.args...)
	placeholders := make([]any, len(whereArgs))
	for i, a := range whereArgs {
		args = append(args, a)
		placeholders[i] = len(args)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(b.parts, ", "), fmt.Sprintf(where, placeholders...)), args
}

// Page is the skip/limit window of a list query.
type Page struct {
	Skip  int
	Limit int
}
