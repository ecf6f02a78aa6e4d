package store

import (
	"context"
	"fmt"

	accountmodels "io.winapps.smokefree/internal/models/account"
)

const motivationColumns = "id, user_id, date, progress, motivation, cravings, ideas, recommendations, created_at, updated_at"

func scanMotivation(row interface{ Scan(...any) error }) (*accountmodels.DailyMotivation, error) {
	var m accountmodels.DailyMotivation
	err := row.Scan(&m.ID, &m.UserID, &m.Date, &m.Progress, &m.Motivation, &m.Cravings, &m.Ideas,
		&m.Recommendations, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *Store) GetMotivation(ctx context.Context, userID int64, date accountmodels.Date) (*accountmodels.DailyMotivation, error) {
	return scanMotivation(s.db.QueryRow(ctx, "SELECT "+motivationColumns+" FROM daily_motivations WHERE user_id = $1 AND date = $2", userID, date))
}

// ReplaceMotivation drops any motivation stored for the same day and writes
// the new one in a single transaction.
func (s *Store) ReplaceMotivation(ctx context.Context, userID int64, date accountmodels.Date, text accountmodels.MotivationText) (*accountmodels.DailyMotivation, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM daily_motivations WHERE user_id = $1 AND date = $2", userID, date); err != nil {
		return nil, fmt.Errorf("delete motivation: %w", err)
	}

	now := s.now()
	m, err := scanMotivation(tx.QueryRow(ctx, `
		INSERT INTO daily_motivations (user_id, date, progress, motivation, cravings, ideas, recommendations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING `+motivationColumns,
		userID, date, text.Progress, text.Motivation, text.Cravings, text.Ideas, text.Recommendations, now))
	if err != nil {
		return nil, fmt.Errorf("insert motivation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit motivation: %w", err)
	}
	return m, nil
}

// DeleteMotivation removes the motivation stored for one day, if any.
func (s *Store) DeleteMotivation(ctx context.Context, userID int64, date accountmodels.Date) error {
	if _, err := s.db.Exec(ctx, "DELETE FROM daily_motivations WHERE user_id = $1 AND date = $2", userID, date); err != nil {
		return fmt.Errorf("delete motivation: %w", err)
	}
	return nil
}

func (s *Store) ListMotivations(ctx context.Context, userID int64, page Page) ([]accountmodels.DailyMotivation, error) {
	rows, err := s.db.Query(ctx, "SELECT "+motivationColumns+`
		FROM daily_motivations WHERE user_id = $1
		ORDER BY date DESC
		OFFSET $2 LIMIT $3`, userID, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("list motivations: %w", err)
	}
	defer rows.Close()

	out := []accountmodels.DailyMotivation{}
	for rows.Next() {
		m, err := scanMotivation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan motivation: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (s *Store) CountMotivations(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM daily_motivations WHERE user_id = $1", userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count motivations: %w", err)
	}
	return n, nil
}
