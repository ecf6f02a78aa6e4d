package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	accountmodels "io.winapps.smokefree/internal/models/account"
	prefmodels "io.winapps.smokefree/internal/models/preferences"
)

const defaultLanguage = "en-us"

const preferenceColumns = "id, user_id, reason, quit_date, language, cig_per_day, years_smoking, cig_price, created_at, updated_at"

// GetPreference loads a user's preference with its goals and the badges the
// user holds.
func (s *Store) GetPreference(ctx context.Context, userID int64) (*accountmodels.Preference, error) {
	var p accountmodels.Preference
	err := s.db.QueryRow(ctx, "SELECT "+preferenceColumns+" FROM preferences WHERE user_id = $1", userID).
		Scan(&p.ID, &p.UserID, &p.Reason, &p.QuitDate, &p.Language, &p.CigPerDay, &p.YearsSmoking, &p.CigPrice, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}

	goals, err := s.listGoals(ctx, s.db, p.ID)
	if err != nil {
		return nil, err
	}
	p.Goals = goals

	badges, err := s.ListUserBadges(ctx, userID, Page{Limit: 1000})
	if err != nil {
		return nil, err
	}
	p.Badges = badges

	return &p, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *Store) listGoals(ctx context.Context, q querier, preferenceID int64) ([]accountmodels.Goal, error) {
	rows, err := q.Query(ctx, `
		SELECT id, preference_id, description, is_completed
		FROM goals WHERE preference_id = $1 ORDER BY id`, preferenceID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := []accountmodels.Goal{}
	for rows.Next() {
		var g accountmodels.Goal
		if err := rows.Scan(&g.ID, &g.PreferenceID, &g.Description, &g.IsCompleted); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// CreatePreference stores a preference and its initial goals atomically.
// ErrDuplicate is returned when the user already has one.
func (s *Store) CreatePreference(ctx context.Context, userID int64, req *prefmodels.CreatePreferenceRequest) (*accountmodels.Preference, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := s.now()
	language := defaultLanguage
	if req.Language != nil && *req.Language != "" {
		language = *req.Language
	}

	var prefID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO preferences (user_id, reason, quit_date, language, cig_per_day, years_smoking, cig_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id`,
		userID, req.Reason, req.QuitDate, language, intOrZero(req.CigPerDay), intOrZero(req.YearsSmoking), intOrZero(req.CigPrice), now,
	).Scan(&prefID)
	if err != nil {
		return nil, fmt.Errorf("insert preference: %w", translate(err))
	}

	for _, g := range req.Goals {
		if _, err := tx.Exec(ctx, `
			INSERT INTO goals (preference_id, description, is_completed, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)`, prefID, g.Description, g.IsCompleted, now); err != nil {
			return nil, fmt.Errorf("insert goal: %w", translate(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit preference: %w", err)
	}

	return s.GetPreference(ctx, userID)
}

// UpdatePreference applies the non-nil fields. When goals are supplied the
// stored list is replaced: known ids are updated, new entries inserted and
// anything not mentioned is removed.
func (s *Store) UpdatePreference(ctx context.Context, userID int64, req *prefmodels.UpdatePreferenceRequest) (*accountmodels.Preference, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var prefID int64
	if err := tx.QueryRow(ctx, "SELECT id FROM preferences WHERE user_id = $1 FOR UPDATE", userID).Scan(&prefID); err != nil {
		return nil, translate(err)
	}

	now := s.now()
	var b setBuilder
	if req.Reason != nil {
		b.add("reason", *req.Reason)
	}
	if req.QuitDate != nil {
		b.add("quit_date", *req.QuitDate)
	}
	if req.Language != nil {
		b.add("language", *req.Language)
	}
	if req.CigPerDay != nil {
		b.add("cig_per_day", *req.CigPerDay)
	}
	if req.YearsSmoking != nil {
		b.add("years_smoking", *req.YearsSmoking)
	}
	if req.CigPrice != nil {
		b.add("cig_price", *req.CigPrice)
	}
	if !b.empty() || req.Goals != nil {
		query, args := b.build("preferences", now, "id = $%d", prefID)
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("update preference: %w", translate(err))
		}
	}

	if req.Goals != nil {
		if err := s.replaceGoals(ctx, tx, prefID, *req.Goals); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit preference: %w", err)
	}

	return s.GetPreference(ctx, userID)
}

func (s *Store) replaceGoals(ctx context.Context, tx pgx.Tx, prefID int64, goals []prefmodels.GoalInput) error {
	existing, err := s.listGoals(ctx, tx, prefID)
	if err != nil {
		return err
	}
	known := make(map[int64]bool, len(existing))
	for _, g := range existing {
		known[g.ID] = true
	}

	now := s.now()
	keep := make(map[int64]bool, len(goals))
	for _, g := range goals {
		if g.ID != nil && known[*g.ID] {
			keep[*g.ID] = true
			if _, err := tx.Exec(ctx, `
				UPDATE goals SET description = $1, is_completed = $2, updated_at = $3
				WHERE id = $4`, g.Description, g.IsCompleted, now, *g.ID); err != nil {
				return fmt.Errorf("update goal: %w", err)
			}
			continue
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO goals (preference_id, description, is_completed, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)`, prefID, g.Description, g.IsCompleted, now); err != nil {
			return fmt.Errorf("insert goal: %w", err)
		}
	}

	for _, g := range existing {
		if keep[g.ID] {
			continue
		}
		if _, err := tx.Exec(ctx, "DELETE FROM goals WHERE id = $1", g.ID); err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}
	}
	return nil
}

// ListPreferenceUserIDs returns every user that has a preference.
func (s *Store) ListPreferenceUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.Query(ctx, "SELECT user_id FROM preferences ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("list preference users: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
