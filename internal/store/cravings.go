package store

import (
	"context"
	"fmt"

	accountmodels "io.winapps.smokefree/internal/models/account"
	cravingmodels "io.winapps.smokefree/internal/models/cravings"
)

const cravingColumns = "id, user_id, date, comments, have_smoked, desire_range, number_of_cigarets_smoked, feeling, activity, company, created_at, updated_at"

func scanCraving(row interface{ Scan(...any) error }) (*accountmodels.Craving, error) {
	var c accountmodels.Craving
	err := row.Scan(&c.ID, &c.UserID, &c.Date, &c.Comments, &c.HaveSmoked, &c.DesireRange,
		&c.NumberOfCigaretsSmoked, &c.Feeling, &c.Activity, &c.Company, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// ListCravings returns a page of cravings, newest first. A non-nil day limits
// the result to that date.
func (s *Store) ListCravings(ctx context.Context, userID int64, day *accountmodels.Date, page Page) ([]accountmodels.Craving, int, error) {
	where := "user_id = $1"
	args := []any{userID}
	if day != nil {
		where += " AND date = $2"
		args = append(args, *day)
	}

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM cravings WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cravings: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM cravings WHERE %s ORDER BY date DESC, id DESC OFFSET $%d LIMIT $%d",
		cravingColumns, where, len(args)+1, len(args)+2)
	rows, err := s.db.Query(ctx, query, append(args, page.Skip, page.Limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cravings: %w", err)
	}
	defer rows.Close()

	cravings := []accountmodels.Craving{}
	for rows.Next() {
		c, err := scanCraving(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan craving: %w", err)
		}
		cravings = append(cravings, *c)
	}
	return cravings, total, rows.Err()
}

func (s *Store) GetCraving(ctx context.Context, userID, id int64) (*accountmodels.Craving, error) {
	return scanCraving(s.db.QueryRow(ctx, "SELECT "+cravingColumns+" FROM cravings WHERE id = $1 AND user_id = $2", id, userID))
}

func (s *Store) CreateCraving(ctx context.Context, userID int64, req *cravingmodels.CreateCravingRequest) (*accountmodels.Craving, error) {
	now := s.now()
	return scanCraving(s.db.QueryRow(ctx, `
		INSERT INTO cravings (user_id, date, comments, have_smoked, desire_range, number_of_cigarets_smoked, feeling, activity, company, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING `+cravingColumns,
		userID, req.Date, req.Comments, req.HaveSmoked, intOrZero(req.DesireRange), intOrZero(req.NumberOfCigaretsSmoked),
		req.Feeling, req.Activity, req.Company, now))
}

func (s *Store) UpdateCraving(ctx context.Context, userID, id int64, req *cravingmodels.UpdateCravingRequest) (*accountmodels.Craving, error) {
	var b setBuilder
	if req.Comments != nil {
		b.add("comments", *req.Comments)
	}
	if req.HaveSmoked != nil {
		b.add("have_smoked", *req.HaveSmoked)
	}
	if req.DesireRange != nil {
		b.add("desire_range", *req.DesireRange)
	}
	if req.NumberOfCigaretsSmoked != nil {
		b.add("number_of_cigarets_smoked", *req.NumberOfCigaretsSmoked)
	}
	if req.Feeling != nil {
		b.add("feeling", *req.Feeling)
	}
	if req.Activity != nil {
		b.add("activity", *req.Activity)
	}
	if req.Company != nil {
		b.add("company", *req.Company)
	}
	if b.empty() {
		return s.GetCraving(ctx, userID, id)
	}

	query, args := b.build("cravings", s.now(), "id = $%d AND user_id = $%d", id, userID)
	return scanCraving(s.db.QueryRow(ctx, query+" RETURNING "+cravingColumns, args...))
}

func (s *Store) DeleteCraving(ctx context.Context, userID, id int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM cravings WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("delete craving: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
