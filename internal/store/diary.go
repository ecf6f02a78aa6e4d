package store

import (
	"context"
	"fmt"

	accountmodels "io.winapps.smokefree/internal/models/account"
	diarymodels "io.winapps.smokefree/internal/models/diary"
)

const diaryColumns = "id, user_id, date, notes, have_smoked, craving_range, number_of_cravings, number_of_cigarets_smoked, created_at, updated_at"

func scanDiary(row interface{ Scan(...any) error }) (*accountmodels.DiaryEntry, error) {
	var d accountmodels.DiaryEntry
	err := row.Scan(&d.ID, &d.UserID, &d.Date, &d.Notes, &d.HaveSmoked, &d.CravingRange,
		&d.NumberOfCravings, &d.NumberOfCigaretsSmoked, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// ListDiaryEntries returns a page of entries, newest date first, and the
// user's total entry count.
func (s *Store) ListDiaryEntries(ctx context.Context, userID int64, page Page) ([]accountmodels.DiaryEntry, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM diaries WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count diary entries: %w", err)
	}

	rows, err := s.db.Query(ctx, "SELECT "+diaryColumns+`
		FROM diaries WHERE user_id = $1
		ORDER BY date DESC
		OFFSET $2 LIMIT $3`, userID, page.Skip, page.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list diary entries: %w", err)
	}
	defer rows.Close()

	entries := []accountmodels.DiaryEntry{}
	for rows.Next() {
		d, err := scanDiary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan diary entry: %w", err)
		}
		entries = append(entries, *d)
	}
	return entries, total, rows.Err()
}

func (s *Store) GetDiaryEntry(ctx context.Context, userID, id int64) (*accountmodels.DiaryEntry, error) {
	return scanDiary(s.db.QueryRow(ctx, "SELECT "+diaryColumns+" FROM diaries WHERE id = $1 AND user_id = $2", id, userID))
}

// CreateDiaryEntry returns ErrDuplicate when the user already has an entry
// for the date.
func (s *Store) CreateDiaryEntry(ctx context.Context, userID int64, req *diarymodels.CreateDiaryRequest) (*accountmodels.DiaryEntry, error) {
	now := s.now()
	return scanDiary(s.db.QueryRow(ctx, `
		INSERT INTO diaries (user_id, date, notes, have_smoked, craving_range, number_of_cravings, number_of_cigarets_smoked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING `+diaryColumns,
		userID, req.Date, req.Notes, req.HaveSmoked, req.CravingRange, req.NumberOfCravings, req.NumberOfCigaretsSmoked, now))
}

// UpdateDiaryEntry applies the non-nil fields. Moving an entry onto a date
// that already has one yields ErrDuplicate.
func (s *Store) UpdateDiaryEntry(ctx context.Context, userID, id int64, req *diarymodels.UpdateDiaryRequest) (*accountmodels.DiaryEntry, error) {
	var b setBuilder
	if req.Date != nil {
		b.add("date", *req.Date)
	}
	if req.Notes != nil {
		b.add("notes", *req.Notes)
	}
	if req.HaveSmoked != nil {
		b.add("have_smoked", *req.HaveSmoked)
	}
	if req.CravingRange != nil {
		b.add("craving_range", *req.CravingRange)
	}
	if req.NumberOfCravings != nil {
		b.add("number_of_cravings", *req.NumberOfCravings)
	}
	if req.NumberOfCigaretsSmoked != nil {
		b.add("number_of_cigarets_smoked", *req.NumberOfCigaretsSmoked)
	}
	if b.empty() {
		return s.GetDiaryEntry(ctx, userID, id)
	}

	query, args := b.build("diaries", s.now(), "id = $%d AND user_id = $%d", id, userID)
	return scanDiary(s.db.QueryRow(ctx, query+" RETURNING "+diaryColumns, args...))
}

func (s *Store) DeleteDiaryEntry(ctx context.Context, userID, id int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM diaries WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("delete diary entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
