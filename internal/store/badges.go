package store

import (
	"context"
	"fmt"

	accountmodels "io.winapps.smokefree/internal/models/account"
	badgemodels "io.winapps.smokefree/internal/models/badges"
)

const badgeColumns = "id, name, description, image, condition_time, created_at, updated_at"

func scanBadge(row interface{ Scan(...any) error }) (*accountmodels.Badge, error) {
	var b accountmodels.Badge
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Image, &b.ConditionTime, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) collectBadges(ctx context.Context, query string, args ...any) ([]accountmodels.Badge, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	badges := []accountmodels.Badge{}
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, *b)
	}
	return badges, rows.Err()
}

// CreateBadge returns ErrDuplicate when the name or condition time is taken.
func (s *Store) CreateBadge(ctx context.Context, req *badgemodels.CreateBadgeRequest) (*accountmodels.Badge, error) {
	now := s.now()
	return scanBadge(s.db.QueryRow(ctx, `
		INSERT INTO badges (name, description, image, condition_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING `+badgeColumns, req.Name, req.Description, req.Image, req.ConditionTime, now))
}

func (s *Store) CountBadges(ctx context.Context) (int, error) {
	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM badges").Scan(&total); err != nil {
		return 0, fmt.Errorf("count badges: %w", err)
	}
	return total, nil
}

// ListBadges orders the catalog by the time needed to earn each badge.
func (s *Store) ListBadges(ctx context.Context, page Page) ([]accountmodels.Badge, error) {
	return s.collectBadges(ctx, "SELECT "+badgeColumns+" FROM badges ORDER BY condition_time, id OFFSET $1 LIMIT $2", page.Skip, page.Limit)
}

func (s *Store) ListUserBadges(ctx context.Context, userID int64, page Page) ([]accountmodels.Badge, error) {
	return s.collectBadges(ctx, `
		SELECT b.id, b.name, b.description, b.image, b.condition_time, b.created_at, b.updated_at
		FROM badges b
		JOIN user_badges ub ON ub.badge_id = b.id
		WHERE ub.user_id = $1
		ORDER BY b.condition_time, b.id
		OFFSET $2 LIMIT $3`, userID, page.Skip, page.Limit)
}

func (s *Store) CountUserBadges(ctx context.Context, userID int64) (int, error) {
	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM user_badges WHERE user_id = $1", userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count user badges: %w", err)
	}
	return total, nil
}

func (s *Store) GetBadge(ctx context.Context, id int64) (*accountmodels.Badge, error) {
	return scanBadge(s.db.QueryRow(ctx, "SELECT "+badgeColumns+" FROM badges WHERE id = $1", id))
}

func (s *Store) UpdateBadge(ctx context.Context, id int64, req *badgemodels.UpdateBadgeRequest) (*accountmodels.Badge, error) {
	var b setBuilder
	if req.Name != nil {
		b.add("name", *req.Name)
	}
	if req.Description != nil {
		b.add("description", *req.Description)
	}
	if req.Image != nil {
		b.add("image", *req.Image)
	}
	if req.ConditionTime != nil {
		b.add("condition_time", *req.ConditionTime)
	}
	if b.empty() {
		return s.GetBadge(ctx, id)
	}

	query, args := b.build("badges", s.now(), "id = $%d", id)
	return scanBadge(s.db.QueryRow(ctx, query+" RETURNING "+badgeColumns, args...))
}

// DeleteBadge removes a badge from the catalog. Awards cascade with it.
func (s *Store) DeleteBadge(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM badges WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete badge: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBadgeHolders returns the ids of every user holding the badge.
func (s *Store) ListBadgeHolders(ctx context.Context, badgeID int64) ([]int64, error) {
	rows, err := s.db.Query(ctx, "SELECT user_id FROM user_badges WHERE badge_id = $1 ORDER BY user_id", badgeID)
	if err != nil {
		return nil, fmt.Errorf("list badge holders: %w", err)
	}
	defer rows.Close()

	holders := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan badge holder: %w", err)
		}
		holders = append(holders, id)
	}
	return holders, rows.Err()
}

// AssignBadge grants one badge. ErrDuplicate means the user already holds
// it; ErrConflict means the user or badge does not exist.
func (s *Store) AssignBadge(ctx context.Context, userID, badgeID int64) error {
	_, err := s.db.Exec(ctx, "INSERT INTO user_badges (user_id, badge_id, awarded_at) VALUES ($1, $2, $3)", userID, badgeID, s.now())
	if err != nil {
		return fmt.Errorf("assign badge: %w", translate(err))
	}
	return nil
}

// AwardBadges grants every badge in badgeIDs the user does not already hold
// and returns the ids that were newly granted.
func (s *Store) AwardBadges(ctx context.Context, userID int64, badgeIDs []int64) ([]int64, error) {
	if len(badgeIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `
		INSERT INTO user_badges (user_id, badge_id, awarded_at)
		SELECT $1, unnest($2::bigint[]), $3
		ON CONFLICT (user_id, badge_id) DO NOTHING
		RETURNING badge_id`, userID, badgeIDs, s.now())
	if err != nil {
		return nil, fmt.Errorf("award badges: %w", err)
	}
	defer rows.Close()

	awarded := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan awarded badge: %w", err)
		}
		awarded = append(awarded, id)
	}
	return awarded, rows.Err()
}

// ListAwardCandidates returns every user with a preference together with the
// badge ids they already hold.
func (s *Store) ListAwardCandidates(ctx context.Context) ([]accountmodels.AwardCandidate, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.user_id, p.quit_date,
			COALESCE(array_agg(ub.badge_id) FILTER (WHERE ub.badge_id IS NOT NULL), '{}')::bigint[]
		FROM preferences p
		LEFT JOIN user_badges ub ON ub.user_id = p.user_id
		GROUP BY p.user_id, p.quit_date
		ORDER BY p.user_id`)
	if err != nil {
		return nil, fmt.Errorf("list award candidates: %w", err)
	}
	defer rows.Close()

	candidates := []accountmodels.AwardCandidate{}
	for rows.Next() {
		var (
			c    accountmodels.AwardCandidate
			held []int64
		)
		if err := rows.Scan(&c.UserID, &c.QuitDate, &held); err != nil {
			return nil, fmt.Errorf("scan award candidate: %w", err)
		}
		c.Held = make(map[int64]bool, len(held))
		for _, id := range held {
			c.Held[id] = true
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
