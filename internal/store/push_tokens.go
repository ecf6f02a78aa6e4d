package store

import (
	"context"
	"fmt"

	accountmodels "io.winapps.smokefree/internal/models/account"
)

// UpsertPushToken keeps one active device token per user.
func (s *Store) UpsertPushToken(ctx context.Context, userID int64, token, platform string) error {
	now := s.now()
	_, err := s.db.Exec(ctx, `
		INSERT INTO push_tokens (user_id, token, platform, active, created_at, updated_at)
		VALUES ($1, $2, $3, true, $4, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			token = EXCLUDED.token,
			platform = EXCLUDED.platform,
			active = true,
			updated_at = EXCLUDED.updated_at`, userID, token, platform, now)
	if err != nil {
		return fmt.Errorf("upsert push token: %w", translate(err))
	}
	return nil
}

// GetPushToken returns the user's active token or ErrNotFound.
func (s *Store) GetPushToken(ctx context.Context, userID int64) (*accountmodels.PushToken, error) {
	var t accountmodels.PushToken
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, token, platform, active, created_at, updated_at
		FROM push_tokens WHERE user_id = $1 AND active = true`, userID).
		Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// DeactivatePushToken marks a token as unusable after the push provider
// rejects it.
func (s *Store) DeactivatePushToken(ctx context.Context, userID int64) error {
	if _, err := s.db.Exec(ctx, "UPDATE push_tokens SET active = false, updated_at = $1 WHERE user_id = $2", s.now(), userID); err != nil {
		return fmt.Errorf("deactivate push token: %w", err)
	}
	return nil
}
