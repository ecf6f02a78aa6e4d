package models

import "time"

type Badge struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Image       string `json:"image" db:"image"`
	// ConditionTime is the number of minutes after the quit date at which
	// the badge is earned.
	ConditionTime int       `json:"condition_time" db:"condition_time"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type UserBadge struct {
	UserID    int64     `json:"user_id" db:"user_id"`
	BadgeID   int64     `json:"badge_id" db:"badge_id"`
	AwardedAt time.Time `json:"awarded_at" db:"awarded_at"`
}

// AwardCandidate is a user with a preference, as seen by the badge job.
type AwardCandidate struct {
	UserID   int64
	QuitDate Date
	Held     map[int64]bool
}
