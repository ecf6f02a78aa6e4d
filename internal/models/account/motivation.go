package models

import "time"

// MotivationText is the generated content of a daily motivation.
type MotivationText struct {
	Progress        string  `json:"progress"`
	Motivation      string  `json:"motivation"`
	Cravings        string  `json:"cravings"`
	Ideas           string  `json:"ideas"`
	Recommendations *string `json:"recommendations"`
}

type DailyMotivation struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"user_id" db:"user_id"`
	Date   Date  `json:"date" db:"date"`
	MotivationText
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
