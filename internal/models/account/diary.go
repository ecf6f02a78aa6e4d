package models

import "time"

type DiaryEntry struct {
	ID                     int64     `json:"id" db:"id"`
	UserID                 int64     `json:"-" db:"user_id"`
	Date                   Date      `json:"date" db:"date"`
	Notes                  string    `json:"notes" db:"notes"`
	HaveSmoked             bool      `json:"have_smoked" db:"have_smoked"`
	CravingRange           *int      `json:"craving_range" db:"craving_range"`
	NumberOfCravings       *int      `json:"number_of_cravings" db:"number_of_cravings"`
	NumberOfCigaretsSmoked *int      `json:"number_of_cigarets_smoked" db:"number_of_cigarets_smoked"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}
