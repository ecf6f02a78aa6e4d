package models

import "time"

type Craving struct {
	ID                     int64     `json:"id" db:"id"`
	UserID                 int64     `json:"-" db:"user_id"`
	Date                   Date      `json:"date" db:"date"`
	Comments               string    `json:"comments" db:"comments"`
	HaveSmoked             bool      `json:"have_smoked" db:"have_smoked"`
	DesireRange            *int      `json:"desire_range" db:"desire_range"`
	NumberOfCigaretsSmoked *int      `json:"number_of_cigarets_smoked" db:"number_of_cigarets_smoked"`
	Feeling                *string   `json:"feeling" db:"feeling"`
	Activity               *string   `json:"activity" db:"activity"`
	Company                *string   `json:"company" db:"company"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}
