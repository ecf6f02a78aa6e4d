package models

import "time"

type Goal struct {
	ID           int64  `json:"id" db:"id"`
	PreferenceID int64  `json:"preference_id" db:"preference_id"`
	Description  string `json:"description" db:"description"`
	IsCompleted  bool   `json:"is_completed" db:"is_completed"`
}

type Preference struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	Reason       string    `json:"reason" db:"reason"`
	QuitDate     Date      `json:"quit_date" db:"quit_date"`
	Language     string    `json:"language" db:"language"`
	CigPerDay    int       `json:"cig_per_day" db:"cig_per_day"`
	YearsSmoking int       `json:"years_smoking" db:"years_smoking"`
	CigPrice     int       `json:"cig_price" db:"cig_price"`
	Goals        []Goal    `json:"goals"`
	Badges       []Badge   `json:"badges"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// DaysSinceQuit counts whole days between the quit date and today. It is
// negative while the quit date is still ahead.
func (p *Preference) DaysSinceQuit(today Date) int {
	return p.QuitDate.DaysUntil(today)
}

func (p *Preference) GoalDescriptions() []string {
	out := make([]string, 0, len(p.Goals))
	for _, g := range p.Goals {
		out = append(out, g.Description)
	}
	return out
}
