package models

import "time"

type User struct {
	ID        int64     `json:"id" db:"id"`
	Auth0ID   string    `json:"auth0_id" db:"auth0_id"`
	Email     string    `json:"email" db:"email"`
	Name      *string   `json:"name" db:"name"`
	Surname   *string   `json:"surname" db:"surname"`
	Img       *string   `json:"img" db:"img"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
