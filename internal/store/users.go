package store

import (
	"context"
	"fmt"

	accountmodels "io.winapps.smokefree/internal/models/account"
	usermodels "io.winapps.smokefree/internal/models/users"
)

const userColumns = "id, auth0_id, email, name, surname, img, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*accountmodels.User, error) {
	var u accountmodels.User
	if err := row.Scan(&u.ID, &u.Auth0ID, &u.Email, &u.Name, &u.Surname, &u.Img, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetUserByAuth0ID(ctx context.Context, auth0ID string) (*accountmodels.User, error) {
	return scanUser(s.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE auth0_id = $1", auth0ID))
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*accountmodels.User, error) {
	return scanUser(s.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*accountmodels.User, error) {
	return scanUser(s.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE lower(email) = lower($1)", email))
}

// CreateUser inserts a user or, when the Auth0 subject already exists,
// returns the stored row unchanged.
func (s *Store) CreateUser(ctx context.Context, u *accountmodels.User) (*accountmodels.User, error) {
	now := s.now()
	query := `
		INSERT INTO users (auth0_id, email, name, surname, img, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (auth0_id) DO UPDATE SET auth0_id = EXCLUDED.auth0_id
		RETURNING ` + userColumns
	created, err := scanUser(s.db.QueryRow(ctx, query, u.Auth0ID, u.Email, u.Name, u.Surname, u.Img, now))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, req *usermodels.UpdateUserRequest) (*accountmodels.User, error) {
	var b setBuilder
	if req.Name != nil {
		b.add("name", *req.Name)
	}
	if req.Surname != nil {
		b.add("surname", *req.Surname)
	}
	if req.Img != nil {
		b.add("img", *req.Img)
	}
	if req.Email != nil {
		b.add("email", *req.Email)
	}
	if b.empty() {
		return s.GetUserByID(ctx, id)
	}

	query, args := b.build("users", s.now(), "id = $%d", id)
	updated, err := scanUser(s.db.QueryRow(ctx, query+" RETURNING "+userColumns, args...))
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}
