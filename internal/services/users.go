package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"io.winapps.smokefree/internal/auth0"
	"io.winapps.smokefree/internal/cache"
	accountmodels "io.winapps.smokefree/internal/models/account"
	usermodels "io.winapps.smokefree/internal/models/users"
	"io.winapps.smokefree/internal/store"
)

var (
	ErrEmailRequired         = errors.New("user email is required")
	ErrEmailChangeNotAllowed = errors.New("email can only be changed for database users")
)

type UserStore interface {
	GetUserByAuth0ID(ctx context.Context, auth0ID string) (*accountmodels.User, error)
	GetUserByEmail(ctx context.Context, email string) (*accountmodels.User, error)
	CreateUser(ctx context.Context, u *accountmodels.User) (*accountmodels.User, error)
	UpdateUser(ctx context.Context, id int64, req *usermodels.UpdateUserRequest) (*accountmodels.User, error)
}

type UserInfoFetcher interface {
	UserInfo(ctx context.Context, accessToken string) (*auth0.UserInfo, error)
}

type EmailManager interface {
	CanUpdateEmail(ctx context.Context, auth0ID string) (bool, error)
	UpdateEmail(ctx context.Context, auth0ID, email string) error
}

type UserService struct {
	store    UserStore
	cache    JSONCache
	userInfo UserInfoFetcher
	emails   EmailManager
	logger   *zap.SugaredLogger
}

// NewUserService wires the user lookups. userInfo and emails may be nil when
// the tenant endpoints are not configured.
func NewUserService(s UserStore, c JSONCache, userInfo UserInfoFetcher, emails EmailManager, logger *zap.SugaredLogger) *UserService {
	return &UserService{store: s, cache: c, userInfo: userInfo, emails: emails, logger: logger}
}

// Resolve returns the user behind a verified token, creating it on first
// sight from the token claims and, if those are incomplete, /userinfo.
func (s *UserService) Resolve(ctx context.Context, claims *auth0.Claims, rawToken string) (*accountmodels.User, error) {
	key := cache.UserKey(claims.Subject)

	var cached accountmodels.User
	if found, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		s.logger.Warnw("User cache read failed", "sub", claims.Subject, "error", err)
	} else if found {
		return &cached, nil
	}

	user, err := s.store.GetUserByAuth0ID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		user, err = s.provision(ctx, claims, rawToken)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, user, cache.UserTTL); err != nil {
		s.logger.Warnw("User cache write failed", "sub", claims.Subject, "error", err)
	}
	return user, nil
}

func (s *UserService) provision(ctx context.Context, claims *auth0.Claims, rawToken string) (*accountmodels.User, error) {
	email := claims.Email
	name := claims.FullName()
	surname := claims.FamilyName
	picture := claims.Picture

	if (email == "" || name == "") && s.userInfo != nil {
		info, err := s.userInfo.UserInfo(ctx, rawToken)
		if err != nil {
			// Provisioning continues with whatever the token carried.
			s.logger.Warnw("Userinfo lookup failed", "sub", claims.Subject, "error", err)
		} else {
			email = firstNonEmpty(email, info.Email)
			name = firstNonEmpty(name, info.Name)
			surname = firstNonEmpty(surname, info.FamilyName)
			picture = firstNonEmpty(picture, info.Picture)
		}
	}

	if email == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.store.CreateUser(ctx, &accountmodels.User{
		Auth0ID: claims.Subject,
		Email:   email,
		Name:    optional(name),
		Surname: optional(surname),
		Img:     optional(picture),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infow("Provisioned user", "user_id", user.ID, "sub", claims.Subject)
	return user, nil
}

// UpdateProfile applies a profile patch. Email changes are only allowed for
// database connection users. The address must be free locally before Auth0 is
// touched, and Auth0 is reverted when the database write still fails.
func (s *UserService) UpdateProfile(ctx context.Context, user *accountmodels.User, req *usermodels.UpdateUserRequest) (*accountmodels.User, error) {
	emailChanged := req.Email != nil && *req.Email != user.Email
	if emailChanged {
		if s.emails == nil {
			return nil, ErrEmailChangeNotAllowed
		}
		allowed, err := s.emails.CanUpdateEmail(ctx, user.Auth0ID)
		if err != nil {
			return nil, fmt.Errorf("check identity provider: %w", err)
		}
		if !allowed {
			return nil, ErrEmailChangeNotAllowed
		}

		owner, err := s.store.GetUserByEmail(ctx, *req.Email)
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("check email: %w", err)
		case owner.ID != user.ID:
			return nil, store.ErrDuplicate
		}

		if err := s.emails.UpdateEmail(ctx, user.Auth0ID, *req.Email); err != nil {
			return nil, fmt.Errorf("update email in Auth0: %w", err)
		}
	}

	updated, err := s.store.UpdateUser(ctx, user.ID, req)
	if err != nil {
		if emailChanged {
			if rerr := s.emails.UpdateEmail(ctx, user.Auth0ID, user.Email); rerr != nil {
				s.logger.Errorw("Auth0 email revert failed", "user_id", user.ID, "error", rerr)
			}
		}
		return nil, err
	}
	if err := s.cache.Delete(ctx, cache.UserKey(user.Auth0ID)); err != nil {
		s.logger.Warnw("User cache invalidation failed", "user_id", user.ID, "error", err)
	}
	return updated, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
