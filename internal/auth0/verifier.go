// Package auth0 validates Auth0 access tokens and talks to the tenant's
// userinfo and management endpoints.
package auth0

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired  = errors.New("token expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrInvalidToken  = errors.New("could not validate token")
)

// Claims are the access token claims the API reads.
type Claims struct {
	Email       string   `json:"email,omitempty"`
	Name        string   `json:"name,omitempty"`
	GivenName   string   `json:"given_name,omitempty"`
	FamilyName  string   `json:"family_name,omitempty"`
	Picture     string   `json:"picture,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	Scope       string   `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// HasPermission looks in the permissions claim and falls back to the
// space separated scope when no permissions are present.
func (c *Claims) HasPermission(permission string) bool {
	perms := c.Permissions
	if len(perms) == 0 {
		perms = strings.Fields(c.Scope)
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// FullName prefers the name claim and otherwise joins the given and family
// names.
func (c *Claims) FullName() string {
	if c.Name != "" {
		return c.Name
	}
	return strings.TrimSpace(c.GivenName + " " + c.FamilyName)
}

type Verifier struct {
	keyfunc jwt.Keyfunc
	parser  *jwt.Parser
}

// NewVerifier loads the tenant JWKS and keeps it refreshed in the background
// until ctx is cancelled. Tokens signed with an unknown kid trigger a refresh.
func NewVerifier(ctx context.Context, jwksURL, issuer, audience string) (*Verifier, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("load JWKS from %s: %w", jwksURL, err)
	}
	return NewVerifierWithKeyfunc(k.Keyfunc, issuer, audience), nil
}

func NewVerifierWithKeyfunc(kf jwt.Keyfunc, issuer, audience string) *Verifier {
	return &Verifier{
		keyfunc: kf,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"RS256"}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
			jwt.WithExpirationRequired(),
		),
	}
}

func (v *Verifier) Verify(_ context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(raw, claims, v.keyfunc)
	switch {
	case err == nil && token.Valid:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrInvalidClaims
	default:
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
