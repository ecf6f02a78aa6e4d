package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.smokefree/internal/auth0"
	accountmodels "io.winapps.smokefree/internal/models/account"
	"io.winapps.smokefree/internal/services"
)

const (
	UserKey   = "user"
	UserIDKey = "user_id"
	ClaimsKey = "claims"
)

type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*auth0.Claims, error)
}

type UserResolver interface {
	Resolve(ctx context.Context, claims *auth0.Claims, rawToken string) (*accountmodels.User, error)
}

// AuthMiddleware validates the bearer token and loads, or on first sight
// provisions, the user it belongs to.
func AuthMiddleware(verifier TokenVerifier, users UserResolver, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with 'Bearer '"})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
			return
		}

		ctx := c.Request.Context()
		claims, err := verifier.Verify(ctx, token)
		if err != nil {
			msg := "Could not validate token"
			switch {
			case errors.Is(err, auth0.ErrTokenExpired):
				msg = "Token expired"
			case errors.Is(err, auth0.ErrInvalidClaims):
				msg = "Invalid token claims"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		user, err := users.Resolve(ctx, claims, token)
		if errors.Is(err, services.ErrEmailRequired) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "User email is required"})
			return
		}
		if err != nil {
			logger.Errorw("Failed to resolve user", append(ContextFields(c), "sub", claims.Subject, "error", err)...)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}

// RequirePermission must run after AuthMiddleware.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		if !claims.HasPermission(permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("Missing permission: %s", permission)})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *accountmodels.User {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*accountmodels.User)
	return u
}

func CurrentClaims(c *gin.Context) *auth0.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth0.Claims)
	return claims
}
