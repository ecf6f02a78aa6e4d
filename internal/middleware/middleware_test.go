package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"io.winapps.smokefree/internal/auth0"
	accountmodels "io.winapps.smokefree/internal/models/account"
	"io.winapps.smokefree/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	claims *auth0.Claims
	err    error
}

func (f fakeVerifier) Verify(context.Context, string) (*auth0.Claims, error) {
	return f.claims, f.err
}

type fakeResolver struct {
	user *accountmodels.User
	err  error
}

func (f fakeResolver) Resolve(context.Context, *auth0.Claims, string) (*accountmodels.User, error) {
	return f.user, f.err
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func authRouter(v TokenVerifier, r UserResolver, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(v, r, zap.NewNop().Sugar())}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64(UserIDKey), "email": CurrentUser(c).Email})
	})
	router.GET("/me", handlers...)
	return router
}

func TestAuthMiddlewareRejections(t *testing.T) {
	claims := &auth0.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "auth0|1"}}
	user := &accountmodels.User{ID: 7, Email: "a@example.com"}

	tests := []struct {
		name     string
		header   string
		verifier fakeVerifier
		resolver fakeResolver
		status   int
		msg      string
	}{
		{"missing header", "", fakeVerifier{claims: claims}, fakeResolver{user: user}, http.StatusUnauthorized, "Authorization header is required"},
		{"wrong scheme", "Basic abc", fakeVerifier{claims: claims}, fakeResolver{user: user}, http.StatusUnauthorized, "Authorization header must start with 'Bearer '"},
		{"empty token", "Bearer   ", fakeVerifier{claims: claims}, fakeResolver{user: user}, http.StatusUnauthorized, "Token is required"},
		{"expired", "Bearer t", fakeVerifier{err: auth0.ErrTokenExpired}, fakeResolver{user: user}, http.StatusUnauthorized, "Token expired"},
		{"bad claims", "Bearer t", fakeVerifier{err: auth0.ErrInvalidClaims}, fakeResolver{user: user}, http.StatusUnauthorized, "Invalid token claims"},
		{"bad signature", "Bearer t", fakeVerifier{err: auth0.ErrInvalidToken}, fakeResolver{user: user}, http.StatusUnauthorized, "Could not validate token"},
		{"no email", "Bearer t", fakeVerifier{claims: claims}, fakeResolver{err: services.ErrEmailRequired}, http.StatusBadRequest, "User email is required"},
		{"store down", "Bearer t", fakeVerifier{claims: claims}, fakeResolver{err: errors.New("db down")}, http.StatusInternalServerError, "Failed to load user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			authRouter(tt.verifier, tt.resolver).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.msg, errorBody(t, w))
		})
	}
}

func TestAuthMiddlewareSetsUser(t *testing.T) {
	claims := &auth0.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "auth0|1"}}
	router := authRouter(fakeVerifier{claims: claims}, fakeResolver{user: &accountmodels.User{ID: 7, Email: "a@example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"email":"a@example.com"}`, w.Body.String())
}

func TestRequirePermission(t *testing.T) {
	user := &accountmodels.User{ID: 1, Email: "admin@example.com"}

	withPerm := &auth0.Claims{Permissions: []string{"manage:badges"}, RegisteredClaims: jwt.RegisteredClaims{Subject: "a"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer t")
	authRouter(fakeVerifier{claims: withPerm}, fakeResolver{user: user}, RequirePermission("manage:badges")).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	without := &auth0.Claims{Scope: "openid email", RegisteredClaims: jwt.RegisteredClaims{Subject: "a"}}
	w = httptest.NewRecorder()
	authRouter(fakeVerifier{claims: without}, fakeResolver{user: user}, RequirePermission("manage:badges")).ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Missing permission: manage:badges", errorBody(t, w))

	router := gin.New()
	router.GET("/open", RequirePermission("manage:badges"), func(c *gin.Context) { c.Status(http.StatusOK) })
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://app.example.com/"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSWildcard(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"*"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2, zap.NewNop().Sugar())
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid == "9" {
			c.Set(UserIDKey, int64(9))
		}
		c.Next()
	}, rl.Handler())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, call("").Code)
	assert.Equal(t, http.StatusOK, call("").Code)
	limited := call("")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	// A signed-in user has their own bucket.
	assert.Equal(t, http.StatusOK, call("9").Code)

	rl.idleTTL = -time.Second
	rl.Cleanup()
	assert.Empty(t, rl.limiters)
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware(), RecoveryMiddleware(zap.NewNop().Sugar()))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error","request_id":"rid-1"}`, w.Body.String())
	assert.Equal(t, "rid-1", w.Header().Get(RequestIDHeader))
}

func TestRequestIDGenerated(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware(), RequestLoggingMiddleware(zap.NewNop().Sugar()), MetricsMiddleware())
	router.GET("/x", func(c *gin.Context) { c.JSON(http.StatusBadRequest, gin.H{"error": "nope"}) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}
