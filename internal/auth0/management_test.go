package auth0

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTenant(t *testing.T, identities string, patched *map[string]interface{}) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"m2m-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/api/v2/users/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer m2m-token", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "identities", r.URL.Query().Get("fields"))
			_, _ = w.Write([]byte(identities))
		case http.MethodPatch:
			require.NoError(t, json.NewDecoder(r.Body).Decode(patched))
			_, _ = w.Write([]byte(`{}`))
		}
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer user-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"sub":"auth0|1","email":"ana@example.com","name":"Ana Lopez","picture":"https://img"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCanUpdateEmail(t *testing.T) {
	ctx := context.Background()

	db := newTenant(t, `{"identities":[{"provider":"google-oauth2"},{"provider":"auth0"}]}`, nil)
	allowed, err := NewManagement(ctx, db.URL, "id", "secret").CanUpdateEmail(ctx, "auth0|1")
	require.NoError(t, err)
	assert.True(t, allowed)

	social := newTenant(t, `{"identities":[{"provider":"google-oauth2"}]}`, nil)
	allowed, err = NewManagement(ctx, social.URL, "id", "secret").CanUpdateEmail(ctx, "google-oauth2|1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestUpdateEmailRequestsVerification(t *testing.T) {
	ctx := context.Background()
	patched := map[string]interface{}{}
	srv := newTenant(t, `{}`, &patched)

	require.NoError(t, NewManagement(ctx, srv.URL, "id", "secret").UpdateEmail(ctx, "auth0|1", "new@example.com"))
	assert.Equal(t, "new@example.com", patched["email"])
	assert.Equal(t, false, patched["email_verified"])
	assert.Equal(t, true, patched["verify_email"])
}

func TestUserInfo(t *testing.T) {
	srv := newTenant(t, `{}`, nil)
	client := NewUserInfoClient(srv.URL)

	info, err := client.UserInfo(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", info.Email)
	assert.Equal(t, "Ana Lopez", info.Name)

	_, err = client.UserInfo(context.Background(), "bad-token")
	assert.Error(t, err)
}

func TestClientConfig(t *testing.T) {
	cfg := NewClientConfig("https://tenant.example.auth0.com", "spa-client", testAudience)
	assert.Equal(t, "https://tenant.example.auth0.com/authorize", cfg.AuthorizationURL)
	assert.Equal(t, "https://tenant.example.auth0.com/oauth/token", cfg.TokenURL)
	assert.Equal(t, "S256", cfg.CodeChallengeMethod)
	assert.Contains(t, cfg.Scopes, "openid")
}
