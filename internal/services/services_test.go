package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"io.winapps.smokefree/internal/auth0"
	"io.winapps.smokefree/internal/cache"
	accountmodels "io.winapps.smokefree/internal/models/account"
	prefmodels "io.winapps.smokefree/internal/models/preferences"
	usermodels "io.winapps.smokefree/internal/models/users"
	"io.winapps.smokefree/internal/store"
)

func claimsFor(sub, email, name string) *auth0.Claims {
	return &auth0.Claims{Email: email, Name: name, RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}
}

func TestResolveProvisionsFromClaims(t *testing.T) {
	users := newFakeUserStore()
	c := newMapCache()
	svc := NewUserService(users, c, nil, nil, zap.NewNop().Sugar())

	u, err := svc.Resolve(context.Background(), claimsFor("auth0|1", "ana@example.com", "Ana"), "tok")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "Ana", *u.Name)
	assert.True(t, c.has(cache.UserKey("auth0|1")))

	// Second call is served from the cache.
	_, err = svc.Resolve(context.Background(), claimsFor("auth0|1", "ana@example.com", "Ana"), "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, users.created)
}

func TestResolveFallsBackToUserInfo(t *testing.T) {
	info := &fakeUserInfo{info: &auth0.UserInfo{Email: "bo@example.com", Name: "Bo", Picture: "https://img"}}
	svc := NewUserService(newFakeUserStore(), newMapCache(), info, nil, zap.NewNop().Sugar())

	u, err := svc.Resolve(context.Background(), claimsFor("auth0|2", "", ""), "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, info.calls)
	assert.Equal(t, "bo@example.com", u.Email)
	assert.Equal(t, "https://img", *u.Img)
}

func TestResolveRequiresEmail(t *testing.T) {
	info := &fakeUserInfo{err: errUpstream}
	svc := NewUserService(newFakeUserStore(), newMapCache(), info, nil, zap.NewNop().Sugar())

	_, err := svc.Resolve(context.Background(), claimsFor("auth0|3", "", "Cy"), "tok")
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestUpdateProfileEmailRules(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	c := newMapCache()
	user, err := users.CreateUser(ctx, &accountmodels.User{Auth0ID: "google-oauth2|1", Email: "old@example.com"})
	require.NoError(t, err)
	newEmail := "new@example.com"

	social := NewUserService(users, c, nil, &fakeEmails{allowed: false}, zap.NewNop().Sugar())
	_, err = social.UpdateProfile(ctx, user, &usermodels.UpdateUserRequest{Email: &newEmail})
	assert.ErrorIs(t, err, ErrEmailChangeNotAllowed)

	emails := &fakeEmails{allowed: true}
	require.NoError(t, c.SetJSON(ctx, cache.UserKey(user.Auth0ID), user, time.Minute))
	db := NewUserService(users, c, nil, emails, zap.NewNop().Sugar())
	updated, err := db.UpdateProfile(ctx, user, &usermodels.UpdateUserRequest{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", emails.updated)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.False(t, c.has(cache.UserKey(user.Auth0ID)))
}

func TestUpdateProfileSameEmailSkipsAuth0(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	user, err := users.CreateUser(ctx, &accountmodels.User{Auth0ID: "auth0|1", Email: "same@example.com"})
	require.NoError(t, err)

	same := "same@example.com"
	name := "Ana"
	svc := NewUserService(users, newMapCache(), nil, nil, zap.NewNop().Sugar())
	updated, err := svc.UpdateProfile(ctx, user, &usermodels.UpdateUserRequest{Email: &same, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana", *updated.Name)
}

func TestUpdateProfileTakenEmailLeavesAuth0Alone(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	user, err := users.CreateUser(ctx, &accountmodels.User{Auth0ID: "auth0|1", Email: "old@example.com"})
	require.NoError(t, err)
	_, err = users.CreateUser(ctx, &accountmodels.User{Auth0ID: "auth0|2", Email: "taken@example.com"})
	require.NoError(t, err)

	emails := &fakeEmails{allowed: true}
	svc := NewUserService(users, newMapCache(), nil, emails, zap.NewNop().Sugar())
	taken := "taken@example.com"
	_, err = svc.UpdateProfile(ctx, user, &usermodels.UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.Empty(t, emails.calls)
	assert.Empty(t, users.updates)
	assert.Equal(t, "old@example.com", user.Email)
}

func TestUpdateProfileRevertsAuth0WhenStoreFails(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	user, err := users.CreateUser(ctx, &accountmodels.User{Auth0ID: "auth0|1", Email: "old@example.com"})
	require.NoError(t, err)
	users.updateErr = store.ErrDuplicate

	emails := &fakeEmails{allowed: true}
	svc := NewUserService(users, newMapCache(), nil, emails, zap.NewNop().Sugar())
	newEmail := "new@example.com"
	_, err = svc.UpdateProfile(ctx, user, &usermodels.UpdateUserRequest{Email: &newEmail})
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.Equal(t, []string{"new@example.com", "old@example.com"}, emails.calls)
	assert.Equal(t, "old@example.com", emails.updated)
}

func TestPreferenceServiceCachesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	prefs := &fakePrefStore{prefs: map[int64]*accountmodels.Preference{}}
	c := newMapCache()
	svc := NewPreferenceService(prefs, c, zap.NewNop().Sugar())

	_, err := svc.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNoPreference)

	_, err = svc.Create(ctx, 1, &prefmodels.CreatePreferenceRequest{Reason: "health", QuitDate: accountmodels.NewDate(2025, time.July, 1)})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, prefs.reads, "second read hits the cache")

	reason := "family"
	_, err = svc.Update(ctx, 1, &prefmodels.UpdatePreferenceRequest{Reason: &reason})
	require.NoError(t, err)
	assert.False(t, c.has(cache.PreferenceKey(1)))

	_, err = svc.Update(ctx, 2, &prefmodels.UpdatePreferenceRequest{Reason: &reason})
	assert.ErrorIs(t, err, ErrNoPreference)
}

func newMotivationFixture(t *testing.T, gen *stubGenerator) (*MotivationService, *fakeMotivationStore, *mapCache) {
	t.Helper()
	prefs := &fakePrefStore{prefs: map[int64]*accountmodels.Preference{
		1: {
			UserID:   1,
			Reason:   "health",
			QuitDate: accountmodels.NewDate(2025, time.July, 1),
			Language: "en-us",
			Goals:    []accountmodels.Goal{{Description: "walk"}},
		},
	}}
	motivations := newFakeMotivationStore()
	c := newMapCache()
	svc := NewMotivationService(NewPreferenceService(prefs, c, zap.NewNop().Sugar()), motivations, c, gen, time.UTC, zap.NewNop().Sugar())
	svc.now = func() time.Time { return time.Date(2025, time.July, 11, 9, 0, 0, 0, time.UTC) }
	return svc, motivations, c
}

func TestGenerateForUser(t *testing.T) {
	gen := &stubGenerator{}
	svc, motivations, c := newMotivationFixture(t, gen)

	m, err := svc.GenerateForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-11", m.Date.String())
	require.Len(t, gen.calls, 1)
	assert.Equal(t, 10, gen.calls[0].Days)
	assert.Equal(t, []string{"walk"}, gen.calls[0].Goals)
	assert.True(t, c.has(cache.MotivationKey(1, "2025-07-11")))

	_, err = svc.GenerateForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, motivations.replaced)
	assert.Len(t, motivations.rows, 1)
}

func TestGenerateForUserWithoutPreference(t *testing.T) {
	svc, _, _ := newMotivationFixture(t, &stubGenerator{})
	_, err := svc.GenerateForUser(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoPreference)
}

func TestGenerateForUserGeneratorFailure(t *testing.T) {
	svc, motivations, _ := newMotivationFixture(t, &stubGenerator{err: errUpstream})
	_, err := svc.GenerateForUser(context.Background(), 1)
	assert.ErrorIs(t, err, errUpstream)
	assert.Zero(t, motivations.replaced)
}

func TestTodayGeneratesOnce(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, _ := newMotivationFixture(t, gen)

	first, err := svc.Today(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.Today(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, gen.calls, 1)
}

func TestRegenerateReplacesToday(t *testing.T) {
	gen := &stubGenerator{}
	svc, motivations, _ := newMotivationFixture(t, gen)
	ctx := context.Background()

	_, err := svc.Today(ctx, 1)
	require.NoError(t, err)

	svc.Regenerate(ctx, 1)
	assert.Len(t, gen.calls, 2)
	assert.Equal(t, 2, motivations.replaced)

	today, err := svc.Today(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), today.ID)
}
