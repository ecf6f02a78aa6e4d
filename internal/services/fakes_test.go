package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"io.winapps.smokefree/internal/auth0"
	accountmodels "io.winapps.smokefree/internal/models/account"
	prefmodels "io.winapps.smokefree/internal/models/preferences"
	usermodels "io.winapps.smokefree/internal/models/users"
	"io.winapps.smokefree/internal/motivation"
	"io.winapps.smokefree/internal/store"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type fakeUserStore struct {
	users     map[string]*accountmodels.User
	created   int
	updates   []*usermodels.UpdateUserRequest
	updateErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*accountmodels.User{}}
}

func (f *fakeUserStore) GetUserByAuth0ID(_ context.Context, sub string) (*accountmodels.User, error) {
	u, ok := f.users[sub]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*accountmodels.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *accountmodels.User) (*accountmodels.User, error) {
	f.created++
	cp := *u
	cp.ID = int64(len(f.users) + 1)
	f.users[u.Auth0ID] = &cp
	return &cp, nil
}

func (f *fakeUserStore) UpdateUser(_ context.Context, id int64, req *usermodels.UpdateUserRequest) (*accountmodels.User, error) {
	f.updates = append(f.updates, req)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for _, u := range f.users {
		if u.ID == id {
			if req.Email != nil {
				u.Email = *req.Email
			}
			if req.Name != nil {
				u.Name = req.Name
			}
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeUserInfo struct {
	info  *auth0.UserInfo
	err   error
	calls int
}

func (f *fakeUserInfo) UserInfo(context.Context, string) (*auth0.UserInfo, error) {
	f.calls++
	return f.info, f.err
}

type fakeEmails struct {
	allowed bool
	updated string
	calls   []string
}

func (f *fakeEmails) CanUpdateEmail(context.Context, string) (bool, error) { return f.allowed, nil }

func (f *fakeEmails) UpdateEmail(_ context.Context, _ string, email string) error {
	f.updated = email
	f.calls = append(f.calls, email)
	return nil
}

type fakePrefStore struct {
	prefs map[int64]*accountmodels.Preference
	reads int
}

func (f *fakePrefStore) GetPreference(_ context.Context, userID int64) (*accountmodels.Preference, error) {
	f.reads++
	p, ok := f.prefs[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (f *fakePrefStore) CreatePreference(_ context.Context, userID int64, req *prefmodels.CreatePreferenceRequest) (*accountmodels.Preference, error) {
	if _, ok := f.prefs[userID]; ok {
		return nil, store.ErrDuplicate
	}
	p := &accountmodels.Preference{ID: userID, UserID: userID, Reason: req.Reason, QuitDate: req.QuitDate}
	f.prefs[userID] = p
	return p, nil
}

func (f *fakePrefStore) UpdatePreference(_ context.Context, userID int64, req *prefmodels.UpdatePreferenceRequest) (*accountmodels.Preference, error) {
	p, ok := f.prefs[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if req.Reason != nil {
		p.Reason = *req.Reason
	}
	return p, nil
}

type fakeMotivationStore struct {
	rows     map[string]*accountmodels.DailyMotivation
	replaced int
}

func newFakeMotivationStore() *fakeMotivationStore {
	return &fakeMotivationStore{rows: map[string]*accountmodels.DailyMotivation{}}
}

func motivationRowKey(userID int64, d accountmodels.Date) string {
	return fmt.Sprintf("%d/%s", userID, d)
}

func (f *fakeMotivationStore) GetMotivation(_ context.Context, userID int64, d accountmodels.Date) (*accountmodels.DailyMotivation, error) {
	m, ok := f.rows[motivationRowKey(userID, d)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return m, nil
}

func (f *fakeMotivationStore) ReplaceMotivation(_ context.Context, userID int64, d accountmodels.Date, text accountmodels.MotivationText) (*accountmodels.DailyMotivation, error) {
	f.replaced++
	m := &accountmodels.DailyMotivation{ID: int64(f.replaced), UserID: userID, Date: d, MotivationText: text}
	f.rows[motivationRowKey(userID, d)] = m
	return m, nil
}

func (f *fakeMotivationStore) DeleteMotivation(_ context.Context, userID int64, d accountmodels.Date) error {
	delete(f.rows, motivationRowKey(userID, d))
	return nil
}

type stubGenerator struct {
	err   error
	calls []motivation.Input
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Generate(_ context.Context, in motivation.Input) (accountmodels.MotivationText, error) {
	g.calls = append(g.calls, in)
	if g.err != nil {
		return accountmodels.MotivationText{}, g.err
	}
	return accountmodels.MotivationText{Progress: "p", Motivation: "m", Cravings: "c", Ideas: "i"}, nil
}

var errUpstream = errors.New("upstream down")
