package handlers

import (
	"context"
	"errors"
	"fmt"

	accountmodels "io.winapps.smokefree/internal/models/account"
	badgemodels "io.winapps.smokefree/internal/models/badges"
	cravingmodels "io.winapps.smokefree/internal/models/cravings"
	diarymodels "io.winapps.smokefree/internal/models/diary"
	prefmodels "io.winapps.smokefree/internal/models/preferences"
	usermodels "io.winapps.smokefree/internal/models/users"
	"io.winapps.smokefree/internal/services"
	"io.winapps.smokefree/internal/store"
)

var errDB = errors.New("connection reset")

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeProfiles struct {
	err error
}

func (f fakeProfiles) UpdateProfile(_ context.Context, u *accountmodels.User, req *usermodels.UpdateUserRequest) (*accountmodels.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *u
	if req.Name != nil {
		cp.Name = req.Name
	}
	return &cp, nil
}

type fakePrefs struct {
	prefs map[int64]*accountmodels.Preference
}

func (f *fakePrefs) Get(_ context.Context, userID int64) (*accountmodels.Preference, error) {
	p, ok := f.prefs[userID]
	if !ok {
		return nil, services.ErrNoPreference
	}
	return p, nil
}

func (f *fakePrefs) Create(_ context.Context, userID int64, req *prefmodels.CreatePreferenceRequest) (*accountmodels.Preference, error) {
	if _, ok := f.prefs[userID]; ok {
		return nil, fmt.Errorf("insert preference: %w", store.ErrDuplicate)
	}
	p := &accountmodels.Preference{ID: 1, UserID: userID, Reason: req.Reason, QuitDate: req.QuitDate}
	f.prefs[userID] = p
	return p, nil
}

func (f *fakePrefs) Update(_ context.Context, userID int64, req *prefmodels.UpdatePreferenceRequest) (*accountmodels.Preference, error) {
	p, ok := f.prefs[userID]
	if !ok {
		return nil, services.ErrNoPreference
	}
	if req.Reason != nil {
		p.Reason = *req.Reason
	}
	return p, nil
}

type fakeRefresher struct{ users []int64 }

func (f *fakeRefresher) Regenerate(_ context.Context, userID int64) {
	f.users = append(f.users, userID)
}

func (f *fakeRefresher) Invalidate(_ context.Context, userID int64) {
	f.users = append(f.users, userID)
}

type fakeDiary struct {
	entries map[int64]*accountmodels.DiaryEntry
	nextID  int64
}

func newFakeDiary() *fakeDiary {
	return &fakeDiary{entries: map[int64]*accountmodels.DiaryEntry{}}
}

func (f *fakeDiary) ListDiaryEntries(_ context.Context, userID int64, page store.Page) ([]accountmodels.DiaryEntry, int, error) {
	var out []accountmodels.DiaryEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	total := len(out)
	if page.Skip >= len(out) {
		return nil, total, nil
	}
	out = out[page.Skip:]
	if len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, total, nil
}

func (f *fakeDiary) GetDiaryEntry(_ context.Context, userID, id int64) (*accountmodels.DiaryEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return nil, store.ErrNotFound
	}
	return e, nil
}

func (f *fakeDiary) CreateDiaryEntry(_ context.Context, userID int64, req *diarymodels.CreateDiaryRequest) (*accountmodels.DiaryEntry, error) {
	for _, e := range f.entries {
		if e.UserID == userID && e.Date.Equal(req.Date.Time) {
			return nil, store.ErrDuplicate
		}
	}
	f.nextID++
	e := &accountmodels.DiaryEntry{ID: f.nextID, UserID: userID, Date: req.Date, Notes: req.Notes, HaveSmoked: req.HaveSmoked}
	f.entries[e.ID] = e
	return e, nil
}

func (f *fakeDiary) UpdateDiaryEntry(ctx context.Context, userID, id int64, req *diarymodels.UpdateDiaryRequest) (*accountmodels.DiaryEntry, error) {
	e, err := f.GetDiaryEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Date != nil {
		for _, other := range f.entries {
			if other.ID != id && other.UserID == userID && other.Date.Equal(req.Date.Time) {
				return nil, store.ErrDuplicate
			}
		}
		e.Date = *req.Date
	}
	if req.Notes != nil {
		e.Notes = *req.Notes
	}
	return e, nil
}

func (f *fakeDiary) DeleteDiaryEntry(ctx context.Context, userID, id int64) error {
	if _, err := f.GetDiaryEntry(ctx, userID, id); err != nil {
		return err
	}
	delete(f.entries, id)
	return nil
}

type fakeCravings struct {
	lastDay *accountmodels.Date
}

func (f *fakeCravings) ListCravings(_ context.Context, _ int64, day *accountmodels.Date, _ store.Page) ([]accountmodels.Craving, int, error) {
	f.lastDay = day
	return nil, 0, nil
}

func (f *fakeCravings) GetCraving(context.Context, int64, int64) (*accountmodels.Craving, error) {
	return nil, store.ErrNotFound
}

func (f *fakeCravings) CreateCraving(_ context.Context, userID int64, req *cravingmodels.CreateCravingRequest) (*accountmodels.Craving, error) {
	return &accountmodels.Craving{ID: 5, UserID: userID, Date: req.Date, Comments: req.Comments}, nil
}

func (f *fakeCravings) UpdateCraving(context.Context, int64, int64, *cravingmodels.UpdateCravingRequest) (*accountmodels.Craving, error) {
	return nil, store.ErrNotFound
}

func (f *fakeCravings) DeleteCraving(context.Context, int64, int64) error { return nil }

type fakeBadges struct {
	badges    map[int64]accountmodels.Badge
	holders   map[int64][]int64
	deleteErr error
	assignErr error
}

func (f *fakeBadges) CreateBadge(_ context.Context, req *badgemodels.CreateBadgeRequest) (*accountmodels.Badge, error) {
	for _, b := range f.badges {
		if b.Name == req.Name {
			return nil, store.ErrDuplicate
		}
	}
	b := accountmodels.Badge{ID: int64(len(f.badges) + 1), Name: req.Name, ConditionTime: req.ConditionTime}
	f.badges[b.ID] = b
	return &b, nil
}

func (f *fakeBadges) CountBadges(context.Context) (int, error) { return len(f.badges), nil }

func (f *fakeBadges) ListBadges(context.Context, store.Page) ([]accountmodels.Badge, error) {
	var out []accountmodels.Badge
	for _, b := range f.badges {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBadges) ListUserBadges(context.Context, int64, store.Page) ([]accountmodels.Badge, error) {
	return nil, nil
}

func (f *fakeBadges) CountUserBadges(context.Context, int64) (int, error) { return 0, nil }

func (f *fakeBadges) GetBadge(_ context.Context, id int64) (*accountmodels.Badge, error) {
	b, ok := f.badges[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBadges) UpdateBadge(ctx context.Context, id int64, req *badgemodels.UpdateBadgeRequest) (*accountmodels.Badge, error) {
	b, err := f.GetBadge(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		b.Name = *req.Name
	}
	return b, nil
}

func (f *fakeBadges) DeleteBadge(context.Context, int64) error { return f.deleteErr }

func (f *fakeBadges) ListBadgeHolders(_ context.Context, badgeID int64) ([]int64, error) {
	return f.holders[badgeID], nil
}

func (f *fakeBadges) AssignBadge(context.Context, int64, int64) error { return f.assignErr }

type fakeToday struct {
	m   *accountmodels.DailyMotivation
	err error
}

func (f fakeToday) Today(context.Context, int64) (*accountmodels.DailyMotivation, error) {
	return f.m, f.err
}

type fakeHistory struct {
	list  []accountmodels.DailyMotivation
	count int
}

func (f fakeHistory) ListMotivations(context.Context, int64, store.Page) ([]accountmodels.DailyMotivation, error) {
	return f.list, nil
}

func (f fakeHistory) CountMotivations(context.Context, int64) (int, error) { return f.count, nil }

type fakePushTokens struct {
	token, platform string
}

func (f *fakePushTokens) UpsertPushToken(_ context.Context, _ int64, token, platform string) error {
	f.token, f.platform = token, platform
	return nil
}
