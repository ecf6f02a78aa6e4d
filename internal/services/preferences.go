package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"io.winapps.smokefree/internal/cache"
	accountmodels "io.winapps.smokefree/internal/models/account"
	prefmodels "io.winapps.smokefree/internal/models/preferences"
	"io.winapps.smokefree/internal/store"
)

var ErrNoPreference = errors.New("no preference set")

type PreferenceStore interface {
	GetPreference(ctx context.Context, userID int64) (*accountmodels.Preference, error)
	CreatePreference(ctx context.Context, userID int64, req *prefmodels.CreatePreferenceRequest) (*accountmodels.Preference, error)
	UpdatePreference(ctx context.Context, userID int64, req *prefmodels.UpdatePreferenceRequest) (*accountmodels.Preference, error)
}

// PreferenceService caches preferences, which every motivation and health
// request reads.
type PreferenceService struct {
	store  PreferenceStore
	cache  JSONCache
	logger *zap.SugaredLogger
}

func NewPreferenceService(s PreferenceStore, c JSONCache, logger *zap.SugaredLogger) *PreferenceService {
	return &PreferenceService{store: s, cache: c, logger: logger}
}

// Get returns ErrNoPreference when the user has not set one up yet.
func (s *PreferenceService) Get(ctx context.Context, userID int64) (*accountmodels.Preference, error) {
	key := cache.PreferenceKey(userID)

	var cached accountmodels.Preference
	if found, err := s.cache.GetJSON(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	pref, err := s.store.GetPreference(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoPreference
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, pref, cache.PreferenceTTL); err != nil {
		s.logger.Warnw("Preference cache write failed", "user_id", userID, "error", err)
	}
	return pref, nil
}

func (s *PreferenceService) Create(ctx context.Context, userID int64, req *prefmodels.CreatePreferenceRequest) (*accountmodels.Preference, error) {
	pref, err := s.store.CreatePreference(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx, userID)
	return pref, nil
}

func (s *PreferenceService) Update(ctx context.Context, userID int64, req *prefmodels.UpdatePreferenceRequest) (*accountmodels.Preference, error) {
	pref, err := s.store.UpdatePreference(ctx, userID, req)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoPreference
	}
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx, userID)
	return pref, nil
}

// Invalidate drops the cached copy, e.g. after a badge is awarded.
func (s *PreferenceService) Invalidate(ctx context.Context, userID int64) {
	if err := s.cache.Delete(ctx, cache.PreferenceKey(userID)); err != nil {
		s.logger.Warnw("Preference cache invalidation failed", "user_id", userID, "error", err)
	}
}
