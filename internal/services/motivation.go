package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"io.winapps.smokefree/internal/cache"
	"io.winapps.smokefree/internal/metrics"
	accountmodels "io.winapps.smokefree/internal/models/account"
	"io.winapps.smokefree/internal/motivation"
	"io.winapps.smokefree/internal/store"
)

type PreferenceGetter interface {
	Get(ctx context.Context, userID int64) (*accountmodels.Preference, error)
}

type MotivationStore interface {
	GetMotivation(ctx context.Context, userID int64, date accountmodels.Date) (*accountmodels.DailyMotivation, error)
	ReplaceMotivation(ctx context.Context, userID int64, date accountmodels.Date, text accountmodels.MotivationText) (*accountmodels.DailyMotivation, error)
	DeleteMotivation(ctx context.Context, userID int64, date accountmodels.Date) error
}

type MotivationService struct {
	prefs     PreferenceGetter
	store     MotivationStore
	cache     JSONCache
	generator motivation.Generator
	loc       *time.Location
	now       func() time.Time
	logger    *zap.SugaredLogger
}

func NewMotivationService(prefs PreferenceGetter, s MotivationStore, c JSONCache, g motivation.Generator, loc *time.Location, logger *zap.SugaredLogger) *MotivationService {
	return &MotivationService{prefs: prefs, store: s, cache: c, generator: g, loc: loc, now: time.Now, logger: logger}
}

func (s *MotivationService) today() accountmodels.Date {
	return accountmodels.DateOf(s.now().In(s.loc))
}

// GenerateForUser writes today's motivation for the user, replacing any
// earlier one for the same day.
func (s *MotivationService) GenerateForUser(ctx context.Context, userID int64) (*accountmodels.DailyMotivation, error) {
	pref, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	text, err := s.generator.Generate(ctx, motivation.Input{
		Reason:   pref.Reason,
		Goals:    pref.GoalDescriptions(),
		Days:     pref.DaysSinceQuit(today),
		Language: pref.Language,
	})
	metrics.RecordMotivation(s.generator.Name(), err)
	if err != nil {
		return nil, fmt.Errorf("generate motivation for user %d: %w", userID, err)
	}

	record, err := s.store.ReplaceMotivation(ctx, userID, today, text)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, cache.MotivationKey(userID, today.String()), record, cache.MotivationTTL); err != nil {
		s.logger.Warnw("Motivation cache write failed", "user_id", userID, "error", err)
	}
	return record, nil
}

// Today returns today's motivation, generating it when none exists yet.
func (s *MotivationService) Today(ctx context.Context, userID int64) (*accountmodels.DailyMotivation, error) {
	today := s.today()
	key := cache.MotivationKey(userID, today.String())

	var cached accountmodels.DailyMotivation
	if found, err := s.cache.GetJSON(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	record, err := s.store.GetMotivation(ctx, userID, today)
	if errors.Is(err, store.ErrNotFound) {
		return s.GenerateForUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, record, cache.MotivationTTL); err != nil {
		s.logger.Warnw("Motivation cache write failed", "user_id", userID, "error", err)
	}
	return record, nil
}

// Discard removes today's motivation so the next read regenerates it.
func (s *MotivationService) Discard(ctx context.Context, userID int64) error {
	today := s.today()
	if err := s.store.DeleteMotivation(ctx, userID, today); err != nil {
		return err
	}
	return s.cache.Delete(ctx, cache.MotivationKey(userID, today.String()))
}

// Regenerate is used after preference changes. Failures are logged and do
// not fail the caller.
func (s *MotivationService) Regenerate(ctx context.Context, userID int64) {
	if err := s.Discard(ctx, userID); err != nil {
		s.logger.Warnw("Failed to discard today's motivation", "user_id", userID, "error", err)
	}
	if _, err := s.GenerateForUser(ctx, userID); err != nil {
		s.logger.Warnw("Failed to regenerate motivation", "user_id", userID, "error", err)
	}
}
