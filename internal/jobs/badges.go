package jobs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"io.winapps.smokefree/internal/badges"
	"io.winapps.smokefree/internal/metrics"
	accountmodels "io.winapps.smokefree/internal/models/account"
	"io.winapps.smokefree/internal/notifications"
	"io.winapps.smokefree/internal/store"
)

type BadgeStore interface {
	ListBadges(ctx context.Context, page store.Page) ([]accountmodels.Badge, error)
	ListAwardCandidates(ctx context.Context) ([]accountmodels.AwardCandidate, error)
	AwardBadges(ctx context.Context, userID int64, badgeIDs []int64) ([]int64, error)
	GetPushToken(ctx context.Context, userID int64) (*accountmodels.PushToken, error)
}

type PreferenceInvalidator interface {
	Invalidate(ctx context.Context, userID int64)
}

// BadgeJob grants every badge whose condition time has passed since the
// user's quit date.
type BadgeJob struct {
	store    BadgeStore
	prefs    PreferenceInvalidator
	notifier notifications.Notifier
	now      func() time.Time
	logger   *zap.SugaredLogger
}

func NewBadgeJob(s BadgeStore, prefs PreferenceInvalidator, notifier notifications.Notifier, logger *zap.SugaredLogger) *BadgeJob {
	if notifier == nil {
		notifier = notifications.NopNotifier{}
	}
	return &BadgeJob{store: s, prefs: prefs, notifier: notifier, now: time.Now, logger: logger}
}

func (j *BadgeJob) Name() string { return "badges" }

func (j *BadgeJob) Run(ctx context.Context) error {
	catalog, err := j.store.ListBadges(ctx, store.Page{Limit: 1000})
	if err != nil {
		return fmt.Errorf("list badges: %w", err)
	}
	if len(catalog) == 0 {
		j.logger.Infow("No badges defined, nothing to award")
		return nil
	}

	candidates, err := j.store.ListAwardCandidates(ctx)
	if err != nil {
		return fmt.Errorf("list award candidates: %w", err)
	}

	byID := make(map[int64]accountmodels.Badge, len(catalog))
	for _, b := range catalog {
		byID[b.ID] = b
	}

	now := j.now()
	total := 0
	for _, cand := range candidates {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		due := badges.DueBadges(cand.QuitDate, now, catalog, cand.Held)
		if len(due) == 0 {
			continue
		}

		awarded, err := j.store.AwardBadges(ctx, cand.UserID, badges.IDs(due))
		if err != nil {
			j.logger.Warnw("Failed to award badges", "user_id", cand.UserID, "error", err)
			continue
		}
		if len(awarded) == 0 {
			continue
		}

		total += len(awarded)
		j.prefs.Invalidate(ctx, cand.UserID)
		j.logger.Infow("Awarded badges", "user_id", cand.UserID, "badge_ids", awarded)
		j.notify(ctx, cand.UserID, awarded, byID)
	}

	metrics.RecordBadgesAwarded(total)
	j.logger.Infow("Badge run complete", "candidates", len(candidates), "awarded", total)
	return nil
}

func (j *BadgeJob) notify(ctx context.Context, userID int64, awarded []int64, byID map[int64]accountmodels.Badge) {
	token, err := j.store.GetPushToken(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		j.logger.Warnw("Failed to load push token", "user_id", userID, "error", err)
		return
	}

	for _, id := range awarded {
		b := byID[id]
		err := j.notifier.Notify(ctx, token.Token, "New badge unlocked!", b.Name, map[string]string{
			"type":     "badge",
			"badge_id": strconv.FormatInt(id, 10),
		})
		metrics.RecordNotification(err)
		if err != nil {
			j.logger.Warnw("Failed to send badge notification", "user_id", userID, "badge_id", id, "error", err)
		}
	}
}
