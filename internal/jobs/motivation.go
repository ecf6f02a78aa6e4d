package jobs

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	accountmodels "io.winapps.smokefree/internal/models/account"
	"io.winapps.smokefree/internal/services"
)

type PreferenceUserLister interface {
	ListPreferenceUserIDs(ctx context.Context) ([]int64, error)
}

type MotivationGenerator interface {
	GenerateForUser(ctx context.Context, userID int64) (*accountmodels.DailyMotivation, error)
}

// MotivationJob writes a fresh daily motivation for every user with a
// preference.
type MotivationJob struct {
	users     PreferenceUserLister
	generator MotivationGenerator
	logger    *zap.SugaredLogger
}

func NewMotivationJob(users PreferenceUserLister, generator MotivationGenerator, logger *zap.SugaredLogger) *MotivationJob {
	return &MotivationJob{users: users, generator: generator, logger: logger}
}

func (j *MotivationJob) Name() string { return "motivation" }

// Run only fails when the user list cannot be loaded. A failure for one
// user is logged and the run moves on.
func (j *MotivationJob) Run(ctx context.Context) error {
	ids, err := j.users.ListPreferenceUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users with preferences: %w", err)
	}

	generated, failed := 0, 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := j.generator.GenerateForUser(ctx, id); err != nil {
			if errors.Is(err, services.ErrNoPreference) {
				continue
			}
			failed++
			j.logger.Warnw("Failed to generate motivation", "user_id", id, "error", err)
			continue
		}
		generated++
	}

	j.logger.Infow("Motivation run complete", "users", len(ids), "generated", generated, "failed", failed)
	return nil
}
