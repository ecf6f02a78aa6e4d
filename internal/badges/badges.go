// Package badges decides which achievement badges a user has earned and
// seeds the badge catalog.
package badges

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	accountmodels "io.winapps.smokefree/internal/models/account"
	badgemodels "io.winapps.smokefree/internal/models/badges"
	"io.winapps.smokefree/internal/store"
)

// DueBadges returns the badges from catalog whose condition time has
// elapsed since midnight UTC of the quit date and which the user does not
// hold yet, ordered by condition time.
func DueBadges(quitDate accountmodels.Date, now time.Time, catalog []accountmodels.Badge, held map[int64]bool) []accountmodels.Badge {
	start := time.Date(quitDate.Year(), quitDate.Month(), quitDate.Day(), 0, 0, 0, 0, time.UTC)
	elapsed := int(now.Sub(start) / time.Minute)
	if elapsed <= 0 {
		return nil
	}

	var due []accountmodels.Badge
	for _, b := range catalog {
		if b.ConditionTime <= 0 || held[b.ID] {
			continue
		}
		if elapsed >= b.ConditionTime {
			due = append(due, b)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ConditionTime < due[j].ConditionTime })
	return due
}

func IDs(list []accountmodels.Badge) []int64 {
	ids := make([]int64, len(list))
	for i, b := range list {
		ids[i] = b.ID
	}
	return ids
}

// LoadCatalog reads a YAML list of badge definitions.
func LoadCatalog(path string) ([]badgemodels.CreateBadgeRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read badge catalog: %w", err)
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) ([]badgemodels.CreateBadgeRequest, error) {
	var catalog []badgemodels.CreateBadgeRequest
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse badge catalog: %w", err)
	}
	for i, b := range catalog {
		if b.Name == "" {
			return nil, fmt.Errorf("badge catalog entry %d has no name", i)
		}
		if b.ConditionTime <= 0 {
			return nil, fmt.Errorf("badge %q needs a positive condition_time", b.Name)
		}
	}
	return catalog, nil
}

type BadgeCreator interface {
	CreateBadge(ctx context.Context, req *badgemodels.CreateBadgeRequest) (*accountmodels.Badge, error)
}

// SeedCatalog creates the catalog badges that do not exist yet and returns
// how many were inserted.
func SeedCatalog(ctx context.Context, s BadgeCreator, catalog []badgemodels.CreateBadgeRequest, logger *zap.SugaredLogger) (int, error) {
	created := 0
	for i := range catalog {
		b, err := s.CreateBadge(ctx, &catalog[i])
		if errors.Is(err, store.ErrDuplicate) {
			logger.Debugw("Badge already exists", "name", catalog[i].Name)
			continue
		}
		if err != nil {
			return created, fmt.Errorf("create badge %q: %w", catalog[i].Name, err)
		}
		logger.Infow("Seeded badge", "badge_id", b.ID, "name", b.Name)
		created++
	}
	return created, nil
}
