package global_co2

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/co2tracker/co2tracker/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Refresh downloads the whole feed and replaces the stored levels.
	Refresh(ctx context.Context) (int, error)
	// GetLevels serves the stored levels, refreshing them first when they are stale.
	GetLevels(ctx context.Context) ([]Level, error)
}

type ServiceImpl struct {
	repo   Repository
	client Client
	clock  utils.Clock
}

func NewService(repo Repository, client Client, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, client: client, clock: clock}
}

func (s *ServiceImpl) Refresh(ctx context.Context) (int, error) {
	levels, err := s.client.FetchLevels(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch global CO2 levels: %w", err)
	}
	if len(levels) == 0 {
		return 0, fmt.Errorf("refresh returned nothing: %w", ErrNoData)
	}
	levels = uniqueByDate(levels)
	if err := s.repo.ReplaceAll(ctx, levels); err != nil {
		return 0, err
	}
	log.Infof("Stored %d global CO2 levels", len(levels))
	return len(levels), nil
}

func (s *ServiceImpl) GetLevels(ctx context.Context) ([]Level, error) {
	expected := utils.DaysAgo(s.clock, PublishingDelayDays)
	latest, err := s.repo.LatestDate(ctx)
	if err != nil && !errors.Is(err, ErrNoData) {
		return nil, err
	}
	if err != nil || !latest.Equal(expected) {
		log.Debugf("Global CO2 levels stale (latest %v, expected %v), refreshing", latest, expected)
		if _, err := s.Refresh(ctx); err != nil {
			log.Errorf("Unable to refresh global CO2 levels, serving stored data: %v", err)
		}
	}
	return s.repo.List(ctx)
}

// uniqueByDate keeps the last level of every date, ordered by date.
func uniqueByDate(levels []Level) []Level {
	byDate := make(map[int64]int, len(levels))
	result := make([]Level, 0, len(levels))
	for _, level := range levels {
		key := level.Date.Unix()
		if i, ok := byDate[key]; ok {
			result[i] = level
			continue
		}
		byDate[key] = len(result)
		result = append(result, level)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}
