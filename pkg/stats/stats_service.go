package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/co2tracker/co2tracker/internal/utils"
	"github.com/co2tracker/co2tracker/pkg/footprint"
	"github.com/co2tracker/co2tracker/pkg/timeseries"
	"github.com/co2tracker/co2tracker/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var hundred = decimal.NewFromInt(100)

type StatsService interface {
	GetSummary(ctx context.Context) (Summary, error)
	GetHistory(ctx context.Context) ([]timeseries.DailyTotal, error)
	GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}

type StatsServiceImpl struct {
	repo        Repository
	weekLimitKg decimal.Decimal
	clock       utils.Clock
}

func NewStatsServiceImpl(repo Repository, weekLimitKg float64, clock utils.Clock) *StatsServiceImpl {
	return &StatsServiceImpl{
		repo:        repo,
		weekLimitKg: decimal.NewFromFloat(weekLimitKg),
		clock:       clock,
	}
}

func (s *StatsServiceImpl) GetSummary(ctx context.Context) (Summary, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	observations, err := s.repo.ListObservations(ctx, userId)
	if err != nil {
		return Summary{}, err
	}

	weekStart := WeekStart(utils.Today(s.clock))
	summary := Summary{
		Totals: CategoryTotals{Travel: decimal.Zero, Food: decimal.Zero, Energy: decimal.Zero, Total: decimal.Zero},
		Shares: CategoryShares{Travel: decimal.Zero, Food: decimal.Zero, Energy: decimal.Zero},
		Week: WeekStats{
			Start:        weekStart,
			End:          weekStart.AddDate(0, 0, 7),
			TotalKg:      decimal.Zero,
			LimitKg:      s.weekLimitKg,
			LimitPercent: decimal.Zero,
		},
	}
	if len(observations) == 0 {
		log.Debugf("User %d has no records, returning empty summary", userId)
		return summary, nil
	}

	var travel, food, energy, total, week decimal.Decimal
	plain := make([]timeseries.Observation, 0, len(observations))
	for _, o := range observations {
		switch o.Category {
		case footprint.Travel:
			travel = travel.Add(o.AmountKg)
		case footprint.Food:
			food = food.Add(o.AmountKg)
		case footprint.Energy:
			energy = energy.Add(o.AmountKg)
		}
		total = total.Add(o.AmountKg)
		if !o.Date.Before(summary.Week.Start) && o.Date.Before(summary.Week.End) {
			week = week.Add(o.AmountKg)
		}
		plain = append(plain, o.Observation)
	}

	summary.Totals = CategoryTotals{
		Travel: travel.Round(2),
		Food:   food.Round(2),
		Energy: energy.Round(2),
		Total:  total.Round(2),
	}
	summary.Shares = shares(summary.Totals)
	summary.Week.TotalKg = week.Round(2)
	if s.weekLimitKg.IsPositive() {
		summary.Week.LimitPercent = week.Div(s.weekLimitKg).Mul(hundred).Round(1)
	}

	summary.History, err = timeseries.Aggregate(plain)
	if err != nil {
		log.Errorf("Failed to aggregate history of user %d: %v", userId, err)
		return Summary{}, err
	}
	return summary, nil
}

// GetHistory returns the gap-filled daily totals of the current user, empty when there are no records.
func (s *StatsServiceImpl) GetHistory(ctx context.Context) ([]timeseries.DailyTotal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	observations, err := s.repo.ListObservations(ctx, userId)
	if err != nil {
		return nil, err
	}
	if len(observations) == 0 {
		return []timeseries.DailyTotal{}, nil
	}
	plain := make([]timeseries.Observation, 0, len(observations))
	for _, o := range observations {
		plain = append(plain, o.Observation)
	}
	return timeseries.Aggregate(plain)
}

// GetLeaderboard ranks users by average kg CO2 per recorded day, lowest first.
func (s *StatsServiceImpl) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	emissions, err := s.repo.ListUserEmissions(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(emissions))
	for _, e := range emissions {
		if e.Days <= 0 {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Username:        e.Username,
			AverageKgPerDay: e.TotalKg.DivRound(decimal.NewFromInt(int64(e.Days)), 2),
			TotalKg:         e.TotalKg.Round(2),
			Days:            e.Days,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if c := entries[i].AverageKgPerDay.Cmp(entries[j].AverageKgPerDay); c != 0 {
			return c < 0
		}
		return entries[i].Username < entries[j].Username
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// WeekStart returns the Monday of the week containing date.
func WeekStart(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

func shares(totals CategoryTotals) CategoryShares {
	if totals.Total.IsZero() {
		return CategoryShares{Travel: decimal.Zero, Food: decimal.Zero, Energy: decimal.Zero}
	}
	share := func(value decimal.Decimal) decimal.Decimal {
		return value.Div(totals.Total).Mul(hundred).Round(1)
	}
	return CategoryShares{
		Travel: share(totals.Travel),
		Food:   share(totals.Food),
		Energy: share(totals.Energy),
	}
}
