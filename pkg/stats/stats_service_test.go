package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/co2tracker/co2tracker/internal/utils"
	"github.com/co2tracker/co2tracker/pkg/footprint"
	"github.com/co2tracker/co2tracker/pkg/timeseries"
	"github.com/co2tracker/co2tracker/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// Saturday
	now      = time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)
	testUser = user.User{Id: 7, Uid: "user-7", Username: "alice"}
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func date(value string) time.Time {
	d, err := timeseries.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func observation(category footprint.Category, day string, amount string) CategoryObservation {
	return CategoryObservation{
		Category:    category,
		Observation: timeseries.Observation{Date: date(day), AmountKg: dec(amount)},
	}
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func setupService() (*StatsServiceImpl, *StubRepository, context.Context) {
	repo := NewStubRepository()
	clock := &utils.MockClock{FixedNow: now}
	service := NewStatsServiceImpl(repo, 800, clock)
	return service, repo, user.WithUser(context.Background(), testUser)
}

func TestStatsServiceImpl_GetSummary(t *testing.T) {
	t.Run("should compute totals, shares, week and history", func(t *testing.T) {
		// given
		service, repo, ctx := setupService()
		repo.Observations[testUser.Id] = []CategoryObservation{
			observation(footprint.Energy, "2024-06-03", "7.5"),
			observation(footprint.Travel, "2024-06-09", "1"),
			observation(footprint.Travel, "2024-06-10", "10.004"),
			observation(footprint.Food, "2024-06-12", "2.5"),
		}

		// when
		summary, err := service.GetSummary(ctx)

		// then
		require.NoError(t, err)
		assertDecimal(t, "11", summary.Totals.Travel)
		assertDecimal(t, "2.5", summary.Totals.Food)
		assertDecimal(t, "7.5", summary.Totals.Energy)
		assertDecimal(t, "21", summary.Totals.Total)

		assertDecimal(t, "52.4", summary.Shares.Travel)
		assertDecimal(t, "11.9", summary.Shares.Food)
		assertDecimal(t, "35.7", summary.Shares.Energy)

		assert.Equal(t, date("2024-06-10"), summary.Week.Start)
		assert.Equal(t, date("2024-06-17"), summary.Week.End)
		assertDecimal(t, "12.5", summary.Week.TotalKg)
		assertDecimal(t, "800", summary.Week.LimitKg)
		assertDecimal(t, "1.6", summary.Week.LimitPercent)

		require.Len(t, summary.History, 10)
		assert.Equal(t, date("2024-06-03"), summary.History[0].Date)
		assert.Equal(t, date("2024-06-12"), summary.History[9].Date)
		assertDecimal(t, "0", summary.History[1].TotalKg)
		assertDecimal(t, "10.004", summary.History[7].TotalKg)
	})

	t.Run("should return zeros without history when user has no records", func(t *testing.T) {
		service, _, ctx := setupService()

		summary, err := service.GetSummary(ctx)

		require.NoError(t, err)
		assert.True(t, summary.Totals.Total.IsZero())
		assert.True(t, summary.Shares.Travel.IsZero())
		assert.True(t, summary.Week.TotalKg.IsZero())
		assert.True(t, summary.Week.LimitPercent.IsZero())
		assertDecimal(t, "800", summary.Week.LimitKg)
		assert.Empty(t, summary.History)
	})

	t.Run("should not divide by zero when all records are zero", func(t *testing.T) {
		service, repo, ctx := setupService()
		repo.Observations[testUser.Id] = []CategoryObservation{observation(footprint.Food, "2024-06-14", "0")}

		summary, err := service.GetSummary(ctx)

		require.NoError(t, err)
		assert.True(t, summary.Shares.Food.IsZero())
		require.Len(t, summary.History, 1)
	})

	t.Run("should require a user", func(t *testing.T) {
		service, _, _ := setupService()

		_, err := service.GetSummary(context.Background())

		assert.ErrorIs(t, err, user.ErrNoUser)
	})

	t.Run("should pass repository errors", func(t *testing.T) {
		service, repo, ctx := setupService()
		repo.Err = errors.New("db down")

		_, err := service.GetSummary(ctx)

		assert.EqualError(t, err, "db down")
	})
}

func TestStatsServiceImpl_GetHistory(t *testing.T) {
	service, repo, ctx := setupService()

	history, err := service.GetHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	repo.Observations[testUser.Id] = []CategoryObservation{
		observation(footprint.Food, "2024-01-03", "2.0"),
		observation(footprint.Travel, "2024-01-01", "5.0"),
	}

	history, err = service.GetHistory(ctx)
	require.NoError(t, err)
	series := timeseries.Series(history)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, series.Dates)
}

func TestStatsServiceImpl_GetLeaderboard(t *testing.T) {
	// given
	service, repo, _ := setupService()
	repo.Emissions = []UserEmission{
		{UserId: 1, Username: "carol", TotalKg: dec("10"), Days: 1},
		{UserId: 2, Username: "alice", TotalKg: dec("30"), Days: 3},
		{UserId: 3, Username: "bob", TotalKg: dec("20"), Days: 4},
		{UserId: 4, Username: "dave", TotalKg: dec("10"), Days: 3},
	}

	// when
	entries, err := service.GetLeaderboard(context.Background())

	// then
	require.NoError(t, err)
	require.Len(t, entries, 4)
	usernames := []string{entries[0].Username, entries[1].Username, entries[2].Username, entries[3].Username}
	assert.Equal(t, []string{"dave", "bob", "alice", "carol"}, usernames)
	assertDecimal(t, "3.33", entries[0].AverageKgPerDay)
	assertDecimal(t, "5", entries[1].AverageKgPerDay)
	assertDecimal(t, "10", entries[2].AverageKgPerDay)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 4, entries[3].Rank)
}

func TestWeekStart(t *testing.T) {
	assert.Equal(t, date("2024-06-10"), WeekStart(date("2024-06-10")))
	assert.Equal(t, date("2024-06-10"), WeekStart(date("2024-06-16")))
	assert.Equal(t, date("2024-12-30"), WeekStart(date("2025-01-01")))
}
