package global_co2

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/co2tracker/co2tracker/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func level(date string, trend string) Level {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return Level{Date: d, Trend: decimal.RequireFromString(trend), Cycle: decimal.RequireFromString(trend)}
}

func setupService() (*ServiceImpl, *StubRepository, *StubClient) {
	repo := NewStubRepository()
	client := &StubClient{}
	return NewService(repo, client, &utils.MockClock{FixedNow: now}), repo, client
}

func TestServiceImpl_GetLevels(t *testing.T) {
	t.Run("should not refresh when newest level is two days old", func(t *testing.T) {
		// given
		service, repo, client := setupService()
		repo.Levels = []Level{level("2024-06-12", "420"), level("2024-06-13", "421")}

		// when
		levels, err := service.GetLevels(context.Background())

		// then
		require.NoError(t, err)
		assert.Len(t, levels, 2)
		assert.Equal(t, 0, client.Calls)
	})

	t.Run("should refresh stale data", func(t *testing.T) {
		service, repo, client := setupService()
		repo.Levels = []Level{level("2024-06-01", "419")}
		client.Levels = []Level{level("2024-06-12", "420"), level("2024-06-13", "421")}

		levels, err := service.GetLevels(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, client.Calls)
		require.Len(t, levels, 2)
		assert.Equal(t, "421", levels[1].Trend.String())
	})

	t.Run("should refresh empty store", func(t *testing.T) {
		service, _, client := setupService()
		client.Levels = []Level{level("2024-06-13", "421")}

		levels, err := service.GetLevels(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, client.Calls)
		assert.Len(t, levels, 1)
	})

	t.Run("should serve stored data when refresh fails", func(t *testing.T) {
		service, repo, client := setupService()
		repo.Levels = []Level{level("2024-06-01", "419")}
		client.Err = errors.New("api down")

		levels, err := service.GetLevels(context.Background())

		require.NoError(t, err)
		assert.Len(t, levels, 1)
		assert.Equal(t, 0, repo.Replaced)
	})
}

func TestServiceImpl_Refresh(t *testing.T) {
	t.Run("should deduplicate and sort by date", func(t *testing.T) {
		service, repo, client := setupService()
		client.Levels = []Level{level("2024-06-13", "421"), level("2024-06-12", "420"), level("2024-06-13", "422")}

		count, err := service.Refresh(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		require.Len(t, repo.Levels, 2)
		assert.Equal(t, "420", repo.Levels[0].Trend.String())
		assert.Equal(t, "422", repo.Levels[1].Trend.String())
	})

	t.Run("should keep stored data when feed is empty", func(t *testing.T) {
		service, repo, _ := setupService()
		repo.Levels = []Level{level("2024-06-01", "419")}

		_, err := service.Refresh(context.Background())

		assert.ErrorIs(t, err, ErrNoData)
		assert.Len(t, repo.Levels, 1)
	})
}

func TestServiceImpl_GetLevelsAcrossDays(t *testing.T) {
	// given
	repo := NewStubRepository()
	client := &StubClient{Levels: []Level{level("2024-06-13", "421"), level("2024-06-14", "422")}}
	clock := &utils.MockClock{FixedNow: now}
	service := NewService(repo, client, clock)
	repo.Levels = []Level{level("2024-06-13", "421")}

	_, err := service.GetLevels(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, client.Calls)

	// when
	clock.AdvanceDays(1)
	levels, err := service.GetLevels(context.Background())

	// then
	require.NoError(t, err)
	assert.Equal(t, 1, client.Calls)
	assert.Equal(t, "2024-06-14", levels[len(levels)-1].Date.Format("2006-01-02"))
}
