package stats

import (
	"time"

	"github.com/co2tracker/co2tracker/pkg/footprint"
	"github.com/co2tracker/co2tracker/pkg/timeseries"
	"github.com/shopspring/decimal"
)

// CategoryObservation is one stored record reduced to what the statistics need.
type CategoryObservation struct {
	Category footprint.Category
	timeseries.Observation
}

type CategoryTotals struct {
	Travel decimal.Decimal
	Food   decimal.Decimal
	Energy decimal.Decimal
	Total  decimal.Decimal
}

// CategoryShares are percentages of the grand total.
type CategoryShares struct {
	Travel decimal.Decimal
	Food   decimal.Decimal
	Energy decimal.Decimal
}

// WeekStats covers [Start, End) where Start is the Monday of the current week.
type WeekStats struct {
	Start        time.Time
	End          time.Time
	TotalKg      decimal.Decimal
	LimitKg      decimal.Decimal
	LimitPercent decimal.Decimal
}

type Summary struct {
	Totals  CategoryTotals
	Shares  CategoryShares
	Week    WeekStats
	History []timeseries.DailyTotal
}

// UserEmission is the raw leaderboard input of one user with at least one record.
type UserEmission struct {
	UserId   int
	Uid      string
	Username string
	TotalKg  decimal.Decimal
	Days     int
}

type LeaderboardEntry struct {
	Rank            int
	Username        string
	AverageKgPerDay decimal.Decimal
	TotalKg         decimal.Decimal
	Days            int
}
