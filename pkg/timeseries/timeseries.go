// Package timeseries turns dated emission observations into a continuous daily series
// suitable for line charts: one point per calendar day, no gaps, no duplicate dates.
package timeseries

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var ErrInvalidInput = errors.New("invalid input")

// Observation is a single recorded emission. Date must be a plain calendar date
// (midnight, no time-of-day component).
type Observation struct {
	Date     time.Time
	AmountKg decimal.Decimal
}

// DailyTotal is the summed emission of exactly one calendar day.
type DailyTotal struct {
	Date    time.Time
	TotalKg decimal.Decimal
}

// ChartSeries is the aggregated output split into the parallel arrays a chart consumes.
type ChartSeries struct {
	Dates  []string          `json:"dates"`
	Values []decimal.Decimal `json:"values"`
}

// Aggregate returns one DailyTotal for every day between the earliest and latest observation
// (inclusive), ascending by date. Days without observations are zero. Amounts are summed as is.
func Aggregate(observations []Observation) ([]DailyTotal, error) {
	if len(observations) == 0 {
		return nil, fmt.Errorf("%w: no observations to aggregate", ErrInvalidInput)
	}

	totals := make(map[time.Time]decimal.Decimal, len(observations))
	var start, end time.Time
	for i, o := range observations {
		day, err := calendarDay(o.Date)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
		if i == 0 || day.Before(start) {
			start = day
		}
		if i == 0 || day.After(end) {
			end = day
		}
		totals[day] = totals[day].Add(o.AmountKg)
	}

	days := daysBetween(start, end)
	result := make([]DailyTotal, 0, days)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		result = append(result, DailyTotal{Date: day, TotalKg: totals[day]})
	}
	return result, nil
}

// Series converts aggregated totals into parallel date/value arrays.
func Series(totals []DailyTotal) ChartSeries {
	series := ChartSeries{
		Dates:  make([]string, 0, len(totals)),
		Values: make([]decimal.Decimal, 0, len(totals)),
	}
	for _, t := range totals {
		series.Dates = append(series.Dates, t.Date.Format(DateLayout))
		series.Values = append(series.Values, t.TotalKg)
	}
	return series
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed date %q", ErrInvalidInput, value)
	}
	return d, nil
}

// DateOf returns the calendar date of t as seen in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// calendarDay keeps the wall-clock date of t and rejects values that are not plain dates.
func calendarDay(t time.Time) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("%w: missing date", ErrInvalidInput)
	}
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return time.Time{}, fmt.Errorf("%w: %s is not a calendar date", ErrInvalidInput, t.Format(time.RFC3339Nano))
	}
	return DateOf(t), nil
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
