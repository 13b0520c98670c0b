package utils

import "time"

// Clock supplies the current instant. Record dates, token expiry and data staleness all read it.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall-clock time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// AdvanceDays moves the clock by whole calendar days, keeping the time of day.
func (m *MockClock) AdvanceDays(days int) {
	m.FixedNow = m.FixedNow.AddDate(0, 0, days)
}

// Today returns the clock's current calendar date as midnight UTC.
func Today(clock Clock) time.Time {
	y, m, d := clock.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysAgo returns the calendar date the given number of days before Today.
func DaysAgo(clock Clock, days int) time.Time {
	return Today(clock).AddDate(0, 0, -days)
}
