package global_co2

import (
	"context"
	"time"
)

type StubRepository struct {
	Levels   []Level
	Replaced int
	Err      error
}

func NewStubRepository() *StubRepository {
	return &StubRepository{}
}

func (s *StubRepository) ReplaceAll(_ context.Context, levels []Level) error {
	if s.Err != nil {
		return s.Err
	}
	s.Replaced++
	s.Levels = append([]Level(nil), levels...)
	return nil
}

func (s *StubRepository) List(_ context.Context) ([]Level, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Levels, nil
}

func (s *StubRepository) LatestDate(_ context.Context) (time.Time, error) {
	if s.Err != nil {
		return time.Time{}, s.Err
	}
	if len(s.Levels) == 0 {
		return time.Time{}, ErrNoData
	}
	latest := s.Levels[0].Date
	for _, l := range s.Levels {
		if l.Date.After(latest) {
			latest = l.Date
		}
	}
	return latest, nil
}

type StubClient struct {
	Levels []Level
	Err    error
	Calls  int
}

func (s *StubClient) FetchLevels(_ context.Context) ([]Level, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Levels, nil
}
