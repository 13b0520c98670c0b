package stats

import (
	"context"
)

type StubRepository struct {
	Observations map[int][]CategoryObservation
	Emissions    []UserEmission
	Err          error
}

func NewStubRepository() *StubRepository {
	return &StubRepository{Observations: map[int][]CategoryObservation{}}
}

func (s *StubRepository) ListObservations(_ context.Context, userId int) ([]CategoryObservation, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Observations[userId], nil
}

func (s *StubRepository) ListUserEmissions(_ context.Context) ([]UserEmission, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Emissions, nil
}
