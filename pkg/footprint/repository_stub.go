package footprint

import (
	"context"
	"sort"
)

type StubRepository struct {
	nextId int
	travel []TravelRecord
	food   []FoodRecord
	energy []EnergyRecord
}

func NewStubRepository() *StubRepository {
	return &StubRepository{}
}

func (s *StubRepository) CreateTravel(_ context.Context, record TravelRecord) (TravelRecord, error) {
	s.nextId++
	record.Id = s.nextId
	s.travel = append(s.travel, record)
	return record, nil
}

func (s *StubRepository) CreateFood(_ context.Context, record FoodRecord) (FoodRecord, error) {
	s.nextId++
	record.Id = s.nextId
	s.food = append(s.food, record)
	return record, nil
}

func (s *StubRepository) CreateEnergy(_ context.Context, record EnergyRecord) (EnergyRecord, error) {
	s.nextId++
	record.Id = s.nextId
	s.energy = append(s.energy, record)
	return record, nil
}

func (s *StubRepository) ListTravel(_ context.Context, userId int) ([]TravelRecord, error) {
	result := []TravelRecord{}
	for _, r := range s.travel {
		if r.UserId == userId {
			result = append(result, r)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return newer(result[i].Date.Unix(), result[i].Id, result[j].Date.Unix(), result[j].Id) })
	return result, nil
}

func (s *StubRepository) ListFood(_ context.Context, userId int) ([]FoodRecord, error) {
	result := []FoodRecord{}
	for _, r := range s.food {
		if r.UserId == userId {
			result = append(result, r)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return newer(result[i].Date.Unix(), result[i].Id, result[j].Date.Unix(), result[j].Id) })
	return result, nil
}

func (s *StubRepository) ListEnergy(_ context.Context, userId int) ([]EnergyRecord, error) {
	result := []EnergyRecord{}
	for _, r := range s.energy {
		if r.UserId == userId {
			result = append(result, r)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return newer(result[i].Date.Unix(), result[i].Id, result[j].Date.Unix(), result[j].Id) })
	return result, nil
}

func (s *StubRepository) Delete(_ context.Context, userId int, category Category, id int) error {
	switch category {
	case Travel:
		for i, r := range s.travel {
			if r.Id == id && r.UserId == userId {
				s.travel = append(s.travel[:i], s.travel[i+1:]...)
				return nil
			}
		}
	case Food:
		for i, r := range s.food {
			if r.Id == id && r.UserId == userId {
				s.food = append(s.food[:i], s.food[i+1:]...)
				return nil
			}
		}
	case Energy:
		for i, r := range s.energy {
			if r.Id == id && r.UserId == userId {
				s.energy = append(s.energy[:i], s.energy[i+1:]...)
				return nil
			}
		}
	default:
		return ErrInvalidInput
	}
	return ErrRecordNotFound
}

func newer(dateA int64, idA int, dateB int64, idB int) bool {
	if dateA != dateB {
		return dateA > dateB
	}
	return idA > idB
}
