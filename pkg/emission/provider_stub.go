package emission

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// StubProvider answers from fixed per-unit factors. Travel factors are keyed by vehicle type
// (kg per km), energy factors by location or source (kg per kWh).
type StubProvider struct {
	TravelFactors map[string]decimal.Decimal
	EnergyFactors map[string]decimal.Decimal
	Foods         []FoodProduct
	Err           error
	Calls         int
}

func NewStubProvider() *StubProvider {
	return &StubProvider{
		TravelFactors: map[string]decimal.Decimal{},
		EnergyFactors: map[string]decimal.Decimal{},
	}
}

func (s *StubProvider) Travel(_ context.Context, query TravelQuery) (decimal.Decimal, error) {
	s.Calls++
	if s.Err != nil {
		return decimal.Zero, s.Err
	}
	factor, ok := s.TravelFactors[query.VehicleType]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrFactorNotFound, query.VehicleType)
	}
	return factor.Mul(query.DistanceKm), nil
}

func (s *StubProvider) Food(ctx context.Context, query FoodQuery) (decimal.Decimal, error) {
	products, err := s.SearchFood(ctx, query.Name)
	if err != nil {
		return decimal.Zero, err
	}
	return products[0].FootprintPerKg.Mul(query.AmountKg).Round(3), nil
}

func (s *StubProvider) Energy(_ context.Context, query EnergyQuery) (decimal.Decimal, error) {
	s.Calls++
	if s.Err != nil {
		return decimal.Zero, s.Err
	}
	key := query.Location
	if query.Kind == CleanEnergy {
		key = query.Source
	}
	factor, ok := s.EnergyFactors[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrFactorNotFound, key)
	}
	return factor.Mul(query.Kwh), nil
}

func (s *StubProvider) SearchFood(_ context.Context, name string) ([]FoodProduct, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	var found []FoodProduct
	for _, f := range s.Foods {
		if strings.Contains(strings.ToLower(f.Name), strings.ToLower(name)) {
			found = append(found, f)
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrFactorNotFound, name)
	}
	return found, nil
}
