package emission

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrProviderUnavailable = errors.New("emission factor provider unavailable")
	ErrFactorNotFound      = errors.New("emission factor not found")
)

type EnergyKind string

const (
	TraditionalEnergy EnergyKind = "Traditional"
	CleanEnergy       EnergyKind = "Clean"
)

// TravelQuery describes a trip. Mode is the provider's endpoint name for the transport,
// e.g. "CarbonFootprintFromCarTravel"; VehicleType is the catalog type name.
type TravelQuery struct {
	Mode        string
	VehicleType string
	DistanceKm  decimal.Decimal
}

type FoodQuery struct {
	Name     string
	AmountKg decimal.Decimal
}

// EnergyQuery uses Location for traditional energy and Source for clean energy.
type EnergyQuery struct {
	Kind     EnergyKind
	Location string
	Source   string
	Kwh      decimal.Decimal
}

// FoodProduct is a search candidate. FootprintPerKg is kg CO2 emitted per kg of the product.
type FoodProduct struct {
	Group          string
	Category       string
	Name           string
	FootprintPerKg decimal.Decimal
}

// Provider computes kg CO2 for one consumption event per category.
type Provider interface {
	Travel(ctx context.Context, query TravelQuery) (decimal.Decimal, error)
	Food(ctx context.Context, query FoodQuery) (decimal.Decimal, error)
	Energy(ctx context.Context, query EnergyQuery) (decimal.Decimal, error)
	SearchFood(ctx context.Context, name string) ([]FoodProduct, error)
}
