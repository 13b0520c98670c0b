package footprint

import (
	"errors"
	"time"

	"github.com/co2tracker/co2tracker/pkg/emission"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrRecordNotFound = errors.New("record not found")
)

type Category string

const (
	Travel Category = "travel"
	Food   Category = "food"
	Energy Category = "energy"
)

// NotSet fills the location or green type column that does not apply to an energy record.
const NotSet = "---"

var minFoodAmountKg = decimal.New(1, -3)

func ParseCategory(value string) (Category, error) {
	switch Category(value) {
	case Travel, Food, Energy:
		return Category(value), nil
	}
	return "", ErrInvalidInput
}

type TravelRecord struct {
	Id              int
	UserId          int
	TransportId     int
	TransportTypeId int
	TransportName   string
	TypeName        string
	DistanceKm      decimal.Decimal
	Co2Kg           decimal.Decimal
	Date            time.Time
}

type FoodRecord struct {
	Id       int
	UserId   int
	Group    string
	Category string
	Name     string
	AmountKg decimal.Decimal
	Co2Kg    decimal.Decimal
	Date     time.Time
}

type EnergyRecord struct {
	Id        int
	UserId    int
	Kind      emission.EnergyKind
	Location  string
	GreenType string
	AmountKwh decimal.Decimal
	Co2Kg     decimal.Decimal
	Date      time.Time
}

// Records holds all records of one user, each category newest first.
type Records struct {
	Travel []TravelRecord
	Food   []FoodRecord
	Energy []EnergyRecord
}

// TravelInput with a zero Date is recorded for today.
type TravelInput struct {
	TransportTypeId int
	DistanceKm      decimal.Decimal
	Date            time.Time
}

// FoodInput carries either a Co2Kg picked from the search results or nil to have it computed.
type FoodInput struct {
	Group    string
	Category string
	Name     string
	AmountKg decimal.Decimal
	Co2Kg    *decimal.Decimal
	Date     time.Time
}

// EnergyInput uses Location for traditional energy and Source for clean energy.
type EnergyInput struct {
	Kind     emission.EnergyKind
	Location string
	Source   string
	Kwh      decimal.Decimal
	Date     time.Time
}

// FoodCandidate is a search result with the footprint already scaled to the requested amount.
type FoodCandidate struct {
	Group    string
	Category string
	Name     string
	AmountKg decimal.Decimal
	Co2Kg    decimal.Decimal
}
