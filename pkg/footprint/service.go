package footprint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/co2tracker/co2tracker/internal/event_bus"
	"github.com/co2tracker/co2tracker/internal/utils"
	"github.com/co2tracker/co2tracker/pkg/catalog"
	"github.com/co2tracker/co2tracker/pkg/emission"
	"github.com/co2tracker/co2tracker/pkg/timeseries"
	"github.com/co2tracker/co2tracker/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	AddTravel(ctx context.Context, input TravelInput) (TravelRecord, error)
	SearchFood(ctx context.Context, name string, amountKg decimal.Decimal) ([]FoodCandidate, error)
	AddFood(ctx context.Context, input FoodInput) (FoodRecord, error)
	AddEnergy(ctx context.Context, input EnergyInput) (EnergyRecord, error)
	ListRecords(ctx context.Context) (Records, error)
	DeleteRecord(ctx context.Context, category Category, id int) error
}

// CatalogReader is the part of the catalog the footprint forms are validated against.
type CatalogReader interface {
	GetTransportType(ctx context.Context, id int) (catalog.TransportType, catalog.Transport, error)
	IsKnownLocation(ctx context.Context, name string) (bool, error)
	IsKnownEnergyType(ctx context.Context, name string) (bool, error)
}

type ServiceImpl struct {
	repo     Repository
	provider emission.Provider
	catalog  CatalogReader
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewService(repo Repository, provider emission.Provider, catalog CatalogReader, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		repo:     repo,
		provider: provider,
		catalog:  catalog,
		eventBus: eventBus,
		clock:    clock,
	}
}

func (s *ServiceImpl) AddTravel(ctx context.Context, input TravelInput) (TravelRecord, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return TravelRecord{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !input.DistanceKm.IsPositive() {
		return TravelRecord{}, fmt.Errorf("%w: distance must be positive", ErrInvalidInput)
	}
	date, err := s.recordDate(input.Date)
	if err != nil {
		return TravelRecord{}, err
	}

	transportType, transport, err := s.catalog.GetTransportType(ctx, input.TransportTypeId)
	if err != nil {
		return TravelRecord{}, err
	}

	co2, err := s.provider.Travel(ctx, emission.TravelQuery{
		Mode:        transport.ApiName,
		VehicleType: transportType.Name,
		DistanceKm:  input.DistanceKm,
	})
	if err != nil {
		return TravelRecord{}, err
	}

	record, err := s.repo.CreateTravel(ctx, TravelRecord{
		UserId:          currentUser.Id,
		TransportId:     transport.Id,
		TransportTypeId: transportType.Id,
		TransportName:   transport.Name,
		TypeName:        transportType.Name,
		DistanceKm:      input.DistanceKm.Round(2),
		Co2Kg:           co2.Round(2),
		Date:            date,
	})
	if err != nil {
		return TravelRecord{}, err
	}
	log.Debugf("User %d recorded %s kg CO2 from %s", currentUser.Id, record.Co2Kg, record.TypeName)
	s.publishRecorded(ctx, currentUser, Travel, record.Id, record.Co2Kg, record.Date)
	return record, nil
}

// SearchFood returns every product matching name with its footprint scaled to amountKg (3 decimals).
func (s *ServiceImpl) SearchFood(ctx context.Context, name string, amountKg decimal.Decimal) ([]FoodCandidate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: food name is required", ErrInvalidInput)
	}
	if amountKg.LessThan(minFoodAmountKg) {
		return nil, fmt.Errorf("%w: amount must be at least %s kg", ErrInvalidInput, minFoodAmountKg)
	}

	products, err := s.provider.SearchFood(ctx, name)
	if err != nil {
		return nil, err
	}
	candidates := make([]FoodCandidate, 0, len(products))
	for _, product := range products {
		candidates = append(candidates, FoodCandidate{
			Group:    product.Group,
			Category: product.Category,
			Name:     product.Name,
			AmountKg: amountKg,
			Co2Kg:    product.FootprintPerKg.Mul(amountKg).Round(3),
		})
	}
	return candidates, nil
}

func (s *ServiceImpl) AddFood(ctx context.Context, input FoodInput) (FoodRecord, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return FoodRecord{}, fmt.Errorf("failed to get current user: %w", err)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return FoodRecord{}, fmt.Errorf("%w: food name is required", ErrInvalidInput)
	}
	if input.AmountKg.LessThan(minFoodAmountKg) {
		return FoodRecord{}, fmt.Errorf("%w: amount must be at least %s kg", ErrInvalidInput, minFoodAmountKg)
	}
	date, err := s.recordDate(input.Date)
	if err != nil {
		return FoodRecord{}, err
	}

	var co2 decimal.Decimal
	if input.Co2Kg != nil {
		if input.Co2Kg.IsNegative() {
			return FoodRecord{}, fmt.Errorf("%w: co2 must not be negative", ErrInvalidInput)
		}
		co2 = *input.Co2Kg
	} else {
		co2, err = s.provider.Food(ctx, emission.FoodQuery{Name: name, AmountKg: input.AmountKg})
		if err != nil {
			return FoodRecord{}, err
		}
	}

	record, err := s.repo.CreateFood(ctx, FoodRecord{
		UserId:   currentUser.Id,
		Group:    orNotSet(input.Group),
		Category: orNotSet(input.Category),
		Name:     name,
		AmountKg: input.AmountKg.Round(3),
		Co2Kg:    co2.Round(2),
		Date:     date,
	})
	if err != nil {
		return FoodRecord{}, err
	}
	log.Debugf("User %d recorded %s kg CO2 from %s", currentUser.Id, record.Co2Kg, record.Name)
	s.publishRecorded(ctx, currentUser, Food, record.Id, record.Co2Kg, record.Date)
	return record, nil
}

func (s *ServiceImpl) AddEnergy(ctx context.Context, input EnergyInput) (EnergyRecord, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return EnergyRecord{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !input.Kwh.IsPositive() {
		return EnergyRecord{}, fmt.Errorf("%w: consumption must be positive", ErrInvalidInput)
	}
	date, err := s.recordDate(input.Date)
	if err != nil {
		return EnergyRecord{}, err
	}

	record := EnergyRecord{
		UserId:    currentUser.Id,
		Kind:      input.Kind,
		Location:  NotSet,
		GreenType: NotSet,
		AmountKwh: input.Kwh.Round(2),
		Date:      date,
	}
	query := emission.EnergyQuery{Kind: input.Kind, Kwh: input.Kwh}
	switch input.Kind {
	case emission.TraditionalEnergy:
		if err := s.requireKnown(ctx, input.Location, "location", s.catalog.IsKnownLocation); err != nil {
			return EnergyRecord{}, err
		}
		record.Location = input.Location
		query.Location = input.Location
	case emission.CleanEnergy:
		if err := s.requireKnown(ctx, input.Source, "energy source", s.catalog.IsKnownEnergyType); err != nil {
			return EnergyRecord{}, err
		}
		record.GreenType = input.Source
		query.Source = input.Source
	default:
		return EnergyRecord{}, fmt.Errorf("%w: unknown energy type %q", ErrInvalidInput, input.Kind)
	}

	co2, err := s.provider.Energy(ctx, query)
	if err != nil {
		return EnergyRecord{}, err
	}
	record.Co2Kg = co2.Round(2)

	record, err = s.repo.CreateEnergy(ctx, record)
	if err != nil {
		return EnergyRecord{}, err
	}
	log.Debugf("User %d recorded %s kg CO2 from %s energy", currentUser.Id, record.Co2Kg, record.Kind)
	s.publishRecorded(ctx, currentUser, Energy, record.Id, record.Co2Kg, record.Date)
	return record, nil
}

func (s *ServiceImpl) ListRecords(ctx context.Context) (Records, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Records{}, fmt.Errorf("failed to get current user: %w", err)
	}
	travel, err := s.repo.ListTravel(ctx, userId)
	if err != nil {
		return Records{}, err
	}
	food, err := s.repo.ListFood(ctx, userId)
	if err != nil {
		return Records{}, err
	}
	energy, err := s.repo.ListEnergy(ctx, userId)
	if err != nil {
		return Records{}, err
	}
	return Records{Travel: travel, Food: food, Energy: energy}, nil
}

func (s *ServiceImpl) DeleteRecord(ctx context.Context, category Category, id int) error {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.repo.Delete(ctx, currentUser.Id, category, id); err != nil {
		return err
	}
	log.Debugf("User %d deleted %s record %d", currentUser.Id, category, id)

	err = s.eventBus.Emit(ctx, event_bus.FootprintDeleted{
		RecordId: id,
		UserId:   currentUser.Id,
		UserUid:  currentUser.Uid,
		Category: string(category),
	})
	if err != nil {
		log.Warnf("failed to publish footprint deletion: %v", err)
	}
	return nil
}

// recordDate defaults a missing date to today and rejects future dates.
func (s *ServiceImpl) recordDate(date time.Time) (time.Time, error) {
	today := utils.Today(s.clock)
	if date.IsZero() {
		return today, nil
	}
	day := timeseries.DateOf(date)
	if day.After(today) {
		return time.Time{}, fmt.Errorf("%w: date %s is in the future", ErrInvalidInput, day.Format(timeseries.DateLayout))
	}
	return day, nil
}

func (s *ServiceImpl) requireKnown(ctx context.Context, value string, what string, isKnown func(context.Context, string) (bool, error)) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, what)
	}
	known, err := isKnown(ctx, value)
	if err != nil {
		return err
	}
	if !known {
		return fmt.Errorf("%w: unknown %s %q", ErrInvalidInput, what, value)
	}
	return nil
}

// publishRecorded notifies subscribers; a failing subscriber does not undo the stored record.
func (s *ServiceImpl) publishRecorded(ctx context.Context, u user.User, category Category, id int, co2 decimal.Decimal, date time.Time) {
	err := s.eventBus.Emit(ctx, event_bus.FootprintRecorded{
		RecordId: id,
		UserId:   u.Id,
		UserUid:  u.Uid,
		Category: string(category),
		Co2Kg:    co2,
		Date:     date,
	})
	if err != nil {
		log.Warnf("failed to publish footprint record: %v", err)
	}
}

func orNotSet(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotSet
	}
	return value
}
