package catalog

import (
	"context"
	"slices"

	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetCatalog(ctx context.Context) (Catalog, error)
	GetTransportType(ctx context.Context, id int) (TransportType, Transport, error)
	IsKnownLocation(ctx context.Context, name string) (bool, error)
	IsKnownEnergyType(ctx context.Context, name string) (bool, error)
	Seed(ctx context.Context, seed Seed) error
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

// GetCatalog returns transports in id order, each with its types.
func (s *ServiceImpl) GetCatalog(ctx context.Context) (Catalog, error) {
	transports, err := s.repo.ListTransports(ctx)
	if err != nil {
		return Catalog{}, err
	}
	types, err := s.repo.ListTransportTypes(ctx)
	if err != nil {
		return Catalog{}, err
	}
	energyTypes, err := s.repo.ListEnergyTypes(ctx)
	if err != nil {
		return Catalog{}, err
	}
	locations, err := s.repo.ListLocations(ctx)
	if err != nil {
		return Catalog{}, err
	}

	grouped := make([]TransportWithTypes, 0, len(transports))
	for _, transport := range transports {
		group := TransportWithTypes{Transport: transport, Types: []TransportType{}}
		for _, transportType := range types {
			if transportType.TransportId == transport.Id {
				group.Types = append(group.Types, transportType)
			}
		}
		grouped = append(grouped, group)
	}

	return Catalog{
		Transports:  grouped,
		EnergyTypes: energyTypes,
		Locations:   locations,
	}, nil
}

func (s *ServiceImpl) GetTransportType(ctx context.Context, id int) (TransportType, Transport, error) {
	return s.repo.GetTransportType(ctx, id)
}

func (s *ServiceImpl) IsKnownLocation(ctx context.Context, name string) (bool, error) {
	locations, err := s.repo.ListLocations(ctx)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(locations, func(l Location) bool { return l.Name == name }), nil
}

func (s *ServiceImpl) IsKnownEnergyType(ctx context.Context, name string) (bool, error) {
	energyTypes, err := s.repo.ListEnergyTypes(ctx)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(energyTypes, func(e EnergyType) bool { return e.Name == name }), nil
}

func (s *ServiceImpl) Seed(ctx context.Context, seed Seed) error {
	if err := seed.validate(); err != nil {
		return err
	}
	if err := s.repo.ApplySeed(ctx, seed); err != nil {
		return err
	}
	typesCount := 0
	for _, transport := range seed.Transports {
		typesCount += len(transport.Types)
	}
	log.Infof("Catalog seeded: %d transports, %d transport types, %d energy types, %d locations",
		len(seed.Transports), typesCount, len(seed.EnergyTypes), len(seed.Locations))
	return nil
}
