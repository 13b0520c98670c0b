package catalog

import "context"

type StubRepository struct {
	transports  []Transport
	types       []TransportType
	energyTypes []EnergyType
	locations   []Location
}

func NewStubRepository() *StubRepository {
	return &StubRepository{}
}

func (s *StubRepository) ListTransports(_ context.Context) ([]Transport, error) {
	return s.transports, nil
}

func (s *StubRepository) ListTransportTypes(_ context.Context) ([]TransportType, error) {
	return s.types, nil
}

func (s *StubRepository) GetTransportType(_ context.Context, id int) (TransportType, Transport, error) {
	for _, t := range s.types {
		if t.Id != id {
			continue
		}
		for _, transport := range s.transports {
			if transport.Id == t.TransportId {
				return t, transport, nil
			}
		}
	}
	return TransportType{}, Transport{}, ErrTransportTypeNotFound
}

func (s *StubRepository) ListEnergyTypes(_ context.Context) ([]EnergyType, error) {
	return s.energyTypes, nil
}

func (s *StubRepository) ListLocations(_ context.Context) ([]Location, error) {
	return s.locations, nil
}

func (s *StubRepository) ApplySeed(_ context.Context, seed Seed) error {
	for _, seedTransport := range seed.Transports {
		transportId := 0
		for i, existing := range s.transports {
			if existing.Name == seedTransport.Name {
				s.transports[i].ApiName = seedTransport.ApiName
				transportId = existing.Id
			}
		}
		if transportId == 0 {
			transportId = len(s.transports) + 1
			s.transports = append(s.transports, Transport{Id: transportId, Name: seedTransport.Name, ApiName: seedTransport.ApiName})
		}
		for _, typeName := range seedTransport.Types {
			found := false
			for i, existing := range s.types {
				if existing.Name == typeName {
					s.types[i].TransportId = transportId
					found = true
				}
			}
			if !found {
				s.types = append(s.types, TransportType{Id: len(s.types) + 1, Name: typeName, TransportId: transportId})
			}
		}
	}
	for _, name := range seed.EnergyTypes {
		if !containsName(s.energyTypes, name, func(e EnergyType) string { return e.Name }) {
			s.energyTypes = append(s.energyTypes, EnergyType{Id: len(s.energyTypes) + 1, Name: name})
		}
	}
	for _, name := range seed.Locations {
		if !containsName(s.locations, name, func(l Location) string { return l.Name }) {
			s.locations = append(s.locations, Location{Id: len(s.locations) + 1, Name: name})
		}
	}
	return nil
}

func containsName[T any](items []T, name string, nameOf func(T) string) bool {
	for _, item := range items {
		if nameOf(item) == name {
			return true
		}
	}
	return false
}
