package catalog

import "errors"

var (
	ErrTransportTypeNotFound = errors.New("transport type not found")
	ErrInvalidSeed           = errors.New("invalid catalog seed")
)

// Transport is a travel mode. ApiName is the emission API endpoint computing its footprint.
type Transport struct {
	Id      int
	Name    string
	ApiName string
}

type TransportType struct {
	Id          int
	Name        string
	TransportId int
}

type EnergyType struct {
	Id   int
	Name string
}

type Location struct {
	Id   int
	Name string
}

// TransportWithTypes groups the types available for one transport.
type TransportWithTypes struct {
	Transport Transport
	Types     []TransportType
}

type Catalog struct {
	Transports  []TransportWithTypes
	EnergyTypes []EnergyType
	Locations   []Location
}
