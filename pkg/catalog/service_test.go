package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = `
transports:
  - name: Car
    api_name: CarbonFootprintFromCarTravel
    types: [Small Diesel Car, Medium Petrol Car]
  - name: Plane
    api_name: CarbonFootprintFromFlight
    types: [Domestic Flight]
energy_types: [Solar, Wind]
locations: [Lithuania, Poland]
`

func setupService(t *testing.T) *ServiceImpl {
	service := NewService(NewStubRepository())
	seed, err := ParseSeed([]byte(testSeed))
	require.NoError(t, err)
	require.NoError(t, service.Seed(context.Background(), seed))
	return service
}

func TestParseSeed(t *testing.T) {
	t.Run("parses the bundled seed file", func(t *testing.T) {
		seed, err := LoadSeed("../../config/catalog.yaml")

		require.NoError(t, err)
		require.Len(t, seed.Transports, 4)
		assert.Equal(t, "Car", seed.Transports[0].Name)
		assert.Equal(t, "CarbonFootprintFromCarTravel", seed.Transports[0].ApiName)
		assert.NotEmpty(t, seed.EnergyTypes)
		assert.NotEmpty(t, seed.Locations)
	})

	t.Run("rejects transport without api name", func(t *testing.T) {
		_, err := ParseSeed([]byte("transports:\n  - name: Car\n"))
		assert.ErrorIs(t, err, ErrInvalidSeed)
	})

	t.Run("rejects duplicated transport type", func(t *testing.T) {
		_, err := ParseSeed([]byte(`
transports:
  - {name: Car, api_name: A, types: [X]}
  - {name: Bus, api_name: B, types: [X]}
`))
		assert.ErrorIs(t, err, ErrInvalidSeed)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := ParseSeed([]byte("transports: ["))
		assert.ErrorIs(t, err, ErrInvalidSeed)
	})
}

func TestService_GetCatalog(t *testing.T) {
	service := setupService(t)

	catalog, err := service.GetCatalog(context.Background())

	require.NoError(t, err)
	require.Len(t, catalog.Transports, 2)
	assert.Equal(t, "Car", catalog.Transports[0].Transport.Name)
	assert.Len(t, catalog.Transports[0].Types, 2)
	assert.Equal(t, "Domestic Flight", catalog.Transports[1].Types[0].Name)
	assert.Len(t, catalog.EnergyTypes, 2)
	assert.Len(t, catalog.Locations, 2)
}

func TestService_SeedIsIdempotent(t *testing.T) {
	service := setupService(t)
	seed, err := ParseSeed([]byte(testSeed))
	require.NoError(t, err)

	require.NoError(t, service.Seed(context.Background(), seed))

	catalog, err := service.GetCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog.Transports, 2)
	assert.Len(t, catalog.Transports[0].Types, 2)
	assert.Len(t, catalog.EnergyTypes, 2)
}

func TestService_Lookups(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	transportType, transport, err := service.GetTransportType(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Domestic Flight", transportType.Name)
	assert.Equal(t, "CarbonFootprintFromFlight", transport.ApiName)

	_, _, err = service.GetTransportType(ctx, 99)
	assert.ErrorIs(t, err, ErrTransportTypeNotFound)

	known, err := service.IsKnownLocation(ctx, "Poland")
	require.NoError(t, err)
	assert.True(t, known)
	known, err = service.IsKnownEnergyType(ctx, "Coal")
	require.NoError(t, err)
	assert.False(t, known)
}

func TestHandler_GetCatalog(t *testing.T) {
	handler := NewHandler(setupService(t))
	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rr := httptest.NewRecorder()

	handler.GetCatalog(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"transports": [
			{"id": 1, "name": "Car", "types": [{"id": 1, "name": "Small Diesel Car"}, {"id": 2, "name": "Medium Petrol Car"}]},
			{"id": 2, "name": "Plane", "types": [{"id": 3, "name": "Domestic Flight"}]}
		],
		"energyTypes": ["Solar", "Wind"],
		"locations": ["Lithuania", "Poland"]
	}`, rr.Body.String())
}
