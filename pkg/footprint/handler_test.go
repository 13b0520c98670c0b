package footprint

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/co2tracker/co2tracker/pkg/emission"
	"github.com/co2tracker/co2tracker/pkg/user"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*mux.Router, *fixture) {
	f := setup(t)
	handler := NewHandler(f.service)
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			current, err := user.CurrentUser(f.ctx)
			require.NoError(t, err)
			next.ServeHTTP(w, req.WithContext(user.WithUser(req.Context(), current)))
		})
	})
	r.HandleFunc("/api/footprint", handler.ListRecords).Methods("GET")
	r.HandleFunc("/api/footprint/travel", handler.AddTravel).Methods("POST")
	r.HandleFunc("/api/footprint/food/search", handler.SearchFood).Methods("GET")
	r.HandleFunc("/api/footprint/food", handler.AddFood).Methods("POST")
	r.HandleFunc("/api/footprint/energy", handler.AddEnergy).Methods("POST")
	r.HandleFunc("/api/footprint/{category}/{id}", handler.DeleteRecord).Methods("DELETE")
	return r, f
}

func serve(r *mux.Router, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_AddTravel(t *testing.T) {
	r, _ := setupRouter(t)

	t.Run("should create record", func(t *testing.T) {
		rr := serve(r, "POST", "/api/footprint/travel", `{"transportTypeId": 1, "distanceKm": "100", "date": "2024-06-14"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var dto TravelDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
		assert.Equal(t, "17.1", dto.Co2Kg.String())
		assert.Equal(t, "2024-06-14", dto.Date)
		assert.Equal(t, "Medium Diesel Car", dto.TransportType)
	})

	t.Run("should reject malformed date", func(t *testing.T) {
		rr := serve(r, "POST", "/api/footprint/travel", `{"transportTypeId": 1, "distanceKm": 1, "date": "14.06.2024"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should reject future date", func(t *testing.T) {
		rr := serve(r, "POST", "/api/footprint/travel", `{"transportTypeId": 1, "distanceKm": 1, "date": "2024-06-16"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should reject unknown transport type", func(t *testing.T) {
		rr := serve(r, "POST", "/api/footprint/travel", `{"transportTypeId": 99, "distanceKm": 1}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandler_ProviderErrors(t *testing.T) {
	r, f := setupRouter(t)

	f.provider.Err = emission.ErrProviderUnavailable
	rr := serve(r, "POST", "/api/footprint/energy", `{"type": "Clean", "source": "Solar", "kwh": 10}`)
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	f.provider.Err = nil
	rr = serve(r, "GET", "/api/footprint/food/search?name=unicorn&amountKg=1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_FoodFlow(t *testing.T) {
	r, _ := setupRouter(t)

	// search
	rr := serve(r, "GET", "/api/footprint/food/search?name=white&amountKg=0.5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var candidates []FoodCandidateDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&candidates))
	require.Len(t, candidates, 1)
	assert.Equal(t, "0.6", candidates[0].Co2Kg.String())

	// pick
	body, err := json.Marshal(FoodRequestDTO{
		Group:    candidates[0].Group,
		Category: candidates[0].Category,
		Name:     candidates[0].Name,
		AmountKg: candidates[0].AmountKg,
		Co2Kg:    &candidates[0].Co2Kg,
	})
	require.NoError(t, err)
	rr = serve(r, "POST", "/api/footprint/food", string(body))
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = serve(r, "GET", "/api/footprint", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var records RecordsDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&records))
	require.Len(t, records.Food, 1)
	assert.Equal(t, "White bread", records.Food[0].Name)
	assert.Equal(t, "2024-06-15", records.Food[0].Date)
	assert.Empty(t, records.Travel)
}

func TestHandler_DeleteRecord(t *testing.T) {
	r, _ := setupRouter(t)
	rr := serve(r, "POST", "/api/footprint/energy", `{"type": "Traditional", "location": "Lithuania", "kwh": 10}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created EnergyDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))

	rr = serve(r, "DELETE", "/api/footprint/energy/"+strconv.Itoa(created.Id), "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(r, "DELETE", "/api/footprint/energy/"+strconv.Itoa(created.Id), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(r, "DELETE", "/api/footprint/food/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(r, "DELETE", "/api/footprint/water/1", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(r, "DELETE", "/api/footprint/energy/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_DeleteRecordOfAnotherUser(t *testing.T) {
	// given
	r, f := setupRouter(t)
	rr := serve(r, "POST", "/api/footprint/energy", `{"type": "Traditional", "location": "Lithuania", "kwh": 10}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created EnergyDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	ownerCtx := f.ctx

	// when
	f.ctx = user.WithUser(ownerCtx, otherUser)
	rr = serve(r, "DELETE", "/api/footprint/energy/"+strconv.Itoa(created.Id), "")

	// then
	assert.Equal(t, http.StatusNotFound, rr.Code)
	f.ctx = ownerCtx
	rr = serve(r, "DELETE", "/api/footprint/energy/"+strconv.Itoa(created.Id), "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
