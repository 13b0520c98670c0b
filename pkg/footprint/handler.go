package footprint

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/co2tracker/co2tracker/internal/rest"
	"github.com/co2tracker/co2tracker/pkg/catalog"
	"github.com/co2tracker/co2tracker/pkg/emission"
	"github.com/co2tracker/co2tracker/pkg/timeseries"
	"github.com/co2tracker/co2tracker/pkg/user"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type TravelRequestDTO struct {
	TransportTypeId int             `json:"transportTypeId"`
	DistanceKm      decimal.Decimal `json:"distanceKm"`
	Date            string          `json:"date,omitempty"`
}

type FoodRequestDTO struct {
	Group    string           `json:"group"`
	Category string           `json:"category"`
	Name     string           `json:"name"`
	AmountKg decimal.Decimal  `json:"amountKg"`
	Co2Kg    *decimal.Decimal `json:"co2Kg,omitempty"`
	Date     string           `json:"date,omitempty"`
}

type EnergyRequestDTO struct {
	Type     string          `json:"type"`
	Location string          `json:"location,omitempty"`
	Source   string          `json:"source,omitempty"`
	Kwh      decimal.Decimal `json:"kwh"`
	Date     string          `json:"date,omitempty"`
}

type TravelDTO struct {
	Id            int             `json:"id"`
	Transport     string          `json:"transport"`
	TransportType string          `json:"transportType"`
	DistanceKm    decimal.Decimal `json:"distanceKm"`
	Co2Kg         decimal.Decimal `json:"co2Kg"`
	Date          string          `json:"date"`
}

type FoodDTO struct {
	Id       int             `json:"id"`
	Group    string          `json:"group"`
	Category string          `json:"category"`
	Name     string          `json:"name"`
	AmountKg decimal.Decimal `json:"amountKg"`
	Co2Kg    decimal.Decimal `json:"co2Kg"`
	Date     string          `json:"date"`
}

type EnergyDTO struct {
	Id        int             `json:"id"`
	Type      string          `json:"type"`
	Location  string          `json:"location"`
	GreenType string          `json:"greenType"`
	AmountKwh decimal.Decimal `json:"amountKwh"`
	Co2Kg     decimal.Decimal `json:"co2Kg"`
	Date      string          `json:"date"`
}

type RecordsDTO struct {
	Travel []TravelDTO `json:"travel"`
	Food   []FoodDTO   `json:"food"`
	Energy []EnergyDTO `json:"energy"`
}

type FoodCandidateDTO struct {
	Group    string          `json:"group"`
	Category string          `json:"category"`
	Name     string          `json:"name"`
	AmountKg decimal.Decimal `json:"amountKg"`
	Co2Kg    decimal.Decimal `json:"co2Kg"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListRecords godoc
// @Summary List footprint records
// @Description All travel, food and energy records of the current user, newest first
// @Tags Footprint
// @Produce json
// @Success 200 {object} RecordsDTO
// @Router /api/footprint [get]
// @Security Bearer
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	log.Trace("Listing footprint records")

	records, err := h.service.ListRecords(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, recordsToDTO(records))
}

// AddTravel godoc
// @Summary Record travel
// @Tags Footprint
// @Accept json
// @Produce json
// @Param travel body TravelRequestDTO true "Trip"
// @Success 201 {object} TravelDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 502 {object} rest.ErrorResponse "Emission API unavailable"
// @Router /api/footprint/travel [post]
// @Security Bearer
func (h *Handler) AddTravel(w http.ResponseWriter, r *http.Request) {
	log.Trace("Adding travel record")

	var dto TravelRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	date, ok := parseOptionalDate(w, dto.Date)
	if !ok {
		return
	}

	record, err := h.service.AddTravel(r.Context(), TravelInput{
		TransportTypeId: dto.TransportTypeId,
		DistanceKm:      dto.DistanceKm,
		Date:            date,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, travelToDTO(record))
}

// SearchFood godoc
// @Summary Search food products
// @Description Products matching the name with kg CO2 for the given amount
// @Tags Footprint
// @Produce json
// @Param name query string true "Food name"
// @Param amountKg query string true "Amount in kg"
// @Success 200 {array} FoodCandidateDTO
// @Failure 404 {object} rest.ErrorResponse "No food found"
// @Router /api/footprint/food/search [get]
// @Security Bearer
func (h *Handler) SearchFood(w http.ResponseWriter, r *http.Request) {
	log.Trace("Searching food")

	name := r.URL.Query().Get("name")
	amountKg, err := decimal.NewFromString(r.URL.Query().Get("amountKg"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid amountKg", "")
		return
	}

	candidates, err := h.service.SearchFood(r.Context(), name, amountKg)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	result := make([]FoodCandidateDTO, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, FoodCandidateDTO(c))
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

// AddFood godoc
// @Summary Record food
// @Description Store a picked search result (co2Kg given) or let the footprint be computed
// @Tags Footprint
// @Accept json
// @Produce json
// @Param food body FoodRequestDTO true "Food"
// @Success 201 {object} FoodDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/footprint/food [post]
// @Security Bearer
func (h *Handler) AddFood(w http.ResponseWriter, r *http.Request) {
	log.Trace("Adding food record")

	var dto FoodRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	date, ok := parseOptionalDate(w, dto.Date)
	if !ok {
		return
	}

	record, err := h.service.AddFood(r.Context(), FoodInput{
		Group:    dto.Group,
		Category: dto.Category,
		Name:     dto.Name,
		AmountKg: dto.AmountKg,
		Co2Kg:    dto.Co2Kg,
		Date:     date,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, foodToDTO(record))
}

// AddEnergy godoc
// @Summary Record energy consumption
// @Tags Footprint
// @Accept json
// @Produce json
// @Param energy body EnergyRequestDTO true "Energy; type is Traditional (with location) or Clean (with source)"
// @Success 201 {object} EnergyDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/footprint/energy [post]
// @Security Bearer
func (h *Handler) AddEnergy(w http.ResponseWriter, r *http.Request) {
	log.Trace("Adding energy record")

	var dto EnergyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	date, ok := parseOptionalDate(w, dto.Date)
	if !ok {
		return
	}

	record, err := h.service.AddEnergy(r.Context(), EnergyInput{
		Kind:     emission.EnergyKind(dto.Type),
		Location: dto.Location,
		Source:   dto.Source,
		Kwh:      dto.Kwh,
		Date:     date,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, energyToDTO(record))
}

// DeleteRecord godoc
// @Summary Delete a record
// @Tags Footprint
// @Param category path string true "travel, food or energy"
// @Param id path int true "Record id"
// @Success 204 "No Content"
// @Failure 404 {string} string "Record not found"
// @Router /api/footprint/{category}/{id} [delete]
// @Security Bearer
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	category, err := ParseCategory(vars["category"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Unknown category", vars["category"])
		return
	}
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid record id", vars["id"])
		return
	}
	log.Debugf("Deleting %s record %d", category, id)

	if err := h.service.DeleteRecord(r.Context(), category, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseOptionalDate(w http.ResponseWriter, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	date, err := timeseries.ParseDate(value)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", "Expected format is YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrInvalidInput):
		rest.WriteError(w, http.StatusBadRequest, "Invalid input", err.Error())
	case errors.Is(err, catalog.ErrTransportTypeNotFound):
		rest.WriteError(w, http.StatusBadRequest, "Unknown transport type", "")
	case errors.Is(err, ErrRecordNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, emission.ErrFactorNotFound):
		rest.WriteError(w, http.StatusNotFound, "Data not found", err.Error())
	case errors.Is(err, emission.ErrProviderUnavailable):
		rest.WriteError(w, http.StatusBadGateway, "Emission data provider unavailable", "")
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func recordsToDTO(records Records) RecordsDTO {
	dto := RecordsDTO{
		Travel: make([]TravelDTO, 0, len(records.Travel)),
		Food:   make([]FoodDTO, 0, len(records.Food)),
		Energy: make([]EnergyDTO, 0, len(records.Energy)),
	}
	for _, r := range records.Travel {
		dto.Travel = append(dto.Travel, travelToDTO(r))
	}
	for _, r := range records.Food {
		dto.Food = append(dto.Food, foodToDTO(r))
	}
	for _, r := range records.Energy {
		dto.Energy = append(dto.Energy, energyToDTO(r))
	}
	return dto
}

func travelToDTO(r TravelRecord) TravelDTO {
	return TravelDTO{
		Id:            r.Id,
		Transport:     r.TransportName,
		TransportType: r.TypeName,
		DistanceKm:    r.DistanceKm,
		Co2Kg:         r.Co2Kg,
		Date:          r.Date.Format(timeseries.DateLayout),
	}
}

func foodToDTO(r FoodRecord) FoodDTO {
	return FoodDTO{
		Id:       r.Id,
		Group:    r.Group,
		Category: r.Category,
		Name:     r.Name,
		AmountKg: r.AmountKg,
		Co2Kg:    r.Co2Kg,
		Date:     r.Date.Format(timeseries.DateLayout),
	}
}

func energyToDTO(r EnergyRecord) EnergyDTO {
	return EnergyDTO{
		Id:        r.Id,
		Type:      string(r.Kind),
		Location:  r.Location,
		GreenType: r.GreenType,
		AmountKwh: r.AmountKwh,
		Co2Kg:     r.Co2Kg,
		Date:      r.Date.Format(timeseries.DateLayout),
	}
}
