package global_co2

import (
	"net/http"

	"github.com/co2tracker/co2tracker/internal/rest"
	"github.com/co2tracker/co2tracker/pkg/timeseries"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type LevelsDTO struct {
	Dates []string          `json:"dates"`
	Trend []decimal.Decimal `json:"trend"`
	Cycle []decimal.Decimal `json:"cycle"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetLevels godoc
// @Summary Global atmospheric CO2 concentration
// @Description Daily trend and cycle values (ppm) as parallel arrays
// @Tags GlobalCO2
// @Produce json
// @Success 200 {object} LevelsDTO
// @Router /api/global-co2 [get]
func (h *Handler) GetLevels(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting global CO2 levels")

	levels, err := h.service.GetLevels(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Unable to load global CO2 levels", "")
		return
	}

	dto := LevelsDTO{
		Dates: make([]string, 0, len(levels)),
		Trend: make([]decimal.Decimal, 0, len(levels)),
		Cycle: make([]decimal.Decimal, 0, len(levels)),
	}
	for _, level := range levels {
		dto.Dates = append(dto.Dates, level.Date.Format(timeseries.DateLayout))
		dto.Trend = append(dto.Trend, level.Trend)
		dto.Cycle = append(dto.Cycle, level.Cycle)
	}
	rest.WriteJSON(w, http.StatusOK, dto)
}
