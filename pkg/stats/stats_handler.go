package stats

import (
	"errors"
	"net/http"

	"github.com/co2tracker/co2tracker/internal/rest"
	"github.com/co2tracker/co2tracker/pkg/timeseries"
	"github.com/co2tracker/co2tracker/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type CategoryTotalsDTO struct {
	Travel decimal.Decimal `json:"travel"`
	Food   decimal.Decimal `json:"food"`
	Energy decimal.Decimal `json:"energy"`
	Total  decimal.Decimal `json:"total"`
}

type CategorySharesDTO struct {
	Travel decimal.Decimal `json:"travel"`
	Food   decimal.Decimal `json:"food"`
	Energy decimal.Decimal `json:"energy"`
}

type WeekStatsDTO struct {
	Start        string          `json:"start"`
	End          string          `json:"end"`
	TotalKg      decimal.Decimal `json:"totalKg"`
	LimitKg      decimal.Decimal `json:"limitKg"`
	LimitPercent decimal.Decimal `json:"limitPercent"`
}

type StatsSummaryDTO struct {
	Totals  CategoryTotalsDTO      `json:"totals"`
	Shares  CategorySharesDTO      `json:"shares"`
	Week    WeekStatsDTO           `json:"week"`
	History timeseries.ChartSeries `json:"history"`
}

type LeaderboardEntryDTO struct {
	Rank            int             `json:"rank"`
	Username        string          `json:"username"`
	AverageKgPerDay decimal.Decimal `json:"averageKgPerDay"`
	TotalKg         decimal.Decimal `json:"totalKg"`
	Days            int             `json:"days"`
}

type StatsHandler struct {
	statsService     StatsService
	csvStatsRenderer HistoryRenderer
}

func NewStatsHandler(statsService StatsService, csvStatsRenderer HistoryRenderer) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer}
}

// GetSummary godoc
// @Summary Footprint summary of the current user
// @Description Totals and shares per category, current week against the weekly limit and daily history
// @Tags Stats
// @Produce json
// @Success 200 {object} StatsSummaryDTO
// @Failure 401 {string} string "Unauthorized"
// @Router /api/stats/summary [get]
// @Security Bearer
func (handler *StatsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := handler.statsService.GetSummary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, summaryToDTO(summary))
}

// GetHistory godoc
// @Summary Daily footprint history
// @Description Gap-filled daily totals as chart arrays, or CSV with Accept: text/csv
// @Tags Stats
// @Produce json
// @Produce text/csv
// @Success 200 {object} timeseries.ChartSeries
// @Failure 401 {string} string "Unauthorized"
// @Router /api/stats/history [get]
// @Security Bearer
func (handler *StatsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := handler.statsService.GetHistory(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csvData, err := handler.csvStatsRenderer.RenderHistory(history)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="co2-history.csv"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csvData)); err != nil {
			log.Errorf("Failed to write csv response: %v", err)
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, timeseries.Series(history))
}

// GetLeaderboard godoc
// @Summary Users ranked by average daily footprint
// @Tags Stats
// @Produce json
// @Success 200 {array} LeaderboardEntryDTO
// @Router /api/leaderboard [get]
func (handler *StatsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := handler.statsService.GetLeaderboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	result := make([]LeaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		result = append(result, LeaderboardEntryDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func summaryToDTO(summary Summary) StatsSummaryDTO {
	return StatsSummaryDTO{
		Totals: CategoryTotalsDTO(summary.Totals),
		Shares: CategorySharesDTO(summary.Shares),
		Week: WeekStatsDTO{
			Start:        summary.Week.Start.Format(timeseries.DateLayout),
			End:          summary.Week.End.Format(timeseries.DateLayout),
			TotalKg:      summary.Week.TotalKg,
			LimitKg:      summary.Week.LimitKg,
			LimitPercent: summary.Week.LimitPercent,
		},
		History: timeseries.Series(summary.History),
	}
}
