package global_co2

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_GetLevels(t *testing.T) {
	service, repo, _ := setupService()
	repo.Levels = []Level{level("2024-06-12", "420.5"), level("2024-06-13", "421")}
	handler := NewHandler(service)

	req := httptest.NewRequest("GET", "/api/global-co2", nil)
	rr := httptest.NewRecorder()
	handler.GetLevels(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var dto LevelsDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
	assert.Equal(t, []string{"2024-06-12", "2024-06-13"}, dto.Dates)
	require.Len(t, dto.Trend, 2)
	assert.Equal(t, "420.5", dto.Trend[0].String())
	assert.Len(t, dto.Cycle, 2)
}
