package stats

import (
	"bytes"
	"encoding/csv"

	"github.com/co2tracker/co2tracker/pkg/timeseries"
	log "github.com/sirupsen/logrus"
)

type HistoryRenderer interface {
	RenderHistory(history []timeseries.DailyTotal) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderHistory writes a "date,total_kg" header followed by one row per day.
func (t *CsvStatsRendererImpl) RenderHistory(history []timeseries.DailyTotal) (string, error) {
	data := make([][]string, 0, len(history)+1)
	data = append(data, []string{"date", "total_kg"})
	for _, day := range history {
		data = append(data, []string{day.Date.Format(timeseries.DateLayout), day.TotalKg.StringFixed(2)})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
