package global_co2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/co2tracker/co2tracker/internal/config"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Client interface {
	FetchLevels(ctx context.Context) ([]Level, error)
}

type RapidApiClient struct {
	baseUrl string
	key     string
	client  *http.Client
}

func NewRapidApiClient(cfg config.RapidApi) *RapidApiClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RapidApiClient{
		baseUrl: cfg.AtmosphereCO2,
		key:     cfg.Key,
		client:  &http.Client{Timeout: timeout},
	}
}

type co2Point struct {
	Year  json.Number     `json:"year"`
	Month json.Number     `json:"month"`
	Day   json.Number     `json:"day"`
	Cycle decimal.Decimal `json:"cycle"`
	Trend decimal.Decimal `json:"trend"`
}

func (c *RapidApiClient) FetchLevels(ctx context.Context) ([]Level, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+"/api/co2-api", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", c.key)
	if u, err := url.Parse(c.baseUrl); err == nil {
		req.Header.Set("X-RapidAPI-Host", u.Host)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Errorf("Failed to fetch global CO2 levels: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("global CO2 API returned non-OK status: %d, body: %s", resp.StatusCode, string(body))
		log.Error(err)
		return nil, err
	}

	var response struct {
		Co2 []co2Point `json:"co2"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		log.Errorf("Failed to decode global CO2 response: %v", err)
		return nil, err
	}

	levels := make([]Level, 0, len(response.Co2))
	for _, point := range response.Co2 {
		date, err := point.date()
		if err != nil {
			log.Warnf("Skipping global CO2 point: %v", err)
			continue
		}
		levels = append(levels, Level{Date: date, Trend: point.Trend, Cycle: point.Cycle})
	}
	return levels, nil
}

func (p co2Point) date() (time.Time, error) {
	year, err := strconv.Atoi(p.Year.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year %q", p.Year)
	}
	month, err := strconv.Atoi(p.Month.String())
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid month %q", p.Month)
	}
	day, err := strconv.Atoi(p.Day.String())
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid day %q", p.Day)
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		return time.Time{}, fmt.Errorf("invalid date %d-%d-%d", year, month, day)
	}
	return date, nil
}
