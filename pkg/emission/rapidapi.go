package emission

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/co2tracker/co2tracker/internal/config"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const foodNotFoundMessage = "Nothing corresponds to the parameter you gave"

// RapidApiProvider talks to the RapidAPI hosted carbon footprint APIs:
// carbonfootprint1 (travel), foodprint (food), carbonsutra1 (grid electricity) and
// tracker-for-carbon-footprint-api (clean energy).
type RapidApiProvider struct {
	cfg    config.RapidApi
	client *http.Client
}

func NewRapidApiProvider(cfg config.RapidApi) *RapidApiProvider {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RapidApiProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *RapidApiProvider) Travel(ctx context.Context, query TravelQuery) (decimal.Decimal, error) {
	if query.Mode == "" || query.VehicleType == "" {
		return decimal.Zero, fmt.Errorf("%w: transport mode and type are required", ErrFactorNotFound)
	}
	params := url.Values{}
	params.Set("distance", query.DistanceKm.String())
	vehicle := strings.ReplaceAll(query.VehicleType, " ", "")
	// Car endpoints take "vehicle", every other transport takes "type".
	if strings.Contains(strings.TrimPrefix(query.Mode, "Carbon"), "Car") {
		params.Set("vehicle", vehicle)
	} else {
		params.Set("type", vehicle)
	}

	endpoint := fmt.Sprintf("%s/%s?%s", p.cfg.CarbonFootprint, url.PathEscape(query.Mode), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, err
	}

	var response struct {
		CarbonEquivalent decimal.Decimal `json:"carbonEquivalent"`
	}
	if err := p.doJSON(req, p.cfg.CarbonFootprint, &response); err != nil {
		return decimal.Zero, err
	}
	return response.CarbonEquivalent, nil
}

func (p *RapidApiProvider) SearchFood(ctx context.Context, name string) ([]FoodProduct, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: food name is required", ErrFactorNotFound)
	}
	endpoint := fmt.Sprintf("%s/api/foodprint/name/%s", p.cfg.Foodprint, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	body, err := p.do(req, p.cfg.Foodprint)
	if err != nil {
		return nil, err
	}
	if strings.Contains(string(body), foodNotFoundMessage) {
		return nil, fmt.Errorf("%w: no food matches %q", ErrFactorNotFound, name)
	}

	var items []struct {
		Group     string          `json:"group"`
		Category  string          `json:"category"`
		Name      string          `json:"name"`
		Food      string          `json:"food"`
		Footprint decimal.Decimal `json:"footprint"`
	}
	if err := json.Unmarshal(body, &items); err != nil {
		log.Errorf("Failed to decode foodprint response: %v", err)
		return nil, fmt.Errorf("%w: malformed food response: %v", ErrProviderUnavailable, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no food matches %q", ErrFactorNotFound, name)
	}

	products := make([]FoodProduct, 0, len(items))
	for _, item := range items {
		productName := item.Name
		if productName == "" {
			productName = item.Food
		}
		products = append(products, FoodProduct{
			Group:          item.Group,
			Category:       item.Category,
			Name:           productName,
			FootprintPerKg: item.Footprint,
		})
	}
	return products, nil
}

// Food uses the search result whose name matches exactly (case-insensitive), else the first one.
func (p *RapidApiProvider) Food(ctx context.Context, query FoodQuery) (decimal.Decimal, error) {
	products, err := p.SearchFood(ctx, query.Name)
	if err != nil {
		return decimal.Zero, err
	}
	chosen := products[0]
	for _, product := range products {
		if strings.EqualFold(product.Name, query.Name) {
			chosen = product
			break
		}
	}
	return chosen.FootprintPerKg.Mul(query.AmountKg).Round(3), nil
}

func (p *RapidApiProvider) Energy(ctx context.Context, query EnergyQuery) (decimal.Decimal, error) {
	switch query.Kind {
	case TraditionalEnergy:
		return p.traditionalEnergy(ctx, query.Location, query.Kwh)
	case CleanEnergy:
		return p.cleanEnergy(ctx, query.Source, query.Kwh)
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown energy kind %q", ErrFactorNotFound, query.Kind)
	}
}

func (p *RapidApiProvider) traditionalEnergy(ctx context.Context, location string, kwh decimal.Decimal) (decimal.Decimal, error) {
	form := url.Values{}
	form.Set("country_name", location)
	form.Set("electricity_value", kwh.String())
	form.Set("electricity_unit", "kWh")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.CarbonSutra+"/electricity_estimate", strings.NewReader(form.Encode()))
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if p.cfg.CarbonSutraToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.CarbonSutraToken)
	}

	var response struct {
		Data struct {
			Co2eKg decimal.Decimal `json:"co2e_kg"`
		} `json:"data"`
	}
	if err := p.doJSON(req, p.cfg.CarbonSutra, &response); err != nil {
		return decimal.Zero, err
	}
	return response.Data.Co2eKg, nil
}

func (p *RapidApiProvider) cleanEnergy(ctx context.Context, source string, kwh decimal.Decimal) (decimal.Decimal, error) {
	form := url.Values{}
	form.Set("energy", source)
	form.Set("consumption", kwh.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.CleanEnergy+"/cleanHydro", strings.NewReader(form.Encode()))
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var response struct {
		Carbon string `json:"carbon"`
	}
	if err := p.doJSON(req, p.cfg.CleanEnergy, &response); err != nil {
		return decimal.Zero, err
	}
	// the API answers e.g. "12.5 kg co2"
	value := strings.TrimSpace(strings.Replace(response.Carbon, "kg co2", "", 1))
	co2, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: unexpected carbon value %q", ErrProviderUnavailable, response.Carbon)
	}
	return co2, nil
}

func (p *RapidApiProvider) doJSON(req *http.Request, baseURL string, target any) error {
	body, err := p.do(req, baseURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		log.Errorf("Failed to decode response from %s: %v", req.URL.Host, err)
		return fmt.Errorf("%w: malformed response: %v", ErrProviderUnavailable, err)
	}
	return nil
}

func (p *RapidApiProvider) do(req *http.Request, baseURL string) ([]byte, error) {
	req.Header.Set("X-RapidAPI-Key", p.cfg.Key)
	req.Header.Set("X-RapidAPI-Host", rapidApiHost(baseURL))

	resp, err := p.client.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request to %s: %v", req.URL.Host, err)
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s returned %d", ErrFactorNotFound, req.URL.Host, resp.StatusCode)
	default:
		err := fmt.Errorf("%w: %s returned non-OK status: %d", ErrProviderUnavailable, req.URL.Host, resp.StatusCode)
		log.Error(err)
		return nil, err
	}
}

func rapidApiHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	return u.Host
}
