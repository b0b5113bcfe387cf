package goldprice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"jewelry-studio-backend/internal/models"
)

const (
	MetalGold      = "XAU"
	CurrencyAED    = "AED"
	Source         = "metalpriceapi"
	TroyOunceGrams = 31.1035

	Purity22K = 0.916
	Purity21K = 0.875
	Purity18K = 0.750
)

type apiResponse struct {
	Success bool               `json:"success"`
	Rates   map[string]float64 `json:"rates"`
	Error   *struct {
		Code int    `json:"statusCode"`
		Info string `json:"message"`
	} `json:"error,omitempty"`
}

// Snapshot turns a raw AED rate into a priced snapshot. A rate below 1 is
// "gold per dirham" and is inverted to "dirhams per ounce".
func Snapshot(rawRate float64, fetchedAt time.Time) models.GoldPrice {
	perOz := rawRate
	if rawRate < 1 {
		perOz = 1 / rawRate
	}
	perGram := perOz / TroyOunceGrams

	return models.GoldPrice{
		MetalType:      MetalGold,
		Currency:       CurrencyAED,
		PricePerOzTroy: perOz,
		PricePerGram:   perGram,
		Price24K:       perGram,
		Price22K:       perGram * Purity22K,
		Price21K:       perGram * Purity21K,
		Price18K:       perGram * Purity18K,
		FetchedAt:      fetchedAt,
		Source:         Source,
	}
}

// fetchRate calls the metals endpoint and returns the raw AED rate.
func (s *Service) fetchRate(ctx context.Context) (float64, error) {
	if s.apiKey == "" {
		return 0, errors.New("METALPRICE_API_KEY is not set")
	}

	endpoint, err := url.Parse(s.apiURL)
	if err != nil {
		return 0, fmt.Errorf("invalid metal price url: %w", err)
	}
	q := endpoint.Query()
	q.Set("api_key", s.apiKey)
	q.Set("base", MetalGold)
	q.Set("currencies", "AED,USD")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call metal price api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("metal price api error: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if !parsed.Success {
		if parsed.Error != nil {
			return 0, fmt.Errorf("metal price api failed: %s", parsed.Error.Info)
		}
		return 0, errors.New("metal price api reported failure")
	}

	rate := parsed.Rates["XAUAED"]
	if rate == 0 {
		rate = parsed.Rates["AED"]
	}
	if rate <= 0 {
		return 0, errors.New("no AED rate in response")
	}
	return rate, nil
}
