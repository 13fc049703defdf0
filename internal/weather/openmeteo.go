package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// OpenMeteoBaseURL is the free Open-Meteo forecast endpoint.
const OpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoCustomerBaseURL is the commercial endpoint used with an API key.
const OpenMeteoCustomerBaseURL = "https://customer-api.open-meteo.com/v1/forecast"

// defaultTimeout bounds a single conditions request so a slow upstream call
// cannot stall an entire enrichment batch.
const defaultTimeout = 5 * time.Second

// Common errors for the Open-Meteo provider.
var (
	ErrOpenMeteoUnauthorized = errors.New("open-meteo API unauthorized (invalid API key)")
	ErrOpenMeteoRateLimited  = errors.New("open-meteo API rate limited")
)

// OpenMeteoProvider implements the Provider interface using the Open-Meteo
// current-conditions API. The free endpoint requires no API key but asks for
// fair use; requests are rate limited client-side.
type OpenMeteoProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Open-Meteo API
	apiKey  string        // API key, empty for the free endpoint
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// openMeteoResponse represents the JSON response from the Open-Meteo API.
type openMeteoResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// NewOpenMeteoProvider creates a new Open-Meteo conditions provider.
// An empty baseURL selects the free public endpoint; apiKey may be empty
// unless the customer endpoint is used.
func NewOpenMeteoProvider(baseURL, apiKey string, rateLimit int, log *slog.Logger) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = OpenMeteoBaseURL
	}

	return &OpenMeteoProvider{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}
}

// NewOpenMeteoProviderWithClient allows injecting a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewOpenMeteoProviderWithClient(
	client HTTPClient,
	apiKey string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		client:  client,
		baseURL: OpenMeteoBaseURL,
		apiKey:  apiKey,
		log:     log,
		limiter: limiter,
	}
}

// CurrentConditions fetches the current temperature, humidity and condition
// code for the given coordinates. A single failed attempt is reported as an
// error and never retried here; retries, if desired, belong to a higher layer.
func (op *OpenMeteoProvider) CurrentConditions(ctx context.Context, lat, lng float64) (*Observation, error) {
	if err := op.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	op.log.DebugContext(ctx, "Fetching conditions from Open-Meteo", "lat", lat, "lng", lng)

	reqURL, err := url.Parse(op.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("current", "temperature_2m,relative_humidity_2m,weather_code")
	query.Set("timezone", "auto")
	if op.apiKey != "" {
		query.Set("apikey", op.apiKey)
	}
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := op.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute conditions request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrOpenMeteoUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrOpenMeteoRateLimited
	default:
		body, _ := io.ReadAll(resp.Body)
		op.log.ErrorContext(ctx, "Open-Meteo API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("open-meteo API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result openMeteoResponse
	if err = json.Unmarshal(body, &result); err != nil {
		op.log.ErrorContext(ctx, "Failed to parse Open-Meteo response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode open-meteo response: %w", err)
	}

	op.log.DebugContext(ctx, "Open-Meteo returned conditions",
		"lat", lat, "lng", lng,
		"temperature", result.Current.Temperature,
		"code", result.Current.WeatherCode)

	return &Observation{
		Temperature: result.Current.Temperature,
		Humidity:    result.Current.Humidity,
		Code:        result.Current.WeatherCode,
	}, nil
}
