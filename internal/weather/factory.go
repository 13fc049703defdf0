package weather

import (
	"errors"
	"fmt"
	"log/slog"
)

// ProviderType represents the type of conditions provider.
type ProviderType string

const (
	// ProviderTypeOpenMeteo represents the free Open-Meteo endpoint.
	ProviderTypeOpenMeteo ProviderType = "openmeteo"
	// ProviderTypeOpenMeteoCustomer represents the commercial Open-Meteo endpoint.
	ProviderTypeOpenMeteoCustomer ProviderType = "openmeteo-customer"
)

// ProviderConfig holds configuration for creating a conditions provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	APIKey    string       // API key (required by the customer endpoint)
	RateLimit int          // Rate limit for requests per second
	Logger    *slog.Logger // Logger for the provider
}

// NewProvider creates a conditions provider based on the provided configuration.
// It applies the Factory pattern to decouple provider instantiation from business logic.
//
// Supported provider types:
// - "openmeteo": free Open-Meteo API (no API key required, fair-use rate limits)
// - "openmeteo-customer": commercial Open-Meteo API (requires API key)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	if config.RateLimit == 0 {
		config.RateLimit = 10
		config.Logger.Warn("Rate limit for conditions API not set, set a default value", "value", config.RateLimit)
	}

	switch config.Type {
	case ProviderTypeOpenMeteo:
		return NewOpenMeteoProvider(OpenMeteoBaseURL, "", config.RateLimit, config.Logger), nil
	case ProviderTypeOpenMeteoCustomer:
		if config.APIKey == "" {
			return nil, errors.New("API key is required for the Open-Meteo customer endpoint")
		}
		return NewOpenMeteoProvider(OpenMeteoCustomerBaseURL, config.APIKey, config.RateLimit, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}
