package weather

import (
	"context"
	"net/http"
)

// Observation is the raw bundle returned by an external conditions provider
// for one coordinate pair.
type Observation struct {
	Temperature float64 // Temperature in degrees Celsius.
	Humidity    float64 // Relative humidity, 0-100.
	Code        int     // WMO condition code.
}

// Provider is an interface that defines a method for fetching current
// conditions. CurrentConditions takes a context and a coordinate pair,
// and returns the observed conditions or an error if any occurs.
type Provider interface {
	CurrentConditions(ctx context.Context, lat, lng float64) (*Observation, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
