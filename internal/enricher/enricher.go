package enricher

import (
	"context"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/warden/internal/models"
)

// Fetcher resolves conditions for one coordinate pair.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lng float64) (*models.WeatherData, error)
}

// Enricher attaches weather data to batches of properties.
type Enricher struct {
	log     *slog.Logger
	fetcher Fetcher
}

// NewEnricher creates a new Enricher using the given fetcher.
func NewEnricher(log *slog.Logger, fetcher Fetcher) *Enricher {
	return &Enricher{log: log, fetcher: fetcher}
}

// Enrich fans all located properties in the batch out to the fetcher
// concurrently and waits for every fetch to settle. The result slice has the
// same length and order as the input: index i of the output always holds the
// property at index i of the input. A property without coordinates gets no
// fetch attempt; a failed fetch leaves Weather nil for that one property and
// never aborts or delays the rest of the batch.
func (e *Enricher) Enrich(ctx context.Context, properties []models.Property) []models.EnrichedProperty {
	enriched := make([]models.EnrichedProperty, len(properties))

	var wg sync.WaitGroup
	for i, prop := range properties {
		enriched[i].Property = prop

		if !prop.HasCoordinates() {
			continue
		}

		wg.Add(1)
		go func(idx int, lat, lng float64) {
			defer wg.Done()

			data, err := e.fetcher.Fetch(ctx, lat, lng)
			if err != nil {
				// Absorbed per record; the property simply carries no weather.
				e.log.DebugContext(ctx, "Property left without weather", "lat", lat, "lng", lng, "error", err)
				return
			}
			enriched[idx].Weather = data
		}(i, *prop.Latitude, *prop.Longitude)
	}
	wg.Wait()

	return enriched
}
