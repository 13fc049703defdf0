package weather

import (
	"context"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/warden/internal/metrics"
	"github.com/UnknownOlympus/warden/internal/models"
)

// Fetcher resolves conditions for a coordinate pair, consulting the cache
// before the external provider. Failed fetches are never cached.
type Fetcher struct {
	log          *slog.Logger     // Logger for logging fetch activity
	cache        Cache            // Cache consulted before the provider
	provider     Provider         // External conditions provider
	providerName string           // Name of the provider for metrics labeling
	metrics      *metrics.Metrics // Metrics for tracking fetch outcomes
	ttl          time.Duration    // TTL applied to cached bundles
}

// NewFetcher creates a new Fetcher. A zero ttl falls back to DefaultCacheTTL.
func NewFetcher(
	log *slog.Logger,
	cache Cache,
	provider Provider,
	providerName string,
	metrics *metrics.Metrics,
	ttl time.Duration,
) *Fetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &Fetcher{
		log:          log,
		cache:        cache,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		ttl:          ttl,
	}
}

// Fetch returns the conditions for the quantized coordinates. On a cache hit
// no external call is made. On a miss it issues one provider call, caches the
// result on success and returns an error on failure. Callers must treat an
// error as "weather unavailable" for that coordinate, never as fatal.
func (f *Fetcher) Fetch(ctx context.Context, lat, lng float64) (*models.WeatherData, error) {
	key := Key(lat, lng)

	if cached, ok := f.cache.Get(key); ok {
		f.metrics.CacheHits.Inc()
		return &cached, nil
	}
	f.metrics.CacheMisses.Inc()

	startTime := time.Now()
	obs, err := f.provider.CurrentConditions(ctx, lat, lng)
	duration := time.Since(startTime).Seconds()
	f.metrics.ProviderSeconds.WithLabelValues(f.providerName).Observe(duration)

	if err != nil {
		f.metrics.WeatherFetches.WithLabelValues("failure").Inc()
		f.log.WarnContext(ctx, "Failed to fetch conditions", "lat", lat, "lng", lng, "error", err)
		return nil, err
	}

	f.metrics.WeatherFetches.WithLabelValues("success").Inc()

	data := models.WeatherData{
		Temperature:        obs.Temperature,
		Humidity:           obs.Humidity,
		WeatherCode:        obs.Code,
		WeatherDescription: Describe(obs.Code),
	}
	f.cache.Set(key, data, f.ttl)

	return &data, nil
}
