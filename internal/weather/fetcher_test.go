package weather_test

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UnknownOlympus/warden/internal/metrics"
	"github.com/UnknownOlympus/warden/internal/weather"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider is a stub Provider that counts external calls.
type countingProvider struct {
	calls atomic.Int64
	obs   *weather.Observation
	err   error
}

func (p *countingProvider) CurrentConditions(_ context.Context, _, _ float64) (*weather.Observation, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.obs, nil
}

func newTestFetcher(provider weather.Provider, clock clockwork.Clock) *weather.Fetcher {
	logger := slog.Default()
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	cache := weather.NewMemoryCacheWithClock(clock)
	return weather.NewFetcher(logger, cache, provider, "openmeteo", appMetrics, 5*time.Minute)
}

func TestFetch(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("success - miss populates cache, second fetch issues no external call", func(t *testing.T) {
		t.Parallel()
		provider := &countingProvider{obs: &weather.Observation{Temperature: 18.5, Humidity: 72, Code: 61}}
		fetcher := newTestFetcher(provider, clockwork.NewFakeClock())

		first, err := fetcher.Fetch(ctx, 26.142, -81.7948)
		require.NoError(t, err)
		assert.InDelta(t, 18.5, first.Temperature, 0.001)
		assert.Equal(t, 61, first.WeatherCode)
		assert.Equal(t, "Slight rain", first.WeatherDescription)

		second, err := fetcher.Fetch(ctx, 26.142, -81.7948)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, int64(1), provider.calls.Load())
	})

	t.Run("success - expired entry triggers exactly one refetch", func(t *testing.T) {
		t.Parallel()
		provider := &countingProvider{obs: &weather.Observation{Temperature: 18.5, Humidity: 72, Code: 0}}
		clock := clockwork.NewFakeClock()
		fetcher := newTestFetcher(provider, clock)

		_, err := fetcher.Fetch(ctx, 26.142, -81.7948)
		require.NoError(t, err)

		clock.Advance(5*time.Minute + time.Second)

		_, err = fetcher.Fetch(ctx, 26.142, -81.7948)
		require.NoError(t, err)
		assert.Equal(t, int64(2), provider.calls.Load())

		// Back within TTL again.
		_, err = fetcher.Fetch(ctx, 26.142, -81.7948)
		require.NoError(t, err)
		assert.Equal(t, int64(2), provider.calls.Load())
	})

	t.Run("success - nearby coordinates share one quantized fetch", func(t *testing.T) {
		t.Parallel()
		provider := &countingProvider{obs: &weather.Observation{Temperature: 30, Humidity: 40, Code: 1}}
		fetcher := newTestFetcher(provider, clockwork.NewFakeClock())

		_, err := fetcher.Fetch(ctx, 26.14201, -81.79481)
		require.NoError(t, err)
		_, err = fetcher.Fetch(ctx, 26.14199, -81.79484)
		require.NoError(t, err)

		assert.Equal(t, int64(1), provider.calls.Load())
	})

	t.Run("error - failures are returned and never cached", func(t *testing.T) {
		t.Parallel()
		provider := &countingProvider{err: assert.AnError}
		fetcher := newTestFetcher(provider, clockwork.NewFakeClock())

		data, err := fetcher.Fetch(ctx, 26.142, -81.7948)
		require.Nil(t, data)
		require.ErrorIs(t, err, assert.AnError)

		_, err = fetcher.Fetch(ctx, 26.142, -81.7948)
		require.Error(t, err)
		assert.Equal(t, int64(2), provider.calls.Load())
	})

	t.Run("success - unrecognized code gets the Unknown description", func(t *testing.T) {
		t.Parallel()
		provider := &countingProvider{obs: &weather.Observation{Temperature: 12, Humidity: 90, Code: 42}}
		fetcher := newTestFetcher(provider, clockwork.NewFakeClock())

		data, err := fetcher.Fetch(ctx, 50.45, 30.52)

		require.NoError(t, err)
		assert.Equal(t, "Unknown", data.WeatherDescription)
	})
}
