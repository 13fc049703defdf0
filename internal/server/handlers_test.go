package server_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/warden/internal/models"
	"github.com/UnknownOlympus/warden/internal/search"
	"github.com/UnknownOlympus/warden/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearcher records the query it was asked and returns a canned result.
type stubSearcher struct {
	gotQuery search.Query
	result   *models.PageResult
	err      error
}

func (s *stubSearcher) Search(_ context.Context, query search.Query) (*models.PageResult, error) {
	s.gotQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(_ context.Context) error { return p.err }

func emptyPage() *models.PageResult {
	return &models.PageResult{Properties: []models.EnrichedProperty{}}
}

func newTestServer(searcher server.Searcher, pinger server.Pinger) *server.Server {
	return server.New(slog.Default(), searcher, pinger, prometheus.NewRegistry())
}

func TestHandleProperties(t *testing.T) {
	t.Parallel()

	t.Run("success - full query is parsed into search parameters", func(t *testing.T) {
		t.Parallel()
		searcher := &stubSearcher{result: emptyPage()}
		srv := newTestServer(searcher, &stubPinger{})

		req := httptest.NewRequest(http.MethodGet,
			"/properties?searchText=naples&limit=30&offset=10&minTemp=10&maxTemp=25&minHumidity=40&maxHumidity=80&weatherCodes=0,1&weatherCodes=61", nil)
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "naples", searcher.gotQuery.SearchText)
		assert.Equal(t, 30, searcher.gotQuery.Limit)
		assert.Equal(t, 10, searcher.gotQuery.Offset)
		require.NotNil(t, searcher.gotQuery.Weather.MinTemp)
		assert.InDelta(t, 10.0, *searcher.gotQuery.Weather.MinTemp, 0.001)
		require.NotNil(t, searcher.gotQuery.Weather.MaxTemp)
		assert.InDelta(t, 25.0, *searcher.gotQuery.Weather.MaxTemp, 0.001)
		assert.Equal(t, []int{0, 1, 61}, searcher.gotQuery.Weather.WeatherCodes)
		// Weather criteria imply enrichment even without includeWeather.
		assert.True(t, searcher.gotQuery.IncludeWeather)
	})

	t.Run("success - malformed numeric filters are treated as absent", func(t *testing.T) {
		t.Parallel()
		searcher := &stubSearcher{result: emptyPage()}
		srv := newTestServer(searcher, &stubPinger{})

		req := httptest.NewRequest(http.MethodGet,
			"/properties?minTemp=warm&maxHumidity=&weatherCodes=abc,-5&limit=oops", nil)
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, searcher.gotQuery.Weather.MinTemp)
		assert.Nil(t, searcher.gotQuery.Weather.MaxHumidity)
		assert.Empty(t, searcher.gotQuery.Weather.WeatherCodes)
		assert.Equal(t, search.DefaultLimit, searcher.gotQuery.Limit)
		assert.False(t, searcher.gotQuery.IncludeWeather)
	})

	t.Run("success - response envelope carries pagination and filters", func(t *testing.T) {
		t.Parallel()
		lat, lng := 26.142, -81.7948
		searcher := &stubSearcher{result: &models.PageResult{
			Properties: []models.EnrichedProperty{
				{
					Property: models.Property{ID: 1, Name: "Beachfront Villa", Latitude: &lat, Longitude: &lng},
					Weather:  &models.WeatherData{Temperature: 22, Humidity: 55, WeatherCode: 0, WeatherDescription: "Clear sky"},
				},
				{
					// Located, but the conditions fetch failed.
					Property: models.Property{ID: 2, Name: "Harbor Flat", Latitude: &lat, Longitude: &lng},
				},
			},
			Total:       100,
			HasMore:     true,
			Approximate: true,
		}}
		srv := newTestServer(searcher, &stubPinger{})

		req := httptest.NewRequest(http.MethodGet, "/properties?searchText=villa&minTemp=10", nil)
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body struct {
			Properties []struct {
				ID      int64            `json:"id"`
				Lat     *float64         `json:"lat"`
				Weather *json.RawMessage `json:"weather"`
			} `json:"properties"`
			Pagination struct {
				Total       int64 `json:"total"`
				Limit       int   `json:"limit"`
				Offset      int   `json:"offset"`
				HasMore     bool  `json:"hasMore"`
				Approximate bool  `json:"approximate"`
			} `json:"pagination"`
			Filters struct {
				Search  string                 `json:"search"`
				Weather *models.WeatherFilters `json:"weather"`
			} `json:"filters"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		require.Len(t, body.Properties, 2)
		assert.NotNil(t, body.Properties[0].Weather)
		// Coordinates present with a null weather field marks a failed fetch,
		// distinguishable from a property that was never located.
		assert.NotNil(t, body.Properties[1].Lat)
		assert.Nil(t, body.Properties[1].Weather)

		assert.Equal(t, int64(100), body.Pagination.Total)
		assert.True(t, body.Pagination.HasMore)
		assert.True(t, body.Pagination.Approximate)
		assert.Equal(t, search.DefaultLimit, body.Pagination.Limit)

		assert.Equal(t, "villa", body.Filters.Search)
		require.NotNil(t, body.Filters.Weather)
		require.NotNil(t, body.Filters.Weather.MinTemp)
	})

	t.Run("error - search failure returns a retryable 503", func(t *testing.T) {
		t.Parallel()
		searcher := &stubSearcher{err: assert.AnError}
		srv := newTestServer(searcher, &stubPinger{})

		req := httptest.NewRequest(http.MethodGet, "/properties", nil)
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "STORE_UNAVAILABLE")
	})
}

func TestHandleWeatherCodes(t *testing.T) {
	t.Parallel()
	srv := newTestServer(&stubSearcher{result: emptyPage()}, &stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/weather-codes", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Codes []struct {
			Code        int    `json:"code"`
			Description string `json:"description"`
		} `json:"codes"`
		Categories map[string][]int `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Len(t, body.Codes, 28)
	assert.Equal(t, 0, body.Codes[0].Code)
	assert.Equal(t, "Clear sky", body.Codes[0].Description)
	assert.Len(t, body.Categories, 5)
	assert.Equal(t, []int{0}, body.Categories["clear"])
}

func TestHandleHealthz(t *testing.T) {
	t.Parallel()

	t.Run("success - healthy database", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(&stubSearcher{result: emptyPage()}, &stubPinger{})

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("error - failing database ping", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(&stubSearcher{result: emptyPage()}, &stubPinger{err: assert.AnError})

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "DB ping failed", rec.Body.String())
	})
}
