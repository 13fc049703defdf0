package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/warden/internal/models"
	"github.com/UnknownOlympus/warden/internal/search"
	"github.com/UnknownOlympus/warden/internal/weather"
)

// paginationInfo describes the page position within the full result set.
// Total is an estimate whenever Approximate is true.
type paginationInfo struct {
	Total       int64 `json:"total"`
	Limit       int   `json:"limit"`
	Offset      int   `json:"offset"`
	HasMore     bool  `json:"hasMore"`
	Approximate bool  `json:"approximate"`
}

// appliedFilters echoes the filters the request actually applied, with
// malformed values already dropped.
type appliedFilters struct {
	Search  string                 `json:"search,omitempty"`
	Weather *models.WeatherFilters `json:"weather,omitempty"`
}

type propertiesResponse struct {
	Properties []models.EnrichedProperty `json:"properties"`
	Pagination paginationInfo            `json:"pagination"`
	Filters    appliedFilters            `json:"filters"`
}

type weatherCodesResponse struct {
	Codes      []weather.CodeInfo `json:"codes"`
	Categories map[string][]int   `json:"categories"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// handleProperties handles GET /properties. A property with coordinates but a
// nil weather field had its conditions fetch fail; a property with nil
// coordinates was never located in the first place.
func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	ctx := r.Context()

	weatherFilters := parseWeatherFilters(params)
	query := search.Query{
		SearchText:     strings.TrimSpace(params.Get("searchText")),
		Weather:        weatherFilters,
		Limit:          min(intParam(params, "limit", search.DefaultLimit), search.MaxLimit),
		Offset:         intParam(params, "offset", 0),
		IncludeWeather: params.Get("includeWeather") == "true" || !weatherFilters.IsEmpty(),
	}

	result, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.log.ErrorContext(ctx, "Property search failed", "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE",
			"property store is temporarily unavailable, please retry")
		return
	}

	filters := appliedFilters{Search: query.SearchText}
	if !weatherFilters.IsEmpty() {
		filters.Weather = &weatherFilters
	}

	s.writeJSON(w, http.StatusOK, propertiesResponse{
		Properties: result.Properties,
		Pagination: paginationInfo{
			Total:       result.Total,
			Limit:       query.Limit,
			Offset:      max(query.Offset, 0),
			HasMore:     result.HasMore,
			Approximate: result.Approximate,
		},
		Filters: filters,
	})
}

// handleWeatherCodes handles GET /weather-codes.
func (s *Server) handleWeatherCodes(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, weatherCodesResponse{
		Codes:      weather.Codes(),
		Categories: weather.Categories(),
	})
}

// handleHealthz handles GET /healthz with a database ping.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, body := http.StatusOK, "OK"
	if err := s.db.Ping(ctx); err != nil {
		status, body = http.StatusServiceUnavailable, "DB ping failed"
	}

	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		s.log.ErrorContext(ctx, "failed to write reply", "error", err)
	}
}

// parseWeatherFilters extracts weather criteria from query parameters.
// Malformed numeric values are treated as absent criteria rather than errors.
// Condition codes may be passed as repeated parameters, comma-separated, or both.
func parseWeatherFilters(params url.Values) models.WeatherFilters {
	filters := models.WeatherFilters{
		MinTemp:     floatParam(params, "minTemp"),
		MaxTemp:     floatParam(params, "maxTemp"),
		MinHumidity: floatParam(params, "minHumidity"),
		MaxHumidity: floatParam(params, "maxHumidity"),
	}

	for _, raw := range params["weatherCodes"] {
		for _, part := range strings.Split(raw, ",") {
			code, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || code < 0 {
				continue
			}
			filters.WeatherCodes = append(filters.WeatherCodes, code)
		}
	}

	return filters
}

// floatParam parses an optional float query parameter, returning nil for
// absent or malformed values.
func floatParam(params url.Values, key string) *float64 {
	raw := params.Get(key)
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}

	return &value
}

// intParam parses an optional integer query parameter, returning the fallback
// for absent or malformed values.
func intParam(params url.Values, key string, fallback int) int {
	raw := params.Get(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Error: code, Message: message})
}
