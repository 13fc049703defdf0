package search

import (
	"slices"

	"github.com/UnknownOlympus/warden/internal/models"
)

// MatchesWeather reports whether the given conditions satisfy the filter.
// Every set criterion must pass; bounds are inclusive. Empty filters impose
// no constraint and match even when weather is nil, while any set criterion
// rejects a property whose weather is unavailable.
func MatchesWeather(weather *models.WeatherData, flt models.WeatherFilters) bool {
	if flt.IsEmpty() {
		return true
	}

	if weather == nil {
		return false
	}

	if flt.MinTemp != nil && weather.Temperature < *flt.MinTemp {
		return false
	}
	if flt.MaxTemp != nil && weather.Temperature > *flt.MaxTemp {
		return false
	}
	if flt.MinHumidity != nil && weather.Humidity < *flt.MinHumidity {
		return false
	}
	if flt.MaxHumidity != nil && weather.Humidity > *flt.MaxHumidity {
		return false
	}
	if len(flt.WeatherCodes) > 0 && !slices.Contains(flt.WeatherCodes, weather.WeatherCode) {
		return false
	}

	return true
}
