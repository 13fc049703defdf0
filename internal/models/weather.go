package models

// WeatherData holds the current conditions observed at a coordinate pair.
// A value is immutable once produced by a fetch.
type WeatherData struct {
	Temperature        float64 `json:"temperature"`        // Temperature in degrees Celsius.
	Humidity           float64 `json:"humidity"`           // Relative humidity, 0-100.
	WeatherCode        int     `json:"weatherCode"`        // WMO condition code.
	WeatherDescription string  `json:"weatherDescription"` // Human-readable label for the code.
}

// WeatherFilters describes optional constraints over weather attributes.
// A nil field imposes no constraint; numeric bounds are inclusive.
type WeatherFilters struct {
	MinTemp      *float64 `json:"minTemp,omitempty"`
	MaxTemp      *float64 `json:"maxTemp,omitempty"`
	MinHumidity  *float64 `json:"minHumidity,omitempty"`
	MaxHumidity  *float64 `json:"maxHumidity,omitempty"`
	WeatherCodes []int    `json:"weatherCodes,omitempty"`
}

// IsEmpty reports whether no constraint is set at all.
func (f WeatherFilters) IsEmpty() bool {
	return f.MinTemp == nil && f.MaxTemp == nil &&
		f.MinHumidity == nil && f.MaxHumidity == nil &&
		len(f.WeatherCodes) == 0
}

// EnrichedProperty is a property together with the weather observed at its
// coordinates. Weather is nil when the property has no coordinates or when the
// fetch for its coordinates failed; the coordinate fields on the embedded
// Property let a client tell those two cases apart.
type EnrichedProperty struct {
	Property
	Weather *WeatherData `json:"weather"`
}

// PageResult is one page of a property search.
// When Approximate is true, Total is a ratio-based estimate derived from the
// scanned prefix of the store, not an exact count.
type PageResult struct {
	Properties  []EnrichedProperty `json:"properties"`
	Total       int64              `json:"total"`
	HasMore     bool               `json:"hasMore"`
	Approximate bool               `json:"approximate"`
}
