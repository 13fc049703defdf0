package models

import "time"

// Property represents a single listed property as stored in the primary store.
// Latitude and Longitude are either both set or both nil; properties without
// coordinates can never carry weather data.
type Property struct {
	ID        int64     `json:"id"`        // ID is the unique identifier for the property.
	Name      string    `json:"name"`      // Name is the display name of the property.
	City      string    `json:"city"`      // City is the city portion of the address.
	State     string    `json:"state"`     // State is the state portion of the address.
	Latitude  *float64  `json:"lat"`       // Latitude of the property, nil when not located.
	Longitude *float64  `json:"lng"`       // Longitude of the property, nil when not located.
	IsActive  bool      `json:"isActive"`  // IsActive marks whether the listing is live.
	CreatedAt time.Time `json:"createdAt"` // CreatedAt is the listing creation time.
}

// HasCoordinates reports whether the property carries a usable coordinate pair.
func (p Property) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}
