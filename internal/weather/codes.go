package weather

import "sort"

// CodeInfo pairs a WMO condition code with its human-readable description.
type CodeInfo struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// wmoCodes maps WMO condition codes to descriptions, matching the code set
// reported by Open-Meteo.
var wmoCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// Describe returns the human-readable description for a condition code,
// or "Unknown" for codes outside the WMO table.
func Describe(code int) string {
	if desc, ok := wmoCodes[code]; ok {
		return desc
	}
	return "Unknown"
}

// Codes returns the full condition-code table sorted by code.
func Codes() []CodeInfo {
	codes := make([]CodeInfo, 0, len(wmoCodes))
	for code, desc := range wmoCodes {
		codes = append(codes, CodeInfo{Code: code, Description: desc})
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].Code < codes[j].Code })
	return codes
}

// Categories returns a fixed grouping of condition codes used purely for
// client convenience; it is defined statically, not derived from data.
func Categories() map[string][]int {
	return map[string][]int{
		"clear":   {0},
		"cloudy":  {1, 2, 3},
		"drizzle": {51, 53, 55, 56, 57},
		"rainy":   {61, 63, 65, 66, 67, 80, 81, 82},
		"snow":    {71, 73, 75, 77, 85, 86},
	}
}
