package domain

import (
	"fmt"
	"strings"
)

// WeatherType is a forecast condition group. The set mirrors the weather
// provider's condition vocabulary and is closed: parsing any other label
// fails.
type WeatherType string

const (
	WeatherClear        WeatherType = "Clear"
	WeatherClouds       WeatherType = "Clouds"
	WeatherDrizzle      WeatherType = "Drizzle"
	WeatherRain         WeatherType = "Rain"
	WeatherThunderstorm WeatherType = "Thunderstorm"
	WeatherSnow         WeatherType = "Snow"
	WeatherMist         WeatherType = "Mist"
	WeatherFog          WeatherType = "Fog"
)

// weatherAbbreviations maps each condition to its short display code, used
// by compact text tiles and icon lookups.
var weatherAbbreviations = map[WeatherType]string{
	WeatherClear:        "c",
	WeatherClouds:       "cl",
	WeatherDrizzle:      "dz",
	WeatherRain:         "r",
	WeatherThunderstorm: "t",
	WeatherSnow:         "sn",
	WeatherMist:         "m",
	WeatherFog:          "f",
}

// ParseWeatherType converts a provider condition label into a WeatherType.
// Matching is case-insensitive; unknown labels are an error.
func ParseWeatherType(label string) (WeatherType, error) {
	trimmed := strings.TrimSpace(label)
	for candidate := range weatherAbbreviations {
		if strings.EqualFold(trimmed, string(candidate)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unknown weather type %q", label)
}

// Abbreviation returns the condition's short display code, or the condition
// itself if it is not in the vocabulary.
func (w WeatherType) Abbreviation() string {
	if abbr, ok := weatherAbbreviations[w]; ok {
		return abbr
	}
	return string(w)
}

// ForecastEntry is one raw forecast data point from the weather provider.
type ForecastEntry struct {
	Type        WeatherType `json:"weatherType"`
	Temperature float64     `json:"temperature"` // degrees Celsius
}

// WeatherResult is the summarized weather for a report: the dominant
// condition and the mean temperature across the forecast.
type WeatherResult struct {
	Type               WeatherType `json:"weatherType"`
	AverageTemperature float64     `json:"averageTemperature"` // degrees Celsius
}

// SummarizeForecast reduces raw forecast entries to a WeatherResult. The
// dominant condition is the most frequent one; when counts tie, the
// condition appearing earliest in the forecast wins. The temperature is the
// mean over all entries. An empty forecast is an error; the provider
// always returns at least one entry for a resolvable position.
func SummarizeForecast(entries []ForecastEntry) (WeatherResult, error) {
	if len(entries) == 0 {
		return WeatherResult{}, fmt.Errorf("empty forecast")
	}

	counts := make(map[WeatherType]int)
	firstSeen := make(map[WeatherType]int)
	var sum float64
	for i, entry := range entries {
		if _, ok := firstSeen[entry.Type]; !ok {
			firstSeen[entry.Type] = i
		}
		counts[entry.Type]++
		sum += entry.Temperature
	}

	dominant := entries[0].Type
	for weatherType, count := range counts {
		if count > counts[dominant] ||
			(count == counts[dominant] && firstSeen[weatherType] < firstSeen[dominant]) {
			dominant = weatherType
		}
	}

	return WeatherResult{
		Type:               dominant,
		AverageTemperature: sum / float64(len(entries)),
	}, nil
}
