package domain

import (
	"time"

	"github.com/google/uuid"
)

// Position is a WGS-84 latitude/longitude coordinate pair in degrees.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a geolocation provider's answer for a postcode.
type Location struct {
	Town     string   `json:"town"`
	Region   string   `json:"region"`
	Position Position `json:"position"`
}

// LocationResult is the resolved location record held by a Report: the
// provider's location plus the postcode it was resolved for and the derived
// distance to London. Produced once per request; immutable.
type LocationResult struct {
	Postcode         string   `json:"postcode"`
	Town             string   `json:"town"`
	Region           string   `json:"region"`
	Position         Position `json:"position"`
	DistanceToLondon float64  `json:"distanceToLondon"`
}

// NewLocationResult combines a submitted postcode with its resolved location
// and computes the distance to London.
func NewLocationResult(postcode string, loc Location) LocationResult {
	return LocationResult{
		Postcode:         postcode,
		Town:             loc.Town,
		Region:           loc.Region,
		Position:         loc.Position,
		DistanceToLondon: DistanceToLondon(loc.Position),
	}
}

// Report is the merged result of the three upstream lookups for one
// postcode. Location and Weather are always present; Crimes may be empty,
// since a failed crime lookup and a quiet neighbourhood look the same.
type Report struct {
	ID          string         `json:"id"`
	Location    LocationResult `json:"location"`
	Crimes      []CrimeEntry   `json:"crimes"`
	Weather     WeatherResult  `json:"weather"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// NewReport assembles a Report, assigning it a fresh ID and stamping it with
// the package clock.
func NewReport(location LocationResult, crimes []CrimeEntry, weather WeatherResult) Report {
	if crimes == nil {
		crimes = []CrimeEntry{}
	}
	return Report{
		ID:          uuid.NewString(),
		Location:    location,
		Crimes:      crimes,
		Weather:     weather,
		GeneratedAt: clock.Now(),
	}
}
