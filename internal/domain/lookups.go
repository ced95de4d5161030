package domain

import "context"

// LocationLookup resolves a postcode to a location via a geolocation
// provider.
type LocationLookup interface {
	// Locate returns the town, region, and position for a postcode.
	Locate(ctx context.Context, postcode string) (Location, error)
}

// CrimeLookup fetches raw street-level crime incidents near a position.
type CrimeLookup interface {
	StreetCrimes(ctx context.Context, pos Position) ([]Incident, error)
}

// WeatherLookup fetches raw forecast entries for a position.
type WeatherLookup interface {
	Forecast(ctx context.Context, pos Position) ([]ForecastEntry, error)
}
