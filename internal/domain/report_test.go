package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocationResult_ComputesDistanceToLondon(t *testing.T) {
	loc := Location{
		Town:     "Shoreditch",
		Region:   "London",
		Position: Position{Latitude: 51.5, Longitude: -0.08},
	}

	result := NewLocationResult("EC2A 4NE", loc)

	assert.Equal(t, "EC2A 4NE", result.Postcode)
	assert.Equal(t, "Shoreditch", result.Town)
	assert.Equal(t, "London", result.Region)
	assert.Equal(t, loc.Position, result.Position)
	assert.InDelta(t, DistanceToLondon(loc.Position), result.DistanceToLondon, 1e-12)
	assert.InDelta(t, 3.409, result.DistanceToLondon, 0.05)
}

func TestNewReport_StampsClockAndID(t *testing.T) {
	fixedTime := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	location := NewLocationResult("EC2A 4NE", Location{
		Town:     "Shoreditch",
		Region:   "London",
		Position: Position{Latitude: 51.5, Longitude: -0.08},
	})
	crimes := []CrimeEntry{{Category: "burglary", Incidents: 4}}
	weather := WeatherResult{Type: WeatherClouds, AverageTemperature: 11.2}

	report := NewReport(location, crimes, weather)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, fixedTime, report.GeneratedAt)
	assert.Equal(t, location, report.Location)
	assert.Equal(t, crimes, report.Crimes)
	assert.Equal(t, weather, report.Weather)
}

func TestNewReport_UniqueIDs(t *testing.T) {
	location := NewLocationResult("M1 1AE", Location{Town: "Manchester"})
	a := NewReport(location, nil, WeatherResult{Type: WeatherClear})
	b := NewReport(location, nil, WeatherResult{Type: WeatherClear})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewReport_NilCrimesBecomesEmptyList(t *testing.T) {
	report := NewReport(LocationResult{}, nil, WeatherResult{})
	require.NotNil(t, report.Crimes)
	assert.Empty(t, report.Crimes)
}
