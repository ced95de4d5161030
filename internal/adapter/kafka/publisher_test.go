package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/postcode-report/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeReport(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	rpt := domain.Report{
		ID: "report-1",
		Location: domain.LocationResult{
			Postcode:         "EC2A 4NE",
			Town:             "Hackney",
			Region:           "London",
			Position:         domain.Position{Latitude: 51.5, Longitude: -0.08},
			DistanceToLondon: 3.4,
		},
		Crimes: []domain.CrimeEntry{
			{Category: "burglary", Incidents: 2},
		},
		Weather: domain.WeatherResult{
			Type:               domain.WeatherRain,
			AverageTemperature: 11.5,
		},
		GeneratedAt: now,
	}

	msg, err := serializeReport(rpt)
	require.NoError(t, err)

	assert.Equal(t, []byte("report-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"postcode":"EC2A 4NE"`)
	assert.Contains(t, string(msg.Value), `"weatherType":"Rain"`)
	assert.Contains(t, string(msg.Value), `"distanceToLondon":3.4`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "postcode", msg.Headers[0].Key)
	assert.Equal(t, []byte("EC2A 4NE"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeReport_EmptyCrimes(t *testing.T) {
	rpt := domain.Report{
		ID:          "report-2",
		Location:    domain.LocationResult{Postcode: "M1 1AE"},
		Crimes:      []domain.CrimeEntry{},
		GeneratedAt: time.Now(),
	}

	msg, err := serializeReport(rpt)
	require.NoError(t, err)

	// An empty crime list serializes as [], never null.
	assert.Contains(t, string(msg.Value), `"crimes":[]`)
}
