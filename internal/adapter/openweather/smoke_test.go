//go:build openweather

package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/postcode-report/internal/domain"
	"github.com/couchcryptid/postcode-report/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real OpenWeatherMap API and require a valid
// OPENWEATHER_API_KEY env var.
// Run with: go test -tags=openweather ./internal/adapter/openweather/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("OPENWEATHER_API_KEY")
	if key == "" {
		t.Fatal("OPENWEATHER_API_KEY must be set to run smoke tests")
	}
	return &Client{
		apiKey:     key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.openweathermap.org/data/2.5",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_Forecast(t *testing.T) {
	c := smokeClient(t)

	// Shoreditch, London
	entries, err := c.Forecast(context.Background(), domain.Position{Latitude: 51.5237, Longitude: -0.0823})
	require.NoError(t, err)

	require.NotEmpty(t, entries, "forecast should cover the next few days")
	for _, e := range entries {
		assert.NotEmpty(t, e.Type)
		// Metric units: London temperatures live well inside this range.
		assert.Greater(t, e.Temperature, -30.0)
		assert.Less(t, e.Temperature, 50.0)
	}
}

func TestSmoke_Forecast_BadKey(t *testing.T) {
	c := smokeClient(t)
	c.apiKey = "not-a-real-key"

	_, err := c.Forecast(context.Background(), domain.Position{Latitude: 51.5237, Longitude: -0.0823})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
