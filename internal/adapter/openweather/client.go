// Package openweather implements the weather lookup against the
// OpenWeatherMap forecast API.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/postcode-report/internal/domain"
	"github.com/couchcryptid/postcode-report/internal/observability"
)

// upstreamLabel identifies this provider on upstream metrics.
const upstreamLabel = "openweather"

// Client implements domain.WeatherLookup using the OpenWeatherMap 5-day
// forecast API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Forecast returns the raw forecast entries for a position. Temperatures
// are requested in Celsius; each entry's condition label is parsed into the
// domain vocabulary, so an unknown label fails the lookup.
func (c *Client) Forecast(ctx context.Context, pos domain.Position) ([]domain.ForecastEntry, error) {
	params := url.Values{
		"lat":   {fmt.Sprintf("%.6f", pos.Latitude)},
		"lon":   {fmt.Sprintf("%.6f", pos.Longitude)},
		"units": {"metric"},
		"appid": {c.apiKey},
	}
	u := fmt.Sprintf("%s/forecast?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(upstreamLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openweathermap API error: status %d: %s", resp.StatusCode, body)
	}

	var forecastResp forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecastResp); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	entries := make([]domain.ForecastEntry, 0, len(forecastResp.List))
	for _, item := range forecastResp.List {
		if len(item.Weather) == 0 {
			c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
			return nil, fmt.Errorf("forecast entry has no weather conditions")
		}
		weatherType, err := domain.ParseWeatherType(item.Weather[0].Main)
		if err != nil {
			c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
			return nil, fmt.Errorf("parse forecast entry: %w", err)
		}
		entries = append(entries, domain.ForecastEntry{
			Type:        weatherType,
			Temperature: item.Main.Temp,
		})
	}

	c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "success").Inc()
	return entries, nil
}

// OpenWeatherMap API response types.

type forecastResponse struct {
	List []forecastItem `json:"list"`
}

type forecastItem struct {
	Main    mainData      `json:"main"`
	Weather []weatherData `json:"weather"`
}

type mainData struct {
	Temp float64 `json:"temp"` // degrees Celsius with units=metric
}

type weatherData struct {
	Main string `json:"main"`
}
