// Package police implements the street-level crime lookup against the
// data.police.uk API.
package police

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/postcode-report/internal/domain"
	"github.com/couchcryptid/postcode-report/internal/observability"
)

// upstreamLabel identifies this provider on upstream metrics.
const upstreamLabel = "police"

// Client implements domain.CrimeLookup using the data.police.uk API.
// Requests are rate-limited client-side; the provider allows 15 requests
// per second sustained with short bursts of up to twice that.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a data.police.uk client limited to ratePerSec sustained
// requests per second.
func NewClient(baseURL string, timeout time.Duration, ratePerSec float64, metrics *observability.Metrics, logger *slog.Logger) *Client {
	burst := int(ratePerSec * 2)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
		metrics: metrics,
		logger:  logger,
	}
}

// StreetCrimes returns raw incident records reported near pos for the most
// recent month the provider has published.
func (c *Client) StreetCrimes(ctx context.Context, pos domain.Position) ([]domain.Incident, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("crime API rate limit wait: %w", err)
	}

	params := url.Values{
		"lat": {fmt.Sprintf("%.6f", pos.Latitude)},
		"lng": {fmt.Sprintf("%.6f", pos.Longitude)},
	}
	u := fmt.Sprintf("%s/crimes-street/all-crime?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(upstreamLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
		return nil, fmt.Errorf("crime lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("police API error: status %d: %s", resp.StatusCode, body)
	}

	var records []crimeRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "success").Inc()
	incidents := make([]domain.Incident, len(records))
	for i, record := range records {
		incidents[i] = domain.Incident{Category: record.Category}
	}
	return incidents, nil
}

// data.police.uk API response types.

type crimeRecord struct {
	Category string `json:"category"`
	Month    string `json:"month"`
}
