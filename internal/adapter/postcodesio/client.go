// Package postcodesio implements the geolocation lookup against the
// postcodes.io API.
package postcodesio

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
const upstreamLabel = "postcodes"

// Client implements domain.LocationLookup using the postcodes.io API.
// The API is public and needs no credentials.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a postcodes.io client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Locate resolves a postcode to its town, region, and position.
func (c *Client) Locate(ctx context.Context, postcode string) (domain.Location, error) {
	normalized := domain.NormalizePostcode(postcode)
	u := fmt.Sprintf("%s/postcodes/%s", c.baseURL, url.PathEscape(normalized))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(upstreamLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
		return domain.Location{}, fmt.Errorf("postcode lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.Location{}, fmt.Errorf("postcodes.io API error: status %d: %s", resp.StatusCode, body)
	}

	var lookupResp lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookupResp); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
		return domain.Location{}, fmt.Errorf("decode response: %w", err)
	}
	if lookupResp.Result == nil {
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
		return domain.Location{}, fmt.Errorf("postcodes.io returned no result for %q", normalized)
	}

	c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "success").Inc()
	return domain.Location{
		Town:   lookupResp.Result.AdminDistrict,
		Region: lookupResp.Result.Region,
		Position: domain.Position{
			Latitude:  lookupResp.Result.Latitude,
			Longitude: lookupResp.Result.Longitude,
		},
	}, nil
}

// postcodes.io API response types.

type lookupResponse struct {
	Status int              `json:"status"`
	Error  string           `json:"error"`
	Result *postcodeDetails `json:"result"`
}

type postcodeDetails struct {
	Postcode      string  `json:"postcode"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	AdminDistrict string  `json:"admin_district"`
	Region        string  `json:"region"`
}
