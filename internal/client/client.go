// Package client is the Go client for the postcode report API. It
// implements session.ReportBuilder, so a session.Machine can drive a remote
// report service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/postcode-report/internal/domain"
)

// Client calls the report service over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// New creates a report service client.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// BuildReport requests the merged report for a postcode.
func (c *Client) BuildReport(ctx context.Context, postcode string) (domain.Report, error) {
	payload, err := json.Marshal(postcodePayload{Postcode: postcode})
	if err != nil {
		return domain.Report{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/report/", bytes.NewReader(payload))
	if err != nil {
		return domain.Report{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Report{}, fmt.Errorf("report request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Report{}, apiError(resp)
	}

	var rpt domain.Report
	if err := json.NewDecoder(resp.Body).Decode(&rpt); err != nil {
		return domain.Report{}, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug("report fetched", "report_id", rpt.ID, "postcode", rpt.Location.Postcode)
	return rpt, nil
}

// apiError turns a non-200 response into an error, preferring the service's
// own {"error": ...} message so callers see the upstream cause verbatim.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return errors.New(payload.Error)
	}
	return fmt.Errorf("report API error: status %d: %s", resp.StatusCode, body)
}

// Report service wire types.

type postcodePayload struct {
	Postcode string `json:"postcode"`
}

type errorPayload struct {
	Error string `json:"error"`
}
