package postcodesio

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/postcode-report/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_Locate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/postcodes/EC2A 4NE", r.URL.Path)

		resp := lookupResponse{
			Status: http.StatusOK,
			Result: &postcodeDetails{
				Postcode:      "EC2A 4NE",
				Latitude:      51.5237,
				Longitude:     -0.0823,
				AdminDistrict: "Hackney",
				Region:        "London",
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	loc, err := c.Locate(context.Background(), "ec2a 4ne")
	require.NoError(t, err)

	assert.Equal(t, "Hackney", loc.Town)
	assert.Equal(t, "London", loc.Region)
	assert.Equal(t, 51.5237, loc.Position.Latitude)
	assert.Equal(t, -0.0823, loc.Position.Longitude)
}

func TestClient_Locate_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":404,"error":"Postcode not found"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Locate(context.Background(), "ZZ99 9ZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "Postcode not found")
}

func TestClient_Locate_MissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"status":200}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Locate(context.Background(), "EC2A 4NE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no result")
}

func TestClient_Locate_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte("not-json{{{"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Locate(context.Background(), "EC2A 4NE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Locate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := &Client{
		httpClient: &http.Client{Timeout: 50 * time.Millisecond},
		baseURL:    srv.URL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	_, err := c.Locate(context.Background(), "EC2A 4NE")
	require.Error(t, err)
}
