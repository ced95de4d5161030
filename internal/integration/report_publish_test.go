//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkaadapter "github.com/couchcryptid/postcode-report/internal/adapter/kafka"
	"github.com/couchcryptid/postcode-report/internal/config"
	"github.com/couchcryptid/postcode-report/internal/domain"
	"github.com/couchcryptid/postcode-report/internal/observability"
	"github.com/couchcryptid/postcode-report/internal/report"
	"github.com/google/go-cmp/cmp"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testReportTopic = "test-postcode-reports"

// --- stub lookups ---

type stubLocations struct{}

func (stubLocations) Locate(_ context.Context, _ string) (domain.Location, error) {
	return domain.Location{
		Town:     "Hackney",
		Region:   "London",
		Position: domain.Position{Latitude: 51.5, Longitude: -0.08},
	}, nil
}

type stubCrimes struct{}

func (stubCrimes) StreetCrimes(_ context.Context, _ domain.Position) ([]domain.Incident, error) {
	return []domain.Incident{
		{Category: "burglary"},
		{Category: "burglary"},
		{Category: "drugs"},
	}, nil
}

type stubWeather struct{}

func (stubWeather) Forecast(_ context.Context, _ domain.Position) ([]domain.ForecastEntry, error) {
	return []domain.ForecastEntry{
		{Type: domain.WeatherClouds, Temperature: 8},
		{Type: domain.WeatherClouds, Temperature: 10},
	}, nil
}

// publishedReport holds a deserialized message read from the report topic.
type publishedReport struct {
	Report  domain.Report
	Key     string
	Headers map[string]string
}

// readReport reads a single message from the consumer and deserializes it.
func readReport(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedReport {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from report topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var rpt domain.Report
	require.NoError(t, json.Unmarshal(msg.Value, &rpt), "unmarshal report message")

	return publishedReport{
		Report:  rpt,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

func newReportConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testReportTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestPublisherRoundTrip verifies the adapter layer: a report written through
// kafka.Publisher arrives with its key, headers, and payload intact.
func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testReportTopic)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaReportTopic: testReportTopic,
	}

	publisher := kafkaadapter.NewPublisher(cfg, observability.NewMetricsForTesting(), discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	rpt := domain.Report{
		ID: "report-rt-1",
		Location: domain.LocationResult{
			Postcode:         "EC2A 4NE",
			Town:             "Hackney",
			Region:           "London",
			Position:         domain.Position{Latitude: 51.5, Longitude: -0.08},
			DistanceToLondon: 3.4,
		},
		Crimes:      []domain.CrimeEntry{{Category: "burglary", Incidents: 2}},
		Weather:     domain.WeatherResult{Type: domain.WeatherRain, AverageTemperature: 11.5},
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, publisher.PublishReport(ctx, rpt))

	pm := readReport(ctx, t, newReportConsumer(t, broker))
	assert.Equal(t, "report-rt-1", pm.Key)
	assert.Equal(t, "EC2A 4NE", pm.Headers["postcode"])
	assert.Equal(t, rpt.GeneratedAt.Format(time.RFC3339), pm.Headers["generated_at"])

	if diff := cmp.Diff(rpt, pm.Report); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

// TestPublishingBuilderEndToEnd wires the full path: builder with stub
// lookups, publishing decorator, real Kafka. A built report must appear on
// the report topic once the background publish completes.
func TestPublishingBuilderEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testReportTopic)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaReportTopic: testReportTopic,
	}

	metrics := observability.NewMetricsForTesting()
	builder := report.NewBuilder(stubLocations{}, stubCrimes{}, stubWeather{}, discardLogger(), metrics)

	publisher := kafkaadapter.NewPublisher(cfg, metrics, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	publishing := report.NewPublishingBuilder(builder, publisher, discardLogger())

	rpt, err := publishing.BuildReport(ctx, "EC2A 4NE")
	require.NoError(t, err)
	publishing.WaitBackground()

	pm := readReport(ctx, t, newReportConsumer(t, broker))
	assert.Equal(t, rpt.ID, pm.Key)
	assert.Equal(t, "EC2A 4NE", pm.Headers["postcode"])

	_, err = time.Parse(time.RFC3339, pm.Headers["generated_at"])
	assert.NoError(t, err, "generated_at should be valid RFC3339")

	assert.Equal(t, rpt.ID, pm.Report.ID)
	assert.Equal(t, "EC2A 4NE", pm.Report.Location.Postcode)
	assert.InDelta(t, 3.409, pm.Report.Location.DistanceToLondon, 0.05)

	expectedCrimes := []domain.CrimeEntry{
		{Category: "burglary", Incidents: 2},
		{Category: "drugs", Incidents: 1},
	}
	if diff := cmp.Diff(expectedCrimes, pm.Report.Crimes); diff != "" {
		t.Fatalf("crimes mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, domain.WeatherClouds, pm.Report.Weather.Type)
	assert.InDelta(t, 9.0, pm.Report.Weather.AverageTemperature, 0.0001)
}
