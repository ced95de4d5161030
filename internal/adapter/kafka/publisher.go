package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/postcode-report/internal/config"
	"github.com/couchcryptid/postcode-report/internal/domain"
	"github.com/couchcryptid/postcode-report/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces completed reports to a Kafka topic.
// It implements report.ReportPublisher.
type Publisher struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured report topic.
func NewPublisher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, metrics: metrics, logger: logger}
}

// PublishReport serializes a report and writes it to the report topic,
// keyed by report ID.
func (p *Publisher) PublishReport(ctx context.Context, rpt domain.Report) error {
	msg, err := serializeReport(rpt)
	if err != nil {
		p.metrics.ReportsPublished.WithLabelValues("error").Inc()
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.ReportsPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("write report message: %w", err)
	}

	p.metrics.ReportsPublished.WithLabelValues("success").Inc()
	p.logger.Debug("report published", "report_id", rpt.ID, "postcode", rpt.Location.Postcode)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeReport marshals a Report into a Kafka message.
func serializeReport(rpt domain.Report) (kafkago.Message, error) {
	data, err := json.Marshal(rpt)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rpt.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "postcode", Value: []byte(rpt.Location.Postcode)},
			{Key: "generated_at", Value: []byte(rpt.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
