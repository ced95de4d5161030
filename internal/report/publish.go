package report

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/postcode-report/internal/domain"
)

// publishTimeout bounds each background publish so a stuck broker cannot
// pin goroutines past shutdown.
const publishTimeout = 5 * time.Second

// ReportPublisher delivers a completed report to downstream consumers.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report domain.Report) error
}

// PublishingBuilder wraps a Builder and publishes every successfully built
// report in the background. Publish failures are logged, never surfaced:
// the caller already has their report.
type PublishingBuilder struct {
	*Builder
	publisher ReportPublisher
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// NewPublishingBuilder creates a publishing decorator around a builder.
func NewPublishingBuilder(inner *Builder, publisher ReportPublisher, logger *slog.Logger) *PublishingBuilder {
	return &PublishingBuilder{
		Builder:   inner,
		publisher: publisher,
		logger:    logger,
	}
}

// BuildReport builds the report through the inner builder and, on success,
// hands it to the publisher on a background goroutine. The publish does not
// inherit the request context: the report outlives the request that
// produced it.
func (p *PublishingBuilder) BuildReport(ctx context.Context, postcode string) (domain.Report, error) {
	rpt, err := p.Builder.BuildReport(ctx, postcode)
	if err != nil {
		return rpt, err
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		publishCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.publisher.PublishReport(publishCtx, rpt); err != nil {
			p.logger.Error("publish report failed", "report_id", rpt.ID, "error", err)
		}
	}()

	return rpt, nil
}

// WaitBackground blocks until all in-flight publishes have finished. Called
// during shutdown, after the HTTP server has drained.
func (p *PublishingBuilder) WaitBackground() {
	p.wg.Wait()
}
