package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/postcode-report/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/postcode-report/internal/adapter/kafka"
	"github.com/couchcryptid/postcode-report/internal/adapter/openweather"
	"github.com/couchcryptid/postcode-report/internal/adapter/police"
	"github.com/couchcryptid/postcode-report/internal/adapter/postcodesio"
	"github.com/couchcryptid/postcode-report/internal/config"
	"github.com/couchcryptid/postcode-report/internal/observability"
	"github.com/couchcryptid/postcode-report/internal/report"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	locations := postcodesio.NewClient(cfg.PostcodesBaseURL, cfg.UpstreamTimeout, metrics, logger)
	crimes := police.NewClient(cfg.PoliceBaseURL, cfg.UpstreamTimeout, cfg.PoliceRateLimit, metrics, logger)
	weather := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.UpstreamTimeout, metrics, logger)

	builder := report.NewBuilder(locations, crimes, weather, logger, metrics)

	// Report publishing is feature-flagged via KAFKA_BROKERS / PUBLISHER_ENABLED.
	var svc httpadapter.ReportService = builder
	var publishing *report.PublishingBuilder
	var publisher *kafkaadapter.Publisher
	if cfg.PublisherEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, metrics, logger)
		publishing = report.NewPublishingBuilder(builder, publisher, logger)
		svc = publishing
		metrics.PublisherEnabled.Set(1)
		logger.Info("report publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaReportTopic)
	} else {
		logger.Info("report publishing disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, builder, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publishing != nil {
		publishing.WaitBackground()
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
