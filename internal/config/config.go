package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// UpstreamTimeout bounds each outbound call to a data provider.
	UpstreamTimeout time.Duration

	// Geolocation provider (postcodes.io).
	PostcodesBaseURL string

	// Crime provider (data.police.uk).
	PoliceBaseURL   string
	PoliceRateLimit float64 // sustained requests per second against the crime API

	// Weather provider (OpenWeatherMap).
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// Report event publisher configuration.
	KafkaBrokers     []string
	KafkaReportTopic string
	PublisherEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	upstreamTimeout, err := parseDurationEnv("UPSTREAM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	policeRate, err := parsePoliceRateLimit()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	publisherEnabled := len(brokers) > 0
	if v := os.Getenv("PUBLISHER_ENABLED"); v != "" {
		publisherEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		UpstreamTimeout: upstreamTimeout,

		PostcodesBaseURL: envOrDefault("POSTCODES_BASE_URL", "https://api.postcodes.io"),
		PoliceBaseURL:    envOrDefault("POLICE_BASE_URL", "https://data.police.uk/api"),
		PoliceRateLimit:  policeRate,

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: envOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),

		KafkaBrokers:     brokers,
		KafkaReportTopic: envOrDefault("KAFKA_REPORT_TOPIC", "postcode-reports"),
		PublisherEnabled: publisherEnabled,
	}

	if cfg.OpenWeatherAPIKey == "" {
		return nil, errors.New("OPENWEATHER_API_KEY is required")
	}
	if cfg.PublisherEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("PUBLISHER_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// envOrDefault returns the environment variable's value, or def when unset
// or empty.
func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseDurationEnv parses a positive duration from the environment,
// returning an error naming the variable on bad input.
func parseDurationEnv(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

// parsePoliceRateLimit reads the sustained request rate for the crime API.
// data.police.uk allows 15 requests per second averaged over 5 minutes.
func parsePoliceRateLimit() (float64, error) {
	s := envOrDefault("POLICE_RATE_LIMIT", "15")
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil || rate <= 0 {
		return 0, errors.New("invalid POLICE_RATE_LIMIT")
	}
	return rate, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty items.
func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if b := strings.TrimSpace(p); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
