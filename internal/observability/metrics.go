package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// report service.
type Metrics struct {
	ReportsBuilt         *prometheus.CounterVec // labels: outcome={success,invalid,upstream_error}
	ReportBuildDuration  prometheus.Histogram
	CrimeLookupsDegraded prometheus.Counter

	// Upstream adapter metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: upstream={postcodes,police,openweather}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: upstream={postcodes,police,openweather}

	// Report event publisher metrics.
	ReportsPublished *prometheus.CounterVec // labels: outcome={success,error}
	PublisherEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReportsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postcode_report",
			Name:      "reports_built_total",
			Help:      "Report aggregations by outcome.",
		}, []string{"outcome"}),
		ReportBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "postcode_report",
			Name:      "report_build_duration_seconds",
			Help:      "Duration of a complete report aggregation including upstream calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CrimeLookupsDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "postcode_report",
			Name:      "crime_lookups_degraded_total",
			Help:      "Reports built with an empty crime list because the crime lookup failed.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postcode_report",
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by provider and outcome.",
		}, []string{"upstream", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "postcode_report",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"upstream"}),
		ReportsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postcode_report",
			Name:      "report_events_published_total",
			Help:      "Report events published to Kafka by outcome.",
		}, []string{"outcome"}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "postcode_report",
			Name:      "publisher_enabled",
			Help:      "1 when the report event publisher is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.ReportsBuilt,
		m.ReportBuildDuration,
		m.CrimeLookupsDegraded,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.ReportsPublished,
		m.PublisherEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReportsBuilt:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "postcode_report", Name: "reports_built_total"}, []string{"outcome"}),
		ReportBuildDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "postcode_report", Name: "report_build_duration_seconds"}),
		CrimeLookupsDegraded: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "postcode_report", Name: "crime_lookups_degraded_total"}),
		UpstreamRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "postcode_report", Name: "upstream_requests_total"}, []string{"upstream", "outcome"}),
		UpstreamDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "postcode_report", Name: "upstream_request_duration_seconds"}, []string{"upstream"}),
		ReportsPublished:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "postcode_report", Name: "report_events_published_total"}, []string{"outcome"}),
		PublisherEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "postcode_report", Name: "publisher_enabled"}),
	}
}
