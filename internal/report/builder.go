package report

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/postcode-report/internal/domain"
	"github.com/couchcryptid/postcode-report/internal/observability"
)

// Builder resolves a postcode and assembles the full report: geolocation
// first, then the crime and weather lookups in parallel against the
// resolved position.
type Builder struct {
	locations domain.LocationLookup
	crimes    domain.CrimeLookup
	weather   domain.WeatherLookup
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewBuilder creates a Builder over the three upstream lookups.
func NewBuilder(locations domain.LocationLookup, crimes domain.CrimeLookup, weather domain.WeatherLookup, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	return &Builder{
		locations: locations,
		crimes:    crimes,
		weather:   weather,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil when all three upstream lookups are wired, or
// an error naming the first missing one.
func (b *Builder) CheckReadiness(_ context.Context) error {
	if b.locations == nil {
		return errors.New("geolocation lookup not configured")
	}
	if b.crimes == nil {
		return errors.New("crime lookup not configured")
	}
	if b.weather == nil {
		return errors.New("weather lookup not configured")
	}
	return nil
}

// BuildReport produces the merged report for a postcode.
//
// A failed crime lookup degrades to an empty crime list; a failed
// geolocation or weather lookup fails the whole report with a
// *domain.UpstreamError. Invalid postcodes are rejected before any
// upstream call.
func (b *Builder) BuildReport(ctx context.Context, postcode string) (domain.Report, error) {
	start := time.Now()

	location, err := b.ResolveLocation(ctx, postcode)
	if err != nil {
		b.observeBuild(start, err)
		return domain.Report{}, err
	}

	var (
		wg         sync.WaitGroup
		incidents  []domain.Incident
		crimeErr   error
		forecast   []domain.ForecastEntry
		weatherErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		incidents, crimeErr = b.crimes.StreetCrimes(ctx, location.Position)
	}()
	go func() {
		defer wg.Done()
		forecast, weatherErr = b.weather.Forecast(ctx, location.Position)
	}()
	wg.Wait()

	if crimeErr != nil {
		b.logger.Warn("crime lookup failed, continuing without crime data",
			"postcode", location.Postcode, "error", crimeErr)
		b.metrics.CrimeLookupsDegraded.Inc()
		incidents = nil
	}

	if weatherErr != nil {
		upstreamErr := &domain.UpstreamError{Lookup: "weather", Err: weatherErr}
		b.observeBuild(start, upstreamErr)
		return domain.Report{}, upstreamErr
	}

	weather, err := domain.SummarizeForecast(forecast)
	if err != nil {
		upstreamErr := &domain.UpstreamError{Lookup: "weather", Err: err}
		b.observeBuild(start, upstreamErr)
		return domain.Report{}, upstreamErr
	}

	rpt := domain.NewReport(location, domain.SummarizeCrimes(incidents), weather)
	b.observeBuild(start, nil)
	b.logger.Info("report built",
		"report_id", rpt.ID,
		"postcode", rpt.Location.Postcode,
		"crime_categories", len(rpt.Crimes),
		"weather", rpt.Weather.Type,
	)
	return rpt, nil
}

// ResolveLocation validates a postcode and resolves it through the
// geolocation lookup, deriving the distance to London. Nothing reaches an
// upstream until the postcode passes validation.
func (b *Builder) ResolveLocation(ctx context.Context, postcode string) (domain.LocationResult, error) {
	if !domain.IsValidPostcode(postcode) {
		return domain.LocationResult{}, &domain.InvalidPostcodeError{Postcode: postcode}
	}
	normalized := domain.NormalizePostcode(postcode)
	loc, err := b.locations.Locate(ctx, normalized)
	if err != nil {
		return domain.LocationResult{}, &domain.UpstreamError{Lookup: "geolocation", Err: err}
	}
	return domain.NewLocationResult(normalized, loc), nil
}

// CrimeSummary resolves a postcode and returns its street-crime summary,
// grouped by category and sorted by incident count. A failed crime lookup
// here is fatal, unlike in BuildReport.
func (b *Builder) CrimeSummary(ctx context.Context, postcode string) ([]domain.CrimeEntry, error) {
	location, err := b.ResolveLocation(ctx, postcode)
	if err != nil {
		return nil, err
	}
	incidents, err := b.crimes.StreetCrimes(ctx, location.Position)
	if err != nil {
		return nil, &domain.UpstreamError{Lookup: "crime", Err: err}
	}
	return domain.SummarizeCrimes(incidents), nil
}

// WeatherSummary resolves a postcode and returns the dominant condition and
// mean temperature of its forecast.
func (b *Builder) WeatherSummary(ctx context.Context, postcode string) (domain.WeatherResult, error) {
	location, err := b.ResolveLocation(ctx, postcode)
	if err != nil {
		return domain.WeatherResult{}, err
	}
	forecast, err := b.weather.Forecast(ctx, location.Position)
	if err != nil {
		return domain.WeatherResult{}, &domain.UpstreamError{Lookup: "weather", Err: err}
	}
	weather, err := domain.SummarizeForecast(forecast)
	if err != nil {
		return domain.WeatherResult{}, &domain.UpstreamError{Lookup: "weather", Err: err}
	}
	return weather, nil
}

// observeBuild records the build duration and outcome counter.
func (b *Builder) observeBuild(start time.Time, err error) {
	b.metrics.ReportBuildDuration.Observe(time.Since(start).Seconds())
	b.metrics.ReportsBuilt.WithLabelValues(buildOutcome(err)).Inc()
}

func buildOutcome(err error) string {
	var invalid *domain.InvalidPostcodeError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &invalid):
		return "invalid"
	default:
		return "upstream_error"
	}
}
