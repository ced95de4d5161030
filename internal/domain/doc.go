// Package domain models UK postcode area reports: geolocation, street-level
// crime, and weather for a postcode, merged into a single Report.
//
// # Postcode Format
//
// UK postcodes are an outward code (area + district) followed by an inward
// code (sector + unit):
//
//	"EC2A 4NE"  →  outward "EC2A", inward "4NE"
//	Validation is format-only and case-insensitive; the separating space is
//	optional ("ec2a4ne" is accepted). Whether the postcode exists is decided
//	by the geolocation provider, not by validation.
//
// # Data Sources
//
// Geolocation comes from postcodes.io, which resolves a postcode to its
// administrative district ("town"), region, and WGS-84 coordinates. Crime
// data comes from the data.police.uk street-level crime API, which returns
// one record per incident near a coordinate pair. Weather comes from the
// OpenWeatherMap forecast API, which returns a list of timestamped forecast
// entries, each with a condition group and a temperature.
//
// # Derivations
//
// Distance to London:
//
//	Great-circle (haversine) distance in kilometers from the postcode's
//	position to Charing Cross (51.5074, -0.1278), using a mean Earth
//	radius of 6371 km. See [DistanceToLondon].
//
// Crime summary:
//
//	Incidents are grouped by category label and counted. Entries are sorted
//	by incident count descending; categories with equal counts sort
//	alphabetically so output is deterministic. Incidents with an empty
//	category are dropped. An empty summary is indistinguishable from a
//	failed crime lookup; both produce zero entries. See [SummarizeCrimes].
//
// Weather summary:
//
//	The dominant condition is the most frequent condition across the
//	forecast entries; the temperature is the mean over all entries.
//	Condition labels form a small fixed vocabulary (the provider's
//	condition groups); parsing an unknown label fails. Each condition has
//	a short display abbreviation for compact tiles. See [SummarizeForecast]
//	and [ParseWeatherType].
//
// # Report Identity
//
// Each Report carries a UUID and a generation timestamp. The ID keys the
// published report event for downstream consumers; the timestamp comes from
// a swappable clock so tests can freeze time (see [SetClock]).
package domain
