package domain

// UpstreamError reports a failed upstream lookup the caller cannot recover
// from. The message is the cause's message verbatim so callers can show it
// to the user unchanged; Lookup identifies the failing branch for logs and
// metrics.
type UpstreamError struct {
	Lookup string // "geolocation", "crime", or "weather"
	Err    error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
