package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/postcode-report/internal/domain"
)

// postcodeRequest is the body every /api/ endpoint accepts.
type postcodeRequest struct {
	Postcode string `json:"postcode"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// distanceResponse is the /api/distance/ contract: the resolved location
// with the submitted postcode and derived distance alongside it.
type distanceResponse struct {
	Postcode         string          `json:"postcode"`
	Location         domain.Location `json:"location"`
	DistanceToLondon float64         `json:"distanceToLondon"`
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	postcode, ok := s.decodePostcode(w, r)
	if !ok {
		return
	}
	result, err := s.service.ResolveLocation(r.Context(), postcode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, distanceResponse{
		Postcode: result.Postcode,
		Location: domain.Location{
			Town:     result.Town,
			Region:   result.Region,
			Position: result.Position,
		},
		DistanceToLondon: result.DistanceToLondon,
	})
}

func (s *Server) handleCrime(w http.ResponseWriter, r *http.Request) {
	postcode, ok := s.decodePostcode(w, r)
	if !ok {
		return
	}
	entries, err := s.service.CrimeSummary(r.Context(), postcode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	postcode, ok := s.decodePostcode(w, r)
	if !ok {
		return
	}
	result, err := s.service.WeatherSummary(r.Context(), postcode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	postcode, ok := s.decodePostcode(w, r)
	if !ok {
		return
	}
	rpt, err := s.service.BuildReport(r.Context(), postcode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rpt)
}

// decodePostcode reads and validates the postcode body shared by all API
// endpoints. On failure it writes the 400 response itself and returns
// ok=false. Malformed input never reaches the service.
func (s *Server) decodePostcode(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req postcodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return "", false
	}
	if !domain.IsValidPostcode(req.Postcode) {
		err := &domain.InvalidPostcodeError{Postcode: req.Postcode}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return "", false
	}
	return req.Postcode, true
}

// writeError maps service errors onto the API's status codes: invalid
// postcode 400, upstream failure 502, anything else 500. Upstream causes
// pass through to the body verbatim.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidErr  *domain.InvalidPostcodeError
		upstreamErr *domain.UpstreamError
	)
	switch {
	case errors.As(err, &invalidErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &upstreamErr):
		s.logger.Error("upstream lookup failed",
			"lookup", upstreamErr.Lookup,
			"request_id", RequestID(r.Context()),
			"error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed",
			"request_id", RequestID(r.Context()),
			"error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
