package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/couchcryptid/postcode-report/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReportService is the report-building surface the API handlers call.
type ReportService interface {
	ResolveLocation(ctx context.Context, postcode string) (domain.LocationResult, error)
	CrimeSummary(ctx context.Context, postcode string) ([]domain.CrimeEntry, error)
	WeatherSummary(ctx context.Context, postcode string) (domain.WeatherResult, error)
	BuildReport(ctx context.Context, postcode string) (domain.Report, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the report API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	service    ReportService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the report API mounted under /api/.
func NewServer(addr string, service ReportService, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     handlers.LoggingHandler(os.Stdout, withRequestID(mux)),
			ReadTimeout: 10 * time.Second,
			// A report response can take up to two upstream timeouts:
			// geolocation runs before the crime/weather pair.
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("POST /api/distance/{$}", s.handleDistance)
	mux.HandleFunc("POST /api/crime/{$}", s.handleCrime)
	mux.HandleFunc("POST /api/getWeather/{$}", s.handleWeather)
	mux.HandleFunc("POST /api/report/{$}", s.handleReport)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// withRequestID tags each request with an ID, echoed in the X-Request-ID
// response header. A caller-supplied ID is kept so IDs survive proxies.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestID returns the request ID stored in ctx, or "" when absent.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
