package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// Catalog is the read-only view of the earthquake store the API serves.
type Catalog interface {
	sharedobs.ReadinessChecker
	Count() int
	ByIndex(i int) (domain.Earthquake, error)
	ByPlace(name string) ([]domain.Earthquake, bool)
	Places() []string
	Markers(width, height float64, highlight string) []domain.Marker
	HitTest(x, y, width, height float64) (domain.Earthquake, int, bool)
}

// Dependencies holds everything the HTTP handlers need.
type Dependencies struct {
	Catalog Catalog
	// Geocoder is optional; nil disables suggestions for unknown places.
	Geocoder  domain.Geocoder
	MapWidth  float64
	MapHeight float64
	Metrics   *observability.Metrics
	Logger    *slog.Logger
}

// Server exposes health, readiness, metrics, and catalog HTTP endpoints.
type Server struct {
	httpServer *http.Server
	deps       Dependencies
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the /api/v1 routes.
func NewServer(addr string, deps Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: deps.Logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Catalog))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/quakes", s.handleListQuakes)
	mux.HandleFunc("GET /api/v1/quakes/{index}", s.handleGetQuake)
	mux.HandleFunc("GET /api/v1/places", s.handleListPlaces)
	mux.HandleFunc("GET /api/v1/places/{name}", s.handleGetPlace)
	mux.HandleFunc("GET /api/v1/markers", s.handleMarkers)
	mux.HandleFunc("GET /api/v1/hit", s.handleHitTest)

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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
