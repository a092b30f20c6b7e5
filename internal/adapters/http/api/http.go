// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/domain/pillar"
	"github.com/okian/pitchside/internal/domain/radar"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Chart builds a chart for a UI view; a superseded request returns sequence.ErrStale.
	Chart(ctx context.Context, view, playerID string, p pillar.Pillar) (radar.Chart, error)
	CurrentPointsSummary(ctx context.Context, playerID string) (service.PointsSummary, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	spiderHandler *SpiderHandler
	pointsHandler *PointsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		spiderHandler: NewSpiderHandler(deps),
		pointsHandler: NewPointsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/spider/", MetricsMiddleware(s.spiderHandler.HandleGetSpider, "spider"))
	mux.HandleFunc("/points/", MetricsMiddleware(s.pointsHandler.HandleGetPoints, "points"))
}

// Handler returns a mux with every route registered behind the request-id
// middleware. extra registrars, such as the API docs, share the mux.
func (s *Server) Handler(extra ...func(*http.ServeMux)) http.Handler {
	mux := http.NewServeMux()
	for _, register := range extra {
		register(mux)
	}
	s.Register(mux)
	return RequestIDMiddleware(mux)
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: w.Header().Get(RequestIDHeader)})
}
