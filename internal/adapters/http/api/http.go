// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/baton/internal/domain/filter"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RecordsDependencies
	ViewsDependencies
	ConductorsDependencies
	InsightsDependencies

	// Pin binds the loaded dataset snapshot to ctx and returns its version.
	Pin(ctx context.Context) (context.Context, string)
}

// Server wires HTTP routes for the archive API.
type Server struct {
	deps              Dependencies
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	recordsHandler    *RecordsHandler
	viewsHandler      *ViewsHandler
	conductorsHandler *ConductorsHandler
	insightsHandler   *InsightsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		deps:              deps,
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		recordsHandler:    NewRecordsHandler(deps),
		viewsHandler:      NewViewsHandler(deps),
		conductorsHandler: NewConductorsHandler(deps),
		insightsHandler:   NewInsightsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	v := s.versioned

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/records", MetricsMiddleware(v(s.recordsHandler.HandleRecords), "records"))
	mux.HandleFunc("GET /api/records/grouped", MetricsMiddleware(v(s.recordsHandler.HandleGrouped), "records_grouped"))
	mux.HandleFunc("GET /api/export.csv", MetricsMiddleware(v(s.recordsHandler.HandleExport), "export"))

	mux.HandleFunc("GET /api/stream", MetricsMiddleware(v(s.viewsHandler.HandleStream), "stream"))
	mux.HandleFunc("GET /api/spiral", MetricsMiddleware(v(s.viewsHandler.HandleSpiral), "spiral"))

	mux.HandleFunc("GET /api/conductors", MetricsMiddleware(v(s.conductorsHandler.HandleList), "conductors"))
	mux.HandleFunc("GET /api/conductors/{name}", MetricsMiddleware(v(s.conductorsHandler.HandleGet), "conductor"))
	mux.HandleFunc("GET /api/compare", MetricsMiddleware(v(s.conductorsHandler.HandleCompare), "compare"))
	mux.HandleFunc("GET /api/highlights", MetricsMiddleware(v(s.conductorsHandler.HandleHighlights), "highlights"))
	mux.HandleFunc("GET /api/standings", MetricsMiddleware(v(s.conductorsHandler.HandleStandings), "standings"))
	mux.HandleFunc("GET /api/rank/{name}", MetricsMiddleware(v(s.conductorsHandler.HandleRank), "rank"))

	mux.HandleFunc("GET /api/pioneers", MetricsMiddleware(v(s.insightsHandler.HandlePioneers), "pioneers"))
	mux.HandleFunc("GET /api/milestones", MetricsMiddleware(v(s.insightsHandler.HandleMilestones), "milestones"))
	mux.HandleFunc("GET /api/summary", MetricsMiddleware(v(s.insightsHandler.HandleSummary), "summary"))
	mux.HandleFunc("GET /api/options", MetricsMiddleware(v(s.insightsHandler.HandleOptions), "options"))
}

// versioned tags responses with the snapshot version and answers
// conditional requests for an unchanged snapshot with 304. The handler
// reads the same snapshot the tag names.
func (s *Server) versioned(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, version := s.deps.Pin(r.Context())
		r = r.WithContext(ctx)
		if version == "" {
			next(w, r)
			return
		}
		etag := fmt.Sprintf(`"%s-%016x"`, version, xxhash.Sum64String(r.URL.Path+"?"+r.URL.RawQuery))
		w.Header().Set("X-Dataset-Version", version)
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		next(w, r)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError picks the status from the error kind.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// queryOf reads the record filter from the request.
func queryOf(op string, r *http.Request) (filter.Query, error) {
	q, err := filter.FromValues(r.URL.Query())
	if err != nil {
		return filter.Query{}, WrapKind(op, ErrBadRequest, err)
	}
	return q, nil
}

// limitOf reads the optional limit parameter; absent means zero.
func limitOf(op string, r *http.Request) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid limit %q", s))
	}
	return n, nil
}
