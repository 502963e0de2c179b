package api

import (
	"context"
	"net/http"

	service "github.com/okian/baton/internal/app"
	"github.com/okian/baton/internal/domain/filter"
	"github.com/okian/baton/internal/domain/ranking"
)

// InsightsDependencies defines the interface for archive-wide insights.
type InsightsDependencies interface {
	Pioneers(ctx context.Context) ([]ranking.Pioneer, error)
	Milestones(ctx context.Context) ([]ranking.Milestone, error)
	Summary(ctx context.Context, q filter.Query) (service.SummaryView, error)
	Options(ctx context.Context) (filter.Options, error)
}

// InsightsHandler serves pioneers, milestones, summaries and options.
type InsightsHandler struct {
	deps InsightsDependencies
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(deps InsightsDependencies) *InsightsHandler {
	return &InsightsHandler{deps: deps}
}

// HandlePioneers handles GET /api/pioneers.
func (h *InsightsHandler) HandlePioneers(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.Pioneers(r.Context())
	if err != nil {
		writeError(w, Wrap("api.pioneers", err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleMilestones handles GET /api/milestones.
func (h *InsightsHandler) HandleMilestones(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.Milestones(r.Context())
	if err != nil {
		writeError(w, Wrap("api.milestones", err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleSummary handles GET /api/summary.
func (h *InsightsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.summary"
	q, err := queryOf(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.deps.Summary(r.Context(), q)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleOptions handles GET /api/options.
func (h *InsightsHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.Options(r.Context())
	if err != nil {
		writeError(w, Wrap("api.options", err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}
