package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/baton/internal/adapters/repository"
	"github.com/okian/baton/internal/domain/ranking"
)

// ConductorsDependencies defines the interface for conductor lookups and
// standings.
type ConductorsDependencies interface {
	Conductors(ctx context.Context, query, exclude string) ([]string, error)
	Conductor(ctx context.Context, name string) (*ranking.Aggregate, error)
	Compare(ctx context.Context, left, right string) (ranking.Comparison, error)
	Highlights(ctx context.Context, limit int) ([]ranking.Highlight, error)
	Standings(ctx context.Context, limit int) ([]repository.Entry, error)
	Rank(ctx context.Context, name string) (repository.Entry, error)
}

// ConductorsHandler handles conductor requests.
type ConductorsHandler struct {
	deps ConductorsDependencies
}

// NewConductorsHandler creates a new conductors handler.
func NewConductorsHandler(deps ConductorsDependencies) *ConductorsHandler {
	return &ConductorsHandler{deps: deps}
}

// HandleList handles GET /api/conductors?query=&exclude=.
func (h *ConductorsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.conductors"
	v := r.URL.Query()
	names, err := h.deps.Conductors(r.Context(), strings.TrimSpace(v.Get("query")), v.Get("exclude"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// HandleGet handles GET /api/conductors/{name}.
func (h *ConductorsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.conductor"
	name := r.PathValue("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	agg, err := h.deps.Conductor(r.Context(), name)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// HandleCompare handles GET /api/compare?left=&right=.
func (h *ConductorsHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	v := r.URL.Query()
	left, right := v.Get("left"), v.Get("right")
	if left == "" && right == "" {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	cmp, err := h.deps.Compare(r.Context(), left, right)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// HandleHighlights handles GET /api/highlights?limit=N.
func (h *ConductorsHandler) HandleHighlights(w http.ResponseWriter, r *http.Request) {
	const op = "api.highlights"
	n, err := limitOf(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	hs, err := h.deps.Highlights(r.Context(), n)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, hs)
}

// HandleStandings handles GET /api/standings?limit=N.
func (h *ConductorsHandler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	const op = "api.standings"
	n, err := limitOf(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.deps.Standings(r.Context(), n)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleRank handles GET /api/rank/{name}.
func (h *ConductorsHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank"
	name := r.PathValue("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Rank(r.Context(), name)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
