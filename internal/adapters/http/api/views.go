package api

import (
	"context"
	"net/http"

	service "github.com/okian/baton/internal/app"
	"github.com/okian/baton/internal/domain/filter"
	"github.com/okian/baton/internal/domain/stream"
)

// ViewsDependencies defines the interface for the chart views.
type ViewsDependencies interface {
	Stream(ctx context.Context, q filter.Query) (stream.Layout, error)
	Spiral(ctx context.Context, q filter.Query, layout string) (service.SpiralView, error)
}

// ViewsHandler serves the stream and spiral geometry.
type ViewsHandler struct {
	deps ViewsDependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps ViewsDependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

// HandleStream handles GET /api/stream.
func (h *ViewsHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	const op = "api.stream"
	q, err := queryOf(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	layout, err := h.deps.Stream(r.Context(), q)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

// HandleSpiral handles GET /api/spiral?layout=.
func (h *ViewsHandler) HandleSpiral(w http.ResponseWriter, r *http.Request) {
	const op = "api.spiral"
	q, err := queryOf(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.deps.Spiral(r.Context(), q, r.URL.Query().Get("layout"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
