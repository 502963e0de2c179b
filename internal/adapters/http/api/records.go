package api

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/okian/baton/internal/domain/filter"
	"github.com/okian/baton/internal/domain/model"
)

// ExportFilename is suggested to clients downloading the CSV export.
const ExportFilename = "broadway-conductors.csv"

// RecordsDependencies defines the interface for record listings.
type RecordsDependencies interface {
	Records(ctx context.Context, q filter.Query) ([]model.Record, error)
	Grouped(ctx context.Context, q filter.Query) ([]filter.DecadeGroup, error)
	Export(ctx context.Context, w io.Writer, q filter.Query) error
}

// RecordsHandler handles record listings and the CSV export.
type RecordsHandler struct {
	deps RecordsDependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps RecordsDependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// HandleRecords handles GET /api/records.
func (h *RecordsHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	const op = "api.records"
	q, err := queryOf(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	recs, err := h.deps.Records(r.Context(), q)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// HandleGrouped handles GET /api/records/grouped.
func (h *RecordsHandler) HandleGrouped(w http.ResponseWriter, r *http.Request) {
	const op = "api.records_grouped"
	q, err := queryOf(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	groups, err := h.deps.Grouped(r.Context(), q)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// HandleExport handles GET /api/export.csv.
func (h *RecordsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	q, err := queryOf(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := h.deps.Export(r.Context(), &buf, q); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
