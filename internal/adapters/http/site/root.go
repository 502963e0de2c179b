// Package site renders the archive as a server-side SVG page: the date
// spiral, the role stream and the highlights.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"

	service "github.com/okian/baton/internal/app"
	"github.com/okian/baton/internal/domain/filter"
)

// Error constants
var (
	ErrGenerate = errors.New("site generation failed")
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer builds and renders the index page.
type Renderer struct {
	deps Dependencies
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer(deps Dependencies) (*Renderer, error) {
	tmpl, err := template.New("index.html.tmpl").Funcs(template.FuncMap{
		"num":   num,
		"comma": func(n int) string { return humanize.Comma(int64(n)) },
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	return &Renderer{deps: deps, tmpl: tmpl}, nil
}

// Render writes the page for q on the named layout to w.
func (r *Renderer) Render(ctx context.Context, w io.Writer, q filter.Query, layout string) error {
	page, err := buildPage(ctx, r.deps, q, layout)
	if err != nil {
		return err
	}
	if err := r.tmpl.Execute(w, page); err != nil {
		return fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	return nil
}

// Register attaches the page route to mux.
func Register(_ context.Context, mux *http.ServeMux, r *Renderer) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", NewRootHandler(r).HandleRoot)
}

// RootHandler handles root path requests
type RootHandler struct {
	renderer *Renderer
}

// NewRootHandler creates a new root handler
func NewRootHandler(r *Renderer) *RootHandler {
	return &RootHandler{renderer: r}
}

// HandleRoot handles GET / requests. The page is filtered by the same
// query parameters as the API plus layout.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	q, err := filter.FromValues(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx, version := h.renderer.deps.Pin(r.Context())
	var buf bytes.Buffer
	if err := h.renderer.Render(ctx, &buf, q, r.URL.Query().Get("layout")); err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if version != "" {
		w.Header().Set("X-Dataset-Version", version)
	}
	_, _ = buf.WriteTo(w)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
