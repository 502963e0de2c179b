package site

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	service "github.com/okian/baton/internal/app"
	"github.com/okian/baton/internal/domain/filter"
	"github.com/okian/baton/internal/domain/model"
	"github.com/okian/baton/internal/domain/ranking"
	"github.com/okian/baton/internal/domain/spiral"
	"github.com/okian/baton/internal/domain/stream"
)

// Dependencies are the queries the page is built from.
type Dependencies interface {
	Pin(ctx context.Context) (context.Context, string)
	Spiral(ctx context.Context, q filter.Query, layout string) (service.SpiralView, error)
	Stream(ctx context.Context, q filter.Query) (stream.Layout, error)
	Summary(ctx context.Context, q filter.Query) (service.SummaryView, error)
	Highlights(ctx context.Context, limit int) ([]ranking.Highlight, error)
	Options(ctx context.Context) (filter.Options, error)
}

// Path is a styled SVG path.
type Path struct {
	Lane  int
	Label string
	D     string
}

// Dot is a circle with a tooltip.
type Dot struct {
	X, Y, R float64
	Lane    int
	Title   string
	Pioneer bool
}

// Tick labels a year on the stream axis.
type Tick struct {
	X     float64
	Label string
}

// Stat is a labelled, formatted number.
type Stat struct {
	Label string
	Value string
}

// Page is everything the index template renders.
type Page struct {
	Version string

	// Current filter values for the form.
	Search    string
	Role      string
	Decade    string
	Conductor string
	Layout    string
	Options   filter.Options

	ViewBox float64
	Guides  []Path
	Notes   []Dot

	StreamWidth  float64
	StreamHeight float64
	Areas        []Path
	Beads        []Dot
	Ticks        []Tick

	Stats      []Stat
	Highlights []ranking.Highlight
	TopShows   []ranking.ShowCount
}

func buildPage(ctx context.Context, deps Dependencies, q filter.Query, layout string) (*Page, error) {
	ctx, version := deps.Pin(ctx)
	view, err := deps.Spiral(ctx, q, layout)
	if err != nil {
		return nil, err
	}
	st, err := deps.Stream(ctx, q)
	if err != nil {
		return nil, err
	}
	sum, err := deps.Summary(ctx, q)
	if err != nil {
		return nil, err
	}
	hs, err := deps.Highlights(ctx, 0)
	if err != nil {
		return nil, err
	}
	opts, err := deps.Options(ctx)
	if err != nil {
		return nil, err
	}

	p := &Page{
		Version:      version,
		Search:       q.Search,
		Role:         q.Role,
		Conductor:    q.Conductor,
		Layout:       view.Layout.Name,
		Options:      opts,
		ViewBox:      view.Layout.ViewBox,
		StreamWidth:  streamWidth,
		StreamHeight: streamHeight,
		Highlights:   hs,
		TopShows:     sum.TopShows,
	}
	if q.Decade != nil {
		p.Decade = strconv.Itoa(*q.Decade)
	}

	for _, g := range view.Guides {
		p.Guides = append(p.Guides, Path{Lane: g.Category.Lane(), Label: g.Category.Label(), D: polyline(g.Points)})
	}
	for _, n := range view.Notes {
		p.Notes = append(p.Notes, Dot{
			X:       n.X,
			Y:       n.Y,
			R:       n.Radius,
			Lane:    n.Lane,
			Title:   noteTitle(n),
			Pioneer: n.Pioneer,
		})
	}

	f := frame{n: len(st.Buckets), bounds: st.Bounds}
	for _, s := range st.Series {
		p.Areas = append(p.Areas, Path{Lane: s.Category.Lane(), Label: s.Label, D: f.area(s.Bands)})
	}
	if len(st.Buckets) > 0 {
		first := st.Buckets[0].Year
		for _, b := range st.Beads {
			p.Beads = append(p.Beads, Dot{
				X:     f.x(b.Year - first),
				Y:     f.y(b.Mid),
				R:     2,
				Lane:  b.Category.Lane(),
				Title: strconv.Itoa(b.Year),
			})
		}
		for i, b := range st.Buckets {
			if b.Year%20 == 0 {
				p.Ticks = append(p.Ticks, Tick{X: f.x(i), Label: strconv.Itoa(b.Year)})
			}
		}
	}

	s := sum.Summary
	p.Stats = []Stat{
		{Label: "Records", Value: humanize.Comma(int64(s.TotalRecords))},
		{Label: "Conductors", Value: humanize.Comma(int64(s.UniqueConductors))},
		{Label: "Productions", Value: humanize.Comma(int64(s.UniqueShows))},
		{Label: "Decades", Value: humanize.Comma(int64(s.Decades))},
	}
	return p, nil
}

func noteTitle(n spiral.Note) string {
	t := fmt.Sprintf("%s · %s · %s (%d)", orUnknown(n.Conductor), orUnknown(n.Role), orUnknown(n.Show), n.Year)
	if n.Performances > 0 {
		t += " · " + humanize.Comma(int64(n.Performances)) + " performances"
	}
	return t
}

func orUnknown(s string) string {
	if s == "" {
		return model.Unknown
	}
	return s
}
