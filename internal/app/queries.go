package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/okian/baton/internal/adapters/export"
	"github.com/okian/baton/internal/adapters/repository"
	"github.com/okian/baton/internal/domain/filter"
	"github.com/okian/baton/internal/domain/model"
	"github.com/okian/baton/internal/domain/ranking"
	"github.com/okian/baton/internal/domain/spiral"
	"github.com/okian/baton/internal/domain/stream"
	"github.com/okian/baton/pkg/metrics"
)

// SpiralView is the spiral layout with the notes of a filtered selection.
type SpiralView struct {
	Layout spiral.Layout      `json:"layout"`
	Guides []spiral.GuidePath `json:"guides"`
	Notes  []spiral.Note      `json:"notes"`
}

// SummaryView bundles the summary card with the breakdowns of a selection.
type SummaryView struct {
	Summary    ranking.Summary            `json:"summary"`
	Leadership []ranking.DecadeLeadership `json:"leadership"`
	ByDecade   []ranking.LabelCount       `json:"by_decade"`
	ByRole     []ranking.LabelCount       `json:"by_role"`
	TopShows   []ranking.ShowCount        `json:"top_shows"`
}

func observe(view string, start time.Time, size int) {
	metrics.RecordQuery(view, float64(time.Since(start).Microseconds())/1000, size)
}

// Records returns the records matching q in dataset order.
func (s *Service) Records(ctx context.Context, q filter.Query) ([]model.Record, error) {
	start := time.Now()
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return nil, err
	}
	out := filter.Apply(snap.Records, q)
	observe("records", start, len(out))
	return out, nil
}

// Grouped returns the records matching q grouped by decade.
func (s *Service) Grouped(ctx context.Context, q filter.Query) ([]filter.DecadeGroup, error) {
	recs, err := s.Records(ctx, q)
	if err != nil {
		return nil, err
	}
	return filter.GroupByDecade(recs), nil
}

// Stream builds the stream layout of the records matching q.
func (s *Service) Stream(ctx context.Context, q filter.Query) (stream.Layout, error) {
	start := time.Now()
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return stream.Layout{}, err
	}
	out := stream.Build(s.domain, filter.Apply(snap.Records, q))
	observe("stream", start, len(out.Beads))
	return out, nil
}

// Spiral places the records matching q on the named layout. An empty name
// selects the configured layout.
func (s *Service) Spiral(ctx context.Context, q filter.Query, layout string) (SpiralView, error) {
	start := time.Now()
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return SpiralView{}, err
	}
	l := s.layout
	if layout != "" {
		var ok bool
		if l, ok = spiral.LayoutByName(layout); !ok {
			return SpiralView{}, fmt.Errorf("%w: unknown layout %q", ErrBadRequest, layout)
		}
	}
	notes := spiral.Notes(s.domain, l, filter.Apply(snap.Records, q))
	observe("spiral", start, len(notes))
	return SpiralView{Layout: l, Guides: spiral.Guides(s.domain, l), Notes: notes}, nil
}

// Conductors lists conductor names in collation order, narrowed by query
// and without exclude.
func (s *Service) Conductors(ctx context.Context, query, exclude string) ([]string, error) {
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" && exclude == "" {
		return snap.Options.Conductors, nil
	}
	return filter.Conductors(snap.Records, query, exclude), nil
}

// Conductor returns the aggregate of one conductor.
func (s *Service) Conductor(ctx context.Context, name string) (*ranking.Aggregate, error) {
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return nil, err
	}
	agg, ok := snap.Aggregates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return agg, nil
}

// Compare returns both aggregates side by side. An unknown name leaves its
// side empty.
func (s *Service) Compare(ctx context.Context, left, right string) (ranking.Comparison, error) {
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return ranking.Comparison{}, err
	}
	return ranking.CompareConductors(snap.Aggregates, left, right), nil
}

// Highlights returns the top limit conductors with their insight. Zero
// selects the default limit.
func (s *Service) Highlights(ctx context.Context, limit int) ([]ranking.Highlight, error) {
	start := time.Now()
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return nil, err
	}
	if limit, err = s.limit(limit, s.highlightLimit); err != nil {
		return nil, err
	}
	entries, err := snap.store.TopN(ctx, limit)
	if err != nil {
		return nil, err
	}
	top := make([]*ranking.Aggregate, len(entries))
	for i, e := range entries {
		top[i] = e.Aggregate
	}
	out := ranking.HighlightsFrom(top, snap.Earliest)
	observe("highlights", start, len(out))
	return out, nil
}

// Standings returns the first limit entries of the standings.
func (s *Service) Standings(ctx context.Context, limit int) ([]repository.Entry, error) {
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return nil, err
	}
	if limit, err = s.limit(limit, s.maxLimit); err != nil {
		return nil, err
	}
	return snap.store.TopN(ctx, limit)
}

// Rank returns the standings entry of one conductor.
func (s *Service) Rank(ctx context.Context, name string) (repository.Entry, error) {
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return repository.Entry{}, err
	}
	e, err := snap.store.Rank(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return e, err
}

// Pioneers returns the earliest conductor of each role category.
func (s *Service) Pioneers(ctx context.Context) ([]ranking.Pioneer, error) {
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Pioneers, nil
}

// Milestones returns the archive milestones.
func (s *Service) Milestones(ctx context.Context) ([]ranking.Milestone, error) {
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Milestones, nil
}

// Summary computes the summary and breakdowns of the records matching q.
func (s *Service) Summary(ctx context.Context, q filter.Query) (SummaryView, error) {
	start := time.Now()
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return SummaryView{}, err
	}
	recs := filter.Apply(snap.Records, q)
	out := SummaryView{
		Summary:    ranking.Summarize(recs),
		Leadership: ranking.LeadershipByDecade(recs),
		ByDecade:   ranking.ByDecade(recs),
		ByRole:     ranking.ByRole(recs),
		TopShows:   ranking.TopShows(recs, s.topShowsLimit),
	}
	observe("summary", start, len(recs))
	return out, nil
}

// Options returns the role, decade and conductor option lists.
func (s *Service) Options(ctx context.Context) (filter.Options, error) {
	snap, err := s.snapshotFor(ctx)
	if err != nil {
		return filter.Options{}, err
	}
	return snap.Options, nil
}

// Export writes the records matching q to w as CSV.
func (s *Service) Export(ctx context.Context, w io.Writer, q filter.Query) error {
	recs, err := s.Records(ctx, q)
	if err != nil {
		return err
	}
	return export.Write(w, recs)
}

// Version returns the identifier of the current snapshot.
func (s *Service) Version() string {
	if snap := s.snapshot.Load(); snap != nil {
		return snap.Version
	}
	return ""
}

type snapshotKey struct{}

// Pin binds the current snapshot to ctx and returns its version. Queries
// made with the returned context keep reading that snapshot across
// reloads. A context that is already pinned is returned as is.
func (s *Service) Pin(ctx context.Context) (context.Context, string) {
	if snap, ok := ctx.Value(snapshotKey{}).(*Snapshot); ok {
		return ctx, snap.Version
	}
	snap := s.snapshot.Load()
	if snap == nil {
		return ctx, ""
	}
	return context.WithValue(ctx, snapshotKey{}, snap), snap.Version
}

// snapshotFor returns the snapshot pinned to ctx, or the current one.
func (s *Service) snapshotFor(ctx context.Context) (*Snapshot, error) {
	if snap, ok := ctx.Value(snapshotKey{}).(*Snapshot); ok {
		return snap, nil
	}
	return s.Snapshot()
}

func (s *Service) limit(n, def int) (int, error) {
	switch {
	case n == 0:
		return min(def, s.maxLimit), nil
	case n < 0 || n > s.maxLimit:
		return 0, fmt.Errorf("%w: limit must be in [1, %d]", ErrBadRequest, s.maxLimit)
	default:
		return n, nil
	}
}
