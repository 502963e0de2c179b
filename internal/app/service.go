// Package service owns the loaded archive and answers every query the HTTP
// API, the site and the CLI make against it.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/baton/internal/adapters/dataset"
	"github.com/okian/baton/internal/adapters/repository"
	"github.com/okian/baton/internal/domain/filter"
	"github.com/okian/baton/internal/domain/model"
	"github.com/okian/baton/internal/domain/ranking"
	"github.com/okian/baton/internal/domain/spiral"
	"github.com/okian/baton/internal/domain/temporal"
	"github.com/okian/baton/pkg/logger"
	"github.com/okian/baton/pkg/metrics"
)

// Snapshot is one immutable load of the dataset with everything derived
// from it. Queries read a snapshot without locking; a reload publishes a
// new one.
type Snapshot struct {
	Version      string
	LoadedAt     time.Time
	Source       string
	Checksum     uint64
	Records      []model.Record
	InvalidDates int
	Aggregates   map[string]*ranking.Aggregate
	Standings    []*ranking.Aggregate
	Earliest     model.Opening
	Options      filter.Options
	Pioneers     []ranking.Pioneer
	Milestones   []ranking.Milestone

	store *repository.TreapStore
}

// Service implements the read side of the archive.
type Service struct {
	mu sync.Mutex

	// Configuration
	datasetPath    string
	domain         temporal.Domain
	layout         spiral.Layout
	highlightLimit int
	maxLimit       int
	topShowsLimit  int
	topCacheSize   int

	// State
	started  bool
	snapshot atomic.Pointer[Snapshot]

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatasetPath reads the dataset from path instead of the embedded
// sample.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		s.datasetPath = path
	}
}

// WithDomain sets the time domain used by the spiral and stream views.
func WithDomain(d temporal.Domain) Option {
	return func(s *Service) {
		if d.Max.After(d.Min) {
			s.domain = d
		}
	}
}

// WithLayout sets the spiral layout used when a request names none.
func WithLayout(l spiral.Layout) Option {
	return func(s *Service) {
		if l.ViewBox > 0 {
			s.layout = l
		}
	}
}

// WithHighlightLimit sets the default number of highlights.
func WithHighlightLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.highlightLimit = n
		}
	}
}

// WithMaxLimit caps any requested limit.
func WithMaxLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithTopShowsLimit sets the length of the top shows breakdown.
func WithTopShowsLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topShowsLimit = n
		}
	}
}

// WithTopCacheSize sets how many standings entries are precomputed.
func WithTopCacheSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topCacheSize = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		domain:         temporal.Default(),
		layout:         spiral.Desktop(),
		highlightLimit: 5,
		maxLimit:       100,
		topShowsLimit:  16,
		topCacheSize:   100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset. It fails if the first load fails.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting archive service",
		logger.String("dataset", sourceName(s.datasetPath)),
	)
	if err := s.reload(ctx); err != nil {
		return err
	}
	s.started = true
	return nil
}

// Stop drops the loaded snapshot.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.snapshot.Store(nil)
	s.started = false
	s.logger.Info(context.Background(), "archive service stopped")
}

// Reload rereads the dataset. On failure the previous snapshot stays in
// place and the error is returned.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	return s.reload(ctx)
}

func (s *Service) reload(ctx context.Context) error {
	start := time.Now()

	ds, err := dataset.Load(ctx, s.datasetPath)
	if err != nil {
		metrics.RecordDatasetLoadError()
		metrics.RecordErrorByComponent("dataset", "load")
		s.logger.Error(ctx, "dataset load failed", logger.Error(err))
		return err
	}

	snap, err := s.build(ctx, ds)
	if err != nil {
		metrics.RecordDatasetLoadError()
		s.logger.Error(ctx, "building snapshot failed", logger.Error(err))
		return err
	}

	if prev := s.snapshot.Load(); prev != nil && prev.Checksum == snap.Checksum {
		s.logger.Debug(ctx, "dataset unchanged", logger.String("version", prev.Version))
		return nil
	}
	s.snapshot.Store(snap)

	elapsed := time.Since(start)
	metrics.UpdateDataset(len(snap.Records), len(snap.Aggregates), snap.InvalidDates)
	metrics.RecordDatasetLoad(float64(elapsed.Microseconds())/1000, snap.LoadedAt.Unix())
	s.logger.Info(ctx, "dataset loaded",
		logger.String("version", snap.Version),
		logger.String("source", snap.Source),
		logger.Int("records", len(snap.Records)),
		logger.Int("conductors", len(snap.Aggregates)),
		logger.Int("invalid_dates", snap.InvalidDates),
		logger.Duration("duration", elapsed),
	)
	return nil
}

func (s *Service) build(ctx context.Context, ds *dataset.Dataset) (*Snapshot, error) {
	records := model.Prepare(ds.Records)
	aggs := ranking.AggregateByConductor(records)
	standings := ranking.Standings(aggs)

	store := repository.NewTreapStore(repository.WithTopCacheSize(s.topCacheSize))
	if err := store.Replace(ctx, standings); err != nil {
		return nil, fmt.Errorf("load standings: %w", err)
	}

	invalid := 0
	for i := range records {
		if !records[i].Opening.Valid {
			invalid++
		}
	}

	return &Snapshot{
		Version:      uuid.NewString(),
		LoadedAt:     time.Now().UTC(),
		Source:       ds.Source,
		Checksum:     ds.Checksum,
		Records:      records,
		InvalidDates: invalid,
		Aggregates:   aggs,
		Standings:    standings,
		Earliest:     ranking.Earliest(standings),
		Options:      filter.BuildOptions(records),
		Pioneers:     ranking.CategoryPioneers(records),
		Milestones:   ranking.Milestones(records),
		store:        store,
	}, nil
}

// Snapshot returns the current snapshot.
func (s *Service) Snapshot() (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNotStarted
	}
	return snap, nil
}

// Domain returns the configured time domain.
func (s *Service) Domain() temporal.Domain { return s.domain }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	stats := map[string]any{
		"started": started,
		"dataset": sourceName(s.datasetPath),
	}
	snap := s.snapshot.Load()
	if snap == nil {
		return stats
	}
	stats["version"] = snap.Version
	stats["loadedAt"] = snap.LoadedAt.Format(time.RFC3339)
	stats["checksum"] = fmt.Sprintf("%016x", snap.Checksum)
	stats["records"] = len(snap.Records)
	stats["conductors"] = snap.store.Count(context.Background())
	stats["invalidDates"] = snap.InvalidDates
	stats["roles"] = len(snap.Options.Roles)
	stats["decades"] = len(snap.Options.Decades)
	return stats
}

func sourceName(path string) string {
	if path == "" {
		return dataset.EmbeddedSource
	}
	return path
}
