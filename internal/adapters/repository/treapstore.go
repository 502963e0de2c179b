package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/baton/internal/domain/ranking"
	"github.com/okian/baton/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering follows ranking.Compare: record count DESC, first production
// ASC, name ASC. In-order traversal yields the standings from first to
// last. Node priorities are hashes of the name, so the shape depends only
// on the set of names and not on insertion order.

// Snapshot is an immutable view of the standings published after every
// write.
type Snapshot struct {
	RankByName     map[string]int
	PositionByName map[string]int
	TopCache       []Entry
}

type node struct {
	agg   *ranking.Aggregate
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func priority(name string) uint64 {
	return xxhash.Sum64String(name)
}

func insert(n *node, agg *ranking.Aggregate) *node {
	if n == nil {
		return &node{agg: agg, prio: priority(agg.Name), size: 1}
	}
	if ranking.Less(agg, n.agg) {
		n.left = insert(n.left, agg)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, agg)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, agg *ranking.Aggregate) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.agg.Name == agg.Name:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, agg)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, agg)
		}
	case ranking.Less(agg, n.agg):
		n.left = deleteNode(n.left, agg)
	default:
		n.right = deleteNode(n.right, agg)
	}
	fix(n)
	return n
}

// position returns the 1-based in-order index of agg.
func position(n *node, agg *ranking.Aggregate) int {
	pos := 0
	for n != nil {
		switch {
		case n.agg.Name == agg.Name:
			return pos + nsize(n.left) + 1
		case ranking.Less(agg, n.agg):
			n = n.left
		default:
			pos += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

// collect appends up to limit aggregates in standings order.
func collect(n *node, limit int, out *[]*ranking.Aggregate) {
	if n == nil || len(*out) >= limit {
		return
	}
	collect(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.agg)
	}
	if len(*out) < limit {
		collect(n.right, limit, out)
	}
}

// TreapStore is a Store guarded by a RWMutex with lock-free snapshot reads.
type TreapStore struct {
	mu           sync.RWMutex
	root         *node
	byName       map[string]*ranking.Aggregate
	topCacheSize int

	snapshot atomic.Pointer[Snapshot]
}

// NewTreapStore constructs an empty treap store.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		topCacheSize: 100,
		byName:       make(map[string]*ranking.Aggregate),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(&Snapshot{RankByName: map[string]int{}, PositionByName: map[string]int{}})
	return s
}

// Replace implements Store.Replace.
func (s *TreapStore) Replace(_ context.Context, aggs []*ranking.Aggregate) error {
	start := time.Now()
	defer func() { metrics.RecordStandingsUpdateLatency(millisSince(start)) }()

	var root *node
	byName := make(map[string]*ranking.Aggregate, len(aggs))
	for _, a := range aggs {
		if a == nil {
			return ErrNilAggregate
		}
		if old, ok := byName[a.Name]; ok {
			root = deleteNode(root, old)
		}
		byName[a.Name] = a
		root = insert(root, a)
	}

	s.mu.Lock()
	s.root, s.byName = root, byName
	s.publishSnapshot()
	s.mu.Unlock()

	metrics.UpdateStandingsSize(len(byName))
	return nil
}

// Rank implements Store.Rank in O(log n) for the position; the dense rank
// comes from the current snapshot.
func (s *TreapStore) Rank(_ context.Context, name string) (Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordStandingsQueryLatency(millisSince(start)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	agg, ok := s.byName[name]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	return Entry{
		Position:  position(s.root, agg),
		Rank:      s.snapshot.Load().RankByName[name],
		Aggregate: agg,
	}, nil
}

// TopN implements Store.TopN. Results up to the cache size come straight
// from the snapshot.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordStandingsQueryLatency(millisSince(start)) }()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	snap := s.snapshot.Load()
	if n <= s.topCacheSize || len(snap.TopCache) < s.topCacheSize {
		top := snap.TopCache[:min(n, len(snap.TopCache))]
		return append([]Entry(nil), top...), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	aggs := make([]*ranking.Aggregate, 0, n)
	collect(s.root, n, &aggs)
	return entries(aggs, snap.RankByName), nil
}

// Count implements Store.Count.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}

// Snapshot returns the latest published snapshot.
func (s *TreapStore) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// publishSnapshot rebuilds ranks and the top cache. Callers hold mu.
func (s *TreapStore) publishSnapshot() {
	start := time.Now()

	all := make([]*ranking.Aggregate, 0, len(s.byName))
	collect(s.root, len(s.byName), &all)

	rankByName := make(map[string]int, len(all))
	positionByName := make(map[string]int, len(all))
	for i, r := range denseRanks(all) {
		rankByName[all[i].Name] = r
		positionByName[all[i].Name] = i + 1
	}

	top := entries(all[:min(s.topCacheSize, len(all))], rankByName)
	s.snapshot.Store(&Snapshot{RankByName: rankByName, PositionByName: positionByName, TopCache: top})

	metrics.RecordStandingsSnapshot(millisSince(start))
}

func entries(aggs []*ranking.Aggregate, ranks map[string]int) []Entry {
	out := make([]Entry, len(aggs))
	for i, a := range aggs {
		out[i] = Entry{Position: i + 1, Rank: ranks[a.Name], Aggregate: a}
	}
	return out
}

// denseRanks assigns ranks over aggregates in standings order: equal
// totals share a rank and the next total gets the next integer.
func denseRanks(aggs []*ranking.Aggregate) []int {
	out := make([]int, len(aggs))
	rank := 0
	for i, a := range aggs {
		if i == 0 || a.Total != aggs[i-1].Total {
			rank++
		}
		out[i] = rank
	}
	return out
}

func millisSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
