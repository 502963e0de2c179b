// Package repository keeps conductor standings in an ordered in-memory
// store.
package repository

import (
	"context"

	"github.com/okian/baton/internal/domain/ranking"
)

// Entry is one row of the standings.
type Entry struct {
	// Position is the 1-based place in standings order.
	Position int `json:"position"`
	// Rank is the dense rank by record count; conductors with equal
	// counts share it.
	Rank      int                `json:"rank"`
	Aggregate *ranking.Aggregate `json:"conductor"`
}

// Store provides read/write access to the standings.
type Store interface {
	// Replace swaps the whole standings for aggs.
	Replace(ctx context.Context, aggs []*ranking.Aggregate) error

	// Rank returns the entry of a conductor.
	// Returns ErrNotFound if the name is unknown.
	Rank(ctx context.Context, name string) (Entry, error)

	// TopN returns the first n entries in standings order.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of conductors held.
	Count(ctx context.Context) int
}
