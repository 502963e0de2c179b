package repository

import "errors"

// Sentinel kinds for standings errors.
var (
	ErrNotFound     = errors.New("conductor not found")
	ErrInvalidLimit = errors.New("invalid standings limit")
	ErrNilAggregate = errors.New("nil aggregate")
)
