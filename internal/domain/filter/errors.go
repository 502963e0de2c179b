package filter

import "errors"

var (
	ErrInvalidDecade   = errors.New("invalid decade")
	ErrInvalidCategory = errors.New("invalid category")
)
