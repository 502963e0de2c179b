package service

import "errors"

// Sentinel errors returned by Service queries.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNotFound   = errors.New("conductor not found")
	ErrBadRequest = errors.New("bad request")
)
