package api

import (
	"errors"
	"net/http"

	service "github.com/okian/baton/internal/app"
	"github.com/okian/baton/internal/domain/filter"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrNotReady   = errors.New("dataset not loaded")
	ErrInternal   = errors.New("internal error")
)

// Error carries the operation that failed, the kind used to choose a
// status code, and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Kind != nil:
		return e.Op + ": " + e.Kind.Error()
	default:
		return e.Op
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap attaches op to err and derives the kind from err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kindOf(err), Err: err}
}

// NewKind returns an error of the given kind with no further cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind attaches op and an explicit kind to err.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func kindOf(err error) error {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrBadRequest),
		errors.Is(err, filter.ErrInvalidDecade),
		errors.Is(err, filter.ErrInvalidCategory):
		return ErrBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, service.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrNotReady), errors.Is(err, service.ErrNotStarted):
		return ErrNotReady
	default:
		return ErrInternal
	}
}

// statusOf maps an error to its HTTP status and response code.
func statusOf(err error) (int, string) {
	switch kindOf(err) {
	case ErrBadRequest:
		return http.StatusBadRequest, "bad_request"
	case ErrNotFound:
		return http.StatusNotFound, "not_found"
	case ErrNotReady:
		return http.StatusServiceUnavailable, "not_ready"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
