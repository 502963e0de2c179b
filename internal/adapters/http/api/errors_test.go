package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	service "github.com/okian/baton/internal/app"
	"github.com/okian/baton/internal/domain/filter"
	. "github.com/smartystreets/goconvey/convey"
)

func TestErrors(t *testing.T) {
	Convey("Given wrapped errors", t, func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{Wrap("op", fmt.Errorf("%w: x", service.ErrNotFound)), http.StatusNotFound, "not_found"},
			{Wrap("op", service.ErrBadRequest), http.StatusBadRequest, "bad_request"},
			{Wrap("op", filter.ErrInvalidDecade), http.StatusBadRequest, "bad_request"},
			{Wrap("op", service.ErrNotStarted), http.StatusServiceUnavailable, "not_ready"},
			{Wrap("op", errors.New("disk on fire")), http.StatusInternalServerError, "internal_error"},
			{NewKind("op", ErrBadRequest), http.StatusBadRequest, "bad_request"},
			{WrapKind("op", ErrNotFound, errors.New("gone")), http.StatusNotFound, "not_found"},
		}

		Convey("Then kinds map to status codes", func() {
			for _, c := range cases {
				status, code := statusOf(c.err)
				So(status, ShouldEqual, c.status)
				So(code, ShouldEqual, c.code)
			}
		})

		Convey("Then causes stay reachable through errors.Is", func() {
			err := Wrap("api.rank", fmt.Errorf("%w: %q", service.ErrNotFound, "x"))
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(err.Error(), ShouldStartWith, "api.rank: ")
		})

		Convey("Then Wrap of nil is nil", func() {
			So(Wrap("op", nil), ShouldBeNil)
		})
	})
}
