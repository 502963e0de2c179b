package temporal_test

import (
	"math"
	"testing"
	"time"

	"github.com/okian/baton/internal/domain/temporal"
	. "github.com/smartystreets/goconvey/convey"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateToAngle(t *testing.T) {
	Convey("Given the default domain", t, func() {
		d := temporal.Default()

		Convey("Then the domain ends map to the spiral ends", func() {
			So(d.DateToAngle(d.Min), ShouldAlmostEqual, -math.Pi/2, 1e-12)
			So(d.DateToAngle(d.Max), ShouldAlmostEqual, -math.Pi/2+2*math.Pi*3.2, 1e-9)
		})

		Convey("Then the angle never decreases across the domain", func() {
			prev := math.Inf(-1)
			for cur := d.Min; !cur.After(d.Max); cur = cur.AddDate(0, 0, 17) {
				a := d.DateToAngle(cur)
				So(a, ShouldBeGreaterThanOrEqualTo, prev)
				prev = a
			}
		})

		Convey("Then dates outside the domain are not clamped", func() {
			So(d.DateToAngle(day(1900, 1, 1)), ShouldBeLessThan, d.StartAngle)
			So(d.DateToAngle(day(2040, 1, 1)), ShouldBeGreaterThan, d.StartAngle+d.MaxTheta())
		})
	})
}

func TestDateToYearIndex(t *testing.T) {
	Convey("Given the default domain", t, func() {
		d := temporal.Default()

		Convey("Then in-domain years index from 1915", func() {
			for y := 1915; y <= 2026; y += 7 {
				So(d.DateToYearIndex(day(y, 6, 1)), ShouldEqual, y-1915)
			}
			So(d.DateToYearIndex(day(2026, 12, 31)), ShouldEqual, 111)
		})

		Convey("Then out-of-domain years are clamped", func() {
			So(d.DateToYearIndex(day(1880, 1, 1)), ShouldEqual, 0)
			So(d.DateToYearIndex(day(2099, 1, 1)), ShouldEqual, 111)
		})

		Convey("Then the year grid is dense", func() {
			years := d.Years()
			So(len(years), ShouldEqual, 112)
			So(d.YearCount(), ShouldEqual, 112)
			So(years[0], ShouldEqual, 1915)
			So(years[len(years)-1], ShouldEqual, 2026)
		})
	})
}

func TestRevealDelay(t *testing.T) {
	Convey("Given the default domain", t, func() {
		d := temporal.Default()
		So(d.RevealDelay(1915, true), ShouldEqual, 0)
		So(d.RevealDelay(2026, true), ShouldEqual, 4)
		So(d.RevealDelay(3000, true), ShouldEqual, 4)
		So(d.RevealDelay(0, false), ShouldEqual, 0)
	})
}
