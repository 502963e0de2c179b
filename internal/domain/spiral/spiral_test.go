package spiral_test

import (
	"math"
	"testing"
	"time"

	"github.com/okian/baton/internal/domain/model"
	"github.com/okian/baton/internal/domain/role"
	"github.com/okian/baton/internal/domain/spiral"
	"github.com/okian/baton/internal/domain/temporal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLayoutByName(t *testing.T) {
	Convey("Given preset names", t, func() {
		l, ok := spiral.LayoutByName("")
		So(ok, ShouldBeTrue)
		So(l, ShouldResemble, spiral.Desktop())

		l, ok = spiral.LayoutByName("Compact")
		So(ok, ShouldBeTrue)
		So(l.Center(), ShouldEqual, 360)
		So(l.BaseRadius, ShouldEqual, 35)

		_, ok = spiral.LayoutByName("poster")
		So(ok, ShouldBeFalse)
	})
}

func TestPoint(t *testing.T) {
	d := temporal.Default()
	l := spiral.Desktop()

	Convey("Given the domain start", t, func() {
		p := l.Point(d, d.Min, role.Conductor)

		Convey("Then the point sits straight above the center at the base radius", func() {
			r := 45 + 14*(-math.Pi/2)
			So(p.X, ShouldAlmostEqual, 400, 1e-9)
			So(p.Y, ShouldAlmostEqual, 400+r*math.Sin(-math.Pi/2), 1e-9)
		})
	})

	Convey("Given the same date on different lanes", t, func() {
		at := time.Date(1970, 6, 1, 0, 0, 0, 0, time.UTC)
		angle := d.DateToAngle(at)
		var prev float64
		for i, c := range role.Categories {
			p := l.Point(d, at, c)
			dist := math.Hypot(p.X-400, p.Y-400)
			want := 45 + float64(i)*16 + 14*angle

			Convey("Then lane "+c.Key()+" is one line gap further out", func() {
				So(dist, ShouldAlmostEqual, math.Abs(want), 1e-9)
				if i > 0 {
					So(dist, ShouldBeGreaterThan, prev)
				}
			})
			prev = dist
		}
	})
}

func TestGuide(t *testing.T) {
	Convey("Given a lane guide", t, func() {
		d := temporal.Default()
		l := spiral.Compact()
		g := l.Guide(d, role.MusicSupervisor)

		Convey("Then it runs from the first to the last domain date", func() {
			So(len(g), ShouldEqual, 721)
			first := l.Point(d, d.Min, role.MusicSupervisor)
			last := l.Point(d, d.Max, role.MusicSupervisor)
			So(g[0].X, ShouldAlmostEqual, first.X, 1e-9)
			So(g[720].Y, ShouldAlmostEqual, last.Y, 1e-6)
		})

		Convey("Then Guides returns one path per category in lane order", func() {
			paths := spiral.Guides(d, l)
			So(len(paths), ShouldEqual, 4)
			for i, p := range paths {
				So(p.Category.Lane(), ShouldEqual, i)
				So(len(p.Points), ShouldEqual, 721)
			}
			So(paths[role.MusicSupervisor.Lane()].Points, ShouldResemble, g)
		})
	})
}

func TestNotes(t *testing.T) {
	Convey("Given records with varied performances", t, func() {
		recs := model.Normalize([]model.RawRecord{
			{ShowInfo: &model.RawShow{Title: "Low", Opening: "1930-01-01", Performances: 10}, ConductorInfo: &model.RawConductor{Name: "A", Role: "Conductor"}},
			{ShowInfo: &model.RawShow{Title: "High", Opening: "1990-01-01", Performances: 110}, ConductorInfo: &model.RawConductor{Name: "B", Role: "Music Director"}},
			{ShowInfo: &model.RawShow{Title: "Undated", Performances: 5000}, ConductorInfo: &model.RawConductor{Name: "C", Role: "Conductor"}},
			{ShowInfo: &model.RawShow{Title: "Mid", Opening: "1960-01-01", Performances: 60}},
		})
		notes := spiral.Notes(temporal.Default(), spiral.Desktop(), recs)

		Convey("Then undated records are not placed", func() {
			So(len(notes), ShouldEqual, 3)
			So(notes[0].Show, ShouldEqual, "Low")
			So(notes[2].Show, ShouldEqual, "Mid")
		})

		Convey("Then note radii span the performance range", func() {
			So(notes[0].Radius, ShouldEqual, spiral.MinNoteRadius)
			So(notes[1].Radius, ShouldEqual, spiral.MaxNoteRadius)
			So(notes[2].Radius, ShouldAlmostEqual, 6.5)
		})

		Convey("Then missing fields read Unknown and land on the other lane", func() {
			So(notes[2].Conductor, ShouldEqual, model.Unknown)
			So(notes[2].Role, ShouldEqual, model.Unknown)
			So(notes[2].Lane, ShouldEqual, 3)
		})

		Convey("Then later notes reveal later", func() {
			So(notes[0].Delay, ShouldBeLessThan, notes[2].Delay)
			So(notes[2].Delay, ShouldBeLessThan, notes[1].Delay)
		})
	})

	Convey("Given equal performances", t, func() {
		recs := model.Normalize([]model.RawRecord{
			{ShowInfo: &model.RawShow{Title: "X", Opening: "1940-01-01", Performances: 7}},
		})
		notes := spiral.Notes(temporal.Default(), spiral.Desktop(), recs)
		So(notes[0].Radius, ShouldEqual, spiral.MinNoteRadius)
	})
}
