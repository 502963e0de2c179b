package export_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/baton/internal/adapters/export"
	"github.com/okian/baton/internal/domain/filter"
	"github.com/okian/baton/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func records() []model.Record {
	d := func(n int) *int { return &n }
	return model.Prepare([]model.RawRecord{
		{ShowInfo: &model.RawShow{Title: `The "Big" Show, Part 2`, Opening: "1950-01-01"}, ConductorInfo: &model.RawConductor{Name: "A", Role: "Conductor", Photo: "https://example.org/a.jpg"}, Decade: d(1950)},
		{ShowInfo: &model.RawShow{Title: "Line\nBreak", Opening: "1960-01-01"}, ConductorInfo: &model.RawConductor{Name: "B", Role: "Music Director"}, Decade: d(1960)},
		{ShowInfo: &model.RawShow{Title: "Show3", Opening: "1955-01-01"}, ConductorInfo: &model.RawConductor{Name: "A", Role: "Conductor"}, Decade: d(0)},
		{ShowInfo: &model.RawShow{Title: "Undated", Opening: "someday"}},
	})
}

func TestWrite(t *testing.T) {
	Convey("Given records with awkward characters", t, func() {
		var buf bytes.Buffer
		So(export.Write(&buf, records()), ShouldBeNil)
		lines := strings.Split(buf.String(), "\n")

		Convey("Then the header and every field are quoted", func() {
			So(lines[0], ShouldEqual, `"Conductor","Role","Production","Opening Date","Decade","Photo"`)
			So(lines[1], ShouldEqual, `"A","Conductor","The ""Big"" Show, Part 2","1950-01-01","1950","https://example.org/a.jpg"`)
		})

		Convey("Then missing values are empty and zero decades are kept", func() {
			So(buf.String(), ShouldContainSubstring, `"A","Conductor","Show3","1955-01-01","0",""`)
			So(buf.String(), ShouldContainSubstring, `"","","Undated","someday","",""`)
		})

		Convey("Then lines are joined without a trailing newline", func() {
			So(buf.String(), ShouldNotEndWith, "\n")
		})
	})
}

func TestRoundTrip(t *testing.T) {
	Convey("Given a filtered export", t, func() {
		filtered := filter.Apply(records(), filter.Query{Search: "a"})
		var buf bytes.Buffer
		So(export.Write(&buf, filtered), ShouldBeNil)

		rows, err := export.Read(&buf)

		Convey("Then reading recovers the same tuples in order", func() {
			So(err, ShouldBeNil)
			want := make([]export.Row, len(filtered))
			for i := range filtered {
				want[i] = export.RowOf(&filtered[i])
			}
			So(cmp.Diff(want, rows), ShouldBeEmpty)
		})
	})

	Convey("Given fields with carriage returns", t, func() {
		recs := model.Prepare([]model.RawRecord{
			{ShowInfo: &model.RawShow{Title: "One\rTwo", Opening: "1970-01-01"}, ConductorInfo: &model.RawConductor{Name: "A\r\nB", Role: "Conductor"}},
		})
		var buf bytes.Buffer
		So(export.Write(&buf, recs), ShouldBeNil)
		So(buf.String(), ShouldNotContainSubstring, "\r")

		rows, err := export.Read(&buf)

		Convey("Then line breaks come back as LF and the tuples match", func() {
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].Conductor, ShouldEqual, "A\nB")
			So(rows[0].Production, ShouldEqual, "One\nTwo")
			So(cmp.Diff([]export.Row{export.RowOf(&recs[0])}, rows), ShouldBeEmpty)
		})
	})

	Convey("Given an empty selection", t, func() {
		var buf bytes.Buffer
		So(export.Write(&buf, nil), ShouldBeNil)
		rows, err := export.Read(&buf)
		So(err, ShouldBeNil)
		So(rows, ShouldBeEmpty)
	})

	Convey("Given a foreign csv", t, func() {
		_, err := export.Read(strings.NewReader("a,b,c,d,e,f\n"))
		So(errors.Is(err, export.ErrBadHeader), ShouldBeTrue)
	})
}
