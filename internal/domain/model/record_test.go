package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/baton/internal/domain/model"
	"github.com/okian/baton/internal/domain/role"
	. "github.com/smartystreets/goconvey/convey"
)

func raw(name, r, title, opening string) model.RawRecord {
	return model.RawRecord{
		ConductorInfo: &model.RawConductor{Name: name, Role: r},
		ShowInfo:      &model.RawShow{Title: title, Opening: opening},
	}
}

func TestParseOpening(t *testing.T) {
	Convey("Given dataset date strings", t, func() {
		Convey("When the date is a plain ISO day", func() {
			o := model.ParseOpening("1950-03-15")
			So(o.Valid, ShouldBeTrue)
			So(o.Time.Equal(time.Date(1950, 3, 15, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			y, ok := o.Year()
			So(ok, ShouldBeTrue)
			So(y, ShouldEqual, 1950)
		})

		Convey("When the date is an RFC3339 timestamp", func() {
			o := model.ParseOpening("2001-12-01T20:00:00Z")
			So(o.Valid, ShouldBeTrue)
			So(o.Time.Year(), ShouldEqual, 2001)
		})

		Convey("When the date is missing or garbage", func() {
			So(model.ParseOpening("").Valid, ShouldBeFalse)
			So(model.ParseOpening("not a date").Valid, ShouldBeFalse)
			So(model.ParseOpening("1950-13-45").Valid, ShouldBeFalse)
			_, ok := model.ParseOpening("nope").Year()
			So(ok, ShouldBeFalse)
		})

		Convey("Then invalid dates order after valid ones", func() {
			valid := model.ParseOpening("1990-01-01")
			invalid := model.ParseOpening("")
			So(valid.Before(invalid), ShouldBeTrue)
			So(invalid.Before(valid), ShouldBeFalse)
		})

		Convey("Then JSON renders null for invalid dates", func() {
			b, err := json.Marshal(model.ParseOpening("x"))
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "null")
			b, err = json.Marshal(model.ParseOpening("1977-04-21"))
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `"1977-04-21"`)
		})
	})
}

func TestRawRecordDecoding(t *testing.T) {
	Convey("Given raw JSON with loose performance values", t, func() {
		payload := `[
			{"show_info":{"title":"A","opening":"1950-01-01","performances":1200},"conductor_info":{"name":"X","role":"Conductor"},"decade":1950},
			{"show_info":{"title":"B","opening":"1960-01-01","performances":"85"},"conductor_info":{"name":"Y","role":"Music Director"}},
			{"show_info":{"title":"C","opening":null,"performances":null},"conductor_info":null},
			{"show_info":{"title":"D","performances":"many"}}
		]`
		var raws []model.RawRecord
		So(json.Unmarshal([]byte(payload), &raws), ShouldBeNil)

		Convey("Then numbers and numeric strings are accepted", func() {
			So(float64(raws[0].ShowInfo.Performances), ShouldEqual, 1200)
			So(float64(raws[1].ShowInfo.Performances), ShouldEqual, 85)
		})

		Convey("Then null and garbage decode as zero", func() {
			So(float64(raws[2].ShowInfo.Performances), ShouldEqual, 0)
			So(float64(raws[3].ShowInfo.Performances), ShouldEqual, 0)
			So(raws[2].ConductorInfo, ShouldBeNil)
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given raw records with missing pieces", t, func() {
		decade := 1950
		raws := []model.RawRecord{
			raw("  Ada Stone ", "Conductor", "Show1", "1950-01-01"),
			{},
			{ShowInfo: &model.RawShow{Title: "Lonely", Opening: "garbage"}},
			{ConductorInfo: &model.RawConductor{Name: "Bea", Role: "Assistant Conductor"}, Decade: &decade},
		}
		before := raws[0].ConductorInfo.Name

		records := model.Normalize(raws)

		Convey("Then length and order are preserved", func() {
			So(len(records), ShouldEqual, len(raws))
			for i, r := range records {
				So(r.Index, ShouldEqual, i)
			}
		})

		Convey("Then the input is untouched", func() {
			So(raws[0].ConductorInfo.Name, ShouldEqual, before)
		})

		Convey("Then fields are trimmed and classified", func() {
			So(records[0].Conductor, ShouldEqual, "Ada Stone")
			So(records[0].Category, ShouldEqual, role.Conductor)
			So(records[0].Opening.Valid, ShouldBeTrue)
			So(records[3].Category, ShouldEqual, role.OtherLeadership)
			So(*records[3].Decade, ShouldEqual, 1950)
		})

		Convey("Then empty records default safely", func() {
			So(records[1].Conductor, ShouldEqual, "")
			So(records[1].ConductorOrUnknown(), ShouldEqual, model.Unknown)
			So(records[1].ShowOrUnknown(), ShouldEqual, model.Unknown)
			So(records[1].RoleOrUnknown(), ShouldEqual, model.Unknown)
			So(records[1].Category, ShouldEqual, role.OtherLeadership)
			So(records[1].Opening.Valid, ShouldBeFalse)
			So(records[1].Decade, ShouldBeNil)
		})

		Convey("Then malformed dates become the invalid sentinel", func() {
			So(records[2].Opening.Valid, ShouldBeFalse)
			So(records[2].OpeningRaw, ShouldEqual, "garbage")
		})

		Convey("Then ids are synthesized and unique", func() {
			So(records[0].ID, ShouldEqual, "Ada Stone-Show1-1950-01-01-0")
			So(records[1].ID, ShouldEqual, "Unknown-Unknown-Unknown-1")
			seen := map[string]bool{}
			for _, r := range records {
				So(seen[r.ID], ShouldBeFalse)
				seen[r.ID] = true
			}
		})
	})
}

func TestMarkPioneers(t *testing.T) {
	Convey("Given the three record example", t, func() {
		records := model.Normalize([]model.RawRecord{
			raw("A", "Conductor", "Show1", "1950-01-01"),
			raw("B", "Music Director", "Show2", "1960-01-01"),
			raw("A", "Conductor", "Show3", "1955-01-01"),
		})

		marked := model.MarkPioneers(records)

		Convey("Then the earliest record per role is the pioneer", func() {
			So(marked[0].Pioneer, ShouldBeTrue)
			So(marked[1].Pioneer, ShouldBeTrue)
			So(marked[2].Pioneer, ShouldBeFalse)
		})

		Convey("Then the input slice is not mutated", func() {
			for _, r := range records {
				So(r.Pioneer, ShouldBeFalse)
			}
		})

		Convey("Then running it twice gives the same result", func() {
			again := model.MarkPioneers(marked)
			for i := range marked {
				So(again[i].Pioneer, ShouldEqual, marked[i].Pioneer)
			}
		})
	})

	Convey("Given records tied on the earliest date", t, func() {
		records := model.Prepare([]model.RawRecord{
			raw("Zed", "Conductor", "S1", "1930-05-01"),
			raw("Amy", "Conductor", "S2", "1930-05-01"),
			raw("", "", "S3", "1920-01-01"),
			raw("Old", "Conductor", "S4", "bad date"),
		})

		Convey("Then the lexicographically smaller name wins", func() {
			So(records[0].Pioneer, ShouldBeFalse)
			So(records[1].Pioneer, ShouldBeTrue)
		})

		Convey("Then role-less and undated records are never pioneers", func() {
			So(records[2].Pioneer, ShouldBeFalse)
			So(records[3].Pioneer, ShouldBeFalse)
		})
	})
}
