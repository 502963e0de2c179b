package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/baton/internal/adapters/export"
	. "github.com/smartystreets/goconvey/convey"
)

const archive = `[
  {"show_info": {"title": "Show1", "opening": "1950-05-01", "performances": 1200},
   "conductor_info": {"name": "Alice", "role": "Conductor"}, "decade": 1950},
  {"show_info": {"title": "Show2", "opening": "1960-01-01", "performances": 500},
   "conductor_info": {"name": "Bob", "role": "Music Director"}, "decade": 1960},
  {"show_info": {"title": "Show3", "opening": "1955-01-01", "performances": 50},
   "conductor_info": {"name": "Alice", "role": "Music Director"}, "decade": 1950}
]`

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI(t *testing.T) {
	Convey("Given an archive file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "archive.json")
		So(os.WriteFile(path, []byte(archive), 0o600), ShouldBeNil)

		Convey("export writes the filtered CSV", func() {
			out, err := execute("export", "--dataset", path, "--decade", "1950")
			So(err, ShouldBeNil)
			rows, err := export.Read(strings.NewReader(out))
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
			So(rows[0].Production, ShouldEqual, "Show1")
			So(rows[1].Production, ShouldEqual, "Show3")
		})

		Convey("export selects decade zero when asked", func() {
			zero := filepath.Join(dir, "zero.json")
			So(os.WriteFile(zero, []byte(`[
  {"show_info": {"title": "Ancient", "opening": "1920-01-01"},
   "conductor_info": {"name": "Zed", "role": "Conductor"}, "decade": 0},
  {"show_info": {"title": "Modern", "opening": "1950-01-01"},
   "conductor_info": {"name": "Amy", "role": "Conductor"}, "decade": 1950}
]`), 0o600), ShouldBeNil)

			out, err := execute("export", "-d", zero, "--decade", "0")
			So(err, ShouldBeNil)
			rows, err := export.Read(strings.NewReader(out))
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1)
			So(rows[0].Production, ShouldEqual, "Ancient")

			out, err = execute("export", "-d", zero)
			So(err, ShouldBeNil)
			rows, err = export.Read(strings.NewReader(out))
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
		})

		Convey("export can write to a file", func() {
			target := filepath.Join(dir, "out.csv")
			_, err := execute("export", "-d", path, "-o", target, "--conductor", "Bob")
			So(err, ShouldBeNil)
			b, err := os.ReadFile(target)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"Bob","Music Director","Show2"`)
		})

		Convey("highlights prints a table", func() {
			out, err := execute("highlights", "-d", path, "-n", "1")
			So(err, ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			So(len(lines), ShouldEqual, 2)
			So(lines[0], ShouldStartWith, "RANK")
			So(lines[1], ShouldContainSubstring, "Alice")
			So(lines[1], ShouldContainSubstring, "historical_pioneer")
		})

		Convey("highlights prints JSON", func() {
			out, err := execute("highlights", "-d", path, "--json")
			So(err, ShouldBeNil)
			var hs []map[string]any
			So(json.Unmarshal([]byte(out), &hs), ShouldBeNil)
			So(len(hs), ShouldEqual, 2)
		})

		Convey("stream lists years with records", func() {
			out, err := execute("stream", "-d", path)
			So(err, ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			So(len(lines), ShouldEqual, 4)
			So(out, ShouldContainSubstring, "1955")
		})

		Convey("summary prints the totals", func() {
			out, err := execute("summary", "-d", path, "--search", "alice")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Records")
			So(out, ShouldContainSubstring, "1950s")
			So(out, ShouldNotContainSubstring, "1960s")
		})

		Convey("svg renders the page to a file", func() {
			target := filepath.Join(dir, "page.html")
			out, err := execute("svg", "-d", path, "-o", target, "--layout", "compact")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, target)
			b, err := os.ReadFile(target)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `<svg id="spiral" viewBox="0 0 720.00 720.00"`)
		})

		Convey("bad input fails", func() {
			_, err := execute("summary", "-d", path, "--category", "tuba")
			So(err, ShouldNotBeNil)
			_, err = execute("highlights", "-d", filepath.Join(dir, "missing.json"))
			So(err, ShouldNotBeNil)
			_, err = execute("svg", "-d", path, "-o", filepath.Join(dir, "x.html"), "--layout", "poster")
			So(err, ShouldNotBeNil)
		})
	})
}
