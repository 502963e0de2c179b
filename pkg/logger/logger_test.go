package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(Init(WithWriter(&bytes.Buffer{})), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then Get and Named return loggers", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("test"), ShouldNotBeNil)
		})
	})
}

func TestLoggerText(t *testing.T) {
	Convey("Given a text logger", t, func() {
		var buf bytes.Buffer
		So(SetLevelString("info"), ShouldBeNil)
		l := New(WithWriter(&buf)).Named("dataset")

		Convey("When logging with fields", func() {
			l.Info(context.Background(), "loaded", Int("records", 3), Bool("embedded", true), Duration("took", time.Millisecond))

			Convey("Then the line carries the fields, component and caller", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "msg=loaded")
				So(out, ShouldContainSubstring, "records=3")
				So(out, ShouldContainSubstring, "embedded=true")
				So(out, ShouldContainSubstring, "component=dataset")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the level", func() {
			l.Debug(context.Background(), "hidden")
			So(buf.Len(), ShouldEqual, 0)
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a json logger", t, func() {
		var buf bytes.Buffer
		So(SetLevelString("debug"), ShouldBeNil)
		defer func() { _ = SetLevelString("info") }()
		l := New(WithWriter(&buf), WithFormat("JSON"))

		l.Warn(context.Background(), "reload failed", Error(errors.New("boom")), String("path", "data.json"))

		Convey("Then each line is a JSON object", func() {
			var line map[string]any
			So(json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line), ShouldBeNil)
			So(line["msg"], ShouldEqual, "reload failed")
			So(line["level"], ShouldEqual, "WARN")
			So(line["error"], ShouldEqual, "boom")
			So(line["path"], ShouldEqual, "data.json")
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		for _, lvl := range []string{"debug", "INFO", "", "warning", "error"} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		So(SetLevelString("info"), ShouldBeNil)
	})
}

func TestFatal(t *testing.T) {
	Convey("Given a logger with a stubbed exit", t, func() {
		var buf bytes.Buffer
		code := -1
		l := &slogLogger{logger: New(WithWriter(&buf)).(*slogLogger).logger, exit: func(c int) { code = c }}

		l.Fatal(context.Background(), "fatal")
		So(code, ShouldEqual, 1)
		So(buf.String(), ShouldContainSubstring, "level=ERROR")
	})
}
