package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/baton/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"BATON_CONFIG",
	"BATON_ADDR",
	"BATON_LOG_LEVEL",
	"BATON_LOG_FORMAT",
	"BATON_DATASET_PATH",
	"BATON_WATCH_DATASET",
	"BATON_LAYOUT",
	"BATON_HIGHLIGHT_LIMIT",
	"BATON_MAX_LIMIT",
	"BATON_TOP_SHOWS_LIMIT",
	"BATON_METRICS_ENABLED",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "baton.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BATON_ADDR", ":8080")
			_ = os.Setenv("BATON_DATASET_PATH", "/data/archive.json")
			_ = os.Setenv("BATON_WATCH_DATASET", "true")
			_ = os.Setenv("BATON_HIGHLIGHT_LIMIT", "8")
			_ = os.Setenv("BATON_LAYOUT", "compact")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DatasetPath, convey.ShouldEqual, "/data/archive.json")
				convey.So(cfg.WatchDataset, convey.ShouldBeTrue)
				convey.So(cfg.HighlightLimit, convey.ShouldEqual, 8)
				convey.So(cfg.Layout, convey.ShouldEqual, "compact")
			})
		})

		convey.Convey("When loading config with a YAML file and env", func() {
			path := writeConfigFile(t, `
addr: ":9090"
log_format: json
max_limit: 50
top_shows_limit: 10
metrics_labels:
  env: staging
`)
			_ = os.Setenv("BATON_CONFIG", path)
			_ = os.Setenv("BATON_MAX_LIMIT", "60")
			_ = os.Setenv("BATON_METRICS_ENABLED", "false")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env overrides file which overrides defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MaxLimit, convey.ShouldEqual, 60)
				convey.So(cfg.TopShowsLimit, convey.ShouldEqual, 10)
				convey.So(cfg.HighlightLimit, convey.ShouldEqual, 5)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MetricsLabels, convey.ShouldResemble, map[string]string{"env": "staging"})
			})
		})

		convey.Convey("When loading config with invalid YAML", func() {
			_ = os.Setenv("BATON_CONFIG", writeConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a missing file", func() {
			_ = os.Setenv("BATON_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("BATON_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
