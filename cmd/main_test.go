package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/baton/internal/config"
	"github.com/okian/baton/internal/domain/filter"
	"github.com/okian/baton/pkg/logger"
	"github.com/okian/baton/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		ctx := context.Background()

		convey.Convey("When testing configuration loading", func() {
			t.Setenv("BATON_ADDR", ":8080")
			t.Setenv("BATON_LAYOUT", "compact")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")

			convey.Convey("Then the service follows it", func() {
				svc := newService(cfg, logger.Get())
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				defer svc.Stop()

				view, err := svc.Spiral(ctx, filter.Query{}, "")
				convey.So(err, convey.ShouldBeNil)
				convey.So(view.Layout.Name, convey.ShouldEqual, "compact")
			})
		})

		convey.Convey("When building the HTTP mux", func() {
			svc := newService(config.New(), logger.Get())
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			mux, err := newMux(ctx, svc)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then every surface is routed", func() {
				for _, target := range []string{"/", "/api/records", "/api/highlights", "/api/export.csv", "/openapi.yaml", "/api-docs", "/healthz", "/stats"} {
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
			})
		})

		convey.Convey("When running until cancelled", func() {
			cfg := config.New()
			cfg.Addr = "127.0.0.1:0"
			runCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
			defer cancel()

			convey.So(run(runCtx, cfg, logger.Get()), convey.ShouldBeNil)
		})

		convey.Convey("When running with a watched dataset", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "archive.json")
			convey.So(os.WriteFile(path, []byte(`[]`), 0o600), convey.ShouldBeNil)

			cfg := config.New()
			cfg.Addr = "127.0.0.1:0"
			cfg.DatasetPath = path
			cfg.WatchDataset = true
			runCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
			defer cancel()

			convey.So(run(runCtx, cfg, logger.Get()), convey.ShouldBeNil)
		})

		convey.Convey("When the dataset is missing", func() {
			cfg := config.New()
			cfg.DatasetPath = filepath.Join(t.TempDir(), "missing.json")
			convey.So(run(ctx, cfg, logger.Get()), convey.ShouldNotBeNil)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			startSystemMetricsUpdater(ctx)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("metrics updater did not stop")
		}
	})
}

func TestMetricsOptions(t *testing.T) {
	convey.Convey("Given metrics settings from config", t, func() {
		defer metrics.Init()
		cfg := config.New()

		convey.Convey("When labels are configured", func() {
			cfg.MetricsLabels = map[string]string{"env": "staging"}
			metrics.Init(metricsOptions(cfg)...)
			updateSystemMetrics()

			convey.Convey("Then every exposed metric carries them", func() {
				mfs, err := metrics.GetRegistry().Gather()
				convey.So(err, convey.ShouldBeNil)
				convey.So(mfs, convey.ShouldNotBeEmpty)
				for _, mf := range mfs {
					for _, m := range mf.GetMetric() {
						found := false
						for _, l := range m.GetLabel() {
							if l.GetName() == "env" && l.GetValue() == "staging" {
								found = true
							}
						}
						convey.So(found, convey.ShouldBeTrue)
					}
				}
			})
		})

		convey.Convey("When metrics are disabled", func() {
			cfg.MetricsEnabled = false
			metrics.Init(metricsOptions(cfg)...)
			updateSystemMetrics()

			convey.Convey("Then the exposed registry stays empty", func() {
				mfs, err := metrics.GetRegistry().Gather()
				convey.So(err, convey.ShouldBeNil)
				convey.So(mfs, convey.ShouldBeEmpty)
			})
		})
	})
}
