package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/carebridge/carebridge/internal/adapters/http/api"
	"github.com/carebridge/carebridge/internal/adapters/http/swagger"
	app "github.com/carebridge/carebridge/internal/app"
	"github.com/carebridge/carebridge/internal/config"
	"github.com/carebridge/carebridge/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("CAREBRIDGE_ADDR", ":8080")
			_ = os.Setenv("CAREBRIDGE_QUEUE_SIZE", "1000")
			_ = os.Setenv("CAREBRIDGE_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("CAREBRIDGE_ADDR")
				_ = os.Unsetenv("CAREBRIDGE_QUEUE_SIZE")
				_ = os.Unsetenv("CAREBRIDGE_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithWorkerCount(8),
					app.WithQueueSize(2000),
					app.WithDedupeSize(1000),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, svc, 100, "sky")
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing source selection", func() {
			convey.Convey("Then an empty db_path selects the stub", func() {
				cfg := config.New()
				name, src, err := buildSource(cfg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(name, convey.ShouldEqual, "stub")
				convey.So(src, convey.ShouldNotBeNil)
			})

			convey.Convey("And a db_path selects sqlite", func() {
				cfg := config.New()
				cfg.DBPath = t.TempDir() + "/care.db"
				name, src, err := buildSource(cfg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(name, convey.ShouldEqual, "sqlite")
				convey.So(src, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then it should run until its context expires", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics update", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateServiceMetrics(svc)
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		convey.Convey("When testing full application setup", func() {
			_ = os.Setenv("CAREBRIDGE_ADDR", ":8080")
			_ = os.Setenv("CAREBRIDGE_QUEUE_SIZE", "1000")
			_ = os.Setenv("CAREBRIDGE_WORKER_COUNT", "2")
			defer func() {
				_ = os.Unsetenv("CAREBRIDGE_ADDR")
				_ = os.Unsetenv("CAREBRIDGE_QUEUE_SIZE")
				_ = os.Unsetenv("CAREBRIDGE_WORKER_COUNT")
			}()

			convey.Convey("Then all components should work together", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)

				svc := app.New(
					app.WithWorkerCount(cfg.WorkerCount),
					app.WithQueueSize(cfg.QueueSize),
					app.WithDedupeSize(cfg.DedupeSize),
				)
				convey.So(svc, convey.ShouldNotBeNil)

				server := api.NewServer(svc, svc, cfg.MaxUpcomingLimit, cfg.DefaultColor)
				convey.So(server, convey.ShouldNotBeNil)

				mux := http.NewServeMux()
				convey.So(mux, convey.ShouldNotBeNil)

				server.Register(ctx, mux)
				swagger.Register(ctx, mux)

				svc.Stop()
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("CAREBRIDGE_ADDR", "")
			defer func() { _ = os.Unsetenv("CAREBRIDGE_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing service creation with invalid options", func() {
			convey.Convey("Then service should handle invalid options gracefully", func() {
				svc := app.New(
					app.WithWorkerCount(0),
					app.WithQueueSize(0),
					app.WithDedupeSize(0),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})
	})
}
