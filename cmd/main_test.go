package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/classpick/classpick/internal/adapters/http/api"
	"github.com/classpick/classpick/internal/adapters/http/site"
	"github.com/classpick/classpick/internal/adapters/http/swagger"
	app "github.com/classpick/classpick/internal/app"
	"github.com/classpick/classpick/internal/config"
	"github.com/classpick/classpick/pkg/logger"
	"github.com/classpick/classpick/pkg/timing"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("CLASSPICK_ADDR", ":8080")
			_ = os.Setenv("CLASSPICK_HISTORY_LIMIT", "25")
			_ = os.Setenv("CLASSPICK_CARD_COUNT", "5")
			defer func() {
				_ = os.Unsetenv("CLASSPICK_ADDR")
				_ = os.Unsetenv("CLASSPICK_HISTORY_LIMIT")
				_ = os.Unsetenv("CLASSPICK_CARD_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 25)
				convey.So(cfg.CardCount, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with config-derived options", func() {
				cfg := config.New()
				svc := app.New(serviceOptions(context.Background(), cfg, logger.Nop())...)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, svc)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		convey.Convey("When testing full application setup", func() {
			dir := t.TempDir()
			_ = os.Setenv("CLASSPICK_ADDR", ":8080")
			_ = os.Setenv("CLASSPICK_STATE_PATH", dir+"/state.json")
			defer func() {
				_ = os.Unsetenv("CLASSPICK_ADDR")
				_ = os.Unsetenv("CLASSPICK_STATE_PATH")
			}()

			convey.Convey("Then all components should work together", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)

				opts := serviceOptions(ctx, cfg, logger.Nop())
				opts = append(opts, app.WithScheduler(timing.NewFake(time.Unix(0, 0))))
				svc := app.New(opts...)
				convey.So(svc, convey.ShouldNotBeNil)
				convey.So(svc.Start(ctx), convey.ShouldBeNil)

				server := api.NewServer(svc, svc)
				convey.So(server, convey.ShouldNotBeNil)

				mux := http.NewServeMux()
				convey.So(mux, convey.ShouldNotBeNil)

				swagger.Register(ctx, mux)
				site.Register(ctx, mux)
				server.Register(ctx, mux)

				svc.Stop()
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("CLASSPICK_ADDR", "")
			defer func() { _ = os.Unsetenv("CLASSPICK_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing state persistence with an unusable path", func() {
			cfg := config.New()
			cfg.StatePath = string([]byte{0})

			convey.Convey("Then service options should still be usable", func() {
				opts := serviceOptions(context.Background(), cfg, logger.Nop())
				svc := app.New(opts...)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})
	})
}
