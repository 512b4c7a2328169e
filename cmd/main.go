package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/classpick/classpick/internal/adapters/http/api"
	"github.com/classpick/classpick/internal/adapters/http/site"
	"github.com/classpick/classpick/internal/adapters/http/swagger"
	statestore "github.com/classpick/classpick/internal/adapters/statestore"
	app "github.com/classpick/classpick/internal/app"
	"github.com/classpick/classpick/internal/config"
	"github.com/classpick/classpick/internal/domain/model"
	"github.com/classpick/classpick/internal/sim/cards"
	"github.com/classpick/classpick/internal/sim/race"
	"github.com/classpick/classpick/internal/sim/wheel"
	"github.com/classpick/classpick/pkg/logger"
	"github.com/classpick/classpick/pkg/metrics"
	"github.com/classpick/classpick/pkg/timing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := serviceOptions(ctx, cfg, loggerInstance)

	// Create and start the service with configuration options
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register the API reference and the documentation site
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// serviceOptions maps the loaded config onto service options.
func serviceOptions(ctx context.Context, cfg *config.Config, log logger.Logger) []app.Option {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithScheduler(timing.NewWall(
			timing.WithFrameInterval(time.Duration(cfg.FrameIntervalMS) * time.Millisecond),
		)),
		app.WithHistoryLimit(cfg.HistoryLimit),
		app.WithDefaultSettings(app.Settings{
			Mode:          model.Mode(cfg.DefaultMode),
			Visual:        model.Visual(cfg.DefaultVisual),
			NoRepeatNames: cfg.NoRepeatNames,
			NoRepeatTasks: cfg.NoRepeatTasks,
			GroupCount:    cfg.GroupCount,
		}),
		app.WithWheelOptions(
			wheel.WithDuration(time.Duration(cfg.WheelSpinDurationMS)*time.Millisecond),
			wheel.WithFullSpins(cfg.WheelFullSpins),
		),
		app.WithRaceOptions(
			race.WithBaseDuration(time.Duration(cfg.RaceBaseDurationMS)*time.Millisecond),
			race.WithExtraRange(time.Duration(cfg.RaceExtraRangeMS)*time.Millisecond),
			race.WithMinElapsed(time.Duration(cfg.RaceMinElapsedMS)*time.Millisecond),
			race.WithCelebration(time.Duration(cfg.RaceCelebrationMS)*time.Millisecond),
			race.WithSpeedRange(cfg.RaceSpeedMin, cfg.RaceSpeedMax),
			race.WithBoost(cfg.RaceBoost),
		),
		app.WithCardOptions(
			cards.WithCardCount(cfg.CardCount),
			cards.WithShuffleDuration(time.Duration(cfg.CardShuffleMS)*time.Millisecond),
			cards.WithPickDuration(time.Duration(cfg.CardPickMS)*time.Millisecond),
			cards.WithRevealHold(time.Duration(cfg.CardRevealHoldMS)*time.Millisecond),
		),
	}

	if cfg.StatePath != "" {
		store, err := statestore.NewFileStore(cfg.StatePath, statestore.WithLogger(log))
		if err != nil {
			log.Warn(ctx, "state persistence disabled", logger.Error(err))
		} else {
			opts = append(opts, app.WithStateStore(store))
		}
	}
	return opts
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
