package testdraws

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/classpick/classpick/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete draw test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting classpick draw test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("names", config.NumNames),
		logger.Int("rounds", config.Rounds),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("interactive", config.Interactive),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Reset roster, tasks and history
	if err := resetService(ctx, config, client); err != nil {
		return fmt.Errorf("service reset failed: %w", err)
	}

	// Step 3: Seed the roster concurrently
	names := generateNames(config, stats)
	if err := seedRoster(ctx, config, client, names, stats); err != nil {
		return fmt.Errorf("roster seeding failed: %w", err)
	}

	// Step 4: Pin settings for the no-repeat rounds
	if err := applySettings(ctx, config, client, Settings{
		Mode:          "single",
		Visual:        "wheel",
		NoRepeatNames: true,
		NoRepeatTasks: true,
		GroupCount:    2,
	}); err != nil {
		return fmt.Errorf("settings update failed: %w", err)
	}

	// Step 5: Run the draw rounds
	rounds, err := runDrawRounds(ctx, config, client, stats)
	if err != nil {
		return fmt.Errorf("draw rounds failed: %w", err)
	}

	// Step 6: Optionally exercise the animation session path
	if config.Interactive {
		if err := runInteractiveCheck(ctx, config, client, stats); err != nil {
			return fmt.Errorf("animation session check failed: %w", err)
		}
	}

	// Step 7: Fetch history and verify everything
	history, err := fetchHistory(ctx, config, client)
	if err != nil {
		return fmt.Errorf("history retrieval failed: %w", err)
	}

	if err := verifyResults(ctx, config, names, rounds, history, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 8: Save round results to file
	if err := saveRoundsToFile(ctx, config, rounds); err != nil {
		logger.Get().Warn(ctx, "failed to save rounds to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveRoundsToFile saves the recorded round winners to a JSON file.
func saveRoundsToFile(ctx context.Context, config *Config, rounds [][]string) error {
	if len(rounds) == 0 {
		return fmt.Errorf("no rounds to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "draw_rounds_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	jsonData, err := marshalJSON(rounds)
	if err != nil {
		return fmt.Errorf("failed to marshal rounds: %w", err)
	}

	if err := os.WriteFile(filename, jsonData, logFilePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "rounds saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, drawsPerSecond float64

	if stats.DrawsRequested > 0 {
		successRate = float64(stats.DrawsCompleted) / float64(stats.DrawsRequested) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		drawsPerSecond = float64(stats.DrawsRequested) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("namesSeeded", stats.NamesSeeded),
		logger.Int("drawsRequested", stats.DrawsRequested),
		logger.Int("drawsCompleted", stats.DrawsCompleted),
		logger.Int("drawsRejected", stats.DrawsRejected),
		logger.Int("drawsFailed", stats.DrawsFailed),
		logger.Int("roundsVerified", stats.RoundsVerified),
		logger.Int("sessionsRun", stats.SessionsRun),
		logger.Int("historyEntries", stats.HistoryEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("drawsPerSecond", drawsPerSecond))
}
