package testdraws

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/classpick/classpick/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "test_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the draw test tool.
func ShowHelp() {
	os.Stdout.WriteString(`ClassPick Draw Test Tool
========================

A concurrent tool for verifying the fairness guarantees of a running
ClassPick service: no-repeat rounds cover every name exactly once, pool
exhaustion resets cleanly, and only one animation session runs at a time.

Usage:
  go run cmd/test-draws/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -names int
        Number of names to seed into the roster (default 30)
  -rounds int
        Number of full no-repeat rounds to run (default 10)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -interactive
        Also exercise the animation session path
  -output string
        Output file for round results (default: draw_rounds_TIMESTAMP.json)
  -log string
        Log file for test output (default: test_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/test-draws/main.go

  # Test a large class over many rounds
  go run cmd/test-draws/main.go -names 120 -rounds 50 -url http://localhost:8080

  # Include the animation session check
  go run cmd/test-draws/main.go -interactive -verbose

  # Test with custom log file
  go run cmd/test-draws/main.go -rounds 100 -log my_test.log
`)
}
