package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/classpick/classpick/internal/testdraws"
)

// Default configuration constants.
const (
	defaultNumNames    = 30
	defaultRounds      = 10
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numNames    = flag.Int("names", defaultNumNames, "Number of names to seed into the roster")
		rounds      = flag.Int("rounds", defaultRounds, "Number of full no-repeat rounds to run")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		interactive = flag.Bool("interactive", false, "Also exercise the animation session path")
		outputFile  = flag.String("output", "", "Output file for round results (default: draw_rounds_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for test output (default: test_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testdraws.ShowHelp()
		return
	}

	// Setup logging
	if err := testdraws.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &testdraws.Config{
		BaseURL:     *baseURL,
		NumNames:    *numNames,
		Rounds:      *rounds,
		Workers:     *workers,
		Timeout:     *timeout,
		OutputFile:  *outputFile,
		LogFile:     *logFile,
		Interactive: *interactive,
		Verbose:     *verbose,
	}

	// Run the test
	if err := testdraws.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
