package testdraws

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// generateNames builds a deterministic roster of the requested size.
func generateNames(config *Config, stats *Stats) []string {
	names := make([]string, 0, config.NumNames)
	for i := 0; i < config.NumNames; i++ {
		names = append(names, fmt.Sprintf("student-%04d", i+1))
	}
	stats.NamesSeeded = len(names)
	return names
}

// resetService clears the roster, tasks and history so rounds start clean.
func resetService(ctx context.Context, config *Config, client *HTTPClient) error {
	for _, path := range []string{"/names", "/tasks", "/history"} {
		resp, err := client.Delete(ctx, config.BaseURL+path)
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", path, err)
		}
		if _, err := readResponseBody(resp); err != nil {
			return fmt.Errorf("failed to read %s response: %w", path, err)
		}
		if resp.StatusCode != StatusOK {
			return fmt.Errorf("clearing %s failed with status: %d", path, resp.StatusCode)
		}
	}
	return nil
}

// applySettings replaces the draw settings.
func applySettings(ctx context.Context, config *Config, client *HTTPClient, settings Settings) error {
	resp, err := client.Put(ctx, config.BaseURL+"/settings", settings)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read settings response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("settings update failed with status %d (%s)", resp.StatusCode, errorCode(body))
	}
	return nil
}

// seedRoster submits names concurrently using worker pools.
func seedRoster(ctx context.Context, config *Config, client *HTTPClient, names []string, stats *Stats) error {
	log.Printf("📤 Seeding %d names with %d workers...", len(names), config.Workers)

	url := config.BaseURL + "/names"

	var (
		added     int64
		duplicate int64
		failed    int64
	)

	nameChan := make(chan string, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for name := range nameChan {
				select {
				case <-ctx.Done():
					return
				default:
					switch seedSingleName(ctx, client, url, name) {
					case "added":
						atomic.AddInt64(&added, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					default:
						atomic.AddInt64(&failed, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(nameChan)
		for _, name := range names {
			select {
			case <-ctx.Done():
				return
			case nameChan <- name:
			}
		}
	}()

	wg.Wait()

	stats.NamesSeeded = int(atomic.LoadInt64(&added))
	stats.SeedDuplicates = int(atomic.LoadInt64(&duplicate))
	stats.SeedFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Roster seeding completed:
   Added: %d
   Duplicate: %d
   Failed: %d
`, stats.NamesSeeded, stats.SeedDuplicates, stats.SeedFailed)

	if stats.SeedFailed > 0 {
		return fmt.Errorf("%d names failed to seed", stats.SeedFailed)
	}
	return nil
}

// seedSingleName submits a single name and classifies the result.
func seedSingleName(ctx context.Context, client *HTTPClient, url string, name string) string {
	resp, err := client.Post(ctx, url, map[string]string{"value": name})
	if err != nil {
		return "failed"
	}

	if _, err := readResponseBody(resp); err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusCreated:
		return "added"
	case StatusConflict:
		return "duplicate"
	default:
		return "failed"
	}
}
