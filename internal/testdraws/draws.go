package testdraws

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// runDrawRounds performs the configured number of full no-repeat rounds.
// Each round draws once per roster entry and then confirms that one more
// draw is rejected with a pool reset, which refills the pool for the next
// round. The winners of every round are returned for verification.
func runDrawRounds(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) ([][]string, error) {
	log.Printf("🎲 Running %d no-repeat rounds of %d draws...", config.Rounds, config.NumNames)

	url := config.BaseURL + "/draw"
	rounds := make([][]string, 0, config.Rounds)

	for round := 0; round < config.Rounds; round++ {
		winners := make([]string, 0, config.NumNames)

		for i := 0; i < config.NumNames; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			stats.DrawsRequested++
			result, status, code, err := requestDraw(ctx, client, url)
			if err != nil {
				stats.DrawsFailed++
				return nil, fmt.Errorf("round %d draw %d failed: %w", round+1, i+1, err)
			}
			if status != StatusOK || result.Entry == nil {
				stats.DrawsFailed++
				return nil, fmt.Errorf("round %d draw %d: unexpected status %d (%s)", round+1, i+1, status, code)
			}

			stats.DrawsCompleted++
			winners = append(winners, result.Entry.Result)

			if config.Verbose {
				log.Printf("   round %d draw %d: %s", round+1, i+1, result.Entry.Result)
			}
		}

		// The pool is now empty. One more draw must be rejected and must
		// refill the pool so the next round starts fresh.
		stats.DrawsRequested++
		_, status, code, err := requestDraw(ctx, client, url)
		if err != nil {
			stats.DrawsFailed++
			return nil, fmt.Errorf("round %d exhaustion probe failed: %w", round+1, err)
		}
		if status != StatusConflict || code != "pool_reset" {
			stats.DrawsFailed++
			return nil, fmt.Errorf("round %d exhaustion probe: expected 409 pool_reset, got %d (%s)", round+1, status, code)
		}
		stats.DrawsRejected++

		rounds = append(rounds, winners)
		log.Printf("✅ Round %d completed: %d draws, pool reset confirmed", round+1, len(winners))
	}

	return rounds, nil
}

// requestDraw posts one draw and decodes either the result or the error code.
func requestDraw(ctx context.Context, client *HTTPClient, url string) (*DrawResult, int, string, error) {
	resp, err := client.Post(ctx, url, nil)
	if err != nil {
		return nil, 0, "", err
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, resp.StatusCode, "", err
	}

	if resp.StatusCode == StatusOK || resp.StatusCode == StatusAccepted {
		var result DrawResult
		if err := unmarshalJSON(body, &result); err != nil {
			return nil, resp.StatusCode, "", fmt.Errorf("failed to decode draw result: %w", err)
		}
		return &result, resp.StatusCode, "", nil
	}

	return nil, resp.StatusCode, errorCode(body), nil
}

// runInteractiveCheck starts one animation session and confirms that the
// service holds the single-session guarantee: concurrent draw attempts are
// rejected while the session runs, and the committed winner appears in the
// history once the animation completes.
func runInteractiveCheck(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) error {
	log.Println("🎡 Checking the animation session path...")

	if err := applySettings(ctx, config, client, Settings{
		Mode:          "interactive",
		Visual:        "wheel",
		NoRepeatNames: false,
		NoRepeatTasks: false,
		GroupCount:    2,
	}); err != nil {
		return err
	}

	result, status, code, err := requestDraw(ctx, client, config.BaseURL+"/draw")
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	if status != StatusAccepted || result == nil || result.SessionID == "" {
		return fmt.Errorf("expected 202 with a session id, got %d (%s)", status, code)
	}
	stats.SessionsRun++
	log.Printf("   session started: %s (%s)", result.SessionID, result.Visual)

	// Hammer the draw endpoint while the wheel spins. Every attempt must
	// be rejected without starting a second session.
	var rejected, leaked int64
	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, st, c, err := requestDraw(ctx, client, config.BaseURL+"/draw")
			if err != nil {
				return
			}
			if st == StatusConflict && c == "draw_in_progress" {
				atomic.AddInt64(&rejected, 1)
			} else {
				atomic.AddInt64(&leaked, 1)
			}
		}()
	}
	wg.Wait()

	if leaked > 0 {
		return fmt.Errorf("%d concurrent draws were not rejected during the session", leaked)
	}
	stats.DrawsRejected += int(rejected)
	log.Printf("   %d concurrent draws rejected while the session ran", rejected)

	winner, err := waitForSession(ctx, config, client)
	if err != nil {
		return err
	}
	log.Printf("   session concluded, winner: %s", winner)

	// The history head must carry the same committed winner.
	history, err := fetchHistory(ctx, config, client)
	if err != nil {
		return err
	}
	if len(history.Entries) == 0 {
		return fmt.Errorf("session completed but no history entry was recorded")
	}
	if history.Entries[0].Result != winner {
		return fmt.Errorf("history head %q does not match session winner %q", history.Entries[0].Result, winner)
	}

	log.Println("✅ Animation session verified")
	return nil
}

// waitForSession polls the session snapshot until the animation is done.
func waitForSession(ctx context.Context, config *Config, client *HTTPClient) (string, error) {
	deadline := time.Now().Add(SessionWaitLimit)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(SessionPollInterval):
		}

		resp, err := client.Get(ctx, config.BaseURL+"/session")
		if err != nil {
			return "", fmt.Errorf("failed to poll session: %w", err)
		}
		body, err := readResponseBody(resp)
		if err != nil {
			return "", fmt.Errorf("failed to read session response: %w", err)
		}
		if resp.StatusCode != StatusOK {
			return "", fmt.Errorf("session poll failed with status: %d", resp.StatusCode)
		}

		var snap SessionSnapshot
		if err := unmarshalJSON(body, &snap); err != nil {
			return "", fmt.Errorf("failed to decode session snapshot: %w", err)
		}
		if snap.State == "done" {
			if snap.Winner == "" {
				return "", fmt.Errorf("session finished without a winner")
			}
			return snap.Winner, nil
		}
		if snap.Winner != "" && snap.State == "running" {
			return "", fmt.Errorf("winner leaked while the session was still running")
		}
	}

	return "", fmt.Errorf("session did not finish within %s", SessionWaitLimit)
}

// fetchHistory retrieves the retained draw records.
func fetchHistory(ctx context.Context, config *Config, client *HTTPClient) (*HistoryResponse, error) {
	resp, err := client.Get(ctx, config.BaseURL+"/history")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read history response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("history fetch failed with status: %d", resp.StatusCode)
	}

	var history HistoryResponse
	if err := unmarshalJSON(body, &history); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return &history, nil
}
