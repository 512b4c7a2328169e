package testdraws

import (
	"context"
	"fmt"
	"log"
	"sort"
)

// verifyResults checks the fairness and bookkeeping guarantees: every round
// must be a permutation of the roster, and the history must hold the most
// recent draws newest first.
func verifyResults(ctx context.Context, config *Config, names []string, rounds [][]string, history *HistoryResponse, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(rounds) == 0 {
		return fmt.Errorf("no rounds to verify")
	}

	for i, winners := range rounds {
		if err := verifyRoundPermutation(names, winners); err != nil {
			return fmt.Errorf("round %d: %w", i+1, err)
		}
		stats.RoundsVerified++
	}
	log.Printf("✅ %d rounds verified: each name drawn exactly once per round", stats.RoundsVerified)

	if history != nil {
		if err := verifyHistoryOrder(history); err != nil {
			return fmt.Errorf("history: %w", err)
		}
		stats.HistoryEntries = history.Count
		log.Printf("✅ History verified: %d entries, newest first", history.Count)
	}

	displayRoundSummary(rounds, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyRoundPermutation checks that the winners of a round are exactly the
// roster, each name once.
func verifyRoundPermutation(names, winners []string) error {
	if len(winners) != len(names) {
		return fmt.Errorf("expected %d winners, got %d", len(names), len(winners))
	}

	seen := make(map[string]int, len(names))
	for _, name := range names {
		seen[name] = 0
	}

	for _, winner := range winners {
		count, ok := seen[winner]
		if !ok {
			return fmt.Errorf("winner %q is not on the roster", winner)
		}
		if count > 0 {
			return fmt.Errorf("name %q was drawn more than once", winner)
		}
		seen[winner] = count + 1
	}

	for name, count := range seen {
		if count == 0 {
			return fmt.Errorf("name %q was never drawn", name)
		}
	}
	return nil
}

// verifyHistoryOrder checks that records are sorted newest first by id.
func verifyHistoryOrder(history *HistoryResponse) error {
	if history.Count != len(history.Entries) {
		return fmt.Errorf("count %d does not match %d entries", history.Count, len(history.Entries))
	}

	for i := 1; i < len(history.Entries); i++ {
		if history.Entries[i].ID > history.Entries[i-1].ID {
			return fmt.Errorf("entry %d is newer than entry %d", i, i-1)
		}
	}
	return nil
}

// displayRoundSummary shows how evenly positions were distributed.
func displayRoundSummary(rounds [][]string, verbose bool) {
	if !verbose || len(rounds) == 0 {
		return
	}

	// Count how often each name opened a round. With a fair shuffle the
	// spread should be flat over many rounds.
	firsts := make(map[string]int)
	for _, winners := range rounds {
		if len(winners) > 0 {
			firsts[winners[0]]++
		}
	}

	names := make([]string, 0, len(firsts))
	for name := range firsts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return firsts[names[i]] > firsts[names[j]]
	})

	topN := 10
	if len(names) < topN {
		topN = len(names)
	}

	log.Printf("📊 Most frequent round openers (%d rounds):", len(rounds))
	for i := 0; i < topN; i++ {
		log.Printf("   %d. %s - %d times", i+1, names[i], firsts[names[i]])
	}
}
