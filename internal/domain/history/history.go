// Package history keeps a bounded, most-recent-first record of outcomes.
package history

import (
	model "github.com/classpick/classpick/internal/domain/model"
)

// DefaultLimit caps retained entries when no explicit limit is set.
const DefaultLimit = 50

// Log is an immutable snapshot of recent outcomes, newest first. Append
// returns a new log; entries are never mutated, only evicted by truncation.
type Log struct {
	entries []model.Entry
	limit   int
}

// New returns an empty log retaining at most limit entries.
// Non-positive limits fall back to DefaultLimit.
func New(limit int) Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Log{limit: limit}
}

// Append returns a new log with e prepended, truncated to the limit.
func (l Log) Append(e model.Entry) Log {
	entries := make([]model.Entry, 0, min(len(l.entries)+1, l.limit))
	entries = append(entries, e)
	for _, old := range l.entries {
		if len(entries) == l.limit {
			break
		}
		entries = append(entries, old)
	}
	return Log{entries: entries, limit: l.limit}
}

// Entries returns the retained entries, newest first. The slice is a copy;
// callers may not reach the log's internal state through it.
func (l Log) Entries() []model.Entry {
	out := make([]model.Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports how many entries are retained.
func (l Log) Len() int {
	return len(l.entries)
}

// Limit reports the retention cap.
func (l Log) Limit() int {
	return l.limit
}

// Restore rebuilds a log from persisted entries, enforcing the cap.
func Restore(entries []model.Entry, limit int) Log {
	l := New(limit)
	if len(entries) > l.limit {
		entries = entries[:l.limit]
	}
	l.entries = make([]model.Entry, len(entries))
	copy(l.entries, entries)
	return l
}
