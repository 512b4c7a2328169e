package testdraws

import "time"

// Config holds configuration for the draw test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumNames    int           // Number of names to seed into the roster
	Rounds      int           // Number of full no-repeat rounds to run
	Workers     int           // Number of concurrent workers for seeding
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for draw results
	LogFile     string        // Log file for test output
	Interactive bool          // Also exercise the animation session path
	Verbose     bool          // Enable verbose logging
}

// DrawResult represents the response from a draw request
type DrawResult struct {
	Status    string        `json:"status"`
	Entry     *HistoryEntry `json:"entry,omitempty"`
	SessionID string        `json:"session_id,omitempty"`
	Visual    string        `json:"visual,omitempty"`
}

// HistoryEntry represents one recorded draw
type HistoryEntry struct {
	ID        int64      `json:"id"`
	Result    string     `json:"result"`
	Mode      string     `json:"mode"`
	Timestamp string     `json:"timestamp"`
	Groups    [][]string `json:"groups,omitempty"`
}

// ListResponse represents a roster or task list
type ListResponse struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

// HistoryResponse represents the retained draw records
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
	Count   int            `json:"count"`
}

// APIError represents an error response body
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Settings mirrors the service settings document
type Settings struct {
	Mode          string `json:"mode"`
	Visual        string `json:"visual"`
	NoRepeatNames bool   `json:"no_repeat_names"`
	NoRepeatTasks bool   `json:"no_repeat_tasks"`
	GroupCount    int    `json:"group_count"`
}

// SessionSnapshot carries the fields common to every visual's snapshot
type SessionSnapshot struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	Winner    string `json:"winner,omitempty"`
}

// Stats holds test statistics
type Stats struct {
	NamesSeeded    int
	SeedDuplicates int
	SeedFailed     int
	DrawsRequested int
	DrawsCompleted int
	DrawsRejected  int
	DrawsFailed    int
	RoundsVerified int
	SessionsRun    int
	HistoryEntries int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
