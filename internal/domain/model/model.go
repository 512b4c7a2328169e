// Package model contains domain types passed between layers.
package model

import "time"

// Mode selects how a draw is produced and revealed.
type Mode string

// Draw modes.
const (
	// ModeSingle picks one name and finalizes immediately.
	ModeSingle Mode = "single"
	// ModePaired picks one name and one task from independent pools.
	ModePaired Mode = "paired"
	// ModeGroups partitions the full name list into balanced groups.
	ModeGroups Mode = "groups"
	// ModeInteractive picks one name and reveals it through a simulator.
	ModeInteractive Mode = "interactive"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeSingle, ModePaired, ModeGroups, ModeInteractive:
		return true
	}
	return false
}

// Visual selects which simulator reveals an interactive draw.
type Visual string

// Visualizations.
const (
	VisualWheel      Visual = "wheel"
	VisualRaceDuck   Visual = "race_duck"
	VisualRaceMarble Visual = "race_marble"
	VisualCards      Visual = "cards"
)

// Valid reports whether v is a known visualization.
func (v Visual) Valid() bool {
	switch v {
	case VisualWheel, VisualRaceDuck, VisualRaceMarble, VisualCards:
		return true
	}
	return false
}

// Outcome is the committed result of one draw, fixed before any animation.
type Outcome struct {
	Mode        Mode
	WinnerIndex int        // index into the name list; -1 for group draws
	WinnerName  string     // empty for group draws
	PairedTask  string     // set only for paired draws
	Groups      [][]string // set only for group draws
}

// Entry is one immutable record in the outcome history.
type Entry struct {
	ID        int64      `json:"id"` // monotonic; creation time in unix millis
	Result    string     `json:"result"`
	Mode      Mode       `json:"mode"`
	Timestamp string     `json:"timestamp"` // display time, e.g. 15:04:05
	Groups    [][]string `json:"groups,omitempty"`
}

// NewEntry builds a history entry for an outcome finalized at now.
func NewEntry(o Outcome, now time.Time) Entry {
	e := Entry{
		ID:        now.UnixMilli(),
		Mode:      o.Mode,
		Timestamp: now.Format("15:04:05"),
	}
	switch o.Mode {
	case ModeGroups:
		e.Result = "groups"
		e.Groups = o.Groups
	case ModePaired:
		e.Result = o.WinnerName + " → " + o.PairedTask
	default:
		e.Result = o.WinnerName
	}
	return e
}
