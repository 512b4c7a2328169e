package service

import "context"

// Cue names an audio/visual feedback moment surfaced to the presentation
// layer.
type Cue string

// Cue moments.
const (
	// CueDrawCommit fires when an outcome becomes final.
	CueDrawCommit Cue = "draw_commit"
	// CueRaceFinish fires when the winning lane crosses the line.
	CueRaceFinish Cue = "race_finish"
	// CueCardReveal fires when the chosen card turns face up.
	CueCardReveal Cue = "card_reveal"
)

// CuePlayer receives cue moments. Implementations must not block; cues are
// fired from animation callbacks.
type CuePlayer interface {
	Play(ctx context.Context, cue Cue)
}

// NopCue discards all cues.
type NopCue struct{}

// Play implements CuePlayer.
func (NopCue) Play(context.Context, Cue) {}
