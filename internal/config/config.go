// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/classpick/classpick/internal/domain/history"
	"github.com/classpick/classpick/internal/domain/model"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StatePath is where roster, settings and history are persisted.
	// Empty disables persistence.
	StatePath string `koanf:"state_path"`

	// HistoryLimit caps the number of retained draw records.
	HistoryLimit int `koanf:"history_limit"`

	// DefaultMode and DefaultVisual are applied on first start, before any
	// saved state exists.
	DefaultMode   string `koanf:"default_mode"`
	DefaultVisual string `koanf:"default_visual"`

	// NoRepeatNames and NoRepeatTasks enable no-repeat sampling per list.
	NoRepeatNames bool `koanf:"no_repeat_names"`
	NoRepeatTasks bool `koanf:"no_repeat_tasks"`

	// GroupCount is the default partition count for group draws.
	GroupCount int `koanf:"group_count"`

	// FrameIntervalMS is the animation frame period.
	FrameIntervalMS int `koanf:"frame_interval_ms"`

	// Wheel animation knobs.
	WheelSpinDurationMS int `koanf:"wheel_spin_duration_ms"`
	WheelFullSpins      int `koanf:"wheel_full_spins"`

	// Race animation knobs, shared by the duck and marble variants.
	RaceBaseDurationMS int     `koanf:"race_base_duration_ms"`
	RaceExtraRangeMS   int     `koanf:"race_extra_range_ms"`
	RaceMinElapsedMS   int     `koanf:"race_min_elapsed_ms"`
	RaceCelebrationMS  int     `koanf:"race_celebration_ms"`
	RaceSpeedMin       float64 `koanf:"race_speed_min"`
	RaceSpeedMax       float64 `koanf:"race_speed_max"`
	RaceBoost          float64 `koanf:"race_boost"`

	// Card animation knobs.
	CardCount        int `koanf:"card_count"`
	CardShuffleMS    int `koanf:"card_shuffle_ms"`
	CardPickMS       int `koanf:"card_pick_ms"`
	CardRevealHoldMS int `koanf:"card_reveal_hold_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		StatePath:     "classpick-state.json",
		HistoryLimit:  history.DefaultLimit,
		DefaultMode:   string(model.ModeSingle),
		DefaultVisual: string(model.VisualWheel),
		NoRepeatNames: true,
		NoRepeatTasks: true,
		GroupCount:    2,

		FrameIntervalMS: 16,

		WheelSpinDurationMS: 4000,
		WheelFullSpins:      5,

		RaceBaseDurationMS: 3000,
		RaceExtraRangeMS:   1500,
		RaceMinElapsedMS:   1000,
		RaceCelebrationMS:  1500,
		RaceSpeedMin:       0.75,
		RaceSpeedMax:       1.25,
		RaceBoost:          1.08,

		CardCount:        3,
		CardShuffleMS:    2000,
		CardPickMS:       1000,
		CardRevealHoldMS: 2000,
	}
}
