package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/classpick/classpick/internal/domain/model"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if CLASSPICK_CONFIG is set
//  3. env (prefix CLASSPICK_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CLASSPICK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: CLASSPICK_ADDR, CLASSPICK_HISTORY_LIMIT, ...
	// Map env keys like CLASSPICK_HISTORY_LIMIT -> history_limit (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("CLASSPICK_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "classpick_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the service cannot run with.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("%w: history_limit must be positive", ErrInvalidConfig)
	}
	if !model.Mode(c.DefaultMode).Valid() {
		return fmt.Errorf("%w: unknown default_mode %q", ErrInvalidConfig, c.DefaultMode)
	}
	if !model.Visual(c.DefaultVisual).Valid() {
		return fmt.Errorf("%w: unknown default_visual %q", ErrInvalidConfig, c.DefaultVisual)
	}
	if c.GroupCount < 2 {
		return fmt.Errorf("%w: group_count must be at least 2", ErrInvalidConfig)
	}
	if c.FrameIntervalMS <= 0 {
		return fmt.Errorf("%w: frame_interval_ms must be positive", ErrInvalidConfig)
	}
	if c.WheelSpinDurationMS <= 0 || c.WheelFullSpins <= 0 {
		return fmt.Errorf("%w: wheel timings must be positive", ErrInvalidConfig)
	}
	if c.RaceBaseDurationMS <= 0 || c.RaceMinElapsedMS < 0 || c.RaceCelebrationMS < 0 {
		return fmt.Errorf("%w: race timings out of range", ErrInvalidConfig)
	}
	if c.RaceSpeedMin <= 0 || c.RaceSpeedMax <= c.RaceSpeedMin {
		return fmt.Errorf("%w: race speed range out of order", ErrInvalidConfig)
	}
	if c.RaceBoost <= 1 {
		return fmt.Errorf("%w: race_boost must exceed 1", ErrInvalidConfig)
	}
	if c.CardCount <= 0 || c.CardShuffleMS <= 0 || c.CardPickMS <= 0 || c.CardRevealHoldMS < 0 {
		return fmt.Errorf("%w: card timings out of range", ErrInvalidConfig)
	}
	return nil
}
