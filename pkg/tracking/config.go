// Package tracking turns calibrated gaze samples into pointer motion and clicks.
package tracking

import (
	"fmt"
	"time"
)

// Config holds all tunable parameters for pointer tracking
type Config struct {
	// Smoothing
	Smoothing float64 // EMA alpha (0-1], higher = more weight on new reading

	// Dwell click
	DwellTime   time.Duration // Stare this long to click
	StillRadius float64       // Pointer moves < this (px) count as still

	// Blink click
	BlinkThreshold float64       // Eyelid gap below this is a blink (normalized)
	BlinkDebounce  time.Duration // Blink cannot re-fire within this window

	// Logging
	LogThreshold float64 // Only log pointer moves larger than this (px)
}

// DefaultConfig returns the recommended configuration for fluid pointer control
func DefaultConfig() Config {
	return Config{
		Smoothing: 0.18, // Favors fluidity over responsiveness

		DwellTime:   1300 * time.Millisecond,
		StillRadius: 20,

		BlinkThreshold: 0.015,
		BlinkDebounce:  300 * time.Millisecond,

		LogThreshold: 50,
	}
}

// SlowConfig returns a configuration for steadier pointer control
func SlowConfig() Config {
	cfg := DefaultConfig()
	cfg.Smoothing = 0.10
	cfg.DwellTime = 1800 * time.Millisecond
	cfg.StillRadius = 30
	return cfg
}

// ResponsiveConfig returns a configuration for quicker pointer control
func ResponsiveConfig() Config {
	cfg := DefaultConfig()
	cfg.Smoothing = 0.35
	cfg.DwellTime = 1000 * time.Millisecond
	cfg.StillRadius = 15
	return cfg
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Smoothing <= 0 || c.Smoothing > 1 {
		return fmt.Errorf("smoothing must be in (0, 1], got %v", c.Smoothing)
	}
	if c.DwellTime <= 0 {
		return fmt.Errorf("dwell_time must be positive, got %v", c.DwellTime)
	}
	if c.StillRadius <= 0 {
		return fmt.Errorf("still_radius must be positive, got %v", c.StillRadius)
	}
	if c.BlinkThreshold < 0 {
		return fmt.Errorf("blink_threshold must not be negative, got %v", c.BlinkThreshold)
	}
	if c.BlinkDebounce < 0 {
		return fmt.Errorf("blink_debounce must not be negative, got %v", c.BlinkDebounce)
	}
	return nil
}
