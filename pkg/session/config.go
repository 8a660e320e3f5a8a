package session

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/teslashibe/go-gaze/pkg/calibration"
	"github.com/teslashibe/go-gaze/pkg/dispatch"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/tracking"
	"github.com/teslashibe/go-gaze/pkg/voice"
	"gopkg.in/yaml.v3"
)

// Config holds every value fixed at session start.
type Config struct {
	// Pointer tracking
	Smoothing      float64       `yaml:"smoothing"`       // EMA alpha (0-1]
	DwellTime      time.Duration `yaml:"dwell_time"`      // Stare this long to click
	StillRadius    float64       `yaml:"still_radius"`    // px
	BlinkThreshold float64       `yaml:"blink_threshold"` // normalized eyelid gap
	BlinkDebounce  time.Duration `yaml:"blink_debounce"`

	// Voice
	ScrollSpeed int           `yaml:"scroll_speed"` // px per scroll command
	PhraseLimit time.Duration `yaml:"phrase_limit"`
	MinRMS      float64       `yaml:"min_rms"`

	// Calibration
	SamplesPerTarget int           `yaml:"samples_per_target"`
	TargetRadius     int           `yaml:"target_radius"`
	Targets          []gaze.Target `yaml:"targets"` // Empty means calibration.DefaultTargets

	// Screen, 0 means ask the pointer backend
	ScreenWidth  int `yaml:"screen_width"`
	ScreenHeight int `yaml:"screen_height"`

	// Loop
	FrameInterval time.Duration `yaml:"frame_interval"`
	QueueCapacity int           `yaml:"queue_capacity"`
	AutoStart     bool          `yaml:"auto_start"` // Skip the start screen
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	tc := tracking.DefaultConfig()
	vc := voice.DefaultConfig()
	return Config{
		Smoothing:      tc.Smoothing,
		DwellTime:      tc.DwellTime,
		StillRadius:    tc.StillRadius,
		BlinkThreshold: tc.BlinkThreshold,
		BlinkDebounce:  tc.BlinkDebounce,

		ScrollSpeed: vc.ScrollSpeed,
		PhraseLimit: vc.PhraseLimit,
		MinRMS:      vc.MinRMS,

		SamplesPerTarget: 35,
		TargetRadius:     30,

		FrameInterval: 10 * time.Millisecond,
		QueueCapacity: dispatch.DefaultQueueCapacity,
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Tracking returns the pointer tracking part of the configuration.
func (c Config) Tracking() tracking.Config {
	tc := tracking.DefaultConfig()
	tc.Smoothing = c.Smoothing
	tc.DwellTime = c.DwellTime
	tc.StillRadius = c.StillRadius
	tc.BlinkThreshold = c.BlinkThreshold
	tc.BlinkDebounce = c.BlinkDebounce
	return tc
}

// Voice returns the voice channel part of the configuration.
func (c Config) Voice() voice.Config {
	vc := voice.DefaultConfig()
	vc.ScrollSpeed = c.ScrollSpeed
	vc.PhraseLimit = c.PhraseLimit
	vc.MinRMS = c.MinRMS
	return vc
}

// CalibrationTargets returns the configured targets, or the defaults for
// the screen size.
func (c Config) CalibrationTargets() []gaze.Target {
	if len(c.Targets) > 0 {
		return c.Targets
	}
	return calibration.DefaultTargets(c.ScreenWidth, c.ScreenHeight)
}

// Validate checks that the configuration is usable. Screen size must be
// resolved before calling it.
func (c Config) Validate() error {
	if err := c.Tracking().Validate(); err != nil {
		return err
	}
	vc := c.Voice()
	if err := vc.Validate(); err != nil {
		return err
	}
	if c.SamplesPerTarget <= 0 {
		return fmt.Errorf("samples_per_target must be positive, got %d", c.SamplesPerTarget)
	}
	if c.TargetRadius <= 0 {
		return fmt.Errorf("target_radius must be positive, got %d", c.TargetRadius)
	}
	if c.ScreenWidth < 0 || c.ScreenHeight < 0 {
		return errors.New("screen size must not be negative")
	}
	for i, t := range c.Targets {
		if c.ScreenWidth > 0 && (t.X < 0 || t.X > c.ScreenWidth) {
			return fmt.Errorf("target %d x=%d is off screen", i, t.X)
		}
		if c.ScreenHeight > 0 && (t.Y < 0 || t.Y > c.ScreenHeight) {
			return fmt.Errorf("target %d y=%d is off screen", i, t.Y)
		}
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be positive, got %v", c.FrameInterval)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("queue_capacity must be positive, got %d", c.QueueCapacity)
	}
	return nil
}
