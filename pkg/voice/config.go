package voice

import (
	"errors"
	"time"
)

// Config holds the tunable parameters of the voice channel.
type Config struct {
	// PhraseLimit is the length of audio recorded per iteration.
	PhraseLimit time.Duration `yaml:"phrase_limit" json:"phrase_limit"`

	// ScrollSpeed is the scroll delta in pixels for "up" and "down".
	ScrollSpeed int `yaml:"scroll_speed" json:"scroll_speed"`

	// MinRMS skips phrases quieter than this normalized level without calling
	// the recognizer. 0 disables the gate.
	MinRMS float64 `yaml:"min_rms" json:"min_rms"`

	// RetryDelay is the pause after a capture error before trying again.
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// DefaultConfig returns a Config with sensible defaults.
// MinRMS corresponds to an energy level of 300 on the int16 scale.
func DefaultConfig() Config {
	return Config{
		PhraseLimit: 1500 * time.Millisecond,
		ScrollSpeed: 300,
		MinRMS:      300.0 / 32767,
		RetryDelay:  500 * time.Millisecond,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.PhraseLimit <= 0 {
		return errors.New("voice: phrase limit must be positive")
	}
	if c.ScrollSpeed <= 0 {
		return errors.New("voice: scroll speed must be positive")
	}
	if c.MinRMS < 0 || c.MinRMS >= 1 {
		return errors.New("voice: min RMS must be between 0 and 1")
	}
	if c.RetryDelay < 0 {
		return errors.New("voice: retry delay must not be negative")
	}
	return nil
}

// WithScrollSpeed returns a copy with the scroll speed set.
func (c Config) WithScrollSpeed(speed int) Config {
	c.ScrollSpeed = speed
	return c
}

// WithPhraseLimit returns a copy with the phrase limit set.
func (c Config) WithPhraseLimit(d time.Duration) Config {
	c.PhraseLimit = d
	return c
}
