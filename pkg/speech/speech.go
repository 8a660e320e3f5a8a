// Package speech transcribes short audio chunks into text.
package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/teslashibe/go-gaze/pkg/audioio"
)

// Recognizer transcribes a bounded chunk of audio.
//
// Transcribe returns ErrNoSpeech when the audio held nothing recognizable
// and a *RecognitionError when the backend failed.
type Recognizer interface {
	Transcribe(ctx context.Context, chunk audioio.AudioChunk) (string, error)
	Name() string
}

// Config holds recognizer configuration.
type Config struct {
	// APIKey authenticates with the backend. When empty, application
	// default credentials are used.
	APIKey string

	// Language is a BCP-47 language tag.
	Language string

	// SampleRate is the rate audio is resampled to before upload.
	SampleRate int

	// Timeout bounds a single recognition request.
	Timeout time.Duration

	// Endpoint overrides the API base URL (testing, regional endpoints).
	Endpoint string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Language:   "en-US",
		SampleRate: 16000,
		Timeout:    10 * time.Second,
	}
}

// Validate checks that the configuration is valid.
func (c Config) Validate() error {
	if c.Language == "" {
		return fmt.Errorf("language required")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}
