package speech

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoSpeech is returned when the audio contained no recognizable speech.
	ErrNoSpeech = errors.New("speech: no speech detected")

	// ErrEmptyAudio is returned when asked to transcribe an empty chunk.
	ErrEmptyAudio = errors.New("speech: empty audio")
)

// RecognitionError reports a failed recognition request.
type RecognitionError struct {
	// StatusCode is the HTTP status code, 0 for transport failures.
	StatusCode int

	// Message is the error message from the API.
	Message string

	// Provider identifies which backend returned the error.
	Provider string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *RecognitionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("speech [%s]: API error %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("speech [%s]: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// IsRateLimited returns true if this is a rate limit error (HTTP 429).
func (e *RecognitionError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsUnauthorized returns true if this is an authentication error (HTTP 401/403).
func (e *RecognitionError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
