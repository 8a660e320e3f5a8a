package voice

import "errors"

// ErrSilent is recorded in a Result when the phrase was below the energy gate.
var ErrSilent = errors.New("voice: phrase below energy gate")

// CaptureError wraps a failure to record a phrase.
type CaptureError struct {
	Err error
}

func (e *CaptureError) Error() string {
	return "voice: capture: " + e.Err.Error()
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}
