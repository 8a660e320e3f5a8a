package gaze

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline failures.
var (
	// ErrCalibrationDegenerate is matched by *CalibrationDegenerateError.
	ErrCalibrationDegenerate = errors.New("gaze: calibration bounds are degenerate")

	// ErrCameraUnavailable is returned when frames can no longer be read.
	// It halts the frame loop.
	ErrCameraUnavailable = errors.New("gaze: camera unavailable")
)

// CalibrationDegenerateError reports calibration bounds with a zero-width axis.
type CalibrationDegenerateError struct {
	Bounds  Bounds
	Samples int
}

// Error implements the error interface.
func (e *CalibrationDegenerateError) Error() string {
	axis := "x"
	if e.Bounds.MaxX > e.Bounds.MinX {
		axis = "y"
	}
	return fmt.Sprintf("gaze: calibration degenerate on %s axis after %d samples (%s)", axis, e.Samples, e.Bounds)
}

// Is matches ErrCalibrationDegenerate.
func (e *CalibrationDegenerateError) Is(target error) bool {
	return target == ErrCalibrationDegenerate
}
