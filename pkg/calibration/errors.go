package calibration

import "errors"

// ErrNoTargets is returned when a controller is created without targets.
var ErrNoTargets = errors.New("calibration: at least one target required")
