// Package debug holds the process-wide verbose output switches set from
// -debug and -debug-gaze.
package debug

import (
	"fmt"
	"io"
	"os"
)

var (
	// Enabled turns on general debug output
	Enabled bool

	// Gaze turns on per-frame output (iris, pointer, faces). Very chatty
	// at 100 frames a second.
	Gaze bool

	// Out receives debug output
	Out io.Writer = os.Stdout
)

// Log prints when Enabled is set
func Log(format string, args ...interface{}) {
	if Enabled {
		fmt.Fprintf(Out, format, args...)
	}
}

// GazeLog prints when Gaze is set
func GazeLog(format string, args ...interface{}) {
	if Gaze {
		fmt.Fprintf(Out, format, args...)
	}
}
