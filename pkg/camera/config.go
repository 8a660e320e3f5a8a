// Package camera captures mirrored webcam frames for the gaze pipeline and
// draws the pupil overlay used by the dashboard preview.
package camera

// Config holds camera capture parameters.
// These can be modified via the camera API at runtime.
type Config struct {
	// Device is a capture index ("0") or a device path or stream URL.
	Device string `json:"device" yaml:"device"`

	Width     int `json:"width" yaml:"width"`         // Frame width in pixels
	Height    int `json:"height" yaml:"height"`       // Frame height in pixels
	Framerate int `json:"framerate" yaml:"framerate"` // Requested FPS
	Quality   int `json:"quality" yaml:"quality"`     // JPEG quality 1-100

	// Mirror flips frames horizontally so the preview behaves like a mirror
	// and iris X grows towards the user's right.
	Mirror bool `json:"mirror" yaml:"mirror"`
}

// Capture limits accepted by Validate.
const (
	MaxWidth     = 3840
	MaxHeight    = 2160
	MaxFramerate = 120
)

// DefaultConfig returns the default webcam configuration.
// 640x480 keeps landmark extraction well inside the 10ms frame tick.
func DefaultConfig() Config {
	return Config{
		Device:    "0",
		Width:     640,
		Height:    480,
		Framerate: 30,
		Quality:   80,
		Mirror:    true,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Device == "" {
		errors = append(errors, "device must be set")
	}
	if c.Width < 160 || c.Width > MaxWidth {
		errors = append(errors, "width must be between 160 and 3840")
	}
	if c.Height < 120 || c.Height > MaxHeight {
		errors = append(errors, "height must be between 120 and 2160")
	}
	if c.Framerate < 1 || c.Framerate > MaxFramerate {
		errors = append(errors, "framerate must be between 1 and 120")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	return errors
}
