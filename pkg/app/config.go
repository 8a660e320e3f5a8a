// Package app wires the gaze pipeline, voice channel and dashboard into
// one process.
package app

import (
	"fmt"

	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/pkg/audioio"
	"github.com/teslashibe/go-gaze/pkg/camera"
	"github.com/teslashibe/go-gaze/pkg/landmark"
	"github.com/teslashibe/go-gaze/pkg/landmark/yunet"
	"github.com/teslashibe/go-gaze/pkg/session"
	"github.com/teslashibe/go-gaze/pkg/speech"
	"github.com/teslashibe/go-gaze/pkg/web"
)

// Landmark backends.
const (
	LandmarksMesh  = "mesh"  // face-mesh sidecar, full iris and eyelid landmarks
	LandmarksYuNet = "yunet" // in-process YuNet, eye centers only, no blink
)

// Fallback screen size when no pointer backend can report one.
const (
	DefaultScreenWidth  = 1920
	DefaultScreenHeight = 1080
)

// Config holds all configuration for the application.
// Flag parsing is done in cmd/gaze/main.go; this struct is data only.
type Config struct {
	// Debug enables verbose debug logging.
	Debug bool
	// DebugGaze logs every frame's iris and pointer position.
	DebugGaze bool

	// DryRun records pointer actions instead of moving the real pointer.
	DryRun bool

	// NoVoice disables the microphone and speech recognizer.
	NoVoice bool

	// NoDashboard disables the web dashboard.
	NoDashboard bool

	// Landmarks selects the landmark backend: "mesh" or "yunet".
	Landmarks string

	Session   session.Config
	Camera    camera.Config
	Mesh      landmark.MeshConfig
	YuNet     yunet.Config
	Audio     audioio.Config
	Speech    speech.Config
	Dashboard web.Config
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Landmarks: LandmarksMesh,
		Session:   session.DefaultConfig(),
		Camera:    camera.DefaultConfig(),
		Mesh:      landmark.DefaultMeshConfig(),
		YuNet:     yunet.DefaultConfig(),
		Audio:     audioio.DefaultConfig(),
		Speech:    speech.DefaultConfig(),
		Dashboard: web.DefaultConfig(),
	}
}

// LoadEnvConfig applies environment overrides.
// Call this before flag values are applied so flags win.
func (c *Config) LoadEnvConfig() {
	c.Camera.Device = config.CameraDevice(c.Camera.Device)
	c.Mesh.URL = config.MeshURL(c.Mesh.URL)
	c.YuNet.ModelPath = config.YuNetModel(c.YuNet.ModelPath)
	c.Dashboard.Port = config.DashboardPort(c.Dashboard.Port)
	c.Speech.APIKey = config.GoogleAPIKey()
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Landmarks {
	case LandmarksMesh:
		if err := c.Mesh.Validate(); err != nil {
			return &ConfigError{Field: "Mesh", Message: err.Error()}
		}
	case LandmarksYuNet:
		if c.YuNet.ModelPath == "" {
			return &ConfigError{Field: "YuNet", Message: "yunet model path is required"}
		}
	default:
		return &ConfigError{Field: "Landmarks", Message: fmt.Sprintf("unknown landmark backend %q", c.Landmarks)}
	}
	if err := c.Session.Validate(); err != nil {
		return &ConfigError{Field: "Session", Message: err.Error()}
	}
	if errs := c.Camera.Validate(); len(errs) > 0 {
		return &ConfigError{Field: "Camera", Message: fmt.Sprintf("camera: %v", errs)}
	}
	if !c.NoVoice {
		if err := c.Audio.Validate(); err != nil {
			return &ConfigError{Field: "Audio", Message: err.Error()}
		}
		if err := c.Speech.Validate(); err != nil {
			return &ConfigError{Field: "Speech", Message: err.Error()}
		}
	}
	if !c.NoDashboard {
		if err := c.Dashboard.Validate(); err != nil {
			return &ConfigError{Field: "Dashboard", Message: err.Error()}
		}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
