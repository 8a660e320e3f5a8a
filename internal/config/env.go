// Package config reads go-gaze settings from the environment. Flags given
// on the command line take precedence over these values.
package config

import (
	"fmt"
	"os"
)

// Environment variables.
const (
	EnvConfigFile    = "GAZE_CONFIG"
	EnvCamera        = "GAZE_CAMERA"
	EnvMeshURL       = "GAZE_MESH_URL"
	EnvYuNetModel    = "GAZE_YUNET_MODEL"
	EnvDashboardPort = "GAZE_DASHBOARD_PORT"
	EnvGoogleAPIKey  = "GOOGLE_API_KEY"
	EnvLogLevel      = "LOG_LEVEL"
)

// Lookup returns the value of key, or def when it is unset or empty.
func Lookup(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ConfigFile returns the session config path, empty when unset.
func ConfigFile() string {
	return os.Getenv(EnvConfigFile)
}

// CameraDevice returns the capture device index or path.
func CameraDevice(def string) string {
	return Lookup(EnvCamera, def)
}

// MeshURL returns the face-mesh sidecar websocket URL. Empty disables it.
func MeshURL(def string) string {
	return Lookup(EnvMeshURL, def)
}

// YuNetModel returns the YuNet ONNX model path.
func YuNetModel(def string) string {
	return Lookup(EnvYuNetModel, def)
}

// DashboardPort returns the dashboard HTTP port.
func DashboardPort(def string) string {
	return Lookup(EnvDashboardPort, def)
}

// DashboardURL returns the local dashboard URL for port.
func DashboardURL(port string) string {
	return fmt.Sprintf("http://localhost:%s", port)
}

// GoogleAPIKey returns the Speech-to-Text API key. When empty the speech
// client falls back to application default credentials.
func GoogleAPIKey() string {
	return os.Getenv(EnvGoogleAPIKey)
}

// LogLevel returns the log level name.
func LogLevel(def string) string {
	return Lookup(EnvLogLevel, def)
}
