package app

import (
	"errors"
	"log/slog"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Landmarks != LandmarksMesh {
		t.Errorf("expected mesh landmarks by default, got %q", cfg.Landmarks)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"unknown landmarks", func(c *Config) { c.Landmarks = "dlib" }, "Landmarks"},
		{"mesh without url", func(c *Config) { c.Mesh.URL = "" }, "Mesh"},
		{"yunet without model", func(c *Config) {
			c.Landmarks = LandmarksYuNet
			c.YuNet.ModelPath = ""
		}, "YuNet"},
		{"bad session", func(c *Config) { c.Session.SamplesPerTarget = 0 }, "Session"},
		{"bad camera", func(c *Config) { c.Camera.Width = 0 }, "Camera"},
		{"bad speech", func(c *Config) { c.Speech.Language = "" }, "Speech"},
		{"bad dashboard", func(c *Config) { c.Dashboard.Port = "" }, "Dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestConfig_DisabledPartsSkipValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoVoice = true
	cfg.NoDashboard = true
	cfg.Speech.Language = ""
	cfg.Dashboard.Port = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled components should not be validated: %v", err)
	}
}

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("GAZE_CAMERA", "2")
	t.Setenv("GAZE_MESH_URL", "ws://10.0.0.5:8765/mesh")
	t.Setenv("GAZE_DASHBOARD_PORT", "9000")
	t.Setenv("GOOGLE_API_KEY", "secret")
	t.Setenv("GAZE_YUNET_MODEL", "")

	cfg := DefaultConfig()
	cfg.LoadEnvConfig()

	if cfg.Camera.Device != "2" {
		t.Errorf("expected camera 2, got %q", cfg.Camera.Device)
	}
	if cfg.Mesh.URL != "ws://10.0.0.5:8765/mesh" {
		t.Errorf("unexpected mesh URL %q", cfg.Mesh.URL)
	}
	if cfg.Dashboard.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Dashboard.Port)
	}
	if cfg.Speech.APIKey != "secret" {
		t.Error("expected API key from env")
	}
	if cfg.YuNet.ModelPath == "" {
		t.Error("empty env must keep the default model path")
	}
}

func TestLogType(t *testing.T) {
	tests := map[slog.Level]string{
		slog.LevelDebug: "info",
		slog.LevelInfo:  "info",
		slog.LevelWarn:  "warn",
		slog.LevelError: "error",
	}
	for level, want := range tests {
		if got := logType(level); got != want {
			t.Errorf("logType(%v): expected %q, got %q", level, want, got)
		}
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Landmarks = ""
	if _, err := New(cfg); err == nil {
		t.Error("expected error for invalid config")
	}
}
