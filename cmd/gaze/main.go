// go-gaze - hands-free pointer control from eye gaze, blinks and voice
// commands. Calibrate against five on-screen targets, then look to move.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/app"
	"github.com/teslashibe/go-gaze/pkg/audioio"
	"github.com/teslashibe/go-gaze/pkg/camera"
	"github.com/teslashibe/go-gaze/pkg/session"
)

func main() {
	cfg, level := parseFlags()
	log.Init(level)

	a, err := app.New(cfg)
	if err != nil {
		fatal("configuration error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := a.Init(ctx); err != nil {
		a.Shutdown()
		fatal("initialization failed", err)
	}
	defer a.Shutdown()

	if err := a.Run(ctx); err != nil {
		a.Shutdown()
		fatal("runtime error", err)
	}
}

func fatal(msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() (app.Config, string) {
	cfg := app.DefaultConfig()

	configFile := flag.String("config", config.ConfigFile(), "Session YAML file (overrides GAZE_CONFIG)")
	level := flag.String("log-level", config.LogLevel("info"), "Log level: debug, info, warn, error")
	debugFlag := flag.Bool("debug", false, "Enable verbose debug logging")
	debugGaze := flag.Bool("debug-gaze", false, "Log every frame's iris and pointer position")
	autoStart := flag.Bool("autostart", false, "Skip the start screen and calibrate immediately")
	dryRun := flag.Bool("dry-run", false, "Record pointer actions instead of moving the pointer")
	noVoice := flag.Bool("no-voice", false, "Disable voice commands")
	noDashboard := flag.Bool("no-dashboard", false, "Disable the web dashboard")
	landmarks := flag.String("landmarks", cfg.Landmarks, "Landmark backend: mesh, yunet")
	cameraDev := flag.String("camera", "", "Camera index or device path (overrides GAZE_CAMERA)")
	preset := flag.String("camera-preset", "", "Camera preset: default, low, 720p, 1080p")
	meshURL := flag.String("mesh-url", "", "Face-mesh sidecar URL (overrides GAZE_MESH_URL)")
	model := flag.String("yunet-model", "", "YuNet ONNX model path (overrides GAZE_YUNET_MODEL)")
	port := flag.String("port", "", "Dashboard port (overrides GAZE_DASHBOARD_PORT)")
	backend := flag.String("audio-backend", string(cfg.Audio.Backend), "Audio backend: "+backendNames())
	flag.Parse()

	if *configFile != "" {
		sc, err := session.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		cfg.Session = sc
	}

	// Environment variables, then flags
	cfg.LoadEnvConfig()

	if *preset != "" {
		p := camera.GetPreset(*preset)
		if p == nil {
			fmt.Fprintf(os.Stderr, "Error: unknown camera preset %q (have %s)\n", *preset, strings.Join(camera.PresetNames(), ", "))
			os.Exit(2)
		}
		p.Device = cfg.Camera.Device
		cfg.Camera = *p
	}

	cfg.Debug, cfg.DebugGaze = *debugFlag, *debugGaze
	cfg.DryRun, cfg.NoVoice, cfg.NoDashboard = *dryRun, *noVoice, *noDashboard
	cfg.Landmarks = *landmarks
	cfg.Audio.Backend = audioio.Backend(*backend)
	if *autoStart {
		cfg.Session.AutoStart = true
	}
	if *cameraDev != "" {
		cfg.Camera.Device = *cameraDev
	}
	if *meshURL != "" {
		cfg.Mesh.URL = *meshURL
	}
	if *model != "" {
		cfg.YuNet.ModelPath = *model
	}
	if *port != "" {
		cfg.Dashboard.Port = *port
	}
	if *debugFlag {
		*level = "debug"
	}
	return cfg, *level
}

func backendNames() string {
	var names []string
	for _, b := range audioio.AvailableBackends() {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}
