// Package web serves the gaze dashboard: the calibration canvas, live
// status, logs and the annotated camera feed. *Server implements
// session.Presenter.
package web

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/hub"
	"github.com/teslashibe/go-gaze/pkg/session"
)

// Config configures the dashboard.
type Config struct {
	Port      string        `json:"port" yaml:"port"`
	StaticDir string        `json:"static_dir" yaml:"static_dir"`
	Overlay   time.Duration `json:"overlay_interval" yaml:"overlay_interval"` // min time between overlay events
	MaxLogs   int           `json:"max_logs" yaml:"max_logs"`
}

// DefaultConfig returns the dashboard defaults.
func DefaultConfig() Config {
	return Config{
		Port:      "8181",
		StaticDir: "./web",
		Overlay:   50 * time.Millisecond,
		MaxLogs:   500,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.Overlay < 0 {
		return errors.New("overlay_interval must be >= 0")
	}
	if c.MaxLogs <= 0 {
		return errors.New("max_logs must be positive")
	}
	return nil
}

// CanvasKind names a canvas event.
type CanvasKind string

const (
	CanvasTarget  CanvasKind = "target"
	CanvasClear   CanvasKind = "clear"
	CanvasOverlay CanvasKind = "overlay"
)

// CanvasEvent is one drawing instruction for the calibration canvas.
type CanvasEvent struct {
	Kind   CanvasKind   `json:"kind"`
	X      int          `json:"x,omitempty"`
	Y      int          `json:"y,omitempty"`
	Radius int          `json:"radius,omitempty"`
	Points []gaze.Point `json:"points,omitempty"`
}

// LogEntry represents a log line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, action, voice, warn, error
	Message string `json:"message"`
}

// CameraControl exposes live camera settings.
type CameraControl interface {
	GetConfigJSON() map[string]interface{}
	UpdateConfig(params map[string]interface{}) error
}

// Server is the web dashboard server
type Server struct {
	app    *fiber.App
	cfg    Config
	logger *slog.Logger

	// Last canvas instruction, kept for /api/canvas
	canvas   CanvasEvent
	canvasMu sync.RWMutex

	lastOverlay time.Time
	overlayMu   sync.Mutex

	// Log buffer (last cfg.MaxLogs entries)
	logs   []LogEntry
	logsMu sync.RWMutex

	// Hubs for websocket broadcast
	canvasHub *hub.Hub
	statusHub *hub.Hub
	logHub    *hub.Hub
	cameraHub *hub.Hub

	// Status returns the current session snapshot for /api/status
	Status func() session.Status

	// OnStart is called by POST /api/calibration/start
	OnStart func()

	// Camera, if set, backs /api/camera
	Camera CameraControl
}

// NewServer creates a new web dashboard server
func NewServer(cfg Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "web")

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		canvas:    CanvasEvent{Kind: CanvasClear},
		logs:      make([]LogEntry, 0, cfg.MaxLogs),
		canvasHub: hub.New("canvas", hub.WithSticky(), hub.WithLogger(logger)),
		statusHub: hub.New("status", hub.WithSticky(), hub.WithLogger(logger)),
		logHub:    hub.New("logs", hub.WithLogger(logger)),
		cameraHub: hub.New("camera", hub.WithLogger(logger)),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Gaze Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/calibration/start", s.handleStart)
	api.Get("/canvas", s.handleCanvas)
	api.Get("/logs", s.handleGetLogs)
	api.Get("/camera", s.handleGetCamera)
	api.Post("/camera", s.handleUpdateCamera)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/canvas", websocket.New(s.serveHub(s.canvasHub)))
	app.Get("/ws/status", websocket.New(s.serveHub(s.statusHub)))
	app.Get("/ws/logs", websocket.New(s.serveHub(s.logHub)))
	app.Get("/ws/camera", websocket.New(s.serveHub(s.cameraHub)))

	s.app = app

	// Hubs run for the server's lifetime so presenter calls made before
	// Start are not lost.
	for _, h := range s.hubs() {
		go h.Run()
	}
	return s, nil
}

func (s *Server) hubs() []*hub.Hub {
	return []*hub.Hub{s.canvasHub, s.statusHub, s.logHub, s.cameraHub}
}

// Start starts the web server
func (s *Server) Start() error {
	s.logger.Info("dashboard listening", "url", "http://localhost:"+s.cfg.Port)
	return s.app.Listen(":" + s.cfg.Port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("web server error", "error", err)
		}
	}()
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	for _, h := range s.hubs() {
		h.Stop()
	}
	return s.app.Shutdown()
}

// RenderTarget draws a calibration target.
func (s *Server) RenderTarget(x, y, radius int) {
	s.setCanvas(CanvasEvent{Kind: CanvasTarget, X: x, Y: y, Radius: radius})
}

// ClearCanvas blanks the calibration canvas.
func (s *Server) ClearCanvas() {
	s.setCanvas(CanvasEvent{Kind: CanvasClear})
}

// RenderOverlay sends pupil positions, at most once per overlay interval.
// Overlays are transient and do not replace the stored canvas state.
func (s *Server) RenderOverlay(points []gaze.Point) {
	s.overlayMu.Lock()
	now := time.Now()
	if now.Sub(s.lastOverlay) < s.cfg.Overlay {
		s.overlayMu.Unlock()
		return
	}
	s.lastOverlay = now
	s.overlayMu.Unlock()

	s.broadcast(s.canvasHub, CanvasEvent{Kind: CanvasOverlay, Points: points})
}

func (s *Server) setCanvas(ev CanvasEvent) {
	s.canvasMu.Lock()
	s.canvas = ev
	s.canvasMu.Unlock()
	s.broadcast(s.canvasHub, ev)
}

// PublishStatus pushes a session snapshot to status subscribers.
func (s *Server) PublishStatus(st session.Status) {
	s.broadcast(s.statusHub, st)
}

// AddLog adds a log entry and broadcasts to clients
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > s.cfg.MaxLogs {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.broadcast(s.logHub, entry)
}

// SendCameraFrame sends a camera frame to all connected clients
func (s *Server) SendCameraFrame(jpegData []byte) {
	s.cameraHub.BroadcastBinary(jpegData)
}

func (s *Server) broadcast(h *hub.Hub, v interface{}) {
	if err := h.BroadcastJSON(v); err != nil {
		s.logger.Warn("encode broadcast", "error", err)
	}
}
