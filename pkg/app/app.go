package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/audioio"
	"github.com/teslashibe/go-gaze/pkg/camera"
	"github.com/teslashibe/go-gaze/pkg/debug"
	"github.com/teslashibe/go-gaze/pkg/dispatch"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/landmark"
	"github.com/teslashibe/go-gaze/pkg/landmark/yunet"
	"github.com/teslashibe/go-gaze/pkg/pointer"
	"github.com/teslashibe/go-gaze/pkg/session"
	"github.com/teslashibe/go-gaze/pkg/speech"
	"github.com/teslashibe/go-gaze/pkg/voice"
	"github.com/teslashibe/go-gaze/pkg/web"
)

const (
	// How often the dashboard gets a status snapshot
	statusInterval = 200 * time.Millisecond
	// How often an annotated camera frame is streamed
	previewInterval = 100 * time.Millisecond
)

// App is the main application orchestrator.
// It manages all components and their lifecycle.
type App struct {
	config Config
	logger *slog.Logger

	// Vision
	capture       *camera.Capture
	cameraManager *camera.Manager
	oracle        landmark.Oracle

	// Pointer
	injector   pointer.Injector
	queue      *dispatch.Queue
	dispatcher *dispatch.Dispatcher
	session    *session.Session

	// Voice
	mic   audioio.Source
	voice *voice.Channel

	// Web dashboard
	webServer *web.Server

	lastPreview time.Time
	closeOnce   sync.Once
	closers     []io.Closer
}

// New creates a new application with the given configuration.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	debug.Enabled = cfg.Debug
	debug.Gaze = cfg.DebugGaze

	return &App{
		config: cfg,
		logger: log.With("component", "app"),
	}, nil
}

// Init opens the camera, microphone and dashboard and builds the session.
// Call this after New() and before Run().
func (a *App) Init(ctx context.Context) error {
	a.logger.Info("go-gaze starting", "landmarks", a.config.Landmarks, "dry_run", a.config.DryRun)

	// Dashboard first so every component's logs reach it
	if !a.config.NoDashboard {
		if err := a.initDashboard(); err != nil {
			return fmt.Errorf("dashboard init: %w", err)
		}
	}
	if err := a.initPointer(); err != nil {
		return fmt.Errorf("pointer init: %w", err)
	}
	if err := a.initVision(); err != nil {
		return fmt.Errorf("vision init: %w", err)
	}
	if err := a.initSession(); err != nil {
		return fmt.Errorf("session init: %w", err)
	}
	if !a.config.NoVoice {
		if err := a.initVoice(ctx); err != nil {
			// Gaze control works without voice
			a.logger.Warn("voice commands disabled", "error", err)
		}
	}
	return nil
}

// initPointer picks the injector and resolves the screen size.
func (a *App) initPointer() error {
	if a.config.DryRun {
		a.injector = pointer.NewRecorder()
	} else {
		a.injector = pointer.NewRobot(log.With("component", "pointer"))
	}

	sc := &a.config.Session
	if sc.ScreenWidth == 0 || sc.ScreenHeight == 0 {
		w, h := DefaultScreenWidth, DefaultScreenHeight
		if sizer, ok := a.injector.(pointer.ScreenSizer); ok {
			if sw, sh := sizer.ScreenSize(); sw > 0 && sh > 0 {
				w, h = sw, sh
			}
		}
		sc.ScreenWidth, sc.ScreenHeight = w, h
	}
	a.logger.Info("screen", "width", sc.ScreenWidth, "height", sc.ScreenHeight)

	a.queue = dispatch.NewQueue(sc.QueueCapacity, log.With("component", "queue"))
	a.dispatcher = dispatch.New(a.injector, a.queue, log.With("component", "dispatch"))
	return nil
}

// initVision opens the camera and the landmark backend.
func (a *App) initVision() error {
	capture, err := camera.Open(a.config.Camera, log.With("component", "camera"))
	if err != nil {
		return err
	}
	a.capture = capture
	a.closers = append(a.closers, capture)

	a.cameraManager = camera.NewManager(a.config.Camera)
	a.cameraManager.OnConfigChange = a.capture.Reconfigure
	if a.webServer != nil {
		a.webServer.Camera = a.cameraManager
	}

	switch a.config.Landmarks {
	case LandmarksYuNet:
		det, err := yunet.New(a.config.YuNet)
		if err != nil {
			a.logger.Error("yunet unavailable",
				"error", err,
				"hint", "curl -L https://github.com/opencv/opencv_zoo/raw/main/models/face_detection_yunet/face_detection_yunet_2023mar.onnx -o "+a.config.YuNet.ModelPath,
			)
			return err
		}
		a.logger.Warn("yunet reports eye centers only; blink clicks are disabled")
		a.oracle = det
		a.closers = append(a.closers, det)
	default:
		mesh, err := landmark.NewMeshClient(a.config.Mesh, log.With("component", "mesh"))
		if err != nil {
			return err
		}
		a.oracle = mesh
		a.closers = append(a.closers, mesh)
	}
	return nil
}

// initDashboard creates the web server and mirrors logs into it.
func (a *App) initDashboard() error {
	srv, err := web.NewServer(a.config.Dashboard, log.With("component", "web"))
	if err != nil {
		return err
	}
	a.webServer = srv

	log.Tee(log.NewFuncHandler(slog.LevelInfo, func(level slog.Level, line string) {
		srv.AddLog(logType(level), line)
	}))
	a.logger = log.With("component", "app")
	return nil
}

func logType(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	default:
		return "info"
	}
}

// initSession builds the frame loop.
func (a *App) initSession() error {
	var presenter session.Presenter = session.NopPresenter{}
	if a.webServer != nil {
		presenter = a.webServer
	}

	sess, err := session.New(a.config.Session, a.capture, a.oracle, a.dispatcher, presenter, log.L())
	if err != nil {
		return err
	}
	a.session = sess

	a.dispatcher.OnAction = func(act gaze.Action) {
		sess.RecordAction(act)
		if act.Type != gaze.ActionMove && a.webServer != nil {
			a.webServer.AddLog("action", act.String())
		}
	}

	if a.webServer != nil {
		a.webServer.Status = sess.Status
		a.webServer.OnStart = sess.Begin
		sess.OnFrame = a.preview
	}
	return nil
}

// preview streams a throttled, annotated copy of the frame to the dashboard.
func (a *App) preview(frame gaze.Frame, s gaze.Sample, ok bool) {
	if frame.Seq == 0 || time.Since(a.lastPreview) < previewInterval {
		return
	}
	a.lastPreview = time.Now()

	jpeg := frame.JPEG
	if ok && len(s.Pupils) > 0 {
		annotated, err := camera.Annotate(frame.JPEG, s.Pupils, a.config.Camera.Quality)
		if err != nil {
			debug.Log("⚠️  annotate frame %d: %v\n", frame.Seq, err)
		} else {
			jpeg = annotated
		}
	}
	a.webServer.SendCameraFrame(jpeg)
}

// initVoice opens the microphone and speech recognizer.
func (a *App) initVoice(ctx context.Context) error {
	rec, err := speech.NewGoogle(ctx, a.config.Speech, log.With("component", "speech"))
	if err != nil {
		return err
	}

	mic, err := audioio.NewSource(a.config.Audio, log.With("component", "audio"))
	if err != nil {
		return err
	}

	ch, err := voice.New(a.config.Session.Voice(), mic, rec, a.queue, log.With("component", "voice"))
	if err != nil {
		mic.Close()
		return err
	}
	ch.Metrics().OnUpdate(func(m voice.Metrics) {
		debug.Log("🎤 %s (%d phrases, %d commands)\n", m.FormatLatency(), m.Phrases, m.Commands)
	})
	a.mic = mic
	a.voice = ch
	a.closers = append(a.closers, mic)
	return nil
}

// Run starts the main event loop.
// Blocks until ctx is cancelled or the camera fails.
func (a *App) Run(ctx context.Context) error {
	if a.session == nil {
		return errors.New("app: Init must be called before Run")
	}

	if a.webServer != nil {
		a.webServer.StartAsync()
		a.logger.Info("dashboard ready", "url", config.DashboardURL(a.config.Dashboard.Port))
		go a.publishStatus(ctx)
	}

	if a.voice != nil {
		if err := a.mic.Start(ctx); err != nil {
			a.logger.Warn("microphone unavailable, voice commands disabled", "error", err)
		} else {
			go func() {
				if err := a.voice.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					a.logger.Error("voice channel stopped", "error", err)
				}
			}()
		}
	}

	if !a.config.Session.AutoStart {
		a.logger.Info("waiting for calibration start", "hint", "press Start Calibration on the dashboard")
	}

	err := a.session.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) publishStatus(ctx context.Context) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := a.session.Status()
			a.webServer.PublishStatus(st)
			debug.Log("📊 %s target %d/%d frames=%d faceless=%d\n",
				st.Phase, st.TargetIndex+1, st.TargetCount, st.Frames, st.Faceless)
		}
	}
}

// Shutdown gracefully shuts down all components.
func (a *App) Shutdown() {
	a.closeOnce.Do(func() {
		if a.webServer != nil {
			if err := a.webServer.Shutdown(); err != nil {
				a.logger.Warn("dashboard shutdown", "error", err)
			}
		}
		if src, ok := a.mic.(audioio.SourceWithStats); ok {
			st := src.Stats()
			a.logger.Info("microphone stats", "backend", st.Backend, "chunks", st.ChunksRead, "samples", st.SamplesRead)
		}
		if a.voice != nil {
			cur, avg := a.voice.Metrics().Current(), a.voice.Metrics().Average()
			a.logger.Info("voice stats", "phrases", cur.Phrases, "commands", cur.Commands, "failures", cur.Failures, "latency", avg.FormatLatency())
		}
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i].Close(); err != nil {
				a.logger.Warn("close", "error", err)
			}
		}
		a.logger.Info("goodbye")
	})
}
