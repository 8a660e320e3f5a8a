// Package session runs the per-frame gaze pipeline: read a frame, extract a
// sample, calibrate or track, and dispatch the resulting pointer actions.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-gaze/pkg/calibration"
	"github.com/teslashibe/go-gaze/pkg/dispatch"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/landmark"
	"github.com/teslashibe/go-gaze/pkg/tracking"
)

// FrameSource yields camera frames. Errors are fatal for the frame loop.
type FrameSource interface {
	Read() (gaze.Frame, error)
}

// Status is a snapshot of the session for dashboards.
type Status struct {
	ID          string         `json:"id"`
	Phase       string         `json:"phase"`
	TargetIndex int            `json:"target_index"`
	TargetCount int            `json:"target_count"`
	Collected   int            `json:"collected"`
	PerTarget   int            `json:"per_target"`
	Pointer     gaze.Point     `json:"pointer"`
	Bounds      *gaze.Bounds   `json:"bounds,omitempty"`
	LastAction  string         `json:"last_action,omitempty"`
	LastError   string         `json:"last_error,omitempty"`
	Frames      uint64         `json:"frames"`
	Faceless    uint64         `json:"faceless"`
	Restarts    int            `json:"calibration_restarts"`
	Dispatch    dispatch.Stats `json:"dispatch"`
}

// Session owns one gaze-to-pointer pipeline instance.
type Session struct {
	id         string
	cfg        Config
	frames     FrameSource
	oracle     landmark.Oracle
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger

	// Frame loop state, single writer
	calib    *calibration.Controller
	tracker  *tracking.Tracker
	pres     presentation
	frameN   uint64
	faceless uint64
	oracleN  uint64
	restarts int

	startReq atomic.Bool

	mu     sync.RWMutex
	status Status

	// OnFrame, if set, is called for every frame read, with the sample when
	// a face was found. It runs on the frame loop.
	OnFrame func(frame gaze.Frame, s gaze.Sample, ok bool)
}

// New creates a session. cfg.ScreenWidth and cfg.ScreenHeight must be set.
func New(cfg Config, frames FrameSource, oracle landmark.Oracle, dispatcher *dispatch.Dispatcher, presenter Presenter, logger *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	if cfg.ScreenWidth == 0 || cfg.ScreenHeight == 0 {
		return nil, errors.New("session: screen size is required")
	}
	if frames == nil || oracle == nil || dispatcher == nil {
		return nil, errors.New("session: frames, oracle and dispatcher are required")
	}
	if presenter == nil {
		presenter = NopPresenter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New().String()
	logger = logger.With("session", id[:8])

	calib, err := calibration.New(cfg.CalibrationTargets(), cfg.SamplesPerTarget, logger)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:         id,
		cfg:        cfg,
		frames:     frames,
		oracle:     oracle,
		dispatcher: dispatcher,
		logger:     logger,
		calib:      calib,
		pres:       presentation{out: presenter, radius: cfg.TargetRadius},
	}
	s.status = Status{
		ID:          id,
		Phase:       calib.Phase().String(),
		TargetCount: len(calib.Targets()),
		PerTarget:   cfg.SamplesPerTarget,
		Pointer:     gaze.Point{X: float64(cfg.ScreenWidth) / 2, Y: float64(cfg.ScreenHeight) / 2},
	}
	if cfg.AutoStart {
		s.Begin()
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Begin requests leaving the start screen. It is safe to call from any
// goroutine; the frame loop applies it on its next step.
func (s *Session) Begin() {
	s.startReq.Store(true)
}

// Status returns the latest snapshot.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.status
	st.Dispatch = s.dispatcher.Stats()
	return st
}

// Step runs one frame of the pipeline. It only returns an error when the
// camera fails; that error matches gaze.ErrCameraUnavailable.
func (s *Session) Step(now time.Time) error {
	if s.startReq.Swap(false) {
		s.calib.Begin()
	}

	frame, err := s.frames.Read()
	if err != nil {
		if !errors.Is(err, gaze.ErrCameraUnavailable) {
			err = fmt.Errorf("%w: %v", gaze.ErrCameraUnavailable, err)
		}
		return err
	}
	s.frameN++

	sample, ok, err := s.oracle.Sample(frame)
	if err != nil {
		s.oracleN++
		// First failure and then one in a hundred
		if s.oracleN%100 == 1 {
			s.logger.Warn("landmark extraction failed", "error", err, "failures", s.oracleN)
		}
		ok = false
	}
	if s.OnFrame != nil {
		s.OnFrame(frame, sample, ok)
	}

	var stepErr error
	if ok {
		s.pres.out.RenderOverlay(sample.Pupils)
		stepErr = s.process(sample, now)
	} else {
		s.faceless++
	}

	// Voice actions flow even when no face is visible.
	s.dispatcher.Drain()

	s.pres.sync(s.calib)
	s.publish(stepErr)
	return nil
}

// process feeds one sample to calibration or tracking.
func (s *Session) process(sample gaze.Sample, now time.Time) error {
	switch s.calib.Phase() {
	case calibration.PhaseCalibrating:
		step, err := s.calib.Add(sample)
		if err != nil {
			s.restarts++
			s.pres.invalidate()
			return err
		}
		if step.Completed {
			bounds, _ := s.calib.Bounds()
			s.tracker = tracking.New(s.cfg.Tracking(), bounds, s.cfg.ScreenWidth, s.cfg.ScreenHeight, s.logger)
		}
	case calibration.PhaseActive:
		s.dispatcher.Dispatch(s.tracker.Update(sample, now)...)
	}
	return nil
}

func (s *Session) publish(stepErr error) {
	index, collected := s.calib.Progress()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.Phase = s.calib.Phase().String()
	s.status.TargetIndex = index
	s.status.Collected = collected
	s.status.Frames = s.frameN
	s.status.Faceless = s.faceless
	s.status.Restarts = s.restarts
	if s.tracker != nil {
		s.status.Pointer = s.tracker.State().Smoothed
		b := s.tracker.Bounds()
		s.status.Bounds = &b
	}
	if stepErr != nil {
		s.status.LastError = stepErr.Error()
	}
}

// RecordAction stores a for the status snapshot. Wire it to
// dispatch.Dispatcher.OnAction.
func (s *Session) RecordAction(a gaze.Action) {
	if a.Type == gaze.ActionMove {
		return
	}
	s.mu.Lock()
	s.status.LastAction = a.String()
	s.mu.Unlock()
}

// Run steps the pipeline every FrameInterval until ctx is done or the
// camera fails.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.FrameInterval)
	defer ticker.Stop()

	s.logger.Info("session running",
		"id", s.id,
		"screen", fmt.Sprintf("%dx%d", s.cfg.ScreenWidth, s.cfg.ScreenHeight),
		"frame_interval", s.cfg.FrameInterval,
		"targets", len(s.calib.Targets()),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := s.Step(now); err != nil {
				s.logger.Error("frame loop halted", "error", err)
				return err
			}
		}
	}
}
