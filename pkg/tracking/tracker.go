package tracking

import (
	"log/slog"
	"math"
	"time"

	"github.com/teslashibe/go-gaze/pkg/debug"
	"github.com/teslashibe/go-gaze/pkg/gaze"
)

// PointerState is the per-session pointer state mutated once per frame.
type PointerState struct {
	Smoothed   gaze.Point `json:"smoothed"`
	LastStill  gaze.Point `json:"last_still"`
	DwellStart time.Time  `json:"dwell_start"`
}

// Tracker runs the active-phase pipeline: map, smooth, detect clicks.
type Tracker struct {
	config Config
	logger *slog.Logger

	// Core components
	mapper   Mapper
	smoother *Smoother
	clicks   *ClickDetector

	lastLogged gaze.Point
}

// New creates a tracker for calibrated bounds on a width x height screen.
// The pointer starts at the screen centre.
func New(config Config, bounds gaze.Bounds, width, height int, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	centre := gaze.Point{X: float64(width) / 2, Y: float64(height) / 2}
	return &Tracker{
		config:     config,
		logger:     logger,
		mapper:     NewMapper(bounds, width, height),
		smoother:   NewSmoother(config.Smoothing, centre),
		clicks:     NewClickDetector(config),
		lastLogged: centre,
	}
}

// Update processes one frame's sample and returns the actions it produces:
// always a move, followed by any clicks.
func (t *Tracker) Update(s gaze.Sample, now time.Time) []gaze.Action {
	mapped := t.mapper.Map(s)
	pos := t.smoother.Update(mapped)

	actions := []gaze.Action{gaze.MoveTo(pos.X, pos.Y)}
	for _, ev := range t.clicks.Update(pos, s.EyelidGap, now) {
		actions = append(actions, gaze.Click(ev.Kind, ev.Source))
		t.logger.Info("gaze click", "source", ev.Source, "x", math.Round(pos.X), "y", math.Round(pos.Y))
	}

	// Log significant movements
	if math.Hypot(pos.X-t.lastLogged.X, pos.Y-t.lastLogged.Y) > t.config.LogThreshold {
		debug.GazeLog("🎯 Pointer: (%.0f, %.0f) ← iris (%.3f, %.3f)\n", pos.X, pos.Y, s.IrisX, s.IrisY)
		t.lastLogged = pos
	}

	return actions
}

// State returns a snapshot of the pointer state.
func (t *Tracker) State() PointerState {
	return PointerState{
		Smoothed:   t.smoother.Position(),
		LastStill:  t.clicks.StillPosition(),
		DwellStart: t.clicks.DwellStart(),
	}
}

// Bounds returns the calibration bounds the tracker maps with.
func (t *Tracker) Bounds() gaze.Bounds {
	return t.mapper.Bounds
}
