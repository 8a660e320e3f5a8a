// Package calibration runs the one-time gaze calibration protocol.
//
// The controller walks an ordered list of on-screen targets, collecting a
// fixed number of iris samples per target. Once the last target is filled
// it derives the iris range across every sample and moves to the active
// phase, after which the pipeline maps gaze with those bounds.
package calibration

import (
	"fmt"
	"log/slog"

	"github.com/teslashibe/go-gaze/pkg/gaze"
	"gonum.org/v1/gonum/floats"
)

// Phase is the calibration state.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseCalibrating
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseCalibrating:
		return "calibrating"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// Step reports what a single Add did.
type Step struct {
	Advanced  bool // Moved to the next target
	Completed bool // Bounds computed, now active
}

// Controller is the calibration state machine. It is not safe for
// concurrent use; the frame loop is its only writer.
type Controller struct {
	targets   []gaze.Target
	perTarget int
	logger    *slog.Logger

	phase   Phase
	index   int
	buckets [][]gaze.Sample
	bounds  gaze.Bounds
	total   int
}

// New creates a controller in the start phase.
func New(targets []gaze.Target, perTarget int, logger *slog.Logger) (*Controller, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	if perTarget <= 0 {
		return nil, fmt.Errorf("calibration: samples per target must be positive, got %d", perTarget)
	}
	if logger == nil {
		logger = slog.Default()
	}

	ordered := make([]gaze.Target, len(targets))
	for i, t := range targets {
		t.Ordinal = i
		ordered[i] = t
	}

	return &Controller{
		targets:   ordered,
		perTarget: perTarget,
		logger:    logger,
	}, nil
}

// Begin leaves the start phase. It has no effect in any other phase.
func (c *Controller) Begin() {
	if c.phase != PhaseStart {
		return
	}
	c.restart()
	c.logger.Info("calibration started",
		"targets", len(c.targets),
		"samples_per_target", c.perTarget,
	)
}

func (c *Controller) restart() {
	c.phase = PhaseCalibrating
	c.index = 0
	c.total = 0
	c.buckets = make([][]gaze.Sample, len(c.targets))
	for i := range c.buckets {
		c.buckets[i] = make([]gaze.Sample, 0, c.perTarget)
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Current returns the target being presented while calibrating.
func (c *Controller) Current() (gaze.Target, bool) {
	if c.phase != PhaseCalibrating {
		return gaze.Target{}, false
	}
	return c.targets[c.index], true
}

// Progress returns the current target index and how many samples it holds.
func (c *Controller) Progress() (index, collected int) {
	if c.phase != PhaseCalibrating {
		return c.index, 0
	}
	return c.index, len(c.buckets[c.index])
}

// Targets returns the ordered calibration targets.
func (c *Controller) Targets() []gaze.Target {
	out := make([]gaze.Target, len(c.targets))
	copy(out, c.targets)
	return out
}

// Bounds returns the calibrated bounds once active.
func (c *Controller) Bounds() (gaze.Bounds, bool) {
	return c.bounds, c.phase == PhaseActive
}

// Add records a sample for the current target. Samples outside the
// calibrating phase are ignored.
//
// When the final target fills and the iris range is flat on either axis,
// Add returns a *gaze.CalibrationDegenerateError and restarts calibration
// from the first target.
func (c *Controller) Add(s gaze.Sample) (Step, error) {
	if c.phase != PhaseCalibrating {
		return Step{}, nil
	}

	c.buckets[c.index] = append(c.buckets[c.index], s)
	c.total++
	if len(c.buckets[c.index]) < c.perTarget {
		return Step{}, nil
	}

	c.index++
	if c.index < len(c.targets) {
		c.logger.Debug("calibration target complete", "next", c.index)
		return Step{Advanced: true}, nil
	}

	bounds := boundsOf(c.buckets)
	if !bounds.Valid() {
		err := &gaze.CalibrationDegenerateError{Bounds: bounds, Samples: c.total}
		c.logger.Warn("calibration degenerate, restarting", "error", err)
		c.restart()
		return Step{}, err
	}

	c.bounds = bounds
	c.phase = PhaseActive
	c.buckets = nil
	c.logger.Info("calibration complete", "bounds", bounds.String(), "samples", c.total)
	return Step{Advanced: true, Completed: true}, nil
}

// boundsOf returns the iris min/max across all buckets combined.
func boundsOf(buckets [][]gaze.Sample) gaze.Bounds {
	var xs, ys []float64
	for _, b := range buckets {
		for _, s := range b {
			xs = append(xs, s.IrisX)
			ys = append(ys, s.IrisY)
		}
	}
	return gaze.Bounds{
		MinX: floats.Min(xs),
		MaxX: floats.Max(xs),
		MinY: floats.Min(ys),
		MaxY: floats.Max(ys),
	}
}
