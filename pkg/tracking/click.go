package tracking

import (
	"time"

	"github.com/teslashibe/go-gaze/pkg/gaze"
	"gonum.org/v1/gonum/floats"
)

// ClickDetector derives primary clicks from two independent triggers:
// eyelid closure (blink) and a still pointer (dwell). Each trigger keeps
// its own timing state; a frame may fire both.
type ClickDetector struct {
	cfg Config

	// Blink trigger
	lastBlink time.Time
	blinked   bool

	// Dwell trigger
	still      gaze.Point
	hasStill   bool
	dwellStart time.Time
}

// NewClickDetector creates a detector with the given timing parameters.
func NewClickDetector(cfg Config) *ClickDetector {
	return &ClickDetector{cfg: cfg}
}

// Update evaluates both triggers for one frame. pos is the smoothed pointer
// position and eyelidGap the frame's eyelid distance.
func (d *ClickDetector) Update(pos gaze.Point, eyelidGap float64, now time.Time) []gaze.ClickEvent {
	var events []gaze.ClickEvent

	if d.blink(eyelidGap, now) {
		events = append(events, gaze.ClickEvent{Kind: gaze.ClickPrimary, Source: gaze.SourceBlink})
	}
	if d.dwell(pos, now) {
		events = append(events, gaze.ClickEvent{Kind: gaze.ClickPrimary, Source: gaze.SourceDwell})
	}

	return events
}

func (d *ClickDetector) blink(gap float64, now time.Time) bool {
	if gap >= d.cfg.BlinkThreshold {
		return false
	}
	if d.blinked && now.Sub(d.lastBlink) < d.cfg.BlinkDebounce {
		return false
	}
	d.blinked = true
	d.lastBlink = now
	return true
}

func (d *ClickDetector) dwell(pos gaze.Point, now time.Time) bool {
	if !d.hasStill {
		d.still = pos
		d.dwellStart = now
		d.hasStill = true
		return false
	}

	dist := floats.Distance([]float64{pos.X, pos.Y}, []float64{d.still.X, d.still.Y}, 2)
	if dist >= d.cfg.StillRadius {
		d.still = pos
		d.dwellStart = now
		return false
	}

	if now.Sub(d.dwellStart) > d.cfg.DwellTime {
		d.dwellStart = now
		return true
	}
	return false
}

// StillPosition returns the anchor the dwell trigger measures from.
func (d *ClickDetector) StillPosition() gaze.Point {
	return d.still
}

// DwellStart returns when the pointer last became still.
func (d *ClickDetector) DwellStart() time.Time {
	return d.dwellStart
}
