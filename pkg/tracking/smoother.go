package tracking

import "github.com/teslashibe/go-gaze/pkg/gaze"

// Smoother low-pass filters pointer positions with an exponential moving average.
type Smoother struct {
	alpha float64
	pos   gaze.Point
}

// NewSmoother creates a smoother starting at the given position.
// alpha is clamped to (0, 1].
func NewSmoother(alpha float64, start gaze.Point) *Smoother {
	if alpha <= 0 {
		alpha = DefaultConfig().Smoothing
	}
	return &Smoother{alpha: clamp(alpha, 0, 1), pos: start}
}

// Update moves the smoothed position a fraction alpha toward target and
// returns it.
func (s *Smoother) Update(target gaze.Point) gaze.Point {
	s.pos.X += s.alpha * (target.X - s.pos.X)
	s.pos.Y += s.alpha * (target.Y - s.pos.Y)
	return s.pos
}

// Position returns the current smoothed position.
func (s *Smoother) Position() gaze.Point {
	return s.pos
}
