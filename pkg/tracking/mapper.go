package tracking

import "github.com/teslashibe/go-gaze/pkg/gaze"

// Mapper converts iris coordinates to screen pixels using calibration bounds.
type Mapper struct {
	Bounds gaze.Bounds
	Width  float64
	Height float64
}

// NewMapper creates a mapper for a screen of the given size.
func NewMapper(bounds gaze.Bounds, width, height int) Mapper {
	return Mapper{Bounds: bounds, Width: float64(width), Height: float64(height)}
}

// Map linearly interpolates the sample into screen space. Inputs outside
// the calibrated range clamp to the screen edge.
func (m Mapper) Map(s gaze.Sample) gaze.Point {
	return gaze.Point{
		X: interp(s.IrisX, m.Bounds.MinX, m.Bounds.MaxX, m.Width),
		Y: interp(s.IrisY, m.Bounds.MinY, m.Bounds.MaxY, m.Height),
	}
}

func interp(v, lo, hi, span float64) float64 {
	if hi <= lo {
		return 0
	}
	if v <= lo {
		return 0
	}
	if v >= hi {
		return span
	}
	return (v - lo) / (hi - lo) * span
}

// clamp limits a value to a range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
