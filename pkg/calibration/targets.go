package calibration

import "github.com/teslashibe/go-gaze/pkg/gaze"

// DefaultInset is how far corner targets sit from the screen edge.
const DefaultInset = 150

// DefaultTargets returns four corner targets inset from the edges followed
// by the screen centre: top-left, top-right, bottom-right, bottom-left, centre.
func DefaultTargets(width, height int) []gaze.Target {
	inset := DefaultInset
	if width <= 2*inset || height <= 2*inset {
		inset = min(width, height) / 8
	}

	pts := [][2]int{
		{inset, inset},
		{width - inset, inset},
		{width - inset, height - inset},
		{inset, height - inset},
		{width / 2, height / 2},
	}

	targets := make([]gaze.Target, len(pts))
	for i, p := range pts {
		targets[i] = gaze.Target{X: p[0], Y: p[1], Ordinal: i}
	}
	return targets
}
