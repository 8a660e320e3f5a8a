// Package landmark turns camera frames into gaze samples.
//
// The primary Oracle is MeshClient, which sends each JPEG frame to a face
// mesh sidecar and reads back the 478-point MediaPipe landmark set. The
// yunet subpackage provides an in-process fallback that tracks the eyes but
// cannot see blinks.
package landmark

import (
	"fmt"
	"math"

	"github.com/teslashibe/go-gaze/pkg/gaze"
)

// Oracle extracts one gaze sample from a frame.
// ok is false when no face was found; the frame should then be skipped.
type Oracle interface {
	Sample(frame gaze.Frame) (s gaze.Sample, ok bool, err error)
}

// Face mesh landmark indices.
const (
	RightIris      = 468
	LeftIris       = 473
	LeftUpperLid   = 159
	LeftLowerLid   = 145
	MeshPoints     = 478 // with refined iris landmarks
	DefaultMinConf = 0.9
)

// OpenEyelid is reported as the eyelid gap by oracles that cannot measure
// it. It is far above any blink threshold.
const OpenEyelid = 1.0

// FromMesh builds a sample from normalized mesh landmarks ([x, y] or
// [x, y, z] per point).
func FromMesh(points [][]float64) (gaze.Sample, error) {
	if len(points) < MeshPoints {
		return gaze.Sample{}, fmt.Errorf("%w: %d points, need %d", ErrMalformedMesh, len(points), MeshPoints)
	}
	for _, i := range []int{RightIris, LeftIris, LeftUpperLid, LeftLowerLid} {
		if len(points[i]) < 2 {
			return gaze.Sample{}, fmt.Errorf("%w: point %d has %d coordinates", ErrMalformedMesh, i, len(points[i]))
		}
	}

	right := gaze.Point{X: points[RightIris][0], Y: points[RightIris][1]}
	left := gaze.Point{X: points[LeftIris][0], Y: points[LeftIris][1]}

	return gaze.Sample{
		IrisX:     (right.X + left.X) / 2,
		IrisY:     (right.Y + left.Y) / 2,
		EyelidGap: math.Abs(points[LeftUpperLid][1] - points[LeftLowerLid][1]),
		Pupils:    []gaze.Point{right, left},
	}, nil
}
