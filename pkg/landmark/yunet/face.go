// Package yunet is a landmark fallback built on OpenCV's FaceDetectorYN.
// YuNet reports eye centres but no eyelids, so blink clicks never fire
// with it; dwell and voice still work.
package yunet

import "github.com/teslashibe/go-gaze/pkg/gaze"

// Face represents a detected face
type Face struct {
	X, Y       float64    // Top-left corner (0-1 normalized)
	W, H       float64    // Width and height (0-1 normalized)
	RightEye   gaze.Point // Subject's right eye (0-1 normalized)
	LeftEye    gaze.Point // Subject's left eye (0-1 normalized)
	Confidence float64    // Detection confidence (0-1)
}

// Center returns the center point of the face box
func (f Face) Center() (x, y float64) {
	return f.X + f.W/2, f.Y + f.H/2
}

// Area returns the area of the bounding box
func (f Face) Area() float64 {
	return f.W * f.H
}

// Sample converts the eye centres to a gaze sample.
func (f Face) Sample(eyelidGap float64) gaze.Sample {
	return gaze.Sample{
		IrisX:     (f.RightEye.X + f.LeftEye.X) / 2,
		IrisY:     (f.RightEye.Y + f.LeftEye.Y) / 2,
		EyelidGap: eyelidGap,
		Pupils:    []gaze.Point{f.RightEye, f.LeftEye},
	}
}

// Config holds detector configuration
type Config struct {
	ModelPath        string  `yaml:"model_path" json:"model_path"`   // Path to ONNX model
	ConfidenceThresh float64 `yaml:"confidence" json:"confidence"`   // Minimum confidence (default 0.9)
	InputWidth       int     `yaml:"input_width" json:"input_width"` // Model input width
	InputHeight      int     `yaml:"input_height" json:"input_height"`
}

// DefaultConfig returns production defaults for YuNet
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.9,
		InputWidth:       320,
		InputHeight:      320,
	}
}

// SelectBest picks the face to track from multiple detections.
// Priority: confidence * 0.7 + area * 0.3, so the nearest confident face wins.
func SelectBest(faces []Face) *Face {
	if len(faces) == 0 {
		return nil
	}

	if len(faces) == 1 {
		return &faces[0]
	}

	// Find max area for normalization
	maxArea := 0.0
	for _, f := range faces {
		if f.Area() > maxArea {
			maxArea = f.Area()
		}
	}

	bestScore := -1.0
	var best *Face

	for i := range faces {
		score := faces[i].Confidence*0.7 + (faces[i].Area()/maxArea)*0.3
		if score > bestScore {
			bestScore = score
			best = &faces[i]
		}
	}

	return best
}
