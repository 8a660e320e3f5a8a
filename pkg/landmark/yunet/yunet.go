package yunet

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/teslashibe/go-gaze/pkg/debug"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/landmark"
	"gocv.io/x/gocv"
)

// Detector uses OpenCV's FaceDetectorYN to locate eye centres.
type Detector struct {
	detector gocv.FaceDetectorYN
	config   Config
	mu       sync.Mutex // Protects inference
}

// New creates a new YuNet detector using GoCV's built-in FaceDetectorYN
func New(cfg Config) (*Detector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	// Input size is updated per image
	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"",
		image.Pt(cfg.InputWidth, cfg.InputHeight),
		float32(cfg.ConfidenceThresh),
		0.3,  // NMS threshold
		5000, // Top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &Detector{
		detector: detector,
		config:   cfg,
	}, nil
}

// Detect finds faces in the JPEG image
func (d *Detector) Detect(jpeg []byte) ([]Face, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	imgW := float64(img.Cols())
	imgH := float64(img.Rows())

	d.detector.SetInputSize(image.Pt(img.Cols(), img.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()

	d.detector.Detect(img, &faces)

	var out []Face
	for r := 0; r < faces.Rows(); r++ {
		// YuNet output format (15 columns):
		// 0-3: x, y, w, h (bounding box in pixels)
		// 4-7: right eye x,y then left eye x,y
		// 8-13: nose tip, mouth corners
		// 14: face score
		at := func(c int) float64 { return float64(faces.GetFloatAt(r, c)) }

		out = append(out, Face{
			X:          at(0) / imgW,
			Y:          at(1) / imgH,
			W:          at(2) / imgW,
			H:          at(3) / imgH,
			RightEye:   gaze.Point{X: at(4) / imgW, Y: at(5) / imgH},
			LeftEye:    gaze.Point{X: at(6) / imgW, Y: at(7) / imgH},
			Confidence: at(14),
		})
	}

	if len(out) > 0 {
		debug.GazeLog("👁️  YuNet found %d face(s)\n", len(out))
	}

	return out, nil
}

// Sample implements landmark.Oracle. The eyelid gap is always
// landmark.OpenEyelid.
func (d *Detector) Sample(frame gaze.Frame) (gaze.Sample, bool, error) {
	faces, err := d.Detect(frame.JPEG)
	if err != nil {
		return gaze.Sample{}, false, err
	}
	best := SelectBest(faces)
	if best == nil {
		return gaze.Sample{}, false, nil
	}
	return best.Sample(landmark.OpenEyelid), true, nil
}

// Close releases the detector resources
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return nil
}

var _ landmark.Oracle = (*Detector)(nil)
