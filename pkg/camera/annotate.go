package camera

import (
	"fmt"
	"image"
	"image/color"

	"github.com/teslashibe/go-gaze/pkg/gaze"
	"gocv.io/x/gocv"
)

var pupilColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}

// Annotate draws a marker on each pupil of a JPEG frame and returns the
// re-encoded frame. Pupil coordinates are normalized to the frame.
func Annotate(jpeg []byte, pupils []gaze.Point, quality int) ([]byte, error) {
	if len(pupils) == 0 {
		return jpeg, nil
	}

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	w, h := float64(img.Cols()), float64(img.Rows())
	radius := img.Cols() / 160
	if radius < 3 {
		radius = 3
	}
	for _, p := range pupils {
		center := image.Pt(int(p.X*w), int(p.Y*h))
		gocv.Circle(&img, center, radius, pupilColor, 2)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
