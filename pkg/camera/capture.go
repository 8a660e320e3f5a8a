package camera

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/teslashibe/go-gaze/pkg/gaze"
	"gocv.io/x/gocv"
)

// Capture reads frames from a local camera through OpenCV.
type Capture struct {
	logger *slog.Logger

	mu     sync.Mutex
	cfg    Config
	vc     *gocv.VideoCapture
	img    gocv.Mat
	mirror gocv.Mat
	seq    uint64
}

// Open opens the capture device described by cfg.
func Open(cfg Config, logger *slog.Logger) (*Capture, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid camera config: %v", errs)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Capture{
		logger: logger,
		img:    gocv.NewMat(),
		mirror: gocv.NewMat(),
	}
	if err := c.open(cfg); err != nil {
		c.img.Close()
		c.mirror.Close()
		return nil, err
	}
	return c, nil
}

// open must be called with mu held or before c is shared.
func (c *Capture) open(cfg Config) error {
	var device interface{} = cfg.Device
	if idx, err := strconv.Atoi(cfg.Device); err == nil {
		device = idx
	}

	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", gaze.ErrCameraUnavailable, cfg.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return fmt.Errorf("%w: device %s not opened", gaze.ErrCameraUnavailable, cfg.Device)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	if c.vc != nil {
		c.vc.Close()
	}
	c.vc = vc
	c.cfg = cfg

	c.logger.Info("camera opened",
		"device", cfg.Device,
		"width", cfg.Width,
		"height", cfg.Height,
		"fps", cfg.Framerate,
		"mirror", cfg.Mirror,
	)
	return nil
}

// Reconfigure reopens the device with cfg. Suitable as Manager.OnConfigChange.
func (c *Capture) Reconfigure(cfg Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open(cfg)
}

// Read grabs the next frame, mirrors it if configured and encodes it as JPEG.
// Failures wrap gaze.ErrCameraUnavailable.
func (c *Capture) Read() (gaze.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vc == nil {
		return gaze.Frame{}, fmt.Errorf("%w: capture closed", gaze.ErrCameraUnavailable)
	}
	if ok := c.vc.Read(&c.img); !ok || c.img.Empty() {
		return gaze.Frame{}, fmt.Errorf("%w: read failed on %s", gaze.ErrCameraUnavailable, c.cfg.Device)
	}

	src := c.img
	if c.cfg.Mirror {
		gocv.Flip(c.img, &c.mirror, 1)
		src = c.mirror
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, src, []int{gocv.IMWriteJpegQuality, c.cfg.Quality})
	if err != nil {
		return gaze.Frame{}, fmt.Errorf("%w: encode: %v", gaze.ErrCameraUnavailable, err)
	}
	defer buf.Close()

	data := buf.GetBytes()
	jpeg := make([]byte, len(data))
	copy(jpeg, data)

	c.seq++
	return gaze.Frame{
		JPEG:   jpeg,
		Width:  src.Cols(),
		Height: src.Rows(),
		Seq:    c.seq,
	}, nil
}

// Config returns the active capture configuration.
func (c *Capture) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Close releases the device.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.vc != nil {
		err = c.vc.Close()
		c.vc = nil
	}
	c.img.Close()
	c.mirror.Close()
	return err
}
