package session

import (
	"github.com/teslashibe/go-gaze/pkg/calibration"
	"github.com/teslashibe/go-gaze/pkg/gaze"
)

// Presenter draws calibration targets and overlays. Calls come from the
// frame loop and must not block.
type Presenter interface {
	RenderTarget(x, y, radius int)
	ClearCanvas()
	RenderOverlay(points []gaze.Point)
}

// NopPresenter discards every render call.
type NopPresenter struct{}

func (NopPresenter) RenderTarget(x, y, radius int) {}

func (NopPresenter) ClearCanvas() {}

func (NopPresenter) RenderOverlay(points []gaze.Point) {}

// presentation turns calibration phase and target changes into render
// calls. It only emits on change, so a target is drawn once per visit.
type presentation struct {
	out    Presenter
	radius int

	synced bool
	phase  calibration.Phase
	target int
}

// sync brings the canvas up to date with the controller.
func (p *presentation) sync(c *calibration.Controller) {
	phase := c.Phase()
	target, _ := c.Progress()
	if p.synced && phase == p.phase && target == p.target {
		return
	}
	p.synced = true
	p.phase = phase
	p.target = target

	p.out.ClearCanvas()
	if phase != calibration.PhaseCalibrating {
		return
	}
	if t, ok := c.Current(); ok {
		p.out.RenderTarget(t.X, t.Y, p.radius)
	}
}

// invalidate forces the next sync to redraw.
func (p *presentation) invalidate() {
	p.synced = false
}
