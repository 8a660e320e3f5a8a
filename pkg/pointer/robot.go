package pointer

import (
	"log/slog"

	"github.com/go-vgo/robotgo"
)

// Robot injects pointer events through robotgo.
type Robot struct {
	logger *slog.Logger
}

// NewRobot creates a robotgo-backed injector.
func NewRobot(logger *slog.Logger) *Robot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Robot{logger: logger}
}

// MoveTo moves the pointer to absolute screen coordinates.
func (r *Robot) MoveTo(x, y int) {
	robotgo.Move(x, y)
}

// ClickPrimary clicks the left button.
func (r *Robot) ClickPrimary() {
	robotgo.Click("left")
}

// ClickSecondary clicks the right button.
func (r *Robot) ClickSecondary() {
	robotgo.Click("right")
}

// DoubleClick double-clicks the left button.
func (r *Robot) DoubleClick() {
	robotgo.Click("left", true)
}

// ScrollBy scrolls vertically. Positive values scroll up.
func (r *Robot) ScrollBy(delta int) {
	robotgo.Scroll(0, delta)
}

// ScreenSize returns the main display size.
func (r *Robot) ScreenSize() (int, int) {
	w, h := robotgo.GetScreenSize()
	r.logger.Debug("screen size", "width", w, "height", h)
	return w, h
}

var (
	_ Injector    = (*Robot)(nil)
	_ ScreenSizer = (*Robot)(nil)
)
