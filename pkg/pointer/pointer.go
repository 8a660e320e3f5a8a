// Package pointer injects pointer motion, clicks and scrolling into the OS.
package pointer

// Injector drives the system pointer. Calls are synchronous and
// fire-and-forget.
type Injector interface {
	MoveTo(x, y int)
	ClickPrimary()
	ClickSecondary()
	DoubleClick()
	ScrollBy(delta int) // Positive scrolls up
}

// ScreenSizer reports the primary display size in pixels.
type ScreenSizer interface {
	ScreenSize() (width, height int)
}
