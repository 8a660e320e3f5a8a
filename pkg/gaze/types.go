// Package gaze defines the values that flow through the gaze-to-pointer
// pipeline: per-frame samples, calibration targets and bounds, click events,
// and the pointer actions consumed by the dispatcher.
package gaze

import "fmt"

// Sample is one frame's iris and eyelid reading.
type Sample struct {
	IrisX     float64 // Normalized 0-1, mirrored frame
	IrisY     float64 // Normalized 0-1
	EyelidGap float64 // Normalized vertical eyelid distance

	// Pupils holds the individual pupil centres in normalized frame
	// coordinates, for overlays. May be empty.
	Pupils []Point
}

// Frame is one mirrored camera frame, JPEG encoded.
type Frame struct {
	JPEG   []byte
	Width  int
	Height int
	Seq    uint64
}

// Target is a calibration point on screen.
type Target struct {
	X       int `json:"x" yaml:"x"`
	Y       int `json:"y" yaml:"y"`
	Ordinal int `json:"ordinal" yaml:"-"`
}

// Point is a screen position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is the iris range observed during calibration.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Valid reports whether both axes have a non-zero extent.
func (b Bounds) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Width returns the horizontal iris extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical iris extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

func (b Bounds) String() string {
	return fmt.Sprintf("x=[%.4f,%.4f] y=[%.4f,%.4f]", b.MinX, b.MaxX, b.MinY, b.MaxY)
}

// ClickKind identifies which button gesture to inject.
type ClickKind string

const (
	ClickPrimary   ClickKind = "primary"
	ClickSecondary ClickKind = "secondary"
	ClickDouble    ClickKind = "double"
)

// Source identifies what produced a click.
type Source string

const (
	SourceBlink Source = "blink"
	SourceDwell Source = "dwell"
	SourceVoice Source = "voice"
)

// ClickEvent is a click decided by a trigger.
type ClickEvent struct {
	Kind   ClickKind
	Source Source
}

// ActionType tags the Action variant.
type ActionType int

const (
	ActionMove ActionType = iota
	ActionClick
	ActionScroll
)

func (t ActionType) String() string {
	switch t {
	case ActionMove:
		return "move"
	case ActionClick:
		return "click"
	case ActionScroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// Action is a pointer command. Only the fields of its Type are meaningful.
type Action struct {
	Type  ActionType
	X, Y  float64    // ActionMove
	Click ClickEvent // ActionClick
	Delta int        // ActionScroll, positive scrolls up
}

// MoveTo returns a pointer move action.
func MoveTo(x, y float64) Action {
	return Action{Type: ActionMove, X: x, Y: y}
}

// Click returns a click action.
func Click(kind ClickKind, source Source) Action {
	return Action{Type: ActionClick, Click: ClickEvent{Kind: kind, Source: source}}
}

// Scroll returns a scroll action.
func Scroll(delta int) Action {
	return Action{Type: ActionScroll, Delta: delta}
}

func (a Action) String() string {
	switch a.Type {
	case ActionMove:
		return fmt.Sprintf("move(%.0f,%.0f)", a.X, a.Y)
	case ActionClick:
		return fmt.Sprintf("click(%s,%s)", a.Click.Kind, a.Click.Source)
	case ActionScroll:
		return fmt.Sprintf("scroll(%d)", a.Delta)
	default:
		return "unknown"
	}
}
