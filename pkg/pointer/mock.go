package pointer

import (
	"fmt"
	"sync"
)

// Recorder is an Injector that records calls for testing.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(call string) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

// MoveTo records a move.
func (r *Recorder) MoveTo(x, y int) { r.record(fmt.Sprintf("move %d %d", x, y)) }

// ClickPrimary records a primary click.
func (r *Recorder) ClickPrimary() { r.record("click primary") }

// ClickSecondary records a secondary click.
func (r *Recorder) ClickSecondary() { r.record("click secondary") }

// DoubleClick records a double click.
func (r *Recorder) DoubleClick() { r.record("click double") }

// ScrollBy records a scroll.
func (r *Recorder) ScrollBy(delta int) { r.record(fmt.Sprintf("scroll %d", delta)) }

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset clears recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

var _ Injector = (*Recorder)(nil)
