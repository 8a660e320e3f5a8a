package dispatch

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/pointer"
)

// Stats counts applied actions by type.
type Stats struct {
	Moves   int64 `json:"moves"`
	Clicks  int64 `json:"clicks"`
	Scrolls int64 `json:"scrolls"`
	Dropped int64 `json:"dropped"`
}

// Dispatcher is the single consumer of pointer actions. Actions from the
// frame loop are applied as they arrive; voice actions are drained from
// the queue between frames. Each producer's order is preserved.
type Dispatcher struct {
	injector pointer.Injector
	voice    *Queue
	logger   *slog.Logger

	// mu serializes injector calls so one action's effects never interleave
	// with another's.
	mu sync.Mutex

	moves   atomic.Int64
	clicks  atomic.Int64
	scrolls atomic.Int64

	// OnAction is called after each applied action, outside the injector lock.
	OnAction func(a gaze.Action)
}

// New creates a dispatcher forwarding to injector. voice may be nil when
// no voice channel is running.
func New(injector pointer.Injector, voice *Queue, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		injector: injector,
		voice:    voice,
		logger:   logger,
	}
}

// Dispatch applies actions in order.
func (d *Dispatcher) Dispatch(actions ...gaze.Action) {
	for _, a := range actions {
		d.Apply(a)
	}
}

// Drain applies every queued voice action without blocking and returns
// how many were applied.
func (d *Dispatcher) Drain() int {
	if d.voice == nil {
		return 0
	}
	n := 0
	for {
		a, ok := d.voice.TryPop()
		if !ok {
			return n
		}
		d.Apply(a)
		n++
	}
}

// Apply forwards a single action to the injector.
func (d *Dispatcher) Apply(a gaze.Action) {
	d.mu.Lock()
	switch a.Type {
	case gaze.ActionMove:
		d.injector.MoveTo(int(math.Round(a.X)), int(math.Round(a.Y)))
		d.moves.Add(1)
	case gaze.ActionClick:
		switch a.Click.Kind {
		case gaze.ClickSecondary:
			d.injector.ClickSecondary()
		case gaze.ClickDouble:
			d.injector.DoubleClick()
		default:
			d.injector.ClickPrimary()
		}
		d.clicks.Add(1)
	case gaze.ActionScroll:
		d.injector.ScrollBy(a.Delta)
		d.scrolls.Add(1)
	default:
		d.mu.Unlock()
		d.logger.Warn("unknown action type", "type", int(a.Type))
		return
	}
	d.mu.Unlock()

	if a.Type != gaze.ActionMove {
		d.logger.Debug("action applied", "action", a.String())
	}
	if d.OnAction != nil {
		d.OnAction(a)
	}
}

// Stats returns applied action counts.
func (d *Dispatcher) Stats() Stats {
	s := Stats{
		Moves:   d.moves.Load(),
		Clicks:  d.clicks.Load(),
		Scrolls: d.scrolls.Load(),
	}
	if d.voice != nil {
		s.Dropped = d.voice.Dropped()
	}
	return s
}
