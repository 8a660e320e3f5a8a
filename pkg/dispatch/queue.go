// Package dispatch applies pointer actions from the gaze pipeline and the
// voice channel to a single pointer injector.
package dispatch

import (
	"log/slog"
	"sync/atomic"

	"github.com/teslashibe/go-gaze/pkg/gaze"
)

// DefaultQueueCapacity bounds the voice action queue.
const DefaultQueueCapacity = 64

// Queue is a bounded FIFO of actions safe for one producer and one consumer
// running on different goroutines. Neither side ever blocks.
type Queue struct {
	ch      chan gaze.Action
	dropped atomic.Int64
	logger  *slog.Logger
}

// NewQueue creates a queue holding at most capacity actions.
func NewQueue(capacity int, logger *slog.Logger) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		ch:     make(chan gaze.Action, capacity),
		logger: logger,
	}
}

// Push enqueues an action. When the queue is full the action is dropped
// and Push returns false.
func (q *Queue) Push(a gaze.Action) bool {
	select {
	case q.ch <- a:
		return true
	default:
		// Queue full - consumer stalled, drop newest
		q.dropped.Add(1)
		q.logger.Warn("action queue full, dropping action", "action", a.String())
		return false
	}
}

// TryPop dequeues the oldest action without blocking.
func (q *Queue) TryPop() (gaze.Action, bool) {
	select {
	case a := <-q.ch:
		return a, true
	default:
		return gaze.Action{}, false
	}
}

// Len returns the number of queued actions.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return cap(q.ch)
}

// Dropped returns how many actions were discarded because the queue was full.
func (q *Queue) Dropped() int64 {
	return q.dropped.Load()
}
