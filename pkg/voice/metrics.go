package voice

import (
	"sync"
	"time"
)

// Metrics tracks the latency of one listen iteration and running totals.
type Metrics struct {
	// Timestamps for the current iteration
	CaptureStart   time.Time // Recording began
	CaptureEnd     time.Time // Phrase fully recorded
	TranscriptTime time.Time // Recognizer answered

	// Computed latencies
	CaptureLatency    time.Duration // Time spent recording
	RecognizerLatency time.Duration // Time waiting on the recognizer

	// Totals since the channel started
	Phrases  int // Phrases recorded
	Silent   int // Phrases skipped by the energy gate
	Commands int // Phrases that produced an action
	Failures int // Capture or recognizer failures
}

// MetricsCollector collects voice channel metrics.
// It is goroutine-safe.
type MetricsCollector struct {
	mu      sync.Mutex
	current Metrics
	history []Metrics // Recent recognized phrases for averaging

	onUpdate func(Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		history: make([]Metrics, 0, 100),
	}
}

// OnUpdate sets a callback that fires whenever an iteration completes.
func (m *MetricsCollector) OnUpdate(fn func(Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUpdate = fn
}

// MarkCaptureStart records the start of a new iteration.
func (m *MetricsCollector) MarkCaptureStart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.CaptureStart = time.Now()
	m.current.CaptureEnd = time.Time{}
	m.current.TranscriptTime = time.Time{}
	m.current.CaptureLatency = 0
	m.current.RecognizerLatency = 0
}

// MarkCaptured records that the phrase was fully recorded.
func (m *MetricsCollector) MarkCaptured() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Phrases++
	m.current.CaptureEnd = time.Now()
	if !m.current.CaptureStart.IsZero() {
		m.current.CaptureLatency = m.current.CaptureEnd.Sub(m.current.CaptureStart)
	}
}

// MarkTranscript records that the recognizer answered.
func (m *MetricsCollector) MarkTranscript() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.TranscriptTime = time.Now()
	if !m.current.CaptureEnd.IsZero() {
		m.current.RecognizerLatency = m.current.TranscriptTime.Sub(m.current.CaptureEnd)
	}
	m.history = append(m.history, m.current)
	if len(m.history) > 100 {
		m.history = m.history[1:]
	}
}

// MarkSilent counts a phrase skipped by the energy gate.
func (m *MetricsCollector) MarkSilent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Silent++
	m.notify()
}

// MarkCommand counts a phrase that produced an action.
func (m *MetricsCollector) MarkCommand() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Commands++
	m.notify()
}

// MarkFailure counts a capture or recognizer failure.
func (m *MetricsCollector) MarkFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Failures++
	m.notify()
}

// MarkDone ends an iteration that produced no action.
func (m *MetricsCollector) MarkDone() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify()
}

// Current returns the current metrics snapshot.
func (m *MetricsCollector) Current() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Average returns average latencies over recent recognized phrases.
func (m *MetricsCollector) Average() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.history) == 0 {
		return Metrics{}
	}

	var avg Metrics
	for _, h := range m.history {
		avg.CaptureLatency += h.CaptureLatency
		avg.RecognizerLatency += h.RecognizerLatency
	}

	n := time.Duration(len(m.history))
	avg.CaptureLatency /= n
	avg.RecognizerLatency /= n

	return avg
}

// notify calls the update callback if set.
// Must be called with mutex held.
func (m *MetricsCollector) notify() {
	if m.onUpdate != nil {
		// Copy to avoid races
		metrics := m.current
		go m.onUpdate(metrics)
	}
}

// FormatLatency returns a formatted string of current latencies.
func (m *Metrics) FormatLatency() string {
	return formatDuration(m.CaptureLatency) + " capture | " +
		formatDuration(m.RecognizerLatency) + " recognize"
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "---ms"
	}
	return d.Round(time.Millisecond).String()
}
