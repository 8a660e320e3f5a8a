package speech

import (
	"context"
	"sync"

	"github.com/teslashibe/go-gaze/pkg/audioio"
)

// MockResult is one scripted response from a MockRecognizer.
type MockResult struct {
	Text string
	Err  error
}

// MockRecognizer returns scripted results in order, then ErrNoSpeech.
type MockRecognizer struct {
	mu      sync.Mutex
	results []MockResult
	calls   int
}

// NewMockRecognizer creates a recognizer that replays results.
func NewMockRecognizer(results ...MockResult) *MockRecognizer {
	return &MockRecognizer{results: results}
}

// Transcribe returns the next scripted result.
func (m *MockRecognizer) Transcribe(ctx context.Context, chunk audioio.AudioChunk) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if len(m.results) == 0 {
		return "", ErrNoSpeech
	}
	r := m.results[0]
	m.results = m.results[1:]
	return r.Text, r.Err
}

// Name returns "mock".
func (m *MockRecognizer) Name() string {
	return "mock"
}

// Calls returns how many times Transcribe was called.
func (m *MockRecognizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Remaining returns how many scripted results are left.
func (m *MockRecognizer) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

var _ Recognizer = (*MockRecognizer)(nil)
