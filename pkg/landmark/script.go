package landmark

import (
	"sync"

	"github.com/teslashibe/go-gaze/pkg/gaze"
)

// Result is one scripted oracle answer.
type Result struct {
	Sample gaze.Sample
	OK     bool
	Err    error
}

// Face is a scripted detection of s.
func Face(s gaze.Sample) Result { return Result{Sample: s, OK: true} }

// NoFace is a scripted frame without a face.
func NoFace() Result { return Result{} }

// Script is an Oracle for testing that replays results in order.
// Once exhausted it returns ErrScriptDone.
type Script struct {
	mu      sync.Mutex
	results []Result
	frames  []gaze.Frame
}

// NewScript creates a Script.
func NewScript(results ...Result) *Script {
	return &Script{results: results}
}

// Sample returns the next scripted result.
func (s *Script) Sample(frame gaze.Frame) (gaze.Sample, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frames = append(s.frames, frame)
	if len(s.results) == 0 {
		return gaze.Sample{}, false, ErrScriptDone
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r.Sample, r.OK, r.Err
}

// Push appends results to the script.
func (s *Script) Push(results ...Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, results...)
}

// Frames returns the frames seen so far.
func (s *Script) Frames() []gaze.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]gaze.Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

var _ Oracle = (*Script)(nil)
