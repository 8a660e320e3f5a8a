package voice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-gaze/pkg/audioio"
	"github.com/teslashibe/go-gaze/pkg/dispatch"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/speech"
)

var _ Sink = (*dispatch.Queue)(nil)

func TestMatch(t *testing.T) {
	const speed = 300

	tests := []struct {
		text   string
		want   gaze.Action
		wantOK bool
	}{
		{"please scroll down now", gaze.Scroll(-speed), true},
		{"banana", gaze.Action{}, false},
		{"double click", gaze.Click(gaze.ClickDouble, gaze.SourceVoice), true},
		{"left", gaze.Click(gaze.ClickPrimary, gaze.SourceVoice), true},
		{"select that", gaze.Click(gaze.ClickPrimary, gaze.SourceVoice), true},
		{"right click", gaze.Click(gaze.ClickSecondary, gaze.SourceVoice), true},
		{"Scroll Up", gaze.Scroll(speed), true},
		{"up", gaze.Scroll(speed), true},
		{"go up.", gaze.Scroll(speed), true},
		{"down", gaze.Scroll(-speed), true},
		{"update the page", gaze.Action{}, false},
		{"download", gaze.Action{}, false},
		{"", gaze.Action{}, false},
		// First match wins
		{"left or right", gaze.Click(gaze.ClickPrimary, gaze.SourceVoice), true},
		{"double down", gaze.Scroll(-speed), true},
		{"scroll up and down", gaze.Scroll(speed), true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := Match(tt.text, speed)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.PhraseLimit != 1500*time.Millisecond {
		t.Errorf("expected phrase limit 1.5s, got %v", cfg.PhraseLimit)
	}
	if cfg.ScrollSpeed != 300 {
		t.Errorf("expected scroll speed 300, got %d", cfg.ScrollSpeed)
	}

	bad := []Config{
		cfg.WithPhraseLimit(0),
		cfg.WithScrollSpeed(0),
		{PhraseLimit: time.Second, ScrollSpeed: 1, MinRMS: 2},
		{PhraseLimit: time.Second, ScrollSpeed: 1, RetryDelay: -1},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

type recordingSink struct {
	mu      sync.Mutex
	actions []gaze.Action
}

func (s *recordingSink) Push(a gaze.Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, a)
	return true
}

func (s *recordingSink) Actions() []gaze.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gaze.Action(nil), s.actions...)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PhraseLimit = 20 * time.Millisecond
	cfg.RetryDelay = time.Millisecond
	return cfg
}

// loudSource returns a started 1kHz mock microphone producing a tone.
func loudSource(t *testing.T, ctx context.Context, tone bool) audioio.Source {
	t.Helper()
	acfg := audioio.DefaultConfig()
	acfg.Backend = audioio.BackendMock
	acfg.SampleRate = 1000
	acfg.BufferDuration = 5 * time.Millisecond

	var opts []audioio.MockSourceOption
	if tone {
		opts = append(opts, audioio.WithTone(100, 0.5))
	}
	src := audioio.NewMockSource(acfg, nil, opts...)
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func TestChannel_ListenQueuesCommand(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := speech.NewMockRecognizer(speech.MockResult{Text: "  Please Scroll DOWN now "})
	sink := &recordingSink{}

	ch, err := New(testConfig(), loudSource(t, ctx, true), rec, sink, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res := ch.Listen(ctx)
	if res.Err != nil {
		t.Fatalf("Listen failed: %v", res.Err)
	}
	if res.Text != "please scroll down now" {
		t.Errorf("expected lower-cased transcript, got %q", res.Text)
	}
	if !res.Matched || !res.Queued {
		t.Errorf("expected matched and queued, got %+v", res)
	}

	actions := sink.Actions()
	if len(actions) != 1 || actions[0] != gaze.Scroll(-300) {
		t.Errorf("expected [scroll(-300)], got %v", actions)
	}

	m := ch.Metrics().Current()
	if m.Phrases != 1 || m.Commands != 1 {
		t.Errorf("expected 1 phrase and 1 command, got %+v", m)
	}
}

func TestChannel_ListenNoMatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := speech.NewMockRecognizer(speech.MockResult{Text: "banana"})
	sink := &recordingSink{}

	ch, err := New(testConfig(), loudSource(t, ctx, true), rec, sink, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res := ch.Listen(ctx)
	if res.Err != nil || res.Matched {
		t.Errorf("expected unmatched result without error, got %+v", res)
	}
	if len(sink.Actions()) != 0 {
		t.Errorf("expected no actions, got %v", sink.Actions())
	}
}

func TestChannel_EnergyGate(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := speech.NewMockRecognizer(speech.MockResult{Text: "left"})
	sink := &recordingSink{}

	ch, err := New(testConfig(), loudSource(t, ctx, false), rec, sink, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res := ch.Listen(ctx)
	if !errors.Is(res.Err, ErrSilent) {
		t.Errorf("expected ErrSilent, got %v", res.Err)
	}
	if rec.Calls() != 0 {
		t.Errorf("recognizer should not be called for silence, got %d calls", rec.Calls())
	}
}

func TestChannel_CaptureError(t *testing.T) {
	acfg := audioio.DefaultConfig()
	src := audioio.NewMockSource(acfg, nil) // never started
	defer src.Close()

	ch, err := New(testConfig(), src, speech.NewMockRecognizer(), &recordingSink{}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res := ch.Listen(context.Background())
	var capErr *CaptureError
	if !errors.As(res.Err, &capErr) {
		t.Fatalf("expected CaptureError, got %v", res.Err)
	}
	if !shouldBackOff(res.Err) {
		t.Error("capture errors should back off")
	}
}

func TestChannel_RunSwallowsFailures(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := speech.NewMockRecognizer(
		speech.MockResult{Err: speech.ErrNoSpeech},
		speech.MockResult{Err: &speech.RecognitionError{StatusCode: 500, Message: "backend error", Provider: "google"}},
		speech.MockResult{Err: &speech.RecognitionError{StatusCode: 429, Message: "quota", Provider: "google"}},
		speech.MockResult{Text: "banana"},
		speech.MockResult{Text: "double"},
	)
	sink := &recordingSink{}

	ch, err := New(testConfig(), loudSource(t, ctx, true), rec, sink, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var (
		mu      sync.Mutex
		results []Result
	)
	ch.OnResult = func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
		if r.Matched {
			cancel()
		}
	}

	err = ch.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 5 {
		t.Fatalf("expected 5 iterations, got %d", len(results))
	}
	for i := 0; i < 3; i++ {
		if results[i].Err == nil {
			t.Errorf("iteration %d: expected an error result", i)
		}
	}

	actions := sink.Actions()
	if len(actions) != 1 || actions[0] != gaze.Click(gaze.ClickDouble, gaze.SourceVoice) {
		t.Errorf("expected [click(double,voice)], got %v", actions)
	}
	if m := ch.Metrics().Current(); m.Failures != 3 {
		t.Errorf("expected 3 failures, got %d", m.Failures)
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(DefaultConfig(), nil, speech.NewMockRecognizer(), &recordingSink{}, nil); err == nil {
		t.Error("expected error without source")
	}
}

func TestMetrics_FormatLatency(t *testing.T) {
	m := Metrics{CaptureLatency: 1500 * time.Millisecond}
	if got := m.FormatLatency(); got != "1.5s capture | ---ms recognize" {
		t.Errorf("unexpected format: %q", got)
	}
}
