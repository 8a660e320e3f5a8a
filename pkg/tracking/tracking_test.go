package tracking

import (
	"math"
	"testing"
	"time"

	"github.com/teslashibe/go-gaze/pkg/gaze"
)

var testBounds = gaze.Bounds{MinX: 0.40, MaxX: 0.60, MinY: 0.30, MaxY: 0.50}

func TestConfigPresets_Valid(t *testing.T) {
	configs := []struct {
		name string
		cfg  Config
	}{
		{"Default", DefaultConfig()},
		{"Slow", SlowConfig()},
		{"Responsive", ResponsiveConfig()},
	}

	for _, tc := range configs {
		if err := tc.cfg.Validate(); err != nil {
			t.Errorf("%s: unexpected validation error: %v", tc.name, err)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Smoothing != 0.18 {
		t.Errorf("Expected Smoothing=0.18, got %v", cfg.Smoothing)
	}
	if cfg.DwellTime != 1300*time.Millisecond {
		t.Errorf("Expected DwellTime=1.3s, got %v", cfg.DwellTime)
	}
	if cfg.BlinkThreshold != 0.015 {
		t.Errorf("Expected BlinkThreshold=0.015, got %v", cfg.BlinkThreshold)
	}
	if cfg.BlinkDebounce != 300*time.Millisecond {
		t.Errorf("Expected BlinkDebounce=300ms, got %v", cfg.BlinkDebounce)
	}
	if cfg.StillRadius != 20 {
		t.Errorf("Expected StillRadius=20, got %v", cfg.StillRadius)
	}
}

func TestConfigValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero smoothing", func(c *Config) { c.Smoothing = 0 }},
		{"smoothing above one", func(c *Config) { c.Smoothing = 1.2 }},
		{"zero dwell", func(c *Config) { c.DwellTime = 0 }},
		{"zero radius", func(c *Config) { c.StillRadius = 0 }},
		{"negative blink", func(c *Config) { c.BlinkThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMapper_Endpoints(t *testing.T) {
	m := NewMapper(testBounds, 1920, 1080)

	tests := []struct {
		name   string
		sample gaze.Sample
		want   gaze.Point
	}{
		{"min", gaze.Sample{IrisX: 0.40, IrisY: 0.30}, gaze.Point{X: 0, Y: 0}},
		{"max", gaze.Sample{IrisX: 0.60, IrisY: 0.50}, gaze.Point{X: 1920, Y: 1080}},
		{"centre", gaze.Sample{IrisX: 0.50, IrisY: 0.40}, gaze.Point{X: 960, Y: 540}},
		{"below range clamps", gaze.Sample{IrisX: 0.10, IrisY: 0.00}, gaze.Point{X: 0, Y: 0}},
		{"above range clamps", gaze.Sample{IrisX: 0.95, IrisY: 0.99}, gaze.Point{X: 1920, Y: 1080}},
		{"mixed", gaze.Sample{IrisX: 0.70, IrisY: 0.20}, gaze.Point{X: 1920, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Map(tt.sample)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Map(%+v) = %+v, want %+v", tt.sample, got, tt.want)
			}
		})
	}
}

func TestMapper_Deterministic(t *testing.T) {
	m := NewMapper(testBounds, 800, 600)
	s := gaze.Sample{IrisX: 0.47, IrisY: 0.33}
	first := m.Map(s)
	for i := 0; i < 10; i++ {
		if got := m.Map(s); got != first {
			t.Fatalf("Map not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestMapper_FlatBoundsNoNaN(t *testing.T) {
	m := NewMapper(gaze.Bounds{MinX: 0.5, MaxX: 0.5, MinY: 0.5, MaxY: 0.5}, 800, 600)
	got := m.Map(gaze.Sample{IrisX: 0.5, IrisY: 0.5})
	if math.IsNaN(got.X) || math.IsNaN(got.Y) {
		t.Errorf("expected finite output, got %+v", got)
	}
}

func TestSmoother_FixedPoint(t *testing.T) {
	for _, x := range []float64{0, 1, 123.456, 1919.999, -5} {
		p := gaze.Point{X: x, Y: x / 2}
		s := NewSmoother(0.18, p)
		for i := 0; i < 50; i++ {
			if got := s.Update(p); got != p {
				t.Fatalf("fixed point drifted: %+v -> %+v", p, got)
			}
		}
	}
}

func TestSmoother_Step(t *testing.T) {
	s := NewSmoother(0.25, gaze.Point{X: 0, Y: 0})

	got := s.Update(gaze.Point{X: 100, Y: 40})
	if got.X != 25 || got.Y != 10 {
		t.Errorf("expected (25,10), got %+v", got)
	}

	got = s.Update(gaze.Point{X: 100, Y: 40})
	if math.Abs(got.X-43.75) > 1e-9 || math.Abs(got.Y-17.5) > 1e-9 {
		t.Errorf("expected (43.75,17.5), got %+v", got)
	}
}

func TestSmoother_AlphaOneTracksExactly(t *testing.T) {
	s := NewSmoother(1, gaze.Point{})
	target := gaze.Point{X: 300, Y: 200}
	if got := s.Update(target); got != target {
		t.Errorf("expected %+v, got %+v", target, got)
	}
}

func TestSmoother_Converges(t *testing.T) {
	s := NewSmoother(0.18, gaze.Point{X: 960, Y: 540})
	target := gaze.Point{X: 100, Y: 900}
	var got gaze.Point
	for i := 0; i < 200; i++ {
		got = s.Update(target)
	}
	if math.Abs(got.X-target.X) > 0.01 || math.Abs(got.Y-target.Y) > 0.01 {
		t.Errorf("expected convergence to %+v, got %+v", target, got)
	}
}

func countSource(events []gaze.ClickEvent, src gaze.Source) int {
	n := 0
	for _, e := range events {
		if e.Source == src {
			n++
		}
	}
	return n
}

func TestClickDetector_DwellThreshold(t *testing.T) {
	cfg := DefaultConfig()
	const eps = 5 * time.Millisecond
	open := 0.05

	tests := []struct {
		name     string
		duration time.Duration
		want     int
	}{
		{"just past dwell", cfg.DwellTime + eps, 1},
		{"just short of dwell", cfg.DwellTime - eps, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewClickDetector(cfg)
			start := time.Unix(1000, 0)
			pos := gaze.Point{X: 500, Y: 500}

			clicks := 0
			for elapsed := time.Duration(0); elapsed < tt.duration; elapsed += 10 * time.Millisecond {
				clicks += countSource(d.Update(pos, open, start.Add(elapsed)), gaze.SourceDwell)
			}
			clicks += countSource(d.Update(pos, open, start.Add(tt.duration)), gaze.SourceDwell)

			if clicks != tt.want {
				t.Errorf("expected %d dwell clicks, got %d", tt.want, clicks)
			}
		})
	}
}

func TestClickDetector_DwellRearms(t *testing.T) {
	cfg := DefaultConfig()
	d := NewClickDetector(cfg)
	start := time.Unix(0, 0)
	pos := gaze.Point{X: 10, Y: 10}

	clicks := 0
	for elapsed := time.Duration(0); elapsed <= 2*cfg.DwellTime+100*time.Millisecond; elapsed += 10 * time.Millisecond {
		clicks += countSource(d.Update(pos, 1, start.Add(elapsed)), gaze.SourceDwell)
	}

	if clicks != 2 {
		t.Errorf("expected dwell to re-arm and fire twice, got %d", clicks)
	}
}

func TestClickDetector_MovementResetsDwell(t *testing.T) {
	cfg := DefaultConfig()
	d := NewClickDetector(cfg)
	start := time.Unix(0, 0)

	d.Update(gaze.Point{X: 100, Y: 100}, 1, start)
	// Move beyond the still radius just before the dwell would fire
	d.Update(gaze.Point{X: 130, Y: 100}, 1, start.Add(cfg.DwellTime-10*time.Millisecond))

	if got := d.StillPosition(); got != (gaze.Point{X: 130, Y: 100}) {
		t.Errorf("expected still anchor to move, got %+v", got)
	}

	events := d.Update(gaze.Point{X: 131, Y: 101}, 1, start.Add(cfg.DwellTime+50*time.Millisecond))
	if countSource(events, gaze.SourceDwell) != 0 {
		t.Error("expected no dwell click after movement reset")
	}
}

func TestClickDetector_SmallJitterStaysStill(t *testing.T) {
	cfg := DefaultConfig()
	d := NewClickDetector(cfg)
	start := time.Unix(0, 0)

	clicks := 0
	for i := 0; i <= 140; i++ {
		// Jitter within a 10px box around the anchor
		pos := gaze.Point{X: 200 + float64(i%5)*2, Y: 200 - float64(i%3)*3}
		clicks += countSource(d.Update(pos, 1, start.Add(time.Duration(i)*10*time.Millisecond)), gaze.SourceDwell)
	}

	if clicks != 1 {
		t.Errorf("expected one dwell click despite jitter, got %d", clicks)
	}
}

func TestClickDetector_BlinkDebounce(t *testing.T) {
	cfg := DefaultConfig()
	d := NewClickDetector(cfg)
	start := time.Unix(0, 0)

	clicks := 0
	// Five consecutive closed-eye frames inside the debounce window
	for i := 0; i < 5; i++ {
		pos := gaze.Point{X: float64(i) * 100, Y: 0} // Keep moving so dwell stays quiet
		clicks += countSource(d.Update(pos, 0.005, start.Add(time.Duration(i)*50*time.Millisecond)), gaze.SourceBlink)
	}

	if clicks != 1 {
		t.Errorf("expected exactly one blink click, got %d", clicks)
	}
}

func TestClickDetector_BlinkRefiresAfterWindow(t *testing.T) {
	cfg := DefaultConfig()
	d := NewClickDetector(cfg)
	start := time.Unix(0, 0)

	first := d.Update(gaze.Point{}, 0.001, start)
	within := d.Update(gaze.Point{X: 100}, 0.001, start.Add(cfg.BlinkDebounce-time.Millisecond))
	after := d.Update(gaze.Point{X: 200}, 0.001, start.Add(cfg.BlinkDebounce))

	if countSource(first, gaze.SourceBlink) != 1 {
		t.Error("expected first blink to fire")
	}
	if countSource(within, gaze.SourceBlink) != 0 {
		t.Error("expected blink suppressed inside debounce window")
	}
	if countSource(after, gaze.SourceBlink) != 1 {
		t.Error("expected blink to fire once window elapsed")
	}
}

func TestClickDetector_OpenEyesNoBlink(t *testing.T) {
	d := NewClickDetector(DefaultConfig())
	events := d.Update(gaze.Point{}, 0.015, time.Unix(0, 0))
	if countSource(events, gaze.SourceBlink) != 0 {
		t.Error("expected no blink at threshold")
	}
}

func TestClickDetector_BlinkAndDwellSameFrame(t *testing.T) {
	cfg := DefaultConfig()
	d := NewClickDetector(cfg)
	start := time.Unix(0, 0)
	pos := gaze.Point{X: 400, Y: 300}

	d.Update(pos, 1, start)
	events := d.Update(pos, 0.001, start.Add(cfg.DwellTime+time.Millisecond))

	if len(events) != 2 {
		t.Fatalf("expected blink and dwell clicks, got %+v", events)
	}
	if events[0].Source != gaze.SourceBlink || events[1].Source != gaze.SourceDwell {
		t.Errorf("expected [blink, dwell], got %+v", events)
	}
	for _, e := range events {
		if e.Kind != gaze.ClickPrimary {
			t.Errorf("expected primary click, got %v", e.Kind)
		}
	}
}

func TestTracker_UpdateEmitsMoveFirst(t *testing.T) {
	tr := New(DefaultConfig(), testBounds, 1920, 1080, nil)

	state := tr.State()
	if state.Smoothed != (gaze.Point{X: 960, Y: 540}) {
		t.Errorf("expected pointer to start at centre, got %+v", state.Smoothed)
	}

	actions := tr.Update(gaze.Sample{IrisX: 0.60, IrisY: 0.50, EyelidGap: 0.03}, time.Unix(0, 0))
	if len(actions) != 1 || actions[0].Type != gaze.ActionMove {
		t.Fatalf("expected single move, got %v", actions)
	}

	// 960 + 0.18 * (1920 - 960)
	if math.Abs(actions[0].X-1132.8) > 1e-9 || math.Abs(actions[0].Y-637.2) > 1e-9 {
		t.Errorf("expected move to (1132.8, 637.2), got %v", actions[0])
	}
}

func TestTracker_BlinkProducesClickAction(t *testing.T) {
	tr := New(DefaultConfig(), testBounds, 1920, 1080, nil)

	actions := tr.Update(gaze.Sample{IrisX: 0.5, IrisY: 0.4, EyelidGap: 0.001}, time.Unix(0, 0))
	if len(actions) != 2 {
		t.Fatalf("expected move and click, got %v", actions)
	}
	if actions[1].Type != gaze.ActionClick || actions[1].Click.Source != gaze.SourceBlink {
		t.Errorf("expected blink click, got %v", actions[1])
	}
}
